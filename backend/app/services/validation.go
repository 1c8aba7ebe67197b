package services

import (
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"store-rating/backend/app/apperr"
)

const (
	NameMinLen      = 20
	NameMaxLen      = 60
	PasswordMinLen  = 8
	PasswordMaxLen  = 16
	AddressMaxLen   = 400
	StoreNameMaxLen = 100
	passwordSymbols = "!@#$%^&*"
)

type fieldErrors []apperr.FieldError

func (f *fieldErrors) add(field, msg string) {
	*f = append(*f, apperr.FieldError{Field: field, Message: msg})
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperr.Validation("validation failed", f...)
}

func checkName(errs *fieldErrors, name string) {
	if n := utf8.RuneCountInString(name); n < NameMinLen || n > NameMaxLen {
		errs.add("name", "Name must be between 20 and 60 characters")
	}
}

func checkEmail(errs *fieldErrors, email string) {
	if !validEmail(email) {
		errs.add("email", "Please provide a valid email")
	}
}

func checkPassword(errs *fieldErrors, pw string) {
	if n := utf8.RuneCountInString(pw); n < PasswordMinLen || n > PasswordMaxLen {
		errs.add("password", "Password must be between 8 and 16 characters")
		return
	}
	var upper, symbol bool
	for _, r := range pw {
		if unicode.IsUpper(r) {
			upper = true
		}
		if strings.ContainsRune(passwordSymbols, r) {
			symbol = true
		}
	}
	if !upper || !symbol {
		errs.add("password", "Password must contain at least one uppercase letter and one special character")
	}
}

func checkAddress(errs *fieldErrors, addr string, required bool) {
	switch {
	case required && strings.TrimSpace(addr) == "":
		errs.add("address", "Address is required")
	case utf8.RuneCountInString(addr) > AddressMaxLen:
		errs.add("address", "Address must be at most 400 characters")
	}
}

// validEmail accepts a bare address only; display names and angle
// brackets are rejected.
func validEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && strings.Contains(s[at+1:], ".")
}

// ValidatePassword applies the password policy on its own, for password
// changes.
func ValidatePassword(pw string) error {
	var errs fieldErrors
	checkPassword(&errs, pw)
	return errs.err()
}

// ValidateRegistration checks the fields of a new account.
func ValidateRegistration(in RegisterInput) error {
	var errs fieldErrors
	checkName(&errs, in.Name)
	checkEmail(&errs, in.Email)
	checkPassword(&errs, in.Password)
	checkAddress(&errs, in.Address, false)
	return errs.err()
}

// ValidateStore checks the fields of a new store.
func ValidateStore(in CreateStoreInput) error {
	var errs fieldErrors
	switch name := strings.TrimSpace(in.Name); {
	case name == "":
		errs.add("name", "Store name is required")
	case utf8.RuneCountInString(name) > StoreNameMaxLen:
		errs.add("name", "Store name must be at most 100 characters")
	}
	checkEmail(&errs, in.Email)
	checkAddress(&errs, in.Address, true)
	return errs.err()
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
