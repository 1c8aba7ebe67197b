package jwtutil

import (
	"errors"
	"time"

	"store-rating/backend/app/models"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("token invalid")
)

// Identity is what a token asserts about its bearer.
type Identity struct {
	ID    uint
	Email string
	Role  models.Role
}

type Claims struct {
	UserID uint   `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HS256 tokens. Now defaults to time.Now.
type Signer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

func (s *Signer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Signer) Sign(id Identity) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: id.ID, Email: id.Email, Role: string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// Parse verifies tokenStr and returns the identity it carries. The error is
// ErrExpired past expiry and ErrInvalid for anything else.
func (s *Signer) Parse(tokenStr string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(t *jwt.Token) (interface{}, error) { return s.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalid
	}
	role := models.Role(claims.Role)
	if claims.UserID == 0 || !role.Valid() {
		return nil, ErrInvalid
	}
	return &Identity{ID: claims.UserID, Email: claims.Email, Role: role}, nil
}
