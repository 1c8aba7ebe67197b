package middleware

import (
	"errors"
	"net/http"
	"strings"

	"store-rating/backend/app/apperr"
	"store-rating/backend/app/authz"
	jwtutil "store-rating/backend/app/jwt"
)

// ErrorWriter renders an error as the API's JSON error body.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

type Auth struct {
	Signer *jwtutil.Signer
	Guard  authz.Guard
	Error  ErrorWriter
}

func (a *Auth) identity(r *http.Request) (*jwtutil.Identity, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return nil, apperr.Unauthorized("missing bearer token")
	}
	id, err := a.Signer.Parse(strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
	if err != nil {
		if errors.Is(err, jwtutil.ErrExpired) {
			return nil, apperr.Unauthorized("token expired")
		}
		return nil, apperr.Unauthorized("invalid token")
	}
	return id, nil
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified identity in the request context.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := a.identity(r)
		if err != nil {
			a.Error(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// Require is RequireAuth plus a guard check for actions that do not depend
// on the target resource.
func (a *Auth) Require(action authz.Action, next http.Handler) http.Handler {
	return a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := a.Guard.Authorize(IdentityFrom(r.Context()), authz.Request{Action: action}); err != nil {
			a.Error(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
