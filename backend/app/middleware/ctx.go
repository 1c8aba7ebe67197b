package middleware

import (
	"context"

	jwtutil "store-rating/backend/app/jwt"
)

type ctxKey int

const identityKey ctxKey = 1

func WithIdentity(ctx context.Context, id *jwtutil.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity stored by RequireAuth, or nil.
func IdentityFrom(ctx context.Context) *jwtutil.Identity {
	if id, ok := ctx.Value(identityKey).(*jwtutil.Identity); ok {
		return id
	}
	return nil
}
