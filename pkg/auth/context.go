package auth

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoOwner is returned when an owner-scoped operation runs without an
// identity in the context.
var ErrNoOwner = errors.New("owner id not found in context")

// WithOwnerID returns a context whose claims name ownerID as the subject.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return WithClaims(ctx, &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: ownerID}})
}

// OwnerIDFromContext returns the caller's user id, or "" when the context
// carries no identity. Store queries treat "" as unscoped.
func OwnerIDFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok {
		return ""
	}
	return claims.Subject
}

// RequireOwnerID is OwnerIDFromContext for operations that must be scoped.
func RequireOwnerID(ctx context.Context) (string, error) {
	ownerID := OwnerIDFromContext(ctx)
	if ownerID == "" {
		return "", ErrNoOwner
	}
	return ownerID, nil
}
