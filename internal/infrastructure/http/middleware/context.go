package middleware

import (
	"context"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// WithClaims injects the verified token claims into the context.
func WithClaims(ctx context.Context, claims *domain.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext returns the claims set by Authenticator, or nil.
func ClaimsFromContext(ctx context.Context) *domain.Claims {
	c, _ := ctx.Value(claimsContextKey).(*domain.Claims)
	return c
}
