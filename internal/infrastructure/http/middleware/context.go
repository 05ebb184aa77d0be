package middleware

import (
	"context"

	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
)

type contextKey string

const identityContextKey contextKey = "identity"

// WithIdentity injects the session identity into the context.
func WithIdentity(ctx context.Context, id *domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext returns the session identity, or nil when the request
// is anonymous.
func IdentityFromContext(ctx context.Context) *domain.Identity {
	v := ctx.Value(identityContextKey)
	if v == nil {
		return nil
	}
	id, _ := v.(*domain.Identity)
	return id
}
