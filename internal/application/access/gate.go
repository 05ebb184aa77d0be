// Package access is the single place tool entitlement is decided.
package access

import (
	"context"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	"github.com/rs/zerolog"
)

// Gate answers whether a user owns a tool. Every call is a fresh ledger
// lookup with no caching, so a webhook that lands between two calls is
// visible on the second.
type Gate struct {
	purchases ports.PurchaseRepository
	log       zerolog.Logger
}

func NewGate(purchases ports.PurchaseRepository, log zerolog.Logger) *Gate {
	return &Gate{purchases: purchases, log: log}
}

// HasAccess is true iff an entitling purchase links userID to the tool with
// slug. Lookup failures deny access.
func (g *Gate) HasAccess(ctx context.Context, userID domain.UserID, slug string) bool {
	if userID.IsZero() || slug == "" {
		return false
	}
	ok, err := g.purchases.HasEntitlementBySlug(ctx, userID, slug)
	if err != nil {
		g.log.Error().Err(err).Str("user_id", userID.String()).Str("slug", slug).Msg("access check failed")
		return false
	}
	return ok
}
