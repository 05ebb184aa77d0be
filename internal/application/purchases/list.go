// Package purchases lists what a customer owns.
package purchases

import (
	"context"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
)

type ListOwned struct {
	purchases ports.PurchaseRepository
}

func NewListOwned(purchases ports.PurchaseRepository) *ListOwned {
	return &ListOwned{purchases: purchases}
}

// Execute returns completed purchases for userID, newest first.
func (uc *ListOwned) Execute(ctx context.Context, userID domain.UserID) ([]domain.OwnedTool, error) {
	return uc.purchases.ListCompleted(ctx, userID)
}
