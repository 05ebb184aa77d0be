package purchases

import (
	"context"
	"testing"
	"time"

	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/persistence/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOwned_OnlyCompletedNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	a := &domain.Tool{Slug: "a", Name: "A", PriceCents: 100, Category: domain.CategoryIndividual, IsActive: true}
	b := &domain.Tool{Slug: "b", Name: "B", PriceCents: 200, Category: domain.CategoryIndividual, IsActive: true}
	require.NoError(t, store.Tools().Upsert(ctx, a))
	require.NoError(t, store.Tools().Upsert(ctx, b))
	uid := domain.NewUserID(uuid.New())
	t0 := time.Now()

	for i, p := range []*domain.Purchase{
		{ToolID: a.ID, StripePaymentID: "pi_a", Status: domain.PurchaseCompleted, CreatedAt: t0},
		{ToolID: b.ID, StripePaymentID: "pi_b", Status: domain.PurchaseCompleted, CreatedAt: t0.Add(time.Minute)},
		{ToolID: b.ID, StripePaymentID: "pi_c", Status: domain.PurchaseFailed, CreatedAt: t0.Add(2 * time.Minute)},
	} {
		p.ID = domain.NewPurchaseID(uuid.New())
		p.UserID = uid
		require.NoError(t, store.Purchases().Record(ctx, p), i)
	}

	owned, err := NewListOwned(store.Purchases()).Execute(ctx, uid)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "b", owned[0].Tool.Slug)
	assert.Equal(t, "a", owned[1].Tool.Slug)
}
