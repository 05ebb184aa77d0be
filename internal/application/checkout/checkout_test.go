package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	domerrors "github.com/S0l0-dev-000/SEO-Tools/internal/domain/errors"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/persistence/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSessions map[string]*domain.Identity

func (s staticSessions) Validate(ctx context.Context, token string) *domain.Identity {
	return s[token]
}

type fakeProvider struct {
	got   ports.CheckoutRequest
	calls int
	err   error
}

func (p *fakeProvider) CreateCheckoutSession(ctx context.Context, req ports.CheckoutRequest) (*ports.CheckoutSession, error) {
	p.got = req
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &ports.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.example/cs_test_1"}, nil
}

func setup(t *testing.T) (*memory.Store, *domain.Identity, *fakeProvider, *Initiator) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Tools().Upsert(ctx, &domain.Tool{Slug: "seo-audit", Name: "SEO Audit Tool", PriceCents: 2999, Currency: "usd", Category: domain.CategoryIndividual, IsActive: true}))
	require.NoError(t, store.Tools().Upsert(ctx, &domain.Tool{Slug: "retired", Name: "Retired", PriceCents: 100, Category: domain.CategoryIndividual}))
	id := &domain.Identity{UserID: domain.NewUserID(uuid.New()), Email: "a@example.com"}
	provider := &fakeProvider{}
	uc := NewInitiator(staticSessions{"good": id}, store.Tools(), store.Purchases(), provider, "http://localhost:3000/")
	return store, id, provider, uc
}

func TestInitiator_CreatesSession(t *testing.T) {
	store, id, provider, uc := setup(t)

	res, err := uc.Execute(context.Background(), StartInput{Token: "good", ToolSlug: "seo-audit"})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", res.SessionID)
	assert.Equal(t, "https://checkout.example/cs_test_1", res.URL)

	assert.EqualValues(t, 2999, provider.got.UnitAmount)
	assert.Equal(t, id.UserID.String(), provider.got.UserID)
	assert.Equal(t, "http://localhost:3000/dashboard?success=true", provider.got.SuccessURL)
	assert.Equal(t, "http://localhost:3000/pricing?canceled=true", provider.got.CancelURL)

	owned, err := store.Purchases().ListCompleted(context.Background(), id.UserID)
	require.NoError(t, err)
	assert.Empty(t, owned, "checkout must not write purchases")
}

func TestInitiator_Errors(t *testing.T) {
	ctx := context.Background()
	store, id, provider, uc := setup(t)

	_, err := uc.Execute(ctx, StartInput{Token: "bad", ToolSlug: "seo-audit"})
	assert.ErrorIs(t, err, domerrors.ErrUnauthenticated)

	_, err = uc.Execute(ctx, StartInput{Token: "good", ToolSlug: "missing"})
	assert.ErrorIs(t, err, domerrors.ErrToolNotFound)

	_, err = uc.Execute(ctx, StartInput{Token: "good", ToolSlug: "retired"})
	assert.ErrorIs(t, err, domerrors.ErrToolNotFound)

	tool, err := store.Tools().GetBySlug(ctx, "seo-audit")
	require.NoError(t, err)
	require.NoError(t, store.Purchases().Record(ctx, &domain.Purchase{
		ID: domain.NewPurchaseID(uuid.New()), UserID: id.UserID, ToolID: tool.ID, StripePaymentID: "pi_1", Status: domain.PurchaseCompleted,
	}))
	_, err = uc.Execute(ctx, StartInput{Token: "good", ToolSlug: "seo-audit"})
	assert.ErrorIs(t, err, domerrors.ErrAlreadyPurchased)
	assert.Empty(t, provider.got.ToolID, "provider not called for rejected checkouts")
}

func TestInitiator_RefundedBuyerCanBuyAgain(t *testing.T) {
	ctx := context.Background()
	store, id, provider, uc := setup(t)
	tool, err := store.Tools().GetBySlug(ctx, "seo-audit")
	require.NoError(t, err)
	require.NoError(t, store.Purchases().Record(ctx, &domain.Purchase{
		ID: domain.NewPurchaseID(uuid.New()), UserID: id.UserID, ToolID: tool.ID, StripePaymentID: "pi_1", Status: domain.PurchaseRefunded,
	}))

	res, err := uc.Execute(ctx, StartInput{Token: "good", ToolSlug: "seo-audit"})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", res.SessionID)
	assert.Equal(t, 1, provider.calls)
}

func TestInitiator_ProviderFailure(t *testing.T) {
	_, _, provider, uc := setup(t)
	provider.err = errors.New("stripe down")
	_, err := uc.Execute(context.Background(), StartInput{Token: "good", ToolSlug: "seo-audit"})
	assert.EqualError(t, err, "stripe down")
}
