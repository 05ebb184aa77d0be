// Package checkout starts hosted payment sessions for catalog tools.
package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	domerrors "github.com/S0l0-dev-000/SEO-Tools/internal/domain/errors"
)

// SessionValidator resolves a session token; satisfied by auth.SessionManager.
type SessionValidator interface {
	Validate(ctx context.Context, token string) *domain.Identity
}

type StartInput struct {
	Token    string
	ToolSlug string
}

type StartResult struct {
	SessionID string
	URL       string
}

// Initiator writes nothing: the purchase row appears only when the payment
// provider confirms the checkout through a webhook.
type Initiator struct {
	sessions  SessionValidator
	tools     ports.ToolRepository
	purchases ports.PurchaseRepository
	provider  ports.PaymentProvider
	baseURL   string
}

func NewInitiator(sessions SessionValidator, tools ports.ToolRepository, purchases ports.PurchaseRepository, provider ports.PaymentProvider, baseURL string) *Initiator {
	return &Initiator{
		sessions:  sessions,
		tools:     tools,
		purchases: purchases,
		provider:  provider,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

func (uc *Initiator) Execute(ctx context.Context, input StartInput) (*StartResult, error) {
	identity := uc.sessions.Validate(ctx, input.Token)
	if identity == nil {
		return nil, domerrors.ErrUnauthenticated
	}
	tool, err := uc.tools.GetBySlug(ctx, input.ToolSlug)
	if err != nil {
		return nil, fmt.Errorf("load tool %q: %w", input.ToolSlug, err)
	}
	if tool == nil || !tool.IsActive {
		return nil, domerrors.ErrToolNotFound
	}
	owned, err := uc.purchases.HasCompletedPurchase(ctx, identity.UserID, tool.ID)
	if err != nil {
		return nil, fmt.Errorf("check ownership: %w", err)
	}
	if owned {
		return nil, domerrors.ErrAlreadyPurchased
	}
	currency := tool.Currency
	if currency == "" {
		currency = "usd"
	}
	session, err := uc.provider.CreateCheckoutSession(ctx, ports.CheckoutRequest{
		ToolID:     tool.ID.String(),
		ToolName:   tool.Name,
		UnitAmount: tool.PriceCents,
		Currency:   currency,
		UserID:     identity.UserID.String(),
		SuccessURL: uc.baseURL + "/dashboard?success=true",
		CancelURL:  uc.baseURL + "/pricing?canceled=true",
	})
	if err != nil {
		return nil, err
	}
	return &StartResult{SessionID: session.ID, URL: session.URL}, nil
}
