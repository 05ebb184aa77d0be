// Package payment adapts Stripe to the checkout and webhook ports.
package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	domerrors "github.com/S0l0-dev-000/SEO-Tools/internal/domain/errors"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Metadata keys stamped on the checkout session and read back by the reconciler.
const (
	MetadataToolID = "toolId"
	MetadataUserID = "userId"
)

// StripeCheckout creates hosted Checkout Sessions in payment mode.
type StripeCheckout struct {
	sc *client.API
}

// NewStripeCheckout builds a client for secretKey. backends may be nil;
// tests pass one pointing at a local server.
func NewStripeCheckout(secretKey string, backends *stripe.Backends) *StripeCheckout {
	sc := &client.API{}
	sc.Init(secretKey, backends)
	return &StripeCheckout{sc: sc}
}

func (c *StripeCheckout) CreateCheckoutSession(ctx context.Context, req ports.CheckoutRequest) (*ports.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(req.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(req.ToolName),
					Description: stripe.String(fmt.Sprintf("Access to %s - Professional SEO Tool", req.ToolName)),
				},
				UnitAmount: stripe.Int64(req.UnitAmount),
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.UserID),
	}
	params.Context = ctx
	params.AddMetadata(MetadataToolID, req.ToolID)
	params.AddMetadata(MetadataUserID, req.UserID)

	s, err := c.sc.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domerrors.ErrPaymentProvider, err)
	}
	return &ports.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// StripeWebhookVerifier checks the Stripe-Signature header against the
// endpoint secret and reduces the event to ports.PaymentEvent.
type StripeWebhookVerifier struct {
	secret string
}

func NewStripeWebhookVerifier(secret string) *StripeWebhookVerifier {
	return &StripeWebhookVerifier{secret: secret}
}

func (v *StripeWebhookVerifier) ConstructEvent(payload []byte, signatureHeader string) (*ports.PaymentEvent, error) {
	if signatureHeader == "" {
		return nil, fmt.Errorf("%w: missing signature header", domerrors.ErrInvalidSignature)
	}
	ev, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.secret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domerrors.ErrInvalidSignature, err)
	}
	return decodeEvent(ev)
}

func decodeEvent(ev stripe.Event) (*ports.PaymentEvent, error) {
	out := &ports.PaymentEvent{ID: ev.ID, Type: string(ev.Type)}
	if ev.Data == nil {
		return out, nil
	}
	object, _ := ev.Data.Object["object"].(string)
	switch object {
	case "checkout.session":
		var s stripe.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("%w: checkout session: %v", domerrors.ErrMalformedEvent, err)
		}
		out.ObjectID = s.ID
		out.AmountTotal = s.AmountTotal
		out.Currency = string(s.Currency)
		out.Metadata = s.Metadata
		if s.PaymentIntent != nil {
			out.PaymentID = s.PaymentIntent.ID
		}
	case "payment_intent":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("%w: payment intent: %v", domerrors.ErrMalformedEvent, err)
		}
		out.ObjectID = pi.ID
		out.PaymentID = pi.ID
		out.AmountTotal = pi.Amount
		out.Currency = string(pi.Currency)
		out.Metadata = pi.Metadata
	case "charge":
		var ch stripe.Charge
		if err := json.Unmarshal(ev.Data.Raw, &ch); err != nil {
			return nil, fmt.Errorf("%w: charge: %v", domerrors.ErrMalformedEvent, err)
		}
		out.ObjectID = ch.ID
		out.AmountTotal = ch.Amount
		out.Currency = string(ch.Currency)
		out.Metadata = ch.Metadata
		if ch.PaymentIntent != nil {
			out.PaymentID = ch.PaymentIntent.ID
		}
	default:
		out.ObjectID, _ = ev.Data.Object["id"].(string)
	}
	return out, nil
}

var (
	_ ports.PaymentProvider      = (*StripeCheckout)(nil)
	_ ports.PaymentEventVerifier = (*StripeWebhookVerifier)(nil)
)
