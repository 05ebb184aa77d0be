package ports

import "context"

// CheckoutRequest describes a one-time hosted checkout for a single tool.
type CheckoutRequest struct {
	ToolID     string
	ToolName   string
	UnitAmount int64 // minor units
	Currency   string
	UserID     string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the provider-hosted payment page.
type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentProvider creates hosted checkout sessions (Stripe).
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// PaymentEvent is a verified provider event reduced to the fields the
// reconciler needs.
type PaymentEvent struct {
	ID   string
	Type string
	// ObjectID is the id of the event's data object (cs_..., pi_..., ch_...).
	ObjectID string
	// PaymentID correlates follow-up events (the payment intent id).
	PaymentID   string
	AmountTotal int64
	Currency    string
	Metadata    map[string]string
}

// PaymentEventVerifier authenticates a raw webhook body and decodes it.
// Authentication failures wrap errors.ErrInvalidSignature; an authentic
// event whose object cannot be decoded wraps errors.ErrMalformedEvent.
type PaymentEventVerifier interface {
	ConstructEvent(payload []byte, signatureHeader string) (*PaymentEvent, error)
}
