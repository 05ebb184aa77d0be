package ports

import "context"

// ReceiptTask asks for a purchase receipt email.
type ReceiptTask struct {
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	ToolName    string `json:"tool_name"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	PaymentID   string `json:"payment_id"`
}

// WelcomeTask asks for a newsletter welcome (and lead magnet) email.
type WelcomeTask struct {
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	LeadMagnet string `json:"lead_magnet,omitempty"`
}

// TaskEnqueuer enqueues async tasks (email, outbound events).
type TaskEnqueuer interface {
	EnqueuePurchaseReceipt(ctx context.Context, task ReceiptTask) error
	EnqueueNewsletterWelcome(ctx context.Context, task WelcomeTask) error
	EnqueueEvent(ctx context.Context, event DomainEvent) error
}
