package ports

import (
	"context"
	"time"
)

// DomainEvent is a purchase lifecycle notification for downstream consumers.
type DomainEvent struct {
	Event      string    `json:"event"` // purchase.completed, purchase.refunded, ...
	PurchaseID string    `json:"purchase_id,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	ToolID     string    `json:"tool_id,omitempty"`
	PaymentID  string    `json:"payment_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher delivers domain events to an external bus or endpoint.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}
