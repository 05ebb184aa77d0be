package domain

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseID is a value object for purchase identity.
type PurchaseID struct{ uuid.UUID }

// NewPurchaseID creates a new PurchaseID from uuid.
func NewPurchaseID(id uuid.UUID) PurchaseID { return PurchaseID{UUID: id} }

// String returns the canonical string form.
func (p PurchaseID) String() string { return p.UUID.String() }

// PurchaseStatus is driven by payment provider events.
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseFailed    PurchaseStatus = "failed"
	PurchaseRefunded  PurchaseStatus = "refunded"
)

// Purchase records one payment for one tool. StripePaymentID is the only
// correlator available on follow-up provider events, so status updates are
// keyed by it rather than by ID.
type Purchase struct {
	ID              PurchaseID
	UserID          UserID
	ToolID          ToolID
	StripePaymentID string
	AmountCents     int64
	Currency        string
	Status          PurchaseStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Amount returns the charged amount in major units.
func (p *Purchase) Amount() float64 {
	return float64(p.AmountCents) / 100
}

// ApplyStatus overwrites the status unconditionally. Re-applying the same
// status changes nothing but UpdatedAt.
func (p *Purchase) ApplyStatus(status PurchaseStatus, now time.Time) {
	p.Status = status
	p.UpdatedAt = now
}

// Entitles reports whether the purchase grants tool access. Access is
// permanent once paid: a refunded purchase still entitles.
func (p *Purchase) Entitles() bool {
	return p.Status == PurchaseCompleted || p.Status == PurchaseRefunded
}

// OwnedTool pairs a completed purchase with the tool it bought.
type OwnedTool struct {
	Purchase *Purchase
	Tool     *Tool
}
