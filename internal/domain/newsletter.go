package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriberID is a value object for newsletter subscriber identity.
type SubscriberID struct{ uuid.UUID }

// NewSubscriberID creates a new SubscriberID from uuid.
func NewSubscriberID(id uuid.UUID) SubscriberID { return SubscriberID{UUID: id} }

// String returns the canonical string form.
func (s SubscriberID) String() string { return s.UUID.String() }

// DefaultNewsletterSource is used when a signup does not say where it came from.
const DefaultNewsletterSource = "homepage"

// Subscriber is a newsletter signup, unique by email.
type Subscriber struct {
	ID         SubscriberID
	Email      string
	Name       string
	Source     string
	LeadMagnet string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
