package db

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Tool struct {
	ID          uuid.UUID
	Slug        string
	Name        string
	Description string
	PriceCents  int64
	Currency    string
	Features    []string
	Category    string
	IsActive    bool
	CreatedAt   time.Time
}

type Purchase struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	ToolID          uuid.UUID
	StripePaymentID string
	AmountCents     int64
	Currency        string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type NewsletterSubscriber struct {
	ID         uuid.UUID
	Email      string
	Name       string
	Source     string
	LeadMagnet string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
