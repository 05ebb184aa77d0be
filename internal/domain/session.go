package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionID identifies a server-side session row.
type SessionID struct{ uuid.UUID }

// NewSessionID creates a new SessionID from uuid.
func NewSessionID(id uuid.UUID) SessionID { return SessionID{UUID: id} }

// String returns the canonical string form.
func (s SessionID) String() string { return s.UUID.String() }

// Session binds an opaque bearer token to a user until ExpiresAt.
// One row per login; a user may hold several at once.
type Session struct {
	ID        SessionID
	UserID    UserID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time

	// UserEmail is filled when the session is loaded together with its user.
	UserEmail string
}

// Expired reports whether the session is past its expiry instant.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Identity is what a valid session resolves to.
type Identity struct {
	UserID UserID
	Email  string
}
