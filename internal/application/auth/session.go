package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionTTL is the fixed validity window of a login.
const SessionTTL = 7 * 24 * time.Hour

// SessionManager issues, validates and revokes session tokens. The stored
// row is authoritative: a token is valid only while its row exists and has
// not passed ExpiresAt. Expiry is never extended on use.
type SessionManager struct {
	sessions ports.SessionStore
	signer   ports.SessionTokenIssuer
	ttl      time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

type SessionOption func(*SessionManager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) { m.now = now }
}

func NewSessionManager(sessions ports.SessionStore, signer ports.SessionTokenIssuer, log zerolog.Logger, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		sessions: sessions,
		signer:   signer,
		ttl:      SessionTTL,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL is the lifetime given to new sessions (used for cookie Max-Age).
func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Create persists a new session for userID and returns its token.
func (m *SessionManager) Create(ctx context.Context, userID domain.UserID) (string, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	token, err := m.signer.IssueSessionToken(userID.String(), now, expiresAt)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	session := &domain.Session{
		ID:        domain.NewSessionID(uuid.New()),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := m.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Validate resolves token to an identity, or nil when there is no usable
// session. A row found past its expiry is deleted on the way out.
func (m *SessionManager) Validate(ctx context.Context, token string) *domain.Identity {
	if token == "" {
		return nil
	}
	if _, err := m.signer.ParseSessionToken(token); err != nil {
		return nil
	}
	session, err := m.sessions.GetByToken(ctx, token)
	if err != nil {
		m.log.Error().Err(err).Msg("session lookup failed")
		return nil
	}
	if session == nil {
		return nil
	}
	if session.Expired(m.now()) {
		if err := m.sessions.DeleteByID(ctx, session.ID); err != nil {
			m.log.Warn().Err(err).Str("session_id", session.ID.String()).Msg("delete expired session")
		}
		return nil
	}
	return &domain.Identity{UserID: session.UserID, Email: session.UserEmail}
}

// Delete revokes every session row carrying token. Unknown tokens are fine.
func (m *SessionManager) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if _, err := m.sessions.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
