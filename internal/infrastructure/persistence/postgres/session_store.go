package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/persistence/db"
	"github.com/jackc/pgx/v5"
)

type SessionStore struct {
	q *db.Queries
}

func NewSessionStore(q *db.Queries) *SessionStore {
	return &SessionStore{q: q}
}

func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	return s.q.CreateSession(ctx, db.CreateSessionParams{
		ID:        session.ID.UUID,
		UserID:    session.UserID.UUID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	})
}

func (s *SessionStore) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	row, err := s.q.GetSessionWithUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.Session{
		ID:        domain.NewSessionID(row.ID),
		UserID:    domain.NewUserID(row.UserID),
		Token:     row.Token,
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
		UserEmail: row.Email,
	}, nil
}

func (s *SessionStore) DeleteByID(ctx context.Context, id domain.SessionID) error {
	return s.q.DeleteSessionByID(ctx, id.UUID)
}

func (s *SessionStore) DeleteByToken(ctx context.Context, token string) (int64, error) {
	return s.q.DeleteSessionsByToken(ctx, token)
}

func (s *SessionStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return s.q.DeleteExpiredSessions(ctx, before)
}

// Ensure SessionStore implements ports.SessionStore.
var _ ports.SessionStore = (*SessionStore)(nil)
