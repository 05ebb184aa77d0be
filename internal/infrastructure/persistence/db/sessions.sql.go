package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const createSession = `-- name: CreateSession :exec
INSERT INTO sessions (id, user_id, token, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5)
`

type CreateSessionParams struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	_, err := q.db.Exec(ctx, createSession,
		arg.ID,
		arg.UserID,
		arg.Token,
		arg.ExpiresAt,
		arg.CreatedAt,
	)
	return err
}

const getSessionWithUserByToken = `-- name: GetSessionWithUserByToken :one
SELECT s.id, s.user_id, s.token, s.expires_at, s.created_at, u.email
FROM sessions s
JOIN users u ON u.id = s.user_id
WHERE s.token = $1
`

type GetSessionWithUserByTokenRow struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	Email     string
}

func (q *Queries) GetSessionWithUserByToken(ctx context.Context, token string) (GetSessionWithUserByTokenRow, error) {
	row := q.db.QueryRow(ctx, getSessionWithUserByToken, token)
	var i GetSessionWithUserByTokenRow
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Token,
		&i.ExpiresAt,
		&i.CreatedAt,
		&i.Email,
	)
	return i, err
}

const deleteSessionByID = `-- name: DeleteSessionByID :exec
DELETE FROM sessions WHERE id = $1
`

func (q *Queries) DeleteSessionByID(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteSessionByID, id)
	return err
}

const deleteSessionsByToken = `-- name: DeleteSessionsByToken :execrows
DELETE FROM sessions WHERE token = $1
`

func (q *Queries) DeleteSessionsByToken(ctx context.Context, token string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteSessionsByToken, token)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteExpiredSessions = `-- name: DeleteExpiredSessions :execrows
DELETE FROM sessions WHERE expires_at < $1
`

func (q *Queries) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	result, err := q.db.Exec(ctx, deleteExpiredSessions, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
