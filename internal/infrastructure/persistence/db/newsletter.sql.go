package db

import (
	"context"
	"time"
)

const getSubscriberByEmail = `-- name: GetSubscriberByEmail :one
SELECT id, email, name, source, lead_magnet, is_active, created_at, updated_at
FROM newsletter_subscribers
WHERE email = $1
`

func (q *Queries) GetSubscriberByEmail(ctx context.Context, email string) (NewsletterSubscriber, error) {
	row := q.db.QueryRow(ctx, getSubscriberByEmail, email)
	var i NewsletterSubscriber
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Name,
		&i.Source,
		&i.LeadMagnet,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createSubscriber = `-- name: CreateSubscriber :exec
INSERT INTO newsletter_subscribers (id, email, name, source, lead_magnet, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

func (q *Queries) CreateSubscriber(ctx context.Context, arg NewsletterSubscriber) error {
	_, err := q.db.Exec(ctx, createSubscriber,
		arg.ID,
		arg.Email,
		arg.Name,
		arg.Source,
		arg.LeadMagnet,
		arg.IsActive,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const updateSubscriber = `-- name: UpdateSubscriber :exec
UPDATE newsletter_subscribers
SET name = $2, source = $3, lead_magnet = $4, is_active = $5, updated_at = $6
WHERE email = $1
`

type UpdateSubscriberParams struct {
	Email      string
	Name       string
	Source     string
	LeadMagnet string
	IsActive   bool
	UpdatedAt  time.Time
}

func (q *Queries) UpdateSubscriber(ctx context.Context, arg UpdateSubscriberParams) error {
	_, err := q.db.Exec(ctx, updateSubscriber,
		arg.Email,
		arg.Name,
		arg.Source,
		arg.LeadMagnet,
		arg.IsActive,
		arg.UpdatedAt,
	)
	return err
}
