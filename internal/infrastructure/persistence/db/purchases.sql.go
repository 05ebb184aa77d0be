package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const upsertPurchase = `-- name: UpsertPurchase :one
INSERT INTO purchases (id, user_id, tool_id, stripe_payment_id, amount_cents, currency, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (stripe_payment_id) DO UPDATE SET
	status = EXCLUDED.status,
	updated_at = EXCLUDED.updated_at
RETURNING id, user_id, tool_id, stripe_payment_id, amount_cents, currency, status, created_at, updated_at
`

type UpsertPurchaseParams struct {
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

func (q *Queries) UpsertPurchase(ctx context.Context, arg UpsertPurchaseParams) (Purchase, error) {
	row := q.db.QueryRow(ctx, upsertPurchase,
		arg.ID,
		arg.UserID,
		arg.ToolID,
		arg.StripePaymentID,
		arg.AmountCents,
		arg.Currency,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i Purchase
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ToolID,
		&i.StripePaymentID,
		&i.AmountCents,
		&i.Currency,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updatePurchaseStatusByPaymentID = `-- name: UpdatePurchaseStatusByPaymentID :execrows
UPDATE purchases SET status = $2, updated_at = NOW()
WHERE stripe_payment_id = $1
`

func (q *Queries) UpdatePurchaseStatusByPaymentID(ctx context.Context, stripePaymentID string, status string) (int64, error) {
	result, err := q.db.Exec(ctx, updatePurchaseStatusByPaymentID, stripePaymentID, status)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getPurchaseByPaymentID = `-- name: GetPurchaseByPaymentID :one
SELECT id, user_id, tool_id, stripe_payment_id, amount_cents, currency, status, created_at, updated_at
FROM purchases
WHERE stripe_payment_id = $1
`

func (q *Queries) GetPurchaseByPaymentID(ctx context.Context, stripePaymentID string) (Purchase, error) {
	row := q.db.QueryRow(ctx, getPurchaseByPaymentID, stripePaymentID)
	var i Purchase
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ToolID,
		&i.StripePaymentID,
		&i.AmountCents,
		&i.Currency,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const hasCompletedPurchase = `-- name: HasCompletedPurchase :one
SELECT EXISTS (
	SELECT 1 FROM purchases
	WHERE user_id = $1 AND tool_id = $2 AND status = 'completed'
)
`

func (q *Queries) HasCompletedPurchase(ctx context.Context, userID, toolID uuid.UUID) (bool, error) {
	row := q.db.QueryRow(ctx, hasCompletedPurchase, userID, toolID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const hasEntitlingPurchaseBySlug = `-- name: HasEntitlingPurchaseBySlug :one
SELECT EXISTS (
	SELECT 1 FROM purchases p
	JOIN tools t ON t.id = p.tool_id
	WHERE p.user_id = $1 AND t.slug = $2 AND p.status IN ('completed', 'refunded')
)
`

func (q *Queries) HasEntitlingPurchaseBySlug(ctx context.Context, userID uuid.UUID, slug string) (bool, error) {
	row := q.db.QueryRow(ctx, hasEntitlingPurchaseBySlug, userID, slug)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listCompletedPurchasesByUser = `-- name: ListCompletedPurchasesByUser :many
SELECT p.id, p.user_id, p.tool_id, p.stripe_payment_id, p.amount_cents, p.currency, p.status, p.created_at, p.updated_at,
	t.slug, t.name, t.description, t.category
FROM purchases p
JOIN tools t ON t.id = p.tool_id
WHERE p.user_id = $1 AND p.status = 'completed'
ORDER BY p.created_at DESC
`

type ListCompletedPurchasesByUserRow struct {
	Purchase
	ToolSlug        string
	ToolName        string
	ToolDescription string
	ToolCategory    string
}

func (q *Queries) ListCompletedPurchasesByUser(ctx context.Context, userID uuid.UUID) ([]ListCompletedPurchasesByUserRow, error) {
	rows, err := q.db.Query(ctx, listCompletedPurchasesByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListCompletedPurchasesByUserRow
	for rows.Next() {
		var i ListCompletedPurchasesByUserRow
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.ToolID,
			&i.StripePaymentID,
			&i.AmountCents,
			&i.Currency,
			&i.Status,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.ToolSlug,
			&i.ToolName,
			&i.ToolDescription,
			&i.ToolCategory,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
