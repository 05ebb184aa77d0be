package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const toolColumns = `id, slug, name, description, price_cents, currency, features, category, is_active, created_at`

const listActiveTools = `-- name: ListActiveTools :many
SELECT ` + toolColumns + ` FROM tools
WHERE is_active AND ($1 = '' OR category = $1)
ORDER BY category ASC, price_cents ASC, slug ASC
`

func (q *Queries) ListActiveTools(ctx context.Context, category string) ([]Tool, error) {
	rows, err := q.db.Query(ctx, listActiveTools, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Tool
	for rows.Next() {
		i, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getToolBySlug = `-- name: GetToolBySlug :one
SELECT ` + toolColumns + ` FROM tools
WHERE slug = $1
`

func (q *Queries) GetToolBySlug(ctx context.Context, slug string) (Tool, error) {
	return scanTool(q.db.QueryRow(ctx, getToolBySlug, slug))
}

const getToolByID = `-- name: GetToolByID :one
SELECT ` + toolColumns + ` FROM tools
WHERE id = $1
`

func (q *Queries) GetToolByID(ctx context.Context, id uuid.UUID) (Tool, error) {
	return scanTool(q.db.QueryRow(ctx, getToolByID, id))
}

const upsertTool = `-- name: UpsertTool :one
INSERT INTO tools (id, slug, name, description, price_cents, currency, features, category, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (slug) DO UPDATE SET
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	price_cents = EXCLUDED.price_cents,
	currency = EXCLUDED.currency,
	features = EXCLUDED.features,
	category = EXCLUDED.category,
	is_active = EXCLUDED.is_active
RETURNING id
`

func (q *Queries) UpsertTool(ctx context.Context, arg Tool) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, upsertTool,
		arg.ID,
		arg.Slug,
		arg.Name,
		arg.Description,
		arg.PriceCents,
		arg.Currency,
		arg.Features,
		arg.Category,
		arg.IsActive,
		arg.CreatedAt,
	)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

func scanTool(row pgx.Row) (Tool, error) {
	var i Tool
	err := row.Scan(
		&i.ID,
		&i.Slug,
		&i.Name,
		&i.Description,
		&i.PriceCents,
		&i.Currency,
		&i.Features,
		&i.Category,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}
