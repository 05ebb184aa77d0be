package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/persistence/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ToolRepository struct {
	q *db.Queries
}

func NewToolRepository(q *db.Queries) *ToolRepository {
	return &ToolRepository{q: q}
}

func (r *ToolRepository) List(ctx context.Context, category domain.ToolCategory) ([]*domain.Tool, error) {
	rows, err := r.q.ListActiveTools(ctx, string(category))
	if err != nil {
		return nil, err
	}
	list := make([]*domain.Tool, 0, len(rows))
	for _, t := range rows {
		list = append(list, dbToolToDomain(t))
	}
	return list, nil
}

func (r *ToolRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tool, error) {
	t, err := r.q.GetToolBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return dbToolToDomain(t), nil
}

func (r *ToolRepository) GetByID(ctx context.Context, id domain.ToolID) (*domain.Tool, error) {
	t, err := r.q.GetToolByID(ctx, id.UUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return dbToolToDomain(t), nil
}

// Upsert keeps the existing row id on conflict and writes it back to tool.
func (r *ToolRepository) Upsert(ctx context.Context, tool *domain.Tool) error {
	if tool.ID.UUID == uuid.Nil {
		tool.ID = domain.NewToolID(uuid.New())
	}
	if tool.CreatedAt.IsZero() {
		tool.CreatedAt = time.Now()
	}
	features := tool.Features
	if features == nil {
		features = []string{}
	}
	id, err := r.q.UpsertTool(ctx, db.Tool{
		ID:          tool.ID.UUID,
		Slug:        tool.Slug,
		Name:        tool.Name,
		Description: tool.Description,
		PriceCents:  tool.PriceCents,
		Currency:    tool.Currency,
		Features:    features,
		Category:    string(tool.Category),
		IsActive:    tool.IsActive,
		CreatedAt:   tool.CreatedAt,
	})
	if err != nil {
		return err
	}
	tool.ID = domain.NewToolID(id)
	return nil
}

func dbToolToDomain(t db.Tool) *domain.Tool {
	return &domain.Tool{
		ID:          domain.NewToolID(t.ID),
		Slug:        t.Slug,
		Name:        t.Name,
		Description: t.Description,
		PriceCents:  t.PriceCents,
		Currency:    t.Currency,
		Features:    t.Features,
		Category:    domain.ToolCategory(t.Category),
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
	}
}

// Ensure ToolRepository implements ports.ToolRepository.
var _ ports.ToolRepository = (*ToolRepository)(nil)
