package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/persistence/db"
	"github.com/jackc/pgx/v5"
)

type PurchaseRepository struct {
	q *db.Queries
}

func NewPurchaseRepository(q *db.Queries) *PurchaseRepository {
	return &PurchaseRepository{q: q}
}

func (r *PurchaseRepository) Record(ctx context.Context, p *domain.Purchase) error {
	row, err := r.q.UpsertPurchase(ctx, db.UpsertPurchaseParams{
		ID:              p.ID.UUID,
		UserID:          p.UserID.UUID,
		ToolID:          p.ToolID.UUID,
		StripePaymentID: p.StripePaymentID,
		AmountCents:     p.AmountCents,
		Currency:        p.Currency,
		Status:          string(p.Status),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("record purchase %s: %w", p.StripePaymentID, err)
	}
	*p = *dbPurchaseToDomain(row)
	return nil
}

func (r *PurchaseRepository) UpdateStatusByPaymentID(ctx context.Context, paymentID string, status domain.PurchaseStatus) (int64, error) {
	return r.q.UpdatePurchaseStatusByPaymentID(ctx, paymentID, string(status))
}

func (r *PurchaseRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Purchase, error) {
	row, err := r.q.GetPurchaseByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return dbPurchaseToDomain(row), nil
}

func (r *PurchaseRepository) HasCompletedPurchase(ctx context.Context, userID domain.UserID, toolID domain.ToolID) (bool, error) {
	return r.q.HasCompletedPurchase(ctx, userID.UUID, toolID.UUID)
}

func (r *PurchaseRepository) HasEntitlementBySlug(ctx context.Context, userID domain.UserID, slug string) (bool, error) {
	return r.q.HasEntitlingPurchaseBySlug(ctx, userID.UUID, slug)
}

func (r *PurchaseRepository) ListCompleted(ctx context.Context, userID domain.UserID) ([]domain.OwnedTool, error) {
	rows, err := r.q.ListCompletedPurchasesByUser(ctx, userID.UUID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.OwnedTool, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.OwnedTool{
			Purchase: dbPurchaseToDomain(row.Purchase),
			Tool: &domain.Tool{
				ID:          domain.NewToolID(row.ToolID),
				Slug:        row.ToolSlug,
				Name:        row.ToolName,
				Description: row.ToolDescription,
				Category:    domain.ToolCategory(row.ToolCategory),
			},
		})
	}
	return out, nil
}

func dbPurchaseToDomain(p db.Purchase) *domain.Purchase {
	return &domain.Purchase{
		ID:              domain.NewPurchaseID(p.ID),
		UserID:          domain.NewUserID(p.UserID),
		ToolID:          domain.NewToolID(p.ToolID),
		StripePaymentID: p.StripePaymentID,
		AmountCents:     p.AmountCents,
		Currency:        p.Currency,
		Status:          domain.PurchaseStatus(p.Status),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// Ensure PurchaseRepository implements ports.PurchaseRepository.
var _ ports.PurchaseRepository = (*PurchaseRepository)(nil)
