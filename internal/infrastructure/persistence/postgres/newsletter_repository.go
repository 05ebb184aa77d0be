package postgres

import (
	"context"
	"errors"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	domerrors "github.com/S0l0-dev-000/SEO-Tools/internal/domain/errors"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/persistence/db"
	"github.com/jackc/pgx/v5"
)

type NewsletterRepository struct {
	q *db.Queries
}

func NewNewsletterRepository(q *db.Queries) *NewsletterRepository {
	return &NewsletterRepository{q: q}
}

func (r *NewsletterRepository) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	s, err := r.q.GetSubscriberByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.Subscriber{
		ID:         domain.NewSubscriberID(s.ID),
		Email:      s.Email,
		Name:       s.Name,
		Source:     s.Source,
		LeadMagnet: s.LeadMagnet,
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}, nil
}

func (r *NewsletterRepository) Create(ctx context.Context, s *domain.Subscriber) error {
	err := r.q.CreateSubscriber(ctx, db.NewsletterSubscriber{
		ID:         s.ID.UUID,
		Email:      s.Email,
		Name:       s.Name,
		Source:     s.Source,
		LeadMagnet: s.LeadMagnet,
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	})
	if isUniqueViolation(err) {
		return domerrors.ErrSubscriberExists
	}
	return err
}

func (r *NewsletterRepository) Update(ctx context.Context, s *domain.Subscriber) error {
	return r.q.UpdateSubscriber(ctx, db.UpdateSubscriberParams{
		Email:      s.Email,
		Name:       s.Name,
		Source:     s.Source,
		LeadMagnet: s.LeadMagnet,
		IsActive:   s.IsActive,
		UpdatedAt:  s.UpdatedAt,
	})
}

// Ensure NewsletterRepository implements ports.NewsletterRepository.
var _ ports.NewsletterRepository = (*NewsletterRepository)(nil)
