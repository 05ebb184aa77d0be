// Package newsletter handles mailing-list signups.
package newsletter

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	domerrors "github.com/S0l0-dev-000/SEO-Tools/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type SubscribeInput struct {
	Email      string
	Name       string
	Source     string
	LeadMagnet string
}

type SubscribeResult struct {
	Subscriber *domain.Subscriber
	Created    bool
}

type Subscribe struct {
	subscribers ports.NewsletterRepository
	tasks       ports.TaskEnqueuer
	log         zerolog.Logger
}

func NewSubscribe(subscribers ports.NewsletterRepository, tasks ports.TaskEnqueuer, log zerolog.Logger) *Subscribe {
	return &Subscribe{subscribers: subscribers, tasks: tasks, log: log}
}

// Execute creates a subscriber or reactivates an existing one. Omitted name
// and lead magnet keep their stored values; source falls back to the default.
func (uc *Subscribe) Execute(ctx context.Context, input SubscribeInput) (*SubscribeResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, domerrors.ErrEmailRequired
	}
	if !emailRegex.MatchString(email) {
		return nil, domerrors.ErrInvalidEmail
	}
	source := strings.TrimSpace(input.Source)
	if source == "" {
		source = domain.DefaultNewsletterSource
	}
	now := time.Now()

	existing, err := uc.subscribers.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return uc.reactivate(ctx, existing, input, source, now)
	}

	sub := &domain.Subscriber{
		ID:         domain.NewSubscriberID(uuid.New()),
		Email:      email,
		Name:       input.Name,
		Source:     source,
		LeadMagnet: input.LeadMagnet,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.subscribers.Create(ctx, sub); err != nil {
		if !errors.Is(err, domerrors.ErrSubscriberExists) {
			return nil, err
		}
		// Lost a race with a concurrent signup for the same email.
		existing, err := uc.subscribers.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domerrors.ErrSubscriberExists
		}
		return uc.reactivate(ctx, existing, input, source, now)
	}
	if uc.tasks != nil {
		err := uc.tasks.EnqueueNewsletterWelcome(ctx, ports.WelcomeTask{
			Email:      sub.Email,
			Name:       sub.Name,
			LeadMagnet: sub.LeadMagnet,
		})
		if err != nil {
			uc.log.Error().Err(err).Msg("enqueue newsletter welcome")
		}
	}
	return &SubscribeResult{Subscriber: sub, Created: true}, nil
}

func (uc *Subscribe) reactivate(ctx context.Context, existing *domain.Subscriber, input SubscribeInput, source string, now time.Time) (*SubscribeResult, error) {
	if input.Name != "" {
		existing.Name = input.Name
	}
	if input.LeadMagnet != "" {
		existing.LeadMagnet = input.LeadMagnet
	}
	existing.Source = source
	existing.IsActive = true
	existing.UpdatedAt = now
	if err := uc.subscribers.Update(ctx, existing); err != nil {
		return nil, err
	}
	return &SubscribeResult{Subscriber: existing}, nil
}
