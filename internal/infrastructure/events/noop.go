package events

import (
	"context"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
)

// NoopPublisher discards events when no EVENTS_URL or NATS_URL is set.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (p *NoopPublisher) Publish(ctx context.Context, event ports.DomainEvent) error {
	return nil
}

var _ ports.EventPublisher = (*NoopPublisher)(nil)
