package queue

import (
	"context"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// InlineEnqueuer runs tasks synchronously through the same handlers the
// worker uses. For development and --in-memory mode, when Redis is not
// configured. Handler failures are logged, not returned.
type InlineEnqueuer struct {
	mux *asynq.ServeMux
	log zerolog.Logger
}

func NewInlineEnqueuer(h *Handlers, log zerolog.Logger) *InlineEnqueuer {
	return &InlineEnqueuer{mux: newMux(h), log: log}
}

func (q *InlineEnqueuer) EnqueuePurchaseReceipt(ctx context.Context, task ports.ReceiptTask) error {
	return q.run(ctx, TypePurchaseReceipt, task)
}

func (q *InlineEnqueuer) EnqueueNewsletterWelcome(ctx context.Context, task ports.WelcomeTask) error {
	return q.run(ctx, TypeNewsletterWelcome, task)
}

func (q *InlineEnqueuer) EnqueueEvent(ctx context.Context, event ports.DomainEvent) error {
	return q.run(ctx, TypeEventPublish, event)
}

func (q *InlineEnqueuer) run(ctx context.Context, typename string, payload any) error {
	task, err := newTask(typename, payload)
	if err != nil {
		return err
	}
	if err := q.mux.ProcessTask(ctx, task); err != nil {
		q.log.Warn().Err(err).Str("type", typename).Msg("inline task failed")
	}
	return nil
}

var _ ports.TaskEnqueuer = (*InlineEnqueuer)(nil)
