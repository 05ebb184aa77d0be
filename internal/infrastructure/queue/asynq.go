package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

const (
	TypePurchaseReceipt   = "email:purchase_receipt"
	TypeNewsletterWelcome = "email:newsletter_welcome"
	TypeEventPublish      = "event:publish"
)

const defaultMaxRetry = 5

type TaskEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqEnqueuer(redisOpt asynq.RedisClientOpt, log zerolog.Logger) *TaskEnqueuer {
	return &TaskEnqueuer{client: asynq.NewClient(redisOpt), log: log}
}

func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

func (q *TaskEnqueuer) EnqueuePurchaseReceipt(ctx context.Context, task ports.ReceiptTask) error {
	// One receipt per payment even if the enqueue is retried.
	return q.enqueue(ctx, TypePurchaseReceipt, task, asynq.TaskID("receipt:"+task.PaymentID))
}

func (q *TaskEnqueuer) EnqueueNewsletterWelcome(ctx context.Context, task ports.WelcomeTask) error {
	return q.enqueue(ctx, TypeNewsletterWelcome, task)
}

func (q *TaskEnqueuer) EnqueueEvent(ctx context.Context, event ports.DomainEvent) error {
	return q.enqueue(ctx, TypeEventPublish, event, asynq.Timeout(30*time.Second))
}

func (q *TaskEnqueuer) enqueue(ctx context.Context, typename string, payload any, opts ...asynq.Option) error {
	task, err := newTask(typename, payload, opts...)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			q.log.Debug().Str("type", typename).Msg("task already enqueued")
			return nil
		}
		q.log.Warn().Err(err).Str("type", typename).Msg("enqueue task failed")
		return err
	}
	return nil
}

func newTask(typename string, payload any, opts ...asynq.Option) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	opts = append([]asynq.Option{asynq.MaxRetry(defaultMaxRetry)}, opts...)
	return asynq.NewTask(typename, body, opts...), nil
}

var _ ports.TaskEnqueuer = (*TaskEnqueuer)(nil)
