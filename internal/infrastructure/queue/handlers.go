package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/mail"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Handlers processes queued tasks. Shared by the asynq worker and the inline
// enqueuer.
type Handlers struct {
	mailer    ports.Mailer
	publisher ports.EventPublisher
	log       zerolog.Logger
}

func NewHandlers(mailer ports.Mailer, publisher ports.EventPublisher, log zerolog.Logger) *Handlers {
	return &Handlers{mailer: mailer, publisher: publisher, log: log}
}

func (h *Handlers) HandlePurchaseReceipt(ctx context.Context, t *asynq.Task) error {
	var p ports.ReceiptTask
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		h.log.Error().Err(err).Msg("receipt task payload invalid")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if err := h.mailer.Send(ctx, mail.ReceiptMessage(p)); err != nil {
		h.log.Warn().Err(err).Str("payment_id", p.PaymentID).Msg("send receipt failed")
		return err
	}
	h.log.Info().Str("payment_id", p.PaymentID).Msg("receipt sent")
	return nil
}

func (h *Handlers) HandleNewsletterWelcome(ctx context.Context, t *asynq.Task) error {
	var p ports.WelcomeTask
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		h.log.Error().Err(err).Msg("welcome task payload invalid")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if err := h.mailer.Send(ctx, mail.WelcomeMessage(p)); err != nil {
		h.log.Warn().Err(err).Msg("send newsletter welcome failed")
		return err
	}
	return nil
}

func (h *Handlers) HandleEventPublish(ctx context.Context, t *asynq.Task) error {
	var e ports.DomainEvent
	if err := json.Unmarshal(t.Payload(), &e); err != nil {
		h.log.Error().Err(err).Msg("event task payload invalid")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if err := h.publisher.Publish(ctx, e); err != nil {
		h.log.Warn().Err(err).Str("event", e.Event).Msg("publish event failed")
		return err
	}
	return nil
}

func newMux(h *Handlers) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePurchaseReceipt, h.HandlePurchaseReceipt)
	mux.HandleFunc(TypeNewsletterWelcome, h.HandleNewsletterWelcome)
	mux.HandleFunc(TypeEventPublish, h.HandleEventPublish)
	return mux
}
