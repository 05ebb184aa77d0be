package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/billing"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	domerrors "github.com/S0l0-dev-000/SEO-Tools/internal/domain/errors"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/http/middleware"
)

// maxWebhookBytes matches the payload cap Stripe documents for webhooks.
const maxWebhookBytes = 65536

const signatureHeader = "Stripe-Signature"

type WebhookHandler struct {
	verifier   ports.PaymentEventVerifier
	reconciler *billing.Reconciler
	log        zerolog.Logger
}

func NewWebhookHandler(verifier ports.PaymentEventVerifier, reconciler *billing.Reconciler, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, reconciler: reconciler, log: log}
}

// Payment serves POST /webhooks/payment. The signature covers the raw body,
// so it is read before any decoding.
func (h *WebhookHandler) Payment(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	sig := r.Header.Get(signatureHeader)
	if sig == "" {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidSignature, "No signature")
		return
	}
	event, err := h.verifier.ConstructEvent(payload, sig)
	if errors.Is(err, domerrors.ErrMalformedEvent) {
		h.log.Error().Err(err).Msg("webhook event could not be decoded")
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidEvent, "Invalid event payload")
		return
	}
	if err != nil {
		h.log.Warn().Err(err).Msg("webhook signature verification failed")
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidSignature, "Invalid signature")
		return
	}
	outcome, err := h.reconciler.Reconcile(r.Context(), event)
	if err != nil {
		middleware.RecordWebhookEvent(outcome.Kind.String(), "error")
		h.log.Error().Err(err).Str("event_id", event.ID).Str("type", event.Type).Msg("webhook processing failed")
		writeErr(w, http.StatusInternalServerError, "", "Webhook processing failed")
		return
	}
	middleware.RecordWebhookEvent(outcome.Kind.String(), string(outcome.Action))
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
