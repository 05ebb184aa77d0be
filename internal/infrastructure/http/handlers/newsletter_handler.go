package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/newsletter"
	domerrors "github.com/S0l0-dev-000/SEO-Tools/internal/domain/errors"
)

type NewsletterHandler struct {
	subscribe *newsletter.Subscribe
	log       zerolog.Logger
}

func NewNewsletterHandler(subscribe *newsletter.Subscribe, log zerolog.Logger) *NewsletterHandler {
	return &NewsletterHandler{subscribe: subscribe, log: log}
}

// Subscribe serves POST /newsletter.
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email      string `json:"email"`
		Name       string `json:"name"`
		Source     string `json:"source"`
		LeadMagnet string `json:"leadMagnet"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if len(body.Email) > MaxEmailLength {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidEmail, "Invalid email format")
		return
	}
	result, err := h.subscribe.Execute(r.Context(), newsletter.SubscribeInput{
		Email:      body.Email,
		Name:       SanitizeName(body.Name),
		Source:     SanitizeName(body.Source),
		LeadMagnet: SanitizeName(body.LeadMagnet),
	})
	if err != nil {
		switch {
		case errors.Is(err, domerrors.ErrEmailRequired):
			writeErr(w, http.StatusBadRequest, ErrCodeEmailRequired, "Email is required")
		case errors.Is(err, domerrors.ErrInvalidEmail):
			writeErr(w, http.StatusBadRequest, ErrCodeInvalidEmail, "Invalid email format")
		default:
			h.log.Error().Err(err).Msg("newsletter subscribe failed")
			writeErr(w, http.StatusInternalServerError, "", "Failed to subscribe to newsletter")
		}
		return
	}
	msg := "Successfully subscribed to newsletter"
	if !result.Created {
		msg = "Successfully updated subscription"
	}
	s := result.Subscriber
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": msg,
		"subscriber": map[string]string{
			"id":    s.ID.String(),
			"email": s.Email,
			"name":  s.Name,
		},
	})
}
