package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/checkout"
	domerrors "github.com/S0l0-dev-000/SEO-Tools/internal/domain/errors"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/http/middleware"
)

type CheckoutHandler struct {
	initiator *checkout.Initiator
	validate  *validator.Validate
	log       zerolog.Logger
}

func NewCheckoutHandler(initiator *checkout.Initiator, log zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{initiator: initiator, validate: validator.New(), log: log}
}

// Create serves POST /checkout {toolSlug}.
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(middleware.SessionCookieName); err == nil {
		token = c.Value
	}
	if token == "" {
		writeErr(w, http.StatusUnauthorized, "", "Unauthorized")
		return
	}
	var body struct {
		ToolSlug string `json:"toolSlug" validate:"required,max=100"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "Tool slug is required")
		return
	}
	result, err := h.initiator.Execute(r.Context(), checkout.StartInput{Token: token, ToolSlug: body.ToolSlug})
	if err != nil {
		switch {
		case errors.Is(err, domerrors.ErrUnauthenticated):
			writeErr(w, http.StatusUnauthorized, "", "Unauthorized")
		case errors.Is(err, domerrors.ErrToolNotFound):
			writeErr(w, http.StatusNotFound, ErrCodeToolNotFound, "Tool not found")
		case errors.Is(err, domerrors.ErrAlreadyPurchased):
			writeErr(w, http.StatusBadRequest, ErrCodeAlreadyPurchased, "You have already purchased this tool")
		default:
			h.log.Error().Err(err).Str("tool_slug", body.ToolSlug).Msg("checkout failed")
			writeErr(w, http.StatusInternalServerError, "", "Failed to create checkout session")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": result.SessionID, "url": result.URL})
}
