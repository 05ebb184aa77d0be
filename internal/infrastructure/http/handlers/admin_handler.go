package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/catalog"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/retention"
)

// AdminHandler handles /admin/* (seed catalog, prune sessions, look up a
// purchase by payment id). Requires X-Admin-Secret.
type AdminHandler struct {
	catalog   *catalog.Catalog
	sessions  ports.SessionStore
	purchases ports.PurchaseRepository
	log       zerolog.Logger
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(c *catalog.Catalog, sessions ports.SessionStore, purchases ports.PurchaseRepository, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{catalog: c, sessions: sessions, purchases: purchases, log: log}
}

// SeedCatalog handles POST /admin/catalog/seed. Returns { "upserted": n }.
func (h *AdminHandler) SeedCatalog(w http.ResponseWriter, r *http.Request) {
	n, err := h.catalog.Seed(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("seed catalog failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	h.log.Info().Int("upserted", n).Msg("catalog seeded")
	writeJSON(w, http.StatusOK, map[string]int{"upserted": n})
}

// PruneSessions handles POST /admin/sessions/prune. Returns { "pruned": n }.
func (h *AdminHandler) PruneSessions(w http.ResponseWriter, r *http.Request) {
	n, err := retention.RunPruneExpiredSessions(r.Context(), h.sessions, time.Now(), 0)
	if err != nil {
		h.log.Error().Err(err).Msg("prune sessions failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"pruned": n})
}

// GetPurchase handles GET /admin/purchases/{paymentId}.
func (h *AdminHandler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "paymentId")
	p, err := h.purchases.GetByPaymentID(r.Context(), paymentID)
	if err != nil {
		h.log.Error().Err(err).Str("payment_id", paymentID).Msg("get purchase failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	if p == nil {
		writeErr(w, http.StatusNotFound, "", "purchase not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":              p.ID.String(),
		"userId":          p.UserID.String(),
		"toolId":          p.ToolID.String(),
		"stripePaymentId": p.StripePaymentID,
		"amount":          p.Amount(),
		"currency":        p.Currency,
		"status":          string(p.Status),
		"createdAt":       p.CreatedAt,
		"updatedAt":       p.UpdatedAt,
	})
}
