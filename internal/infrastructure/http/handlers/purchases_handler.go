package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/purchases"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/http/middleware"
)

type PurchasesHandler struct {
	list *purchases.ListOwned
	log  zerolog.Logger
}

func NewPurchasesHandler(list *purchases.ListOwned, log zerolog.Logger) *PurchasesHandler {
	return &PurchasesHandler{list: list, log: log}
}

type purchaseToolSummary struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type purchaseResponse struct {
	ID        string              `json:"id"`
	ToolID    string              `json:"toolId"`
	Amount    float64             `json:"amount"`
	Currency  string              `json:"currency"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
	Tool      purchaseToolSummary `json:"tool"`
}

// List serves GET /purchases: the caller's completed purchases, newest first.
func (h *PurchasesHandler) List(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromContext(r.Context())
	if id == nil {
		writeErr(w, http.StatusUnauthorized, "", "Unauthorized")
		return
	}
	owned, err := h.list.Execute(r.Context(), id.UserID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", id.UserID.String()).Msg("list purchases failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	out := make([]purchaseResponse, 0, len(owned))
	for _, o := range owned {
		out = append(out, purchaseResponse{
			ID:        o.Purchase.ID.String(),
			ToolID:    o.Purchase.ToolID.String(),
			Amount:    o.Purchase.Amount(),
			Currency:  o.Purchase.Currency,
			Status:    string(o.Purchase.Status),
			CreatedAt: o.Purchase.CreatedAt,
			Tool: purchaseToolSummary{
				Slug:        o.Tool.Slug,
				Name:        o.Tool.Name,
				Description: o.Tool.Description,
				Category:    string(o.Tool.Category),
			},
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"purchases": out})
}
