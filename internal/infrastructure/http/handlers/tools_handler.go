package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/access"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/catalog"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	domerrors "github.com/S0l0-dev-000/SEO-Tools/internal/domain/errors"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/http/middleware"
)

type ToolsHandler struct {
	catalog *catalog.Catalog
	gate    *access.Gate
	log     zerolog.Logger
}

func NewToolsHandler(c *catalog.Catalog, gate *access.Gate, log zerolog.Logger) *ToolsHandler {
	return &ToolsHandler{catalog: c, gate: gate, log: log}
}

type toolResponse struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Features    []string `json:"features"`
	Category    string   `json:"category"`
	HasAccess   *bool    `json:"hasAccess,omitempty"`
}

func toToolResponse(t *domain.Tool) toolResponse {
	features := t.Features
	if features == nil {
		features = []string{}
	}
	return toolResponse{
		ID:          t.ID.String(),
		Slug:        t.Slug,
		Name:        t.Name,
		Description: t.Description,
		Price:       t.Price(),
		Currency:    t.Currency,
		Features:    features,
		Category:    string(t.Category),
	}
}

// List serves GET /tools[?category=individual|package].
func (h *ToolsHandler) List(w http.ResponseWriter, r *http.Request) {
	tools, err := h.catalog.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		if errors.Is(err, domerrors.ErrInvalidCategory) {
			writeErr(w, http.StatusBadRequest, "", "Invalid category")
			return
		}
		h.log.Error().Err(err).Msg("list tools failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	out := make([]toolResponse, 0, len(tools))
	for _, t := range tools {
		out = append(out, toToolResponse(t))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tools": out})
}

// Get serves GET /tools/{slug}. hasAccess is included for signed-in callers.
func (h *ToolsHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	tool, err := h.catalog.Get(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domerrors.ErrToolNotFound) {
			writeErr(w, http.StatusNotFound, ErrCodeToolNotFound, "Tool not found")
			return
		}
		h.log.Error().Err(err).Str("slug", slug).Msg("get tool failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	resp := toToolResponse(tool)
	if id := middleware.IdentityFromContext(r.Context()); id != nil {
		ok := h.gate.HasAccess(r.Context(), id.UserID, slug)
		resp.HasAccess = &ok
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tool": resp})
}

// Access serves GET /tools/{slug}/access. Requires a session.
func (h *ToolsHandler) Access(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromContext(r.Context())
	if id == nil {
		writeErr(w, http.StatusUnauthorized, "", "Unauthorized")
		return
	}
	ok := h.gate.HasAccess(r.Context(), id.UserID, chi.URLParam(r, "slug"))
	writeJSON(w, http.StatusOK, map[string]bool{"hasAccess": ok})
}
