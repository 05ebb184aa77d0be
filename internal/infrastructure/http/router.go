package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/http/handlers"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	AuthHandler       *handlers.AuthHandler
	HealthHandler     *handlers.HealthHandler
	ToolsHandler      *handlers.ToolsHandler
	PurchasesHandler  *handlers.PurchasesHandler
	CheckoutHandler   *handlers.CheckoutHandler
	WebhookHandler    *handlers.WebhookHandler
	NewsletterHandler *handlers.NewsletterHandler
	AdminHandler      *handlers.AdminHandler
	Sessions          *middleware.SessionAuth
	RequireAdmin      func(http.Handler) http.Handler // X-Admin-Secret for /admin/* and /metrics
	Log               zerolog.Logger
	Secure            func(http.Handler) http.Handler
	CORS              func(http.Handler) http.Handler
	IPRateLimit       func(http.Handler) http.Handler
	UserRateLimit     func(http.Handler) http.Handler // checkout, after session resolution
	APIVersion        string
	Metrics           bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	if cfg.APIVersion != "" {
		r.Use(middleware.APIVersion(cfg.APIVersion))
	}
	r.Use(chimid.AllowContentType("application/json"))
	r.Use(chimid.SetHeader("Content-Type", "application/json"))

	// Stripe delivers every event from a handful of shared addresses and
	// retries on non-2xx, so the webhooks sit outside the per-IP limit. The
	// handler answers 200 for anything it verified and chose to ignore.
	r.Post("/webhooks/payment", cfg.WebhookHandler.Payment)
	r.Post("/webhooks/stripe", cfg.WebhookHandler.Payment)

	r.Group(func(r chi.Router) {
		if cfg.IPRateLimit != nil {
			r.Use(cfg.IPRateLimit)
		}

		if cfg.HealthHandler != nil {
			r.Get("/health", cfg.HealthHandler.ServeHTTP)
		} else {
			r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"status":"ok"}`))
			})
		}
		if cfg.Metrics && cfg.RequireAdmin != nil {
			r.With(cfg.RequireAdmin).Handle("/metrics", promhttp.Handler())
		}

		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/logout", cfg.AuthHandler.Logout)
			r.With(cfg.Sessions.Require).Get("/me", cfg.AuthHandler.Me)
		})
		r.With(middleware.NoStore).Post("/logout", cfg.AuthHandler.Logout)

		r.Route("/tools", func(r chi.Router) {
			r.Get("/", cfg.ToolsHandler.List)
			r.With(cfg.Sessions.Optional, middleware.NoStore).Get("/{slug}", cfg.ToolsHandler.Get)
			r.With(cfg.Sessions.Require, middleware.NoStore).Get("/{slug}/access", cfg.ToolsHandler.Access)
		})

		r.Group(func(r chi.Router) {
			r.Use(cfg.Sessions.Require)
			r.Use(middleware.NoStore)
			r.Get("/purchases", cfg.PurchasesHandler.List)
			if cfg.UserRateLimit != nil {
				r.With(cfg.UserRateLimit).Post("/checkout", cfg.CheckoutHandler.Create)
			} else {
				r.Post("/checkout", cfg.CheckoutHandler.Create)
			}
		})

		r.Post("/newsletter", cfg.NewsletterHandler.Subscribe)

		if cfg.AdminHandler != nil && cfg.RequireAdmin != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Use(cfg.RequireAdmin)
				r.Post("/catalog/seed", cfg.AdminHandler.SeedCatalog)
				r.Post("/sessions/prune", cfg.AdminHandler.PruneSessions)
				r.Get("/purchases/{paymentId}", cfg.AdminHandler.GetPurchase)
			})
		}
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("request_id", chimid.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Msg("request")
		})
	}
}
