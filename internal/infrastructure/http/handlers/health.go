package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const healthTimeout = 3 * time.Second

// Pinger is satisfied by *pgxpool.Pool and the in-memory store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	name string
	ping func(ctx context.Context) error
}

// HealthHandler reports whether the storefront can serve purchases: the
// database always, Redis only when the queue and limiter run on it.
// Failure details go to the log, not the response.
type HealthHandler struct {
	deps []dependency
	log  zerolog.Logger
}

func NewHealthHandler(db Pinger, rdb redis.UniversalClient, log zerolog.Logger) *HealthHandler {
	deps := []dependency{{name: "database", ping: db.Ping}}
	if rdb != nil {
		deps = append(deps, dependency{name: "redis", ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	return &HealthHandler{deps: deps, log: log}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	status, code := "ok", http.StatusOK
	checks := make(map[string]string, len(h.deps))
	for _, d := range h.deps {
		if err := d.ping(ctx); err != nil {
			h.log.Error().Err(err).Str("dependency", d.name).Msg("health check failed")
			checks[d.name] = "down"
			status, code = "unhealthy", http.StatusServiceUnavailable
			continue
		}
		checks[d.name] = "ok"
	}
	writeJSON(w, code, map[string]interface{}{"status": status, "checks": checks})
}
