package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimitConfig holds rate limit settings.
type RateLimitConfig struct {
	// Rate per IP ("100-M" = 100/min). Empty disables.
	RatePerIP string
	// Rate per signed-in user on checkout ("10-M"). Empty disables.
	RatePerUser string
}

// NewLimiterStore returns a Redis-backed store when rdb is set so limits are
// shared across instances, and an in-process store otherwise.
func NewLimiterStore(rdb redis.UniversalClient) (limiter.Store, error) {
	if rdb == nil {
		return memory.NewStore(), nil
	}
	return sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: "seotools:limiter"})
}

// NewIPRateLimiter returns middleware that limits by client IP.
// rateFormatted: "100-M", "1000-H", "50-S".
func NewIPRateLimiter(rateFormatted string, store limiter.Store) (func(next http.Handler) http.Handler, error) {
	if rateFormatted == "" {
		return noopMiddleware, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(store, rate)
	return stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			writeErr(w, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
		}),
	).Handler, nil
}

// NewUserRateLimiter returns middleware that limits by session user.
// Use after SessionAuth.Require. rateFormatted: "10-M", etc.
func NewUserRateLimiter(rateFormatted string, store limiter.Store) (func(next http.Handler) http.Handler, error) {
	if rateFormatted == "" {
		return noopMiddleware, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, err
	}
	return userLimitMiddleware(limiter.New(store, rate)), nil
}

func userLimitMiddleware(instance *limiter.Limiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFromContext(r.Context())
			if id == nil {
				next.ServeHTTP(w, r)
				return
			}
			key := "user:" + id.UserID.String()
			ctx, err := instance.Increment(r.Context(), key, 1)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(ctx.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(ctx.Remaining, 10))
			if ctx.Reset > 0 {
				w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", ctx.Reset))
			}
			if ctx.Reached {
				writeErr(w, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func noopMiddleware(next http.Handler) http.Handler {
	return next
}
