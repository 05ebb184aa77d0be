package main

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/config"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/events"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/http/handlers"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/lockout"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/mail"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/persistence/db"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/persistence/memory"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/persistence/postgres"
)

// repositories groups the storage ports one backend provides.
type repositories struct {
	users      ports.UserRepository
	sessions   ports.SessionStore
	tools      ports.ToolRepository
	purchases  ports.PurchaseRepository
	newsletter ports.NewsletterRepository
	health     handlers.Pinger
}

func openPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func postgresRepositories(pool *pgxpool.Pool) repositories {
	q := db.New(pool)
	return repositories{
		users:      postgres.NewUserRepository(q),
		sessions:   postgres.NewSessionStore(q),
		tools:      postgres.NewToolRepository(q),
		purchases:  postgres.NewPurchaseRepository(q),
		newsletter: postgres.NewNewsletterRepository(q),
		health:     pool,
	}
}

func memoryRepositories() repositories {
	s := memory.NewStore()
	return repositories{
		users:      s.Users(),
		sessions:   s.Sessions(),
		tools:      s.Tools(),
		purchases:  s.Purchases(),
		newsletter: s.Newsletter(),
		health:     s,
	}
}

// openRedis returns nil when REDIS_URL is unset or unreachable.
func openRedis(ctx context.Context, url string, log zerolog.Logger) (*redis.Client, *redis.Options, error) {
	if url == "" {
		return nil, nil, nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
		_ = rdb.Close()
		return nil, nil, nil
	}
	return rdb, opt, nil
}

func asynqRedisOpt(opt *redis.Options) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}
}

func newMailer(cfg config.MailConfig, log zerolog.Logger) ports.Mailer {
	if cfg.SendGridAPIKey == "" {
		return mail.NewLogMailer(log)
	}
	return mail.NewSendGridMailer(cfg.SendGridAPIKey, cfg.FromName, cfg.FromEmail)
}

// newPublisher prefers NATS, then an HTTP endpoint, then discards. The
// returned close func is never nil.
func newPublisher(cfg config.EventsConfig, log zerolog.Logger) (ports.EventPublisher, func(), error) {
	switch {
	case cfg.NATSURL != "":
		nc, err := events.ConnectNATS(cfg.NATSURL, "seotools", log)
		if err != nil {
			return nil, nil, err
		}
		return events.NewNATSPublisher(nc, cfg.NATSPrefix, log), func() { _ = nc.Drain() }, nil
	case cfg.URL != "":
		var opts []events.HTTPPublisherOption
		if cfg.Authorization != "" {
			opts = append(opts, events.WithHeader("Authorization", cfg.Authorization))
		}
		return events.NewHTTPPublisher(cfg.URL, opts...), func() {}, nil
	default:
		return events.NewNoopPublisher(), func() {}, nil
	}
}

func newLockout(cfg config.LockoutConfig, rdb *redis.Client, log zerolog.Logger) ports.LoginLockoutStore {
	if rdb != nil {
		return lockout.NewRedisStore(rdb, cfg.MaxAttempts, cfg.Cooldown, log)
	}
	return lockout.NewMemoryStore(cfg.MaxAttempts, cfg.Cooldown)
}
