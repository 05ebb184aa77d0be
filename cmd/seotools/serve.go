package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/access"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/auth"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/billing"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/catalog"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/checkout"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/newsletter"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/purchases"
	infraauth "github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/auth"
	httprouter "github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/http"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/http/handlers"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/http/middleware"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/payment"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/queue"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/security"
)

func newServeCmd(c *cli) *cobra.Command {
	var inMemory bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the task worker when Redis is configured)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx, inMemory)
		},
	}
	cmd.Flags().BoolVar(&inMemory, "in-memory", false, "use in-process storage seeded with the catalog (development)")
	return cmd
}

func (c *cli) serve(ctx context.Context, inMemory bool) error {
	cfg, log := c.cfg, c.log

	var repos repositories
	if inMemory {
		repos = memoryRepositories()
		log.Warn().Msg("using in-memory storage; data is lost on exit")
	} else {
		pool, err := openPostgres(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		repos = postgresRepositories(pool)
	}

	cat := catalog.New(repos.tools)
	if inMemory {
		if _, err := cat.Seed(ctx); err != nil {
			return err
		}
	}

	rdb, redisOpt, err := openRedis(ctx, cfg.Redis.URL, log)
	if err != nil {
		return err
	}
	var universal redis.UniversalClient
	if rdb != nil {
		defer rdb.Close()
		universal = rdb
	}

	publisher, closePublisher, err := newPublisher(cfg.Events, log)
	if err != nil {
		return err
	}
	defer closePublisher()
	taskHandlers := queue.NewHandlers(newMailer(cfg.Mail, log), publisher, log)

	var tasks ports.TaskEnqueuer
	var worker *queue.Worker
	if redisOpt != nil {
		asynqOpt := asynqRedisOpt(redisOpt)
		enq := queue.NewAsynqEnqueuer(asynqOpt, log)
		defer enq.Close()
		tasks = enq
		worker = queue.NewWorker(asynqOpt, taskHandlers, cfg.Worker.Concurrency, log)
		go func() {
			if err := worker.Run(); err != nil {
				log.Warn().Err(err).Msg("task worker stopped")
			}
		}()
		defer worker.Shutdown()
	} else {
		tasks = queue.NewInlineEnqueuer(taskHandlers, log)
	}

	hasher := security.NewBcryptHasher(cfg.Bcrypt.Cost)
	sessions := auth.NewSessionManager(repos.sessions,
		infraauth.NewSessionSigner(cfg.Session.Secret, cfg.Session.Issuer), log)
	gate := access.NewGate(repos.purchases, log)

	limiterStore, err := middleware.NewLimiterStore(universal)
	if err != nil {
		return err
	}
	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIP, limiterStore)
	if err != nil {
		return err
	}
	userLimit, err := middleware.NewUserRateLimiter(cfg.RateLimit.RatePerUser, limiterStore)
	if err != nil {
		return err
	}

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler: handlers.NewAuthHandler(
			auth.NewRegisterUser(repos.users, hasher),
			auth.NewLogin(repos.users, hasher, sessions, newLockout(cfg.Lockout, rdb, log)),
			sessions,
			auth.NewGetCurrentUser(repos.users),
			cfg.IsProduction(), log),
		HealthHandler:    handlers.NewHealthHandler(repos.health, universal, log),
		ToolsHandler:     handlers.NewToolsHandler(cat, gate, log),
		PurchasesHandler: handlers.NewPurchasesHandler(purchases.NewListOwned(repos.purchases), log),
		CheckoutHandler: handlers.NewCheckoutHandler(
			checkout.NewInitiator(sessions, repos.tools, repos.purchases,
				payment.NewStripeCheckout(cfg.Stripe.SecretKey, nil), cfg.App.BaseURL), log),
		WebhookHandler: handlers.NewWebhookHandler(
			payment.NewStripeWebhookVerifier(cfg.Stripe.WebhookSecret),
			billing.NewReconciler(repos.purchases, repos.tools, repos.users, tasks, log), log),
		NewsletterHandler: handlers.NewNewsletterHandler(newsletter.NewSubscribe(repos.newsletter, tasks, log), log),
		AdminHandler:      handlers.NewAdminHandler(cat, repos.sessions, repos.purchases, log),
		Sessions:          middleware.NewSessionAuth(sessions),
		RequireAdmin:      middleware.RequireAdminSecret(cfg.Admin.Secret),
		Log:               log,
		Secure:            middleware.NewSecure(middleware.SecureOptions(!cfg.IsProduction())),
		CORS:              middleware.CORS(cfg.CORS.AllowedOrigins, nil, nil),
		IPRateLimit:       ipLimit,
		UserRateLimit:     userLimit,
		APIVersion:        cfg.App.APIVersion,
		Metrics:           true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("env", cfg.App.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped")
	return nil
}
