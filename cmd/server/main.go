package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"

	"donate/internal/app"
	"donate/internal/config"
	"donate/internal/handler"
	"donate/internal/logger"
	"donate/internal/ratelimit"
	"donate/internal/repository/postgres"
	"donate/internal/service"
	"donate/internal/stripe"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Misconfigured Stripe keys are warnings, not fatal: the endpoints
	// surface their own errors per request.
	for _, warning := range cfg.Stripe.Validate() {
		zlog.Warn(warning)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so the datastores can be instrumented.
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
		)
		if err != nil {
			zlog.Warn("failed to initialize New Relic", zap.Error(err))
		} else {
			zlog.Info("New Relic enabled", zap.String("app", cfg.NewRelic.AppName))
		}
	}

	gateway := stripe.NewClient(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)

	// The ledger is optional: without it, webhook outcomes are log-only.
	var donationRepo *postgres.DonationRepository
	if cfg.Database.Enabled() {
		db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			zlog.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		donationRepo = postgres.NewDonationRepository(db)
		zlog.Info("donation ledger enabled")
	}

	// The rate limiter is per-instance unless a shared Redis is configured.
	var limiter ratelimit.Limiter
	if cfg.Redis.Enabled() {
		redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			zlog.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		zlog.Info("shared rate limiting enabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	// Wire services and handlers.
	intentService := service.NewIntentService(gateway, zlog, cfg.Stripe.Campaign, cfg.Stripe.Organization)
	var webhookService *service.WebhookService
	var donationHandler *handler.DonationHandler
	if donationRepo != nil {
		webhookService = service.NewWebhookService(gateway, donationRepo, zlog)
		donationHandler = handler.NewDonationHandler(donationRepo)
	} else {
		webhookService = service.NewWebhookService(gateway, nil, zlog)
	}

	router := app.NewRouter(app.RouterDeps{
		IntentHandler:   handler.NewIntentHandler(intentService),
		WebhookHandler:  handler.NewWebhookHandler(webhookService),
		DonationHandler: donationHandler,
		Limiter:         limiter,
		Log:             zlog,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		NewRelicApp:     nrApp,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine.
	go func() {
		zlog.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("server exited")
}
