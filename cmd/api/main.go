package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/electronicmusicbook/temb-backend/api/routes"
	"github.com/electronicmusicbook/temb-backend/internal/catalog"
	"github.com/electronicmusicbook/temb-backend/internal/checkout"
	"github.com/electronicmusicbook/temb-backend/internal/email"
	"github.com/electronicmusicbook/temb-backend/internal/orders"
	stripewebhook "github.com/electronicmusicbook/temb-backend/internal/webhooks/stripe"
	pkgauth "github.com/electronicmusicbook/temb-backend/pkg/auth"
	"github.com/electronicmusicbook/temb-backend/pkg/config"
	"github.com/electronicmusicbook/temb-backend/pkg/db"
	"github.com/electronicmusicbook/temb-backend/pkg/logger"
	"github.com/electronicmusicbook/temb-backend/pkg/metrics"
	"github.com/electronicmusicbook/temb-backend/pkg/migrate"
	"github.com/electronicmusicbook/temb-backend/pkg/redis"
	pkgstripe "github.com/electronicmusicbook/temb-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Configured() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, login rate limiting disabled")
	}

	verifier, err := pkgauth.NewCredentialVerifier(context.Background(), cfg.AdminAuth, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to load admin credentials", err)
		os.Exit(1)
	}

	stripeClient, err := pkgstripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to initialize stripe", err)
		os.Exit(1)
	}

	editionCatalog := catalog.New(cfg.Stripe)

	checkoutService, err := checkout.NewService(
		checkout.NewStripeClient(stripeClient),
		stripeClient,
		editionCatalog,
		logg,
		cfg.App.BaseURL,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		OrdersRepo: ordersRepo,
		Email:      email.NewSender(context.Background(), cfg.Email, logg),
		Metrics:    metrics.NewWebhookMetrics(registry),
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:             cfg,
			Logger:             logg,
			DB:                 dbClient,
			Redis:              redisClient,
			CredentialVerifier: verifier,
			CheckoutService:    checkoutService,
			OrdersService:      ordersService,
			WebhookService:     webhookService,
			StripeClient:       stripeClient,
			MetricsRegistry:    registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
