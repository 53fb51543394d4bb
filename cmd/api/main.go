package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/fieldops/fieldops-pos/api/controllers"
	"github.com/fieldops/fieldops-pos/api/routes"
	"github.com/fieldops/fieldops-pos/internal/cart"
	"github.com/fieldops/fieldops-pos/internal/catalog"
	"github.com/fieldops/fieldops-pos/internal/checkout"
	"github.com/fieldops/fieldops-pos/pkg/config"
	"github.com/fieldops/fieldops-pos/pkg/db"
	"github.com/fieldops/fieldops-pos/pkg/logger"
	"github.com/fieldops/fieldops-pos/pkg/metrics"
	"github.com/fieldops/fieldops-pos/pkg/migrate"
	"github.com/fieldops/fieldops-pos/pkg/odoo"
	"github.com/fieldops/fieldops-pos/pkg/pubsub"
	"github.com/fieldops/fieldops-pos/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []io.Closer
	defer func() {
		var closeErr error
		for i := len(closers) - 1; i >= 0; i-- {
			closeErr = multierr.Append(closeErr, closers[i].Close())
		}
		if closeErr != nil {
			logg.Error(context.Background(), "error releasing resources", closeErr)
		}
	}()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	closers = append(closers, dbClient)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	closers = append(closers, redisClient)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	erpClient, err := odoo.New(cfg.ERP,
		odoo.WithLogger(logg),
		odoo.WithObserver(metrics.NewERPMetrics(registry)),
	)
	if err != nil {
		logg.Error(ctx, "failed to create erp client", err)
		os.Exit(1)
	}

	health := map[string]controllers.Pinger{
		"db":    dbClient,
		"redis": redisClient,
		"erp":   erpClient,
	}

	var publisher checkout.EventPublisher
	if cfg.FeatureFlags.PublishEvents {
		pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		closers = append(closers, pubsubClient)
		publisher = pubsubClient
		health["pubsub"] = pubsubClient
	}

	drafts, err := cart.NewDraftService(redisClient, cfg.Checkout.DraftTTL, logg)
	if err != nil {
		logg.Error(ctx, "failed to create draft service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.Deps{
		ERP:       erpClient,
		Ledger:    checkout.NewLedgerRepository(dbClient.DB()),
		Publisher: publisher,
		Metrics:   metrics.NewCheckoutMetrics(registry),
		Logger:    logg,
	}, checkout.Config{
		TaxRate:          cfg.Checkout.TaxRateDecimal(),
		DefaultPartnerID: cfg.Checkout.DefaultPartnerID,
	})
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(erpClient)
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			Gatherer: registry,
			Health:   health,
			Stores:   cart.NewRegistry(),
			Drafts:   drafts,
			Checkout: checkoutService,
			Catalog:  catalogService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
		}
		return
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "graceful shutdown failed", err)
	}
}
