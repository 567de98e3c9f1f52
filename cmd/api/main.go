package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/marketdesk/api/controllers"
	"github.com/angelmondragon/marketdesk/api/routes"
	"github.com/angelmondragon/marketdesk/internal/chat"
	"github.com/angelmondragon/marketdesk/internal/dashboard"
	"github.com/angelmondragon/marketdesk/internal/enrich"
	"github.com/angelmondragon/marketdesk/internal/records"
	"github.com/angelmondragon/marketdesk/internal/scan"
	"github.com/angelmondragon/marketdesk/pkg/ai"
	"github.com/angelmondragon/marketdesk/pkg/config"
	"github.com/angelmondragon/marketdesk/pkg/enums"
	"github.com/angelmondragon/marketdesk/pkg/instance"
	"github.com/angelmondragon/marketdesk/pkg/logger"
	"github.com/angelmondragon/marketdesk/pkg/metrics"
	"github.com/angelmondragon/marketdesk/pkg/recordstore"
	"github.com/angelmondragon/marketdesk/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "marketdesk-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "marketdesk-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store, err := recordstore.NewClient(cfg.RecordStore.BaseURL, recordstore.WithTimeout(cfg.RecordStore.Timeout))
	if err != nil {
		return err
	}
	catalog, err := records.NewCatalog(store, cfg.RecordStore.BaseURL, records.AppIDs{
		Categories: cfg.RecordStore.CategoriesAppID,
		Sellers:    cfg.RecordStore.SellersAppID,
		Products:   cfg.RecordStore.ProductsAppID,
		Orders:     cfg.RecordStore.OrdersAppID,
	})
	if err != nil {
		return err
	}

	aiOpts := []ai.Option{
		ai.WithTimeout(cfg.AI.Timeout),
		ai.WithModel(cfg.AI.Model),
		ai.WithMetrics(metrics.NewAIMetrics(registry)),
	}
	if cfg.AI.APIKey != "" {
		aiOpts = append(aiOpts, ai.WithAPIKey(cfg.AI.APIKey))
	}
	aiClient, err := ai.NewClient(cfg.AI.Endpoint, aiOpts...)
	if err != nil {
		return err
	}

	var (
		phases  scan.PhaseStore = scan.NewMemoryPhases()
		limiter routes.RateLimiter
		checks  = map[string]controllers.Pinger{}
	)
	if cfg.Redis.Configured() {
		redisClient, redisErr := redis.New(ctx, cfg.Redis, logg)
		if redisErr != nil {
			return redisErr
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		phases = scan.NewRedisPhases(redisClient)
		limiter = redisClient
		checks["redis"] = redisClient
	} else {
		logg.Warn(ctx, "redis not configured, scan phases kept in memory and AI rate limiting disabled")
	}

	scanner, err := scan.NewScanner(aiClient, store, catalog, phases, metrics.NewScanMetrics(registry), logg, scan.Options{
		Enabled:        func(e enums.Entity) bool { return cfg.Scan.Enabled(e.String()) },
		SuccessDisplay: cfg.Scan.SuccessDisplay,
		ScanningTTL:    cfg.Scan.ScanningTTL,
		FailureTTL:     cfg.Scan.FailureTTL,
	})
	if err != nil {
		return err
	}
	dash, err := dashboard.NewService(catalog, catalog.Orders, logg)
	if err != nil {
		return err
	}
	chatSvc, err := chat.NewService(aiClient, logg, chat.Options{
		Attempts:  cfg.AI.ChatAttempts,
		Backoff:   cfg.AI.RetryBackoff,
		MaxTokens: cfg.AI.ChatMaxTokens,
	})
	if err != nil {
		return err
	}

	router := routes.NewRouter(cfg, logg, routes.Services{
		Records:   catalog,
		Enriched:  enrich.NewService(catalog),
		Scanner:   scanner,
		Files:     store,
		Dashboard: dash,
		Chat:      chatSvc,
		Assistant: aiClient,
	}, limiter, checks, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
