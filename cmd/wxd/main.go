// Command wxd runs the guidance refresh service: it periodically locates and
// decodes NBM text bulletins for the configured points, normalizes each hour
// into an observation with a resolved dominant condition, and publishes the
// results to a Kafka topic.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/AnimatronicEmulator/rainbow-rest/internal/adapter/http"
	kafkaadapter "github.com/AnimatronicEmulator/rainbow-rest/internal/adapter/kafka"
	"github.com/AnimatronicEmulator/rainbow-rest/internal/adapter/ndfd"
	"github.com/AnimatronicEmulator/rainbow-rest/internal/adapter/nomads"
	"github.com/AnimatronicEmulator/rainbow-rest/internal/config"
	"github.com/AnimatronicEmulator/rainbow-rest/internal/domain"
	"github.com/AnimatronicEmulator/rainbow-rest/internal/observability"
	"github.com/AnimatronicEmulator/rainbow-rest/internal/pipeline"
	"github.com/AnimatronicEmulator/rainbow-rest/internal/scheduler"
)

func main() {
	// Optional .env for local development; the environment wins in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Startup tables are validated here, once; a gap in either is fatal
	// before any request-time work begins.
	stations, err := domain.LoadStationTable(cfg.StationsPath)
	if err != nil {
		logger.Error("station table", "error", err)
		os.Exit(1)
	}
	icons, err := domain.LoadIconTable(cfg.IconsPath)
	if err != nil {
		logger.Error("icon table", "error", err)
		os.Exit(1)
	}

	products := make([]domain.Product, 0, len(cfg.Products))
	for _, code := range cfg.Products {
		p, err := domain.ParseProduct(code)
		if err != nil {
			logger.Error("invalid product", "error", err)
			os.Exit(1)
		}
		products = append(products, p)
	}

	fetcher := nomads.NewCachedFetcher(
		nomads.NewClient(cfg.FetchTimeout, logger), cfg.BulletinCacheSize)
	locator := domain.NewLocator(fetcher, stations, cfg.LocateMaxAttempts)
	currents := ndfd.NewConditions(ndfd.NewClient(cfg.FetchTimeout, logger), icons)
	writer := kafkaadapter.NewWriter(cfg, logger)

	p := pipeline.New(locator, currents, icons, writer, logger, metrics, cfg.Points, products)
	// A refresh must finish before the next tick fires.
	sched := scheduler.New(cfg.RefreshInterval, cfg.RefreshInterval, p.Refresh, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if err := sched.Start(); err != nil {
		logger.Error("scheduler start error", "error", err)
		os.Exit(1)
	}
	logger.Info("service started",
		"points", len(cfg.Points), "products", cfg.Products, "interval", cfg.RefreshInterval)

	<-ctx.Done()
	logger.Info("shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
