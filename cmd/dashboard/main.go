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
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/sealevel-dashboard/internal/adapter/geo"
	"github.com/couchcryptid/sealevel-dashboard/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/sealevel-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/sealevel-dashboard/internal/config"
	"github.com/couchcryptid/sealevel-dashboard/internal/domain"
	"github.com/couchcryptid/sealevel-dashboard/internal/observability"
	"github.com/couchcryptid/sealevel-dashboard/internal/pipeline"
)

func main() {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	cache := geo.NewCache(cfg.BoundaryCacheSize)
	korea := geo.NewCachedSource(
		geo.NewHTTPSource("korea", cfg.KoreaBoundaryURL, cfg.BoundaryTimeout, metrics, logger), cache, metrics)
	oceans := geo.NewCachedSource(
		geo.NewFileSource("oceans", cfg.OceanBoundaryPath, metrics, logger), cache, metrics)

	// Publishing is feature-flagged via KAFKA_ENABLED.
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("dataset publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	loader := pipeline.New(domain.DatasetOptions{
		Years: domain.YearRange{Start: cfg.DataStartYear, End: cfg.DataEndYear},
		Seed:  cfg.DataSeed,
		Clock: clockwork.NewRealClock(),
	}, korea, oceans, publisher, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, loader, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server. Data endpoints answer 503 until the load below completes.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	exitCode := 0
	if _, err := loader.Load(ctx); err != nil {
		logger.Error("startup load failed", "error", err)
		exitCode = 1
		stop()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	if exitCode != 0 {
		cancel()
		os.Exit(exitCode)
	}
}
