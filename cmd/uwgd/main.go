// Command uwgd validates UWG model documents consumed from Kafka and
// publishes a validation report for each one.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/uwg-schema/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/uwg-schema/internal/adapter/kafka"
	"github.com/couchcryptid/uwg-schema/internal/adapter/postgres"
	"github.com/couchcryptid/uwg-schema/internal/config"
	"github.com/couchcryptid/uwg-schema/internal/observability"
	"github.com/couchcryptid/uwg-schema/internal/openapi"
	"github.com/couchcryptid/uwg-schema/internal/pipeline"
	"github.com/joho/godotenv"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "0.0.0"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	if err := run(cfg, logger); err != nil {
		logger.Error("uwgd failed", "error", err)
		os.Exit(1)
	}
}

// run serves until SIGINT or SIGTERM. Resources opened here are released by
// its deferred calls on every return path.
func run(cfg *config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	doc, err := openapi.Models(version)
	if err != nil {
		return fmt.Errorf("generate schema document: %w", err)
	}
	docJSON, err := doc.MarshalIndent()
	if err != nil {
		return fmt.Errorf("encode schema document: %w", err)
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}()
	writer := kafkaadapter.NewWriter(cfg, logger)
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}()

	var loader pipeline.BatchLoader = writer
	checks := readiness{}
	if cfg.PostgresDSN != "" {
		repo, err := postgres.Open(ctx, cfg.PostgresDSN, logger, metrics)
		if err != nil {
			return fmt.Errorf("open report store: %w", err)
		}
		defer func() {
			if err := repo.Close(); err != nil {
				logger.Error("report store close error", "error", err)
			}
		}()
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("prepare report store: %w", err)
		}
		loader = pipeline.FanOut{repo, writer}
		checks = append(checks, repo)
		logger.Info("report store enabled")
	}

	var validator pipeline.Transformer = pipeline.NewValidator(logger, metrics)
	if cfg.ValidationCacheSize > 0 {
		validator = pipeline.NewCachedValidator(pipeline.NewValidator(logger, metrics), cfg.ValidationCacheSize, metrics)
		logger.Info("validation cache enabled", "size", cfg.ValidationCacheSize)
	}

	p := pipeline.New(reader, validator, loader, logger, metrics, cfg.BatchSize)
	checks = append(checks, p)

	srv := httpadapter.NewServer(cfg.HTTPAddr, checks, docJSON, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start validation pipeline.
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}

	logger.Info("shutdown complete")
	return nil
}

// readiness is ready when every check passes.
type readiness []httpadapter.ReadinessChecker

func (r readiness) CheckReadiness(ctx context.Context) error {
	for _, c := range r {
		if err := c.CheckReadiness(ctx); err != nil {
			return err
		}
	}
	return nil
}
