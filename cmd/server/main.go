package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/land-risk-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/land-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/land-risk-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/land-risk-service/internal/config"
	"github.com/couchcryptid/land-risk-service/internal/domain"
	"github.com/couchcryptid/land-risk-service/internal/observability"
	"github.com/couchcryptid/land-risk-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	// Region rules degrade to default-only resolution when missing.
	rules, err := domain.LoadRuleTable(cfg.RegionRulesPath)
	if err != nil {
		logger.Warn("no region rules loaded, resolution degrades to live/default tiers",
			"path", cfg.RegionRulesPath, "error", err)
	} else {
		logger.Info("region rules loaded", "path", cfg.RegionRulesPath, "rules", len(rules))
	}

	// Environmental fetches (feature-flagged via FETCH_ENABLED).
	var fetcher domain.EnvironmentalFetcher
	if cfg.FetchEnabled {
		client := openmeteo.NewClient(cfg.RainfallBaseURL, cfg.ElevationBaseURL, cfg.FetchTimeout, clock, metrics, logger)
		cached, err := openmeteo.NewCachedFetcher(client, cfg.FetchCacheSize, metrics)
		if err != nil {
			logger.Error("failed to build fetch cache", "error", err)
			os.Exit(1)
		}
		fetcher = cached
		logger.Info("environmental fetches enabled", "cache_size", cfg.FetchCacheSize, "timeout", cfg.FetchTimeout)
	} else {
		logger.Info("environmental fetches disabled")
	}

	// Optional prediction audit stream.
	var audit pipeline.AuditPublisher
	var auditWriter *kafkaadapter.Writer
	if cfg.AuditEnabled {
		auditWriter = kafkaadapter.NewWriter(cfg, logger)
		audit = auditWriter
		logger.Info("prediction audit stream enabled", "topic", cfg.KafkaAuditTopic)
	} else {
		logger.Info("prediction audit stream disabled")
	}

	p := pipeline.New(cfg.ModelPath, rules, fetcher, audit, logger, metrics, clock)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if auditWriter != nil {
		if err := auditWriter.Close(); err != nil {
			logger.Error("audit writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
