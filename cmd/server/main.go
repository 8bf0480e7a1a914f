package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"example.com/financial-health/internal/ai"
	"example.com/financial-health/internal/config"
	"example.com/financial-health/internal/database"
	"example.com/financial-health/internal/handlers"
	"example.com/financial-health/internal/metrics"
	"example.com/financial-health/internal/repository"
	"example.com/financial-health/internal/scheduler"
	"example.com/financial-health/internal/server"
)

func main() {
	ensureEnvFile()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.MustNewMetrics(registry)

	deps := server.Deps{
		Registry: registry,
		Metrics:  appMetrics,
		Narrator: newNarrator(cfg.Narrative),
	}

	var purgeScheduler *scheduler.Scheduler
	if cfg.Database.Enabled {
		db, err := database.Open(context.Background(), cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer db.Close()

		deps.DB = db
		purgeScheduler, err = startPurgeScheduler(cfg.Reports, db, appMetrics, logger)
		if err != nil {
			logger.Error("failed to schedule report purge", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("starting financial health service",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Server.Port),
		slog.Bool("storage", cfg.Database.Enabled),
		slog.String("narrative_provider", cfg.Narrative.Provider),
	)

	e := server.New(cfg, logger, deps)
	httpServer := server.NewHTTPServer(cfg.Server, e)

	go func() {
		if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.String("error", err.Error()))
		}
	}()

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownSignal

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if purgeScheduler != nil {
		purgeScheduler.Stop()
	}

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
}

// newNarrator возвращает nil для шаблонного нарратива.
func newNarrator(cfg config.NarrativeConfig) handlers.Narrator {
	switch cfg.Provider {
	case config.NarrativeGemini:
		return ai.NewNarrativeService(ai.NewGeminiClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout, cfg.MaxOutputTokens))
	case config.NarrativeGroq:
		return ai.NewNarrativeService(ai.NewGroqClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout, cfg.MaxOutputTokens))
	default:
		return nil
	}
}

func startPurgeScheduler(cfg config.ReportsConfig, db *pgxpool.Pool, appMetrics *metrics.Metrics, logger *slog.Logger) (*scheduler.Scheduler, error) {
	s := scheduler.New(logger, time.Minute)
	job := &scheduler.PurgeJob{
		Reports:   repository.NewReportRepository(db),
		Retention: cfg.Retention,
		Metrics:   appMetrics,
		Logger:    logger,
	}

	if err := s.AddJob(cfg.PurgeSchedule, job); err != nil {
		return nil, err
	}

	s.Start()
	return s, nil
}

func ensureEnvFile() {
	if os.Getenv("ENV_FILE") != "" {
		return
	}

	if _, err := os.Stat(".env"); err == nil {
		_ = os.Setenv("ENV_FILE", ".env")
		return
	}

	if _, err := os.Stat("../.env"); err == nil {
		_ = os.Setenv("ENV_FILE", "../.env")
	}
}
