package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"example.com/financial-health/internal/auth"
	"example.com/financial-health/internal/config"
	"example.com/financial-health/internal/handlers"
	"example.com/financial-health/internal/health"
	"example.com/financial-health/internal/metrics"
	"example.com/financial-health/internal/notifications"
	"example.com/financial-health/internal/repository"
)

// Deps — внешние зависимости сервера; любое поле может быть nil.
type Deps struct {
	DB       *pgxpool.Pool
	Narrator handlers.Narrator
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Hub      *notifications.Hub
}

// New собирает HTTP-сервер Echo с роутами и зависимостями.
func New(cfg config.Config, logger *slog.Logger, deps Deps) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	appMetrics := deps.Metrics
	if appMetrics == nil {
		appMetrics = metrics.MustNewMetrics(registry)
	}
	hub := deps.Hub
	if hub == nil {
		hub = notifications.NewHub()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	if len(cfg.Server.AllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.Server.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		}))
	}

	var tokenManager *auth.TokenManager
	if cfg.Auth.JWTSecret != "" {
		tokenManager = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	}

	var reports handlers.ReportStore
	healthHandler := handlers.NewHealthHandler(nil)
	if deps.DB != nil {
		reports = repository.NewReportRepository(deps.DB)
		healthHandler = handlers.NewHealthHandler(deps.DB)
	}

	reportHandler := handlers.NewFinancialHealthHandler(
		health.NewCalculator(health.SystemClock{}),
		deps.Narrator,
		cfg.Narrative.Provider,
		reports,
		hub,
		appMetrics,
	)
	notificationHandler := handlers.NewNotificationHandler(hub)
	metricsHandler := echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	registerRoutes(
		e,
		reportHandler,
		notificationHandler,
		healthHandler,
		metricsHandler,
		auth.JWTMiddleware(tokenManager),
		reportRateLimiter(cfg.Reports),
	)

	return e
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

func reportRateLimiter(cfg config.ReportsConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}
