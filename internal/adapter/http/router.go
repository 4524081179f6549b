package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/iho/goamort/internal/adapter/http/handler"
	"github.com/iho/goamort/internal/adapter/http/middleware"
	"github.com/iho/goamort/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	CalculatorHandler *handler.CalculatorHandler
	// ScenarioHandler is nil when no database is configured; the
	// /api/v1/scenarios routes are then not mounted.
	ScenarioHandler    *handler.ScenarioHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	RateLimiter        *middleware.RateLimiter
	CORSAllowedOrigins []string
	MetricsHandler     http.Handler
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.IdempotencyKeyHeader},
		ExposedHeaders: []string{middleware.IdempotencyReplayHeader, "Content-Disposition"},
		MaxAge:         300,
	}).Handler)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Schedules are stateless
		r.Route("/schedules", func(r chi.Router) {
			r.Post("/", cfg.CalculatorHandler.Calculate)
			r.Post("/export", cfg.CalculatorHandler.Export)
			r.Post("/compare", cfg.CalculatorHandler.Compare)
		})

		if cfg.ScenarioHandler == nil {
			return
		}

		r.Route("/scenarios", func(r chi.Router) {
			// Idempotency middleware for mutating requests
			if cfg.IdempotencyStore != nil {
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
				r.Use(idempotencyMiddleware.Wrap)
			}

			r.Post("/", cfg.ScenarioHandler.Create)
			r.Get("/", cfg.ScenarioHandler.List)
			r.Get("/compare", cfg.ScenarioHandler.Compare)
			r.Get("/{id}", cfg.ScenarioHandler.Get)
			r.Get("/{id}/export", cfg.ScenarioHandler.Export)
			r.Delete("/{id}", cfg.ScenarioHandler.Delete)
		})
	})

	return r
}
