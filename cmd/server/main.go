package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/goamort/internal/adapter/http"
	"github.com/iho/goamort/internal/adapter/http/handler"
	"github.com/iho/goamort/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/goamort/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/goamort/internal/adapter/repository/redis"
	"github.com/iho/goamort/internal/infrastructure/config"
	"github.com/iho/goamort/internal/infrastructure/eventpublisher"
	"github.com/iho/goamort/internal/infrastructure/logger"
	"github.com/iho/goamort/internal/infrastructure/metrics"
	"github.com/iho/goamort/internal/infrastructure/postgres"
	"github.com/iho/goamort/internal/infrastructure/redis"
	"github.com/iho/goamort/internal/usecase"
)

const limiterCleanupInterval = 5 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger, prometheus.DefaultRegisterer, nil); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}

	appLogger.Info().Msg("server stopped")
}

// run wires the service and blocks until ctx is cancelled or a component
// fails. If ready is non-nil it receives the bound listen address.
func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger, reg prometheus.Registerer, ready chan<- string) error {
	recorder := metrics.New(reg)
	calculatorUC := usecase.NewCalculatorUseCase(recorder, appLogger)

	var checks []handler.Check
	routerCfg := httpAdapter.RouterConfig{
		CalculatorHandler:  handler.NewCalculatorHandler(calculatorUC),
		IdempotencyTTL:     cfg.IdempotencyTTL,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:             appLogger,
	}

	// Event delivery
	var sink eventpublisher.Publisher = eventpublisher.NewLogPublisher(appLogger)
	if cfg.AMQPEnabled() {
		amqpPublisher, err := eventpublisher.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, appLogger)
		if err != nil {
			return fmt.Errorf("failed to connect to amqp: %w", err)
		}
		defer amqpPublisher.Close()
		sink = amqpPublisher
		appLogger.Info().Str("exchange", cfg.AMQPExchange).Msg("connected to amqp")
	}
	dispatcher := eventpublisher.NewDispatcher(eventpublisher.Config{
		Sink:   sink,
		Logger: appLogger,
	})

	// Saved scenarios need PostgreSQL
	if cfg.DatabaseEnabled() {
		pool, err := connectPostgres(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()
		checks = append(checks, handler.Check{Name: "postgres", Ping: pool.Ping})

		scenarioUC := usecase.NewScenarioUseCase(usecase.ScenarioDeps{
			Repo:       postgresRepo.NewScenarioRepository(pool),
			Calculator: calculatorUC,
			IDGen:      postgresRepo.NewULIDGenerator(),
			Retrier:    postgresRepo.NewRetrier(appLogger),
			Publisher:  dispatcher,
			Metrics:    recorder,
			Logger:     appLogger,
		})
		routerCfg.ScenarioHandler = handler.NewScenarioHandler(scenarioUC)
	} else {
		appLogger.Warn().Msg("DATABASE_URL not set, scenario endpoints disabled")
	}

	// Idempotency keys need Redis
	if cfg.RedisEnabled() {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
		appLogger.Info().Msg("connected to redis")

		checks = append(checks, redisCheck(redisClient))
		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		routerCfg.RateLimiter = limiter
	}
	routerCfg.HealthHandler = handler.NewHealthHandler(checks...)

	server := &http.Server{
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.HTTPPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	if ready != nil {
		ready <- listener.Addr().String()
	}

	g, gctx := errgroup.WithContext(ctx)

	// The dispatcher outlives gctx so events from requests that finish
	// during Shutdown are still delivered.
	dispatchCtx, stopDispatch := context.WithCancel(context.WithoutCancel(ctx))
	defer stopDispatch()

	g.Go(func() error {
		appLogger.Info().Str("addr", listener.Addr().String()).Msg("starting server")
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := dispatcher.Start(dispatchCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if limiter != nil {
		g.Go(func() error {
			return limiter.Run(gctx, limiterCleanupInterval)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info().Msg("shutting down server...")

		return gracefulShutdown(server, cfg.HTTPShutdownTimeout, stopDispatch)
	})

	return g.Wait()
}

// gracefulShutdown waits for in-flight requests, then runs after.
func gracefulShutdown(server *http.Server, timeout time.Duration, after func()) error {
	defer after()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func connectPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	log.Info().Msg("connected to postgres")

	return pool, nil
}

func redisCheck(client goredis.UniversalClient) handler.Check {
	return handler.Check{
		Name: "redis",
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}
