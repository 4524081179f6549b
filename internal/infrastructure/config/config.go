package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Database (empty URL disables saved scenarios)
	DatabaseURL      string        `env:"DATABASE_URL"`
	DatabaseMaxConns int           `env:"DATABASE_MAX_CONNS" envDefault:"10"`
	DatabaseMinConns int           `env:"DATABASE_MIN_CONNS" envDefault:"2"`
	DatabaseTimeout  time.Duration `env:"DATABASE_TIMEOUT"   envDefault:"30s"`
	MigrationsPath   string        `env:"MIGRATIONS_PATH"    envDefault:"internal/infrastructure/postgres/migrations"`
	RunMigrations    bool          `env:"RUN_MIGRATIONS"     envDefault:"true"`

	// Redis (empty URL disables idempotency keys)
	RedisURL string `env:"REDIS_URL"`

	// AMQP (empty URL logs events instead of publishing them)
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"goamort.events"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Idempotency
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	// Rate limiting (zero RPS disables it)
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads an optional .env file and then parses environment variables.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv files. Missing files are ignored.
func LoadFiles(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	for i, origin := range cfg.CORSAllowedOrigins {
		cfg.CORSAllowedOrigins[i] = strings.TrimSpace(origin)
	}

	return cfg, nil
}

// DatabaseEnabled reports whether a postgres URL is configured.
func (c *Config) DatabaseEnabled() bool {
	return c.DatabaseURL != ""
}

// RedisEnabled reports whether a redis URL is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

// AMQPEnabled reports whether a broker URL is configured.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}
