package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goamort/internal/domain"
)

// ScenarioRepository defines data access for saved scenarios.
type ScenarioRepository interface {
	Create(ctx context.Context, scenario *domain.Scenario) error
	GetByID(ctx context.Context, id string) (*domain.Scenario, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Scenario, error)
	Delete(ctx context.Context, id string) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation while it fails with a transient error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// EventPublisher delivers scenario events to external systems.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.ScenarioEvent) error
}

// MetricsRecorder receives calculation and scenario measurements.
type MetricsRecorder interface {
	ObserveCalculation(duration time.Duration, periods int, principal decimal.Decimal)
	CalculationFailed(reason string)
	ScenarioSaved()
	ScenarioDeleted()
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete successfully.
	Release(ctx context.Context, key string) error
}
