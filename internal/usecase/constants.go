package usecase

import "time"

const (
	// DefaultRepositoryTimeout bounds a single scenario store round trip.
	DefaultRepositoryTimeout = 5 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyProcessing is the stored value while the first request
	// for a key is still running.
	IdempotencyProcessing = "processing"

	// Failure reasons reported to MetricsRecorder.CalculationFailed.
	FailureInvalidInput = "invalid_input"
	FailureInternal     = "internal"
)
