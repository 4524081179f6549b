package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/goamort/internal/amortization"
	"github.com/iho/goamort/internal/domain"
)

// CalculatorUseCase runs the amortization engine for API callers.
type CalculatorUseCase struct {
	metrics MetricsRecorder
	logger  zerolog.Logger
}

// NewCalculatorUseCase creates a new CalculatorUseCase. A nil metrics
// recorder discards measurements.
func NewCalculatorUseCase(metrics MetricsRecorder, logger zerolog.Logger) *CalculatorUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &CalculatorUseCase{
		metrics: metrics,
		logger:  logger.With().Str("component", "calculator").Logger(),
	}
}

// Calculate computes the schedule for in.
func (uc *CalculatorUseCase) Calculate(ctx context.Context, in domain.LoanInputs) (*domain.Schedule, error) {
	start := time.Now()

	schedule, err := amortization.Compute(in)
	if err != nil {
		reason := FailureInternal
		if errors.Is(err, domain.ErrInvalidInput) {
			reason = FailureInvalidInput
		}
		uc.metrics.CalculationFailed(reason)
		uc.logger.Debug().Err(err).Str("reason", reason).Msg("calculation rejected")
		return nil, err
	}

	uc.metrics.ObserveCalculation(time.Since(start), len(schedule.Rows), schedule.Inputs.Principal)
	uc.logger.Debug().
		Str("principal", schedule.Inputs.Principal.String()).
		Int("periods", schedule.Summary.Periods).
		Int("payoff_periods", schedule.Summary.PayoffPeriods).
		Msg("schedule computed")

	return schedule, nil
}

// Compare computes both schedules and reports alternative minus base.
func (uc *CalculatorUseCase) Compare(ctx context.Context, base, alternative domain.LoanInputs) (*domain.Comparison, error) {
	baseSchedule, err := uc.Calculate(ctx, base)
	if err != nil {
		return nil, err
	}

	altSchedule, err := uc.Calculate(ctx, alternative)
	if err != nil {
		return nil, err
	}

	return domain.Compare(baseSchedule.Summary, altSchedule.Summary), nil
}

type nopMetrics struct{}

func (nopMetrics) ObserveCalculation(time.Duration, int, decimal.Decimal) {}
func (nopMetrics) CalculationFailed(string)                               {}
func (nopMetrics) ScenarioSaved()                                         {}
func (nopMetrics) ScenarioDeleted()                                       {}
