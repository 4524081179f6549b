package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goamort/internal/domain"
)

// ScenarioUseCase handles saved scenario business logic.
type ScenarioUseCase struct {
	repo       ScenarioRepository
	calculator *CalculatorUseCase
	idGen      IDGenerator
	retrier    Retrier
	publisher  EventPublisher
	metrics    MetricsRecorder
	logger     zerolog.Logger
}

// ScenarioDeps groups the collaborators of ScenarioUseCase.
// Retrier, Publisher and Metrics are optional.
type ScenarioDeps struct {
	Repo       ScenarioRepository
	Calculator *CalculatorUseCase
	IDGen      IDGenerator
	Retrier    Retrier
	Publisher  EventPublisher
	Metrics    MetricsRecorder
	Logger     zerolog.Logger
}

// NewScenarioUseCase creates a new ScenarioUseCase.
func NewScenarioUseCase(deps ScenarioDeps) *ScenarioUseCase {
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	return &ScenarioUseCase{
		repo:       deps.Repo,
		calculator: deps.Calculator,
		idGen:      deps.IDGen,
		retrier:    deps.Retrier,
		publisher:  deps.Publisher,
		metrics:    deps.Metrics,
		logger:     deps.Logger.With().Str("component", "scenarios").Logger(),
	}
}

// SaveScenarioInput represents input for saving a scenario.
type SaveScenarioInput struct {
	Name   string
	Inputs domain.LoanInputs
}

// SaveScenario validates, stores and announces a new scenario.
func (uc *ScenarioUseCase) SaveScenario(ctx context.Context, input SaveScenarioInput) (*domain.Scenario, *domain.Schedule, error) {
	if err := domain.ValidateScenarioName(input.Name); err != nil {
		return nil, nil, err
	}

	schedule, err := uc.calculator.Calculate(ctx, input.Inputs)
	if err != nil {
		return nil, nil, err
	}

	scenario := &domain.Scenario{
		ID:        uc.idGen.Generate(),
		Name:      strings.TrimSpace(input.Name),
		Inputs:    schedule.Inputs,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.withRetry(ctx, func() error {
		return uc.repo.Create(ctx, scenario)
	}); err != nil {
		return nil, nil, err
	}

	uc.metrics.ScenarioSaved()
	uc.logger.Info().Str("scenario_id", scenario.ID).Str("name", scenario.Name).Msg("scenario saved")

	uc.publish(ctx, domain.EventTypeScenarioSaved, scenario.ID, map[string]any{
		"name":             scenario.Name,
		"principal":        scenario.Inputs.Principal.String(),
		"periodic_payment": schedule.Summary.PeriodicPayment.StringFixed(2),
		"total_cost":       schedule.Summary.TotalCost.StringFixed(2),
	})

	return scenario, schedule, nil
}

// GetScenario loads a scenario and recomputes its schedule.
func (uc *ScenarioUseCase) GetScenario(ctx context.Context, id string) (*domain.Scenario, *domain.Schedule, error) {
	scenario, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	schedule, err := uc.calculator.Calculate(ctx, scenario.Inputs)
	if err != nil {
		return nil, nil, err
	}

	return scenario, schedule, nil
}

// ListScenariosInput represents input for listing scenarios.
type ListScenariosInput struct {
	Limit  int
	Offset int
}

// ListScenarios lists scenarios with pagination.
func (uc *ScenarioUseCase) ListScenarios(ctx context.Context, input ListScenariosInput) ([]*domain.Scenario, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.repo.List(ctx, limit, offset)
}

// DeleteScenario removes a scenario.
func (uc *ScenarioUseCase) DeleteScenario(ctx context.Context, id string) error {
	if err := uc.withRetry(ctx, func() error {
		return uc.repo.Delete(ctx, id)
	}); err != nil {
		return err
	}

	uc.metrics.ScenarioDeleted()
	uc.logger.Info().Str("scenario_id", id).Msg("scenario deleted")
	uc.publish(ctx, domain.EventTypeScenarioDeleted, id, nil)

	return nil
}

// CompareScenarios compares two saved scenarios, alternative minus base.
func (uc *ScenarioUseCase) CompareScenarios(ctx context.Context, baseID, alternativeID string) (*domain.Comparison, error) {
	base, err := uc.repo.GetByID(ctx, baseID)
	if err != nil {
		return nil, err
	}

	alt, err := uc.repo.GetByID(ctx, alternativeID)
	if err != nil {
		return nil, err
	}

	return uc.calculator.Compare(ctx, base.Inputs, alt.Inputs)
}

func (uc *ScenarioUseCase) withRetry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}
	return uc.retrier.Retry(ctx, op)
}

// publish is best effort: the scenario change is already committed.
func (uc *ScenarioUseCase) publish(ctx context.Context, eventType, scenarioID string, payload map[string]any) {
	if uc.publisher == nil {
		return
	}

	event := &domain.ScenarioEvent{
		ID:         uc.idGen.Generate(),
		Type:       eventType,
		ScenarioID: scenarioID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error().Err(err).
			Str("event_type", eventType).
			Str("scenario_id", scenarioID).
			Msg("failed to publish scenario event")
	}
}
