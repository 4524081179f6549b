package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/iho/goamort/internal/domain"
	"github.com/iho/goamort/internal/usecase"
	"github.com/iho/goamort/internal/usecase/mocks"
)

type scenarioMocks struct {
	repo      *mocks.MockScenarioRepository
	idGen     *mocks.MockIDGenerator
	retrier   *mocks.MockRetrier
	publisher *mocks.MockEventPublisher
}

func newScenarioUseCase(t *testing.T) (*usecase.ScenarioUseCase, scenarioMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := scenarioMocks{
		repo:      mocks.NewMockScenarioRepository(ctrl),
		idGen:     mocks.NewMockIDGenerator(ctrl),
		retrier:   mocks.NewMockRetrier(ctrl),
		publisher: mocks.NewMockEventPublisher(ctrl),
	}

	uc := usecase.NewScenarioUseCase(usecase.ScenarioDeps{
		Repo:       m.repo,
		Calculator: usecase.NewCalculatorUseCase(nil, zerolog.Nop()),
		IDGen:      m.idGen,
		Retrier:    m.retrier,
		Publisher:  m.publisher,
		Logger:     zerolog.Nop(),
	})

	return uc, m
}

func runOperation(ctx context.Context, op func() error) error {
	return op()
}

func TestScenarioUseCase_SaveScenario(t *testing.T) {
	uc, m := newScenarioUseCase(t)

	gomock.InOrder(
		m.idGen.EXPECT().Generate().Return("scn-1"),
		m.idGen.EXPECT().Generate().Return("evt-1"),
	)
	m.retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(runOperation)

	var stored *domain.Scenario
	m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, s *domain.Scenario) error {
		stored = s
		return nil
	})

	var published *domain.ScenarioEvent
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, e *domain.ScenarioEvent) error {
		published = e
		return nil
	})

	in := loanInputs(120000, "6", 12)
	in.Frequency = "Monthly"
	in.Currency = "usd"

	scenario, schedule, err := uc.SaveScenario(context.Background(), usecase.SaveScenarioInput{
		Name:   "  one year loan ",
		Inputs: in,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if scenario.ID != "scn-1" || scenario.Name != "one year loan" {
		t.Errorf("unexpected scenario %+v", scenario)
	}
	if stored != scenario {
		t.Errorf("expected the returned scenario to be stored")
	}
	if scenario.Inputs.Frequency != domain.FrequencyMonthly || scenario.Inputs.Currency != "USD" {
		t.Errorf("expected normalized inputs, got %q %q", scenario.Inputs.Frequency, scenario.Inputs.Currency)
	}
	if len(schedule.Rows) != 12 {
		t.Errorf("expected 12 rows, got %d", len(schedule.Rows))
	}

	if published == nil {
		t.Fatal("expected an event to be published")
	}
	if published.ID != "evt-1" || published.Type != domain.EventTypeScenarioSaved || published.ScenarioID != "scn-1" {
		t.Errorf("unexpected event %+v", published)
	}
	if published.Payload["periodic_payment"] != "10327.97" {
		t.Errorf("unexpected payload %+v", published.Payload)
	}
}

func TestScenarioUseCase_SaveScenario_InvalidName(t *testing.T) {
	uc, _ := newScenarioUseCase(t)

	_, _, err := uc.SaveScenario(context.Background(), usecase.SaveScenarioInput{
		Name:   " ",
		Inputs: loanInputs(1000, "5", 12),
	})
	if !errors.Is(err, domain.ErrInvalidScenarioName) {
		t.Fatalf("expected ErrInvalidScenarioName, got %v", err)
	}
}

func TestScenarioUseCase_SaveScenario_InvalidInputs(t *testing.T) {
	uc, _ := newScenarioUseCase(t)

	_, _, err := uc.SaveScenario(context.Background(), usecase.SaveScenarioInput{
		Name:   "broken",
		Inputs: loanInputs(0, "5", 12),
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestScenarioUseCase_SaveScenario_RepositoryError(t *testing.T) {
	uc, m := newScenarioUseCase(t)

	dbErr := errors.New("connection refused")
	m.idGen.EXPECT().Generate().Return("scn-1")
	m.retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(runOperation)
	m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dbErr)

	_, _, err := uc.SaveScenario(context.Background(), usecase.SaveScenarioInput{
		Name:   "loan",
		Inputs: loanInputs(1000, "5", 12),
	})
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestScenarioUseCase_SaveScenario_PublishFailureIsNotFatal(t *testing.T) {
	uc, m := newScenarioUseCase(t)

	m.idGen.EXPECT().Generate().Return("id").Times(2)
	m.retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(runOperation)
	m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	if _, _, err := uc.SaveScenario(context.Background(), usecase.SaveScenarioInput{
		Name:   "loan",
		Inputs: loanInputs(1000, "5", 12),
	}); err != nil {
		t.Fatalf("expected publish failure to be swallowed, got %v", err)
	}
}

func TestScenarioUseCase_GetScenario(t *testing.T) {
	uc, m := newScenarioUseCase(t)

	m.repo.EXPECT().GetByID(gomock.Any(), "scn-1").Return(&domain.Scenario{
		ID:     "scn-1",
		Name:   "loan",
		Inputs: loanInputs(1200, "0", 12),
	}, nil)

	scenario, schedule, err := uc.GetScenario(context.Background(), "scn-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scenario.ID != "scn-1" {
		t.Errorf("expected scn-1, got %s", scenario.ID)
	}
	if got := schedule.Summary.ScheduledPayment.String(); got != "100" {
		t.Errorf("expected payment 100, got %s", got)
	}
}

func TestScenarioUseCase_GetScenario_NotFound(t *testing.T) {
	uc, m := newScenarioUseCase(t)

	m.repo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, domain.ErrScenarioNotFound)

	if _, _, err := uc.GetScenario(context.Background(), "missing"); !errors.Is(err, domain.ErrScenarioNotFound) {
		t.Fatalf("expected ErrScenarioNotFound, got %v", err)
	}
}

func TestScenarioUseCase_ListScenarios(t *testing.T) {
	tests := []struct {
		name       string
		input      usecase.ListScenariosInput
		wantLimit  int
		wantOffset int
	}{
		{"defaults", usecase.ListScenariosInput{}, 20, 0},
		{"capped", usecase.ListScenariosInput{Limit: 1000, Offset: 5}, 100, 5},
		{"passthrough", usecase.ListScenariosInput{Limit: 10, Offset: 30}, 10, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, m := newScenarioUseCase(t)

			m.repo.EXPECT().List(gomock.Any(), tt.wantLimit, tt.wantOffset).Return([]*domain.Scenario{{ID: "a"}, {ID: "b"}}, nil)

			scenarios, err := uc.ListScenarios(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(scenarios) != 2 {
				t.Errorf("expected 2 scenarios, got %d", len(scenarios))
			}
		})
	}
}

func TestScenarioUseCase_DeleteScenario(t *testing.T) {
	uc, m := newScenarioUseCase(t)

	m.retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(runOperation)
	m.repo.EXPECT().Delete(gomock.Any(), "scn-1").Return(nil)
	m.idGen.EXPECT().Generate().Return("evt-1")
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, e *domain.ScenarioEvent) error {
		if e.Type != domain.EventTypeScenarioDeleted || e.ScenarioID != "scn-1" {
			t.Errorf("unexpected event %+v", e)
		}
		return nil
	})

	if err := uc.DeleteScenario(context.Background(), "scn-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScenarioUseCase_DeleteScenario_NotFound(t *testing.T) {
	uc, m := newScenarioUseCase(t)

	m.retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(runOperation)
	m.repo.EXPECT().Delete(gomock.Any(), "missing").Return(domain.ErrScenarioNotFound)

	if err := uc.DeleteScenario(context.Background(), "missing"); !errors.Is(err, domain.ErrScenarioNotFound) {
		t.Fatalf("expected ErrScenarioNotFound, got %v", err)
	}
}

func TestScenarioUseCase_CompareScenarios(t *testing.T) {
	uc, m := newScenarioUseCase(t)

	m.repo.EXPECT().GetByID(gomock.Any(), "base").Return(&domain.Scenario{ID: "base", Inputs: loanInputs(100000, "8", 360)}, nil)
	m.repo.EXPECT().GetByID(gomock.Any(), "alt").Return(&domain.Scenario{ID: "alt", Inputs: loanInputs(100000, "6", 360)}, nil)

	cmp, err := uc.CompareScenarios(context.Background(), "base", "alt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cmp.TotalInterestDelta.IsNegative() {
		t.Errorf("expected lower rate to reduce interest, got %s", cmp.TotalInterestDelta)
	}
	if cmp.PayoffPeriodsDelta != 0 {
		t.Errorf("expected equal payoff periods, got %d", cmp.PayoffPeriodsDelta)
	}
}

func TestScenarioUseCase_CompareScenarios_MissingAlternative(t *testing.T) {
	uc, m := newScenarioUseCase(t)

	m.repo.EXPECT().GetByID(gomock.Any(), "base").Return(&domain.Scenario{ID: "base", Inputs: loanInputs(1000, "8", 12)}, nil)
	m.repo.EXPECT().GetByID(gomock.Any(), "alt").Return(nil, domain.ErrScenarioNotFound)

	if _, err := uc.CompareScenarios(context.Background(), "base", "alt"); !errors.Is(err, domain.ErrScenarioNotFound) {
		t.Fatalf("expected ErrScenarioNotFound, got %v", err)
	}
}
