package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/goamort/internal/adapter/http/dto"
	"github.com/iho/goamort/internal/domain"
	"github.com/iho/goamort/internal/usecase"
)

// ScenarioService defines the behavior needed by ScenarioHandler.
type ScenarioService interface {
	SaveScenario(ctx context.Context, input usecase.SaveScenarioInput) (*domain.Scenario, *domain.Schedule, error)
	GetScenario(ctx context.Context, id string) (*domain.Scenario, *domain.Schedule, error)
	ListScenarios(ctx context.Context, input usecase.ListScenariosInput) ([]*domain.Scenario, error)
	DeleteScenario(ctx context.Context, id string) error
	CompareScenarios(ctx context.Context, baseID, alternativeID string) (*domain.Comparison, error)
}

// ScenarioHandler handles saved scenario requests.
type ScenarioHandler struct {
	scenarioUC ScenarioService
}

// NewScenarioHandler creates a new ScenarioHandler.
func NewScenarioHandler(scenarioUC ScenarioService) *ScenarioHandler {
	return &ScenarioHandler{scenarioUC: scenarioUC}
}

// Create saves a new scenario.
func (h *ScenarioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveScenarioRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, mapDomainError(err), "invalid loan", err.Error())
		return
	}

	scenario, schedule, err := h.scenarioUC.SaveScenario(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to save scenario", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ScenarioDetailFromDomain(scenario, schedule))
}

// Get retrieves a scenario with its schedule.
func (h *ScenarioHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing scenario ID", "")
		return
	}

	scenario, schedule, err := h.scenarioUC.GetScenario(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get scenario", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ScenarioDetailFromDomain(scenario, schedule))
}

// Export returns a scenario's schedule as CSV.
func (h *ScenarioHandler) Export(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing scenario ID", "")
		return
	}

	_, schedule, err := h.scenarioUC.GetScenario(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to export scenario", err.Error())
		return
	}

	writeCSV(w, schedule)
}

// List lists scenarios.
func (h *ScenarioHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := domain.ValidatePagination(
		parseIntQuery(r, "limit", 20),
		parseIntQuery(r, "offset", 0),
	)

	scenarios, err := h.scenarioUC.ListScenarios(r.Context(), usecase.ListScenariosInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list scenarios", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListScenariosResponse{
		Scenarios: dto.ScenariosFromDomain(scenarios),
		Limit:     limit,
		Offset:    offset,
	})
}

// Delete removes a scenario.
func (h *ScenarioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing scenario ID", "")
		return
	}

	if err := h.scenarioUC.DeleteScenario(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete scenario", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Compare compares two saved scenarios given as ?base=&alternative=.
func (h *ScenarioHandler) Compare(w http.ResponseWriter, r *http.Request) {
	baseID := r.URL.Query().Get("base")
	altID := r.URL.Query().Get("alternative")
	if baseID == "" || altID == "" {
		writeError(w, http.StatusBadRequest, "missing scenario IDs", "base and alternative are required")
		return
	}

	cmp, err := h.scenarioUC.CompareScenarios(r.Context(), baseID, altID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compare scenarios", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ComparisonFromDomain(cmp))
}
