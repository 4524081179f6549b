package handler

import (
	"context"
	"net/http"

	"github.com/iho/goamort/internal/adapter/http/dto"
	"github.com/iho/goamort/internal/domain"
)

// CalculatorService defines the behavior needed by CalculatorHandler.
type CalculatorService interface {
	Calculate(ctx context.Context, in domain.LoanInputs) (*domain.Schedule, error)
	Compare(ctx context.Context, base, alternative domain.LoanInputs) (*domain.Comparison, error)
}

// CalculatorHandler handles ad-hoc schedule requests.
type CalculatorHandler struct {
	calculatorUC CalculatorService
}

// NewCalculatorHandler creates a new CalculatorHandler.
func NewCalculatorHandler(calculatorUC CalculatorService) *CalculatorHandler {
	return &CalculatorHandler{calculatorUC: calculatorUC}
}

// Calculate returns the schedule as JSON.
func (h *CalculatorHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	schedule, ok := h.schedule(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, dto.ScheduleFromDomain(schedule))
}

// Export returns the schedule as a CSV attachment.
func (h *CalculatorHandler) Export(w http.ResponseWriter, r *http.Request) {
	schedule, ok := h.schedule(w, r)
	if !ok {
		return
	}

	writeCSV(w, schedule)
}

// Compare returns the difference between two loans.
func (h *CalculatorHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req dto.CompareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	base, alt, err := req.ToDomain()
	if err != nil {
		writeError(w, mapDomainError(err), "invalid loan", err.Error())
		return
	}

	cmp, err := h.calculatorUC.Compare(r.Context(), base, alt)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compare loans", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ComparisonFromDomain(cmp))
}

func (h *CalculatorHandler) schedule(w http.ResponseWriter, r *http.Request) (*domain.Schedule, bool) {
	var req dto.LoanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return nil, false
	}

	in, err := req.ToDomain()
	if err != nil {
		writeError(w, mapDomainError(err), "invalid loan", err.Error())
		return nil, false
	}

	schedule, err := h.calculatorUC.Calculate(r.Context(), in)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to calculate schedule", err.Error())
		return nil, false
	}

	return schedule, true
}
