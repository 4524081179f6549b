package domain

import "errors"

var (
	// Calculation errors
	ErrInvalidInput = errors.New("invalid loan input")

	// Scenario errors
	ErrScenarioNotFound    = errors.New("scenario not found")
	ErrInvalidScenarioName = errors.New("invalid scenario name")
)
