package domain

import "time"

// Event types
const (
	EventTypeScenarioSaved   = "scenario.saved"
	EventTypeScenarioDeleted = "scenario.deleted"
)

// ScenarioEvent is published when a saved scenario changes.
type ScenarioEvent struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	ScenarioID string         `json:"scenario_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}
