package dto

import (
	"time"

	"github.com/google/uuid"
)

type RiskSignalResponse struct {
	Type        string  `json:"type"`
	Severity    string  `json:"severity"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
}

type InterventionResponse struct {
	Id               uuid.UUID `json:"id"`
	TriggerType      string    `json:"trigger_type"`
	RiskScore        float64   `json:"risk_score"`
	Message          string    `json:"message"`
	SuggestedActions []string  `json:"suggested_actions"`
	WasAcknowledged  bool      `json:"was_acknowledged"`
	CreatedAt        time.Time `json:"created_at"`
}

type RiskCheckResponse struct {
	RiskScore         float64               `json:"risk_score"`
	NeedsIntervention bool                  `json:"needs_intervention"`
	Signals           []RiskSignalResponse  `json:"signals"`
	Intervention      *InterventionResponse `json:"intervention,omitempty"`
	Debounced         bool                  `json:"debounced"`
}

type AcknowledgeInterventionRequest struct {
	ActionTaken *string `json:"action_taken" validate:"omitempty,max=200"`
	WasHelpful  *bool   `json:"was_helpful"`
}
