package entity

import (
	"time"

	"github.com/google/uuid"
)

// Intervention is created exclusively by the risk engine and mutated exactly
// once, when acknowledgment flips WasAcknowledged false to true. At most one
// unacknowledged intervention exists per user, enforced by a partial unique
// index at the persistence layer.
type Intervention struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	TriggerType      string
	RiskScore        float64
	Message          string
	SuggestedActions []string
	WasAcknowledged  bool
	AcknowledgedAt   *time.Time
	ActionTaken      *string
	WasHelpful       *bool
	CreatedAt        time.Time
}
