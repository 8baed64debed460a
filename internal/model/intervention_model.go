package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Intervention rows carry a partial unique index on (user_id) restricted to
// unacknowledged rows: the database, not application code, guarantees at
// most one open intervention per user even under concurrent risk runs.
type Intervention struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId           uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_interventions_one_open,where:was_acknowledged = false"`
	TriggerType      string         `gorm:"type:varchar(50);not null"`
	RiskScore        float64        `gorm:"type:numeric(4,3);not null"`
	Message          string         `gorm:"type:text;not null"`
	SuggestedActions datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	WasAcknowledged  bool           `gorm:"not null;default:false"`
	AcknowledgedAt   *time.Time
	ActionTaken      *string `gorm:"type:text"`
	WasHelpful       *bool
	CreatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP;index"`
}

func (Intervention) TableName() string {
	return "interventions"
}
