package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ObservabilityLog struct {
	Id                    uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId                uuid.UUID      `gorm:"type:uuid;not null;index:idx_obs_logs_user_created,priority:1"`
	FunctionName          string         `gorm:"type:varchar(50);not null;index"`
	InputSummary          string         `gorm:"type:text"`
	ResponseSummary       string         `gorm:"type:text"`
	ResponseTimeMs        int64          `gorm:"not null"`
	ModelUsed             string         `gorm:"type:varchar(100)"`
	ToolsCalled           datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	ErrorMessage          *string        `gorm:"type:text"`
	CrisisDetected        bool           `gorm:"default:false"`
	InterventionTriggered bool           `gorm:"default:false"`
	InterventionType      *string        `gorm:"type:varchar(50)"`
	CreatedAt             time.Time      `gorm:"default:CURRENT_TIMESTAMP;index:idx_obs_logs_user_created,priority:2"`
}

func (ObservabilityLog) TableName() string {
	return "observability_logs"
}
