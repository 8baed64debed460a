package entity

import (
	"time"

	"github.com/google/uuid"
)

// ObservabilityLog is a write-once audit record for one chat turn or one
// risk evaluation. Persistence is best-effort: loss is tolerated and a
// write failure never blocks the user-visible path.
type ObservabilityLog struct {
	Id                    uuid.UUID
	UserId                uuid.UUID
	FunctionName          string
	InputSummary          string
	ResponseSummary       string
	ResponseTimeMs        int64
	ModelUsed             string
	ToolsCalled           []string
	ErrorMessage          *string
	CrisisDetected        bool
	InterventionTriggered bool
	InterventionType      *string
	CreatedAt             time.Time
}
