package contract

import (
	"context"

	"recovery-coach-be/internal/entity"
)

// ObservabilityLogRepository is write-only from this service's point of
// view; the dashboard that reads aggregates lives elsewhere.
type ObservabilityLogRepository interface {
	Create(ctx context.Context, log *entity.ObservabilityLog) error
}
