package contract

import (
	"context"

	"github.com/google/uuid"

	"recovery-coach-be/internal/entity"
	"recovery-coach-be/internal/repository/specification"
)

type InterventionRepository interface {
	// CreateIfNoneOpen atomically inserts the intervention unless the user
	// already has an unacknowledged one. When the insert is skipped by the
	// uniqueness constraint, the existing open intervention is returned
	// with created=false. This closes the check-then-act race: two
	// concurrent risk runs can both attempt the insert, only one wins.
	CreateIfNoneOpen(ctx context.Context, intervention *entity.Intervention) (created bool, existing *entity.Intervention, err error)

	// Acknowledge transitions was_acknowledged false->true exactly once.
	// Acknowledging an already-acknowledged intervention is a no-op.
	Acknowledge(ctx context.Context, id uuid.UUID, actionTaken *string, wasHelpful *bool) error

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Intervention, error)
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*entity.Intervention, error)
}
