package unitofwork

import (
	"context"

	"recovery-coach-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ConversationRepository() contract.ConversationRepository
	ConversationMessageRepository() contract.ConversationMessageRepository
	InterventionRepository() contract.InterventionRepository
	ObservabilityLogRepository() contract.ObservabilityLogRepository
	WellnessRepository() contract.WellnessRepository
}
