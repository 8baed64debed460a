package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"recovery-coach-be/internal/entity"
	"recovery-coach-be/internal/pkg/logger"
	"recovery-coach-be/internal/repository/unitofwork"
)

// IObservabilityService records per-invocation audit rows. Every method is
// best-effort: a failed write is logged and swallowed so observability can
// never break the path it observes.
type IObservabilityService interface {
	LogInvocation(ctx context.Context, log *entity.ObservabilityLog)
}

type observabilityService struct {
	uowFactory unitofwork.RepositoryFactory
	sysLogger  logger.ILogger
}

func NewObservabilityService(uowFactory unitofwork.RepositoryFactory, sysLogger logger.ILogger) IObservabilityService {
	return &observabilityService{
		uowFactory: uowFactory,
		sysLogger:  sysLogger,
	}
}

func (s *observabilityService) LogInvocation(ctx context.Context, log *entity.ObservabilityLog) {
	if log.Id == uuid.Nil {
		log.Id = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ObservabilityLogRepository().Create(ctx, log); err != nil {
		s.sysLogger.Warn("observability", "failed to persist invocation log", map[string]interface{}{
			"function": log.FunctionName,
			"user_id":  log.UserId.String(),
			"error":    err.Error(),
		})
	}
}
