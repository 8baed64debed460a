package implementation

import (
	"context"

	"gorm.io/gorm"

	"recovery-coach-be/internal/entity"
	"recovery-coach-be/internal/mapper"
	"recovery-coach-be/internal/repository/contract"
)

type ObservabilityLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ObservabilityMapper
}

func NewObservabilityLogRepository(db *gorm.DB) contract.ObservabilityLogRepository {
	return &ObservabilityLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewObservabilityMapper(),
	}
}

func (r *ObservabilityLogRepositoryImpl) Create(ctx context.Context, log *entity.ObservabilityLog) error {
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}
