package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recovery-coach-be/internal/entity"
	"recovery-coach-be/internal/mapper"
	"recovery-coach-be/internal/model"
	"recovery-coach-be/internal/repository/contract"
	"recovery-coach-be/internal/repository/specification"
)

type InterventionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.InterventionMapper
}

func NewInterventionRepository(db *gorm.DB) contract.InterventionRepository {
	return &InterventionRepositoryImpl{
		db:     db,
		mapper: mapper.NewInterventionMapper(),
	}
}

func (r *InterventionRepositoryImpl) CreateIfNoneOpen(ctx context.Context, intervention *entity.Intervention) (bool, *entity.Intervention, error) {
	m := r.mapper.ToModel(intervention)

	// ON CONFLICT DO NOTHING against the one-open partial unique index.
	// RowsAffected == 0 means another unacknowledged row already exists.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(m)
	if result.Error != nil {
		return false, nil, result.Error
	}

	if result.RowsAffected > 0 {
		*intervention = *r.mapper.ToEntity(m)
		return true, intervention, nil
	}

	existing, err := r.FindOpenByUser(ctx, intervention.UserId)
	if err != nil {
		return false, nil, err
	}
	if existing == nil {
		// The open row was acknowledged between our insert and this read.
		// Treat it as lost to the race; the next risk run recreates it.
		return false, nil, nil
	}
	return false, existing, nil
}

func (r *InterventionRepositoryImpl) Acknowledge(ctx context.Context, id uuid.UUID, actionTaken *string, wasHelpful *bool) error {
	updates := map[string]interface{}{
		"was_acknowledged": true,
		"acknowledged_at":  gorm.Expr("CURRENT_TIMESTAMP"),
	}
	if actionTaken != nil {
		updates["action_taken"] = *actionTaken
	}
	if wasHelpful != nil {
		updates["was_helpful"] = *wasHelpful
	}

	// The was_acknowledged guard makes repeated acknowledgments no-ops and
	// keeps acknowledged_at at its first value.
	return r.db.WithContext(ctx).
		Model(&model.Intervention{}).
		Where("id = ? AND was_acknowledged = ?", id, false).
		Updates(updates).Error
}

func (r *InterventionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Intervention, error) {
	var m model.Intervention
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *InterventionRepositoryImpl) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*entity.Intervention, error) {
	var m model.Intervention
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND was_acknowledged = ?", userID, false).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
