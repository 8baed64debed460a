package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recovery-coach-be/internal/entity"
	"recovery-coach-be/internal/mapper"
	"recovery-coach-be/internal/model"
	"recovery-coach-be/internal/repository/contract"
)

type WellnessRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WellnessMapper
}

func NewWellnessRepository(db *gorm.DB) contract.WellnessRepository {
	return &WellnessRepositoryImpl{
		db:     db,
		mapper: mapper.NewWellnessMapper(),
	}
}

func (r *WellnessRepositoryImpl) LatestCheckIn(ctx context.Context, userID uuid.UUID) (*entity.CheckIn, error) {
	var m model.CheckIn
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.CheckInToEntity(&m), nil
}

func (r *WellnessRepositoryImpl) LatestJournalEntry(ctx context.Context, userID uuid.UUID) (*entity.JournalEntry, error) {
	var m model.JournalEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.JournalToEntity(&m), nil
}

func (r *WellnessRepositoryImpl) RecentCheckIns(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]*entity.CheckIn, error) {
	var models []*model.CheckIn
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.CheckIn, len(models))
	for i, m := range models {
		entities[i] = r.mapper.CheckInToEntity(m)
	}
	return entities, nil
}

func (r *WellnessRepositoryImpl) RecentJournalEntries(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]*entity.JournalEntry, error) {
	var models []*model.JournalEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.JournalEntry, len(models))
	for i, m := range models {
		entities[i] = r.mapper.JournalToEntity(m)
	}
	return entities, nil
}

func (r *WellnessRepositoryImpl) RecentMoodScores(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]float64, error) {
	var scores []float64
	err := r.db.WithContext(ctx).
		Model(&model.CheckIn{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Limit(limit).
		Pluck("mood_rating", &scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *WellnessRepositoryImpl) UrgeStats(ctx context.Context, userID uuid.UUID, since time.Time) (float64, int, error) {
	var row struct {
		Avg   float64
		Count int
	}
	err := r.db.WithContext(ctx).
		Model(&model.UrgeLog{}).
		Select("COALESCE(AVG(intensity), 0) AS avg, COUNT(*) AS count").
		Where("user_id = ? AND created_at >= ?", userID, since).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Avg, row.Count, nil
}

func (r *WellnessRepositoryImpl) BiometricStats(ctx context.Context, userID uuid.UUID, since time.Time) (float64, float64, int, error) {
	var row struct {
		AvgStress float64
		AvgSleep  float64
		Count     int
	}
	err := r.db.WithContext(ctx).
		Model(&model.BiometricSample{}).
		Select("COALESCE(AVG(stress_level), 0) AS avg_stress, COALESCE(AVG(sleep_hours), 0) AS avg_sleep, COUNT(*) AS count").
		Where("user_id = ? AND recorded_at >= ?", userID, since).
		Scan(&row).Error
	if err != nil {
		return 0, 0, 0, err
	}
	return row.AvgStress, row.AvgSleep, row.Count, nil
}

func (r *WellnessRepositoryImpl) Profile(ctx context.Context, userID uuid.UUID) (*entity.RecoveryProfile, error) {
	var m model.RecoveryProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ProfileToEntity(&m), nil
}

func (r *WellnessRepositoryImpl) CreateCheckIn(ctx context.Context, checkIn *entity.CheckIn) error {
	m := r.mapper.CheckInToModel(checkIn)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*checkIn = *r.mapper.CheckInToEntity(m)
	return nil
}

func (r *WellnessRepositoryImpl) CreateUrgeLog(ctx context.Context, urge *entity.UrgeLog) error {
	m := r.mapper.UrgeLogToModel(urge)
	return r.db.WithContext(ctx).Create(m).Error
}
