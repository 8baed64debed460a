package contract

import (
	"context"
	"time"

	"github.com/google/uuid"

	"recovery-coach-be/internal/entity"
)

// WellnessRepository is the data surface the risk engine and the agent
// tools share. Reads are windowed aggregates; the only writes are the two
// the action_write lane exposes.
type WellnessRepository interface {
	LatestCheckIn(ctx context.Context, userID uuid.UUID) (*entity.CheckIn, error)
	LatestJournalEntry(ctx context.Context, userID uuid.UUID) (*entity.JournalEntry, error)
	RecentCheckIns(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]*entity.CheckIn, error)
	RecentJournalEntries(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]*entity.JournalEntry, error)

	// RecentMoodScores returns check-in mood ratings newest first.
	RecentMoodScores(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]float64, error)

	// UrgeStats returns the average intensity and sample count since the
	// given instant; count 0 means no data, not a zero average.
	UrgeStats(ctx context.Context, userID uuid.UUID, since time.Time) (avg float64, count int, err error)

	// BiometricStats averages stress and sleep since the given instant.
	BiometricStats(ctx context.Context, userID uuid.UUID, since time.Time) (avgStress, avgSleep float64, count int, err error)

	Profile(ctx context.Context, userID uuid.UUID) (*entity.RecoveryProfile, error)

	CreateCheckIn(ctx context.Context, checkIn *entity.CheckIn) error
	CreateUrgeLog(ctx context.Context, urge *entity.UrgeLog) error
}
