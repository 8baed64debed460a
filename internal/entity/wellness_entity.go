package entity

import (
	"time"

	"github.com/google/uuid"
)

// The wellness entities below are read by the risk engine and the agent
// tools. Their full CRUD surface lives outside this service; the tool layer
// writes only check-ins and urge logs.

type CheckIn struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	MoodRating float64 // 0-10
	Note       string
	CreatedAt  time.Time
}

type JournalEntry struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Content   string
	MoodScore float64 // 0-10
	CreatedAt time.Time
}

type UrgeLog struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Intensity float64 // 0-10
	Trigger   string
	CreatedAt time.Time
}

type BiometricSample struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	StressLevel float64 // 0-10
	SleepHours  float64
	RecordedAt  time.Time
}

// RecoveryProfile anchors milestone computation.
type RecoveryProfile struct {
	UserId       uuid.UUID
	SobrietyDate *time.Time
	UpdatedAt    *time.Time
}
