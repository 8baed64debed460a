package model

import (
	"time"

	"github.com/google/uuid"
)

type CheckIn struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;index:idx_checkins_user_created,priority:1"`
	MoodRating float64   `gorm:"type:numeric(4,2)"`
	Note       string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_checkins_user_created,priority:2"`
}

func (CheckIn) TableName() string {
	return "check_ins"
}

type JournalEntry struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index:idx_journals_user_created,priority:1"`
	Content   string    `gorm:"type:text;not null"`
	MoodScore float64   `gorm:"type:numeric(4,2)"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_journals_user_created,priority:2"`
}

func (JournalEntry) TableName() string {
	return "journal_entries"
}

type UrgeLog struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index:idx_urges_user_created,priority:1"`
	Intensity float64   `gorm:"type:numeric(4,2);not null"`
	Trigger   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_urges_user_created,priority:2"`
}

func (UrgeLog) TableName() string {
	return "urge_logs"
}

type BiometricSample struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index:idx_biometrics_user_recorded,priority:1"`
	StressLevel float64   `gorm:"type:numeric(4,2)"`
	SleepHours  float64   `gorm:"type:numeric(4,2)"`
	RecordedAt  time.Time `gorm:"not null;index:idx_biometrics_user_recorded,priority:2"`
}

func (BiometricSample) TableName() string {
	return "biometric_samples"
}

type RecoveryProfile struct {
	UserId       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SobrietyDate *time.Time `gorm:"type:date"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

func (RecoveryProfile) TableName() string {
	return "recovery_profiles"
}
