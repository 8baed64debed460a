package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByConversationID struct {
	ConversationID uuid.UUID
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}

// Unacknowledged selects open interventions.
type Unacknowledged struct{}

func (s Unacknowledged) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("was_acknowledged = ?", false)
}
