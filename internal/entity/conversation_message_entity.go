package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConversationMessage is append-only: never mutated after creation, and
// strictly increasing CreatedAt order within one conversation.
type ConversationMessage struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Role           string // user, assistant, tool
	Content        string
	CreatedAt      time.Time
}
