package contract

import (
	"context"

	"github.com/google/uuid"

	"recovery-coach-be/internal/entity"
	"recovery-coach-be/internal/repository/specification"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	Update(ctx context.Context, conversation *entity.Conversation) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
}

type ConversationMessageRepository interface {
	// Create appends one message; messages are never updated or deleted
	// individually.
	Create(ctx context.Context, message *entity.ConversationMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationMessage, error)
	// LatestByUser returns the newest message authored by the user across
	// all their conversations, for the risk engine's inactivity check.
	LatestByUser(ctx context.Context, userID uuid.UUID, role string) (*entity.ConversationMessage, error)
	DeleteAllByConversationId(ctx context.Context, conversationID uuid.UUID) error
}
