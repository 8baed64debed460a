package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recovery-coach-be/internal/entity"
	"recovery-coach-be/internal/mapper"
	"recovery-coach-be/internal/model"
	"recovery-coach-be/internal/repository/contract"
	"recovery-coach-be/internal/repository/specification"
)

type ConversationMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewConversationMessageRepository(db *gorm.DB) contract.ConversationMessageRepository {
	return &ConversationMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *ConversationMessageRepositoryImpl) Create(ctx context.Context, message *entity.ConversationMessage) error {
	m := r.mapper.MessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *ConversationMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationMessage, error) {
	var models []*model.ConversationMessage
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.MessagesToEntities(models), nil
}

func (r *ConversationMessageRepositoryImpl) LatestByUser(ctx context.Context, userID uuid.UUID, role string) (*entity.ConversationMessage, error) {
	var m model.ConversationMessage
	err := r.db.WithContext(ctx).
		Joins("JOIN conversations ON conversations.id = conversation_messages.conversation_id").
		Where("conversations.user_id = ? AND conversation_messages.role = ?", userID, role).
		Order("conversation_messages.created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MessageToEntity(&m), nil
}

func (r *ConversationMessageRepositoryImpl) DeleteAllByConversationId(ctx context.Context, conversationID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Delete(&model.ConversationMessage{}).Error
}
