package agenttools

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recovery-coach-be/internal/entity"
	"recovery-coach-be/internal/repository/specification"
)

type stubConversationRepo struct {
	conversations []*entity.Conversation
}

func (r *stubConversationRepo) Create(ctx context.Context, c *entity.Conversation) error { return nil }
func (r *stubConversationRepo) Update(ctx context.Context, c *entity.Conversation) error { return nil }
func (r *stubConversationRepo) Delete(ctx context.Context, id uuid.UUID) error           { return nil }

func (r *stubConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	var wantID, wantUser *uuid.UUID
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			id := spec.ID
			wantID = &id
		case specification.ByUserID:
			id := spec.UserID
			wantUser = &id
		}
	}
	for _, c := range r.conversations {
		if wantID != nil && c.Id != *wantID {
			continue
		}
		if wantUser != nil && c.UserId != *wantUser {
			continue
		}
		return c, nil
	}
	return nil, nil
}

func (r *stubConversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	return r.conversations, nil
}

type stubMessageRepo struct {
	messages []*entity.ConversationMessage
}

func (r *stubMessageRepo) Create(ctx context.Context, m *entity.ConversationMessage) error {
	return nil
}

func (r *stubMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationMessage, error) {
	var wantConv *uuid.UUID
	for _, s := range specs {
		if spec, ok := s.(specification.ByConversationID); ok {
			id := spec.ConversationID
			wantConv = &id
		}
	}
	out := make([]*entity.ConversationMessage, 0, len(r.messages))
	for _, m := range r.messages {
		if wantConv != nil && m.ConversationId != *wantConv {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *stubMessageRepo) LatestByUser(ctx context.Context, userID uuid.UUID, role string) (*entity.ConversationMessage, error) {
	return nil, nil
}

func (r *stubMessageRepo) DeleteAllByConversationId(ctx context.Context, conversationID uuid.UUID) error {
	return nil
}

func TestConversationSummaryReturnsOwnersMessages(t *testing.T) {
	owner := uuid.New()
	convID := uuid.New()

	conversations := &stubConversationRepo{conversations: []*entity.Conversation{
		{Id: convID, UserId: owner, Title: "check-in chat"},
	}}
	messages := &stubMessageRepo{messages: []*entity.ConversationMessage{
		{Id: uuid.New(), ConversationId: convID, Role: "user", Content: "slept badly", CreatedAt: time.Now()},
	}}

	summaryTool := NewGetConversationSummaryTool(conversations, messages)
	out, err := summaryTool.Execute(context.Background(), owner, map[string]interface{}{
		"conversation_id": convID.String(),
	})
	require.NoError(t, err)
	assert.Contains(t, out, "slept badly")
}

func TestConversationSummaryRejectsForeignConversation(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	convID := uuid.New()

	conversations := &stubConversationRepo{conversations: []*entity.Conversation{
		{Id: convID, UserId: owner, Title: "private"},
	}}
	messages := &stubMessageRepo{messages: []*entity.ConversationMessage{
		{Id: uuid.New(), ConversationId: convID, Role: "user", Content: "owner private message", CreatedAt: time.Now()},
	}}

	summaryTool := NewGetConversationSummaryTool(conversations, messages)

	// A valid conversation id belonging to someone else must not leak.
	out, err := summaryTool.Execute(context.Background(), other, map[string]interface{}{
		"conversation_id": convID.String(),
	})
	require.Error(t, err)
	assert.Empty(t, out)
	assert.NotContains(t, err.Error(), "owner private message")
}
