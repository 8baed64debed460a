package agenttools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"recovery-coach-be/internal/constant"
	"recovery-coach-be/internal/repository/contract"
	"recovery-coach-be/internal/repository/specification"
	"recovery-coach-be/pkg/agent/tool"
)

// GetConversationSummaryTool lets the model recall what was discussed in
// the user's current conversation beyond the window it was handed.
type GetConversationSummaryTool struct {
	conversations contract.ConversationRepository
	messages      contract.ConversationMessageRepository
}

func NewGetConversationSummaryTool(conversations contract.ConversationRepository, messages contract.ConversationMessageRepository) *GetConversationSummaryTool {
	return &GetConversationSummaryTool{conversations: conversations, messages: messages}
}

func (t *GetConversationSummaryTool) Name() string { return "get_conversation_summary" }

func (t *GetConversationSummaryTool) Description() string {
	return "Fetch earlier messages from the current conversation when you need context that is not in the recent history. Requires the conversation id."
}

func (t *GetConversationSummaryTool) Kind() tool.Kind { return tool.KindRead }

func (t *GetConversationSummaryTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"conversation_id": map[string]interface{}{
				"type":        "string",
				"description": "UUID of the conversation to summarize",
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of messages to return, default 20",
			},
		},
		"required": []string{"conversation_id"},
	}
}

func (t *GetConversationSummaryTool) Execute(ctx context.Context, userID uuid.UUID, args map[string]interface{}) (string, error) {
	conversationID, err := uuid.Parse(stringArg(args, "conversation_id"))
	if err != nil {
		return "", fmt.Errorf("invalid conversation_id")
	}
	limit := intArg(args, "limit", 20)

	// The model supplies the conversation id, so ownership must be
	// verified here; conversation ids are not capabilities.
	conversation, err := t.conversations.FindOne(ctx,
		specification.ByID{ID: conversationID},
		specification.ByUserID{UserID: userID},
	)
	if err != nil {
		return "", err
	}
	if conversation == nil {
		return "", fmt.Errorf("conversation not found")
	}

	msgs, err := t.messages.FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationID},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return "", err
	}
	if len(msgs) == 0 {
		return "No earlier messages in this conversation.", nil
	}

	// Oldest first reads better for the model.
	var b strings.Builder
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m.Role == constant.MessageRoleTool {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}
	return b.String(), nil
}
