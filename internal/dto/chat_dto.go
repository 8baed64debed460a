package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	ConversationId *uuid.UUID `json:"conversation_id"`
	Message        string     `json:"message" validate:"required,max=4000"`
}

type TurnMetrics struct {
	Lane           string   `json:"lane"`
	ToolIterations int      `json:"tool_iterations"`
	AutonomyScore  float64  `json:"autonomy_score"`
	ReadTools      int      `json:"read_tools"`
	WriteTools     int      `json:"write_tools"`
	ToolsCalled    []string `json:"tools_called"`
	ServedByStage  string   `json:"served_by_stage"`
	ResponseTimeMs int64    `json:"response_time_ms"`
}

type SendMessageResponse struct {
	ConversationId uuid.UUID   `json:"conversation_id"`
	Reply          string      `json:"reply"`
	CrisisDetected bool        `json:"crisis_detected"`
	Metrics        TurnMetrics `json:"metrics"`
}

type ConversationResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type ConversationMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ConversationDetailResponse struct {
	Conversation ConversationResponse          `json:"conversation"`
	Messages     []ConversationMessageResponse `json:"messages"`
}

type UpdateConversationRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}
