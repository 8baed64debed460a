package constant

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleTool      = "tool"

	DefaultConversationTitle = "New conversation"

	// ConversationGreeting seeds every explicitly created conversation so
	// the client never renders an empty thread.
	ConversationGreeting = "Hi, I'm here whenever you want to talk. How are you doing today?"
)

// Observability function names, one per logged surface.
const (
	FuncChatTurn       = "chat_turn"
	FuncRiskEvaluation = "risk_evaluation"
)

// In-process bus topic the risk engine publishes opened interventions to.
const TopicInterventionTriggered = "INTERVENTION_TRIGGERED"
