package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"recovery-coach-be/pkg/llm"
)

// Lane constants - the routing categories every turn lands in
const (
	LaneChat        = "chat"
	LaneDataRead    = "data_read"
	LaneActionWrite = "action_write"
	LaneSupport     = "support"
)

// Classification is the resolved lane for one turn.
type Classification struct {
	Lane       string  `json:"lane"`
	Confidence float32 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Classifier performs pure LLM-based lane classification. Every downstream
// stage is gated on it, so it runs against the fast model tier with a tight
// timeout, and any failure resolves to the chat lane - the least destructive
// option - rather than surfacing an error to the user.
type Classifier struct {
	provider llm.LLMProvider
	model    string
	timeout  time.Duration
	logger   *log.Logger
}

func NewClassifier(provider llm.LLMProvider, model string, timeout time.Duration, logger *log.Logger) *Classifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Classifier{
		provider: provider,
		model:    model,
		timeout:  timeout,
		logger:   logger,
	}
}

// Classify resolves the lane for a sanitized user message given a short
// rolling window of prior conversation turns.
func (c *Classifier) Classify(ctx context.Context, message string, recentTurns []llm.Message) *Classification {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := c.buildPrompt(message, recentTurns)

	response, err := c.provider.Generate(ctx, prompt,
		llm.WithModel(c.model),
		llm.WithTemperature(0.0),
		llm.WithMaxTokens(200),
	)
	if err != nil {
		c.logger.Printf("[INTENT] classification failed, defaulting to chat lane: %v", err)
		return fallbackClassification()
	}

	classification, err := parseClassification(response)
	if err != nil {
		c.logger.Printf("[INTENT] parse failed, defaulting to chat lane: %v", err)
		return fallbackClassification()
	}

	c.logger.Printf("[INTENT] lane=%s confidence=%.2f", classification.Lane, classification.Confidence)
	return classification
}

func (c *Classifier) buildPrompt(message string, recentTurns []llm.Message) string {
	var b strings.Builder

	b.WriteString("You are an intent classifier for a recovery-coaching assistant.\n")
	b.WriteString("Your ONLY job is to pick the routing lane for the user's message. You do NOT answer it.\n\n")
	b.WriteString("Lanes:\n")
	b.WriteString("- chat: general conversation, encouragement, questions needing no personal data\n")
	b.WriteString("- data_read: the user asks about their own history (check-ins, journals, moods, urges, progress)\n")
	b.WriteString("- action_write: the user wants to record something (log an urge, add a check-in, save a note)\n")
	b.WriteString("- support: the user is struggling emotionally and needs supportive context-aware coaching\n\n")

	if len(recentTurns) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, m := range recentTurns {
			b.WriteString(fmt.Sprintf("%s: %s\n", m.Role, truncate(m.Content, 200)))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("User message: %q\n\n", message))
	b.WriteString("Reply with ONLY a JSON object, no prose:\n")
	b.WriteString(`{"lane": "chat|data_read|action_write|support", "confidence": 0.0, "reasoning": "one short sentence"}`)

	return b.String()
}

func parseClassification(response string) (*Classification, error) {
	// Models wrap JSON in fences or prose often enough that we cut to the
	// outermost object before unmarshalling.
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var c Classification
	if err := json.Unmarshal([]byte(response[start:end+1]), &c); err != nil {
		return nil, fmt.Errorf("unmarshal classification: %w", err)
	}

	switch c.Lane {
	case LaneChat, LaneDataRead, LaneActionWrite, LaneSupport:
	default:
		return nil, fmt.Errorf("unknown lane %q", c.Lane)
	}

	return &c, nil
}

func fallbackClassification() *Classification {
	return &Classification{Lane: LaneChat, Confidence: 0, Reasoning: "classifier fallback"}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
