package intent

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"recovery-coach-be/pkg/llm"
)

type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Completion, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Completion{Content: s.response}, nil
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newTestClassifier(p llm.LLMProvider) *Classifier {
	return NewClassifier(p, "fast-model", 2*time.Second, log.New(os.Stderr, "", 0))
}

func TestClassifyParsesLane(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantLane string
	}{
		{
			name:     "clean json",
			response: `{"lane": "data_read", "confidence": 0.9, "reasoning": "asks about history"}`,
			wantLane: LaneDataRead,
		},
		{
			name:     "json wrapped in fences",
			response: "```json\n{\"lane\": \"action_write\", \"confidence\": 0.8, \"reasoning\": \"wants to log\"}\n```",
			wantLane: LaneActionWrite,
		},
		{
			name:     "json with surrounding prose",
			response: "Sure! Here is the classification: {\"lane\": \"support\", \"confidence\": 0.7, \"reasoning\": \"struggling\"} Hope that helps.",
			wantLane: LaneSupport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClassifier(&stubProvider{response: tt.response})
			got := c.Classify(context.Background(), "message", nil)
			if got.Lane != tt.wantLane {
				t.Errorf("Lane = %q, want %q", got.Lane, tt.wantLane)
			}
		})
	}
}

func TestClassifyDefaultsToChatOnError(t *testing.T) {
	c := newTestClassifier(&stubProvider{err: errors.New("provider down")})
	got := c.Classify(context.Background(), "how many check-ins do I have?", nil)
	if got.Lane != LaneChat {
		t.Errorf("Lane = %q, want chat (least destructive fallback)", got.Lane)
	}
}

func TestClassifyDefaultsToChatOnGarbage(t *testing.T) {
	tests := []string{
		"I think the user wants to chat",
		`{"lane": "delete_everything", "confidence": 1.0}`,
		`{"lane": `,
		"",
	}
	for _, response := range tests {
		c := newTestClassifier(&stubProvider{response: response})
		got := c.Classify(context.Background(), "hello", nil)
		if got.Lane != LaneChat {
			t.Errorf("response %q: Lane = %q, want chat", response, got.Lane)
		}
	}
}
