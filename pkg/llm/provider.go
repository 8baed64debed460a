package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system", "tool"
	Content string
	// ToolName is set on role "tool" messages so providers that track
	// which call produced the result can round-trip it.
	ToolName string
}

// ToolDefinition describes a callable capability advertised to the model.
type ToolDefinition struct {
	Name        string
	Description string
	// Parameters is a JSON-schema object describing the arguments.
	Parameters map[string]interface{}
}

// ToolCall is a structured request from the model to invoke a tool
// instead of answering directly.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]interface{}
}

// Completion is the normalized result of one model invocation. A non-empty
// ToolCalls slice means the model wants tool results before it produces a
// final answer.
type Completion struct {
	Content   string
	ToolCalls []ToolCall
}

// IsFinal reports whether the model produced a final textual answer.
func (c *Completion) IsFinal() bool {
	return len(c.ToolCalls) == 0
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	Tools       []ToolDefinition
	ToolChoice  string // "auto", "required" or "none". Empty = provider default.
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithTools(tools []ToolDefinition) Option {
	return func(o *Options) {
		o.Tools = tools
	}
}

func WithToolChoice(choice string) Option {
	return func(o *Options) {
		o.ToolChoice = choice
	}
}

// ApplyOptions folds the given options over a defaults struct.
func ApplyOptions(defaults Options, opts ...Option) *Options {
	o := defaults
	for _, opt := range opts {
		opt(&o)
	}
	return &o
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the normalized
	// completion, which is either a final answer or a set of tool calls.
	Chat(ctx context.Context, history []Message, options ...Option) (*Completion, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
