package fallback

import (
	"context"
	"log"

	"recovery-coach-be/pkg/llm"
)

// StaticStage is the name recorded when the templated terminal stage
// served the request.
const StaticStage = "static"

// Stage pairs a provider with the name recorded in observability logs.
type Stage struct {
	Name     string
	Provider llm.LLMProvider
}

// Validator inspects a successful completion. A non-nil error means the
// response is unusable at the application level and the chain advances to
// the next stage, exactly as if the provider itself had failed.
type Validator func(*llm.Completion) error

// Result is a completion annotated with which stage produced it and how
// many provider attempts were spent getting there.
type Result struct {
	Completion *llm.Completion
	Stage      string
	Attempts   int
}

// Chain tries an ordered list of providers, one attempt per stage with no
// in-stage retry, and terminates in a static templated response that always
// succeeds. It satisfies llm.LLMProvider so it can stand in anywhere a
// single provider is expected.
type Chain struct {
	stages     []Stage
	staticText string
	validate   Validator
	logger     *log.Logger
}

var _ llm.LLMProvider = &Chain{}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithValidator adds an application-level check on successful completions.
func WithValidator(v Validator) ChainOption {
	return func(c *Chain) {
		c.validate = v
	}
}

func NewChain(stages []Stage, staticText string, logger *log.Logger, opts ...ChainOption) *Chain {
	c := &Chain{
		stages:     stages,
		staticText: staticText,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete walks the chain until a stage succeeds. The static terminal
// stage never fails, so the returned error is always nil; it exists so the
// signature stays honest if a future chain is built without a terminal.
func (c *Chain) Complete(ctx context.Context, history []llm.Message, options ...llm.Option) (*Result, error) {
	attempts := 0
	for _, stage := range c.stages {
		attempts++
		completion, err := stage.Provider.Chat(ctx, history, options...)
		if err != nil {
			c.logger.Printf("[FALLBACK] stage %s failed, advancing: %v", stage.Name, err)
			continue
		}
		if c.validate != nil && completion.IsFinal() {
			if verr := c.validate(completion); verr != nil {
				c.logger.Printf("[FALLBACK] stage %s response rejected by validator, advancing: %v", stage.Name, verr)
				continue
			}
		}
		return &Result{Completion: completion, Stage: stage.Name, Attempts: attempts}, nil
	}

	return &Result{
		Completion: &llm.Completion{Content: c.staticText},
		Stage:      StaticStage,
		Attempts:   attempts,
	}, nil
}

// Chat implements llm.LLMProvider.
func (c *Chain) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Completion, error) {
	res, err := c.Complete(ctx, history, options...)
	if err != nil {
		return nil, err
	}
	return res.Completion, nil
}

// Generate implements llm.LLMProvider.
func (c *Chain) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	completion, err := c.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
	if err != nil {
		return "", err
	}
	return completion.Content, nil
}
