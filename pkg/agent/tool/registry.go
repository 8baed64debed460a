package tool

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"recovery-coach-be/pkg/llm"
)

// Kind classifies a tool for metrics purposes.
type Kind string

const (
	KindRead  Kind = "read"
	KindWrite Kind = "write"
)

// Tool is a single capability the model can invoke. Execute receives the
// owning user's id so implementations stay scoped to that user's data.
type Tool interface {
	Name() string
	Description() string
	Kind() Kind
	// Parameters returns a JSON-schema object describing the arguments.
	Parameters() map[string]interface{}
	Execute(ctx context.Context, userID uuid.UUID, args map[string]interface{}) (string, error)
}

// Registry holds all registered tools. It is populated once at bootstrap
// and read-only afterwards, so no locking is needed.
type Registry struct {
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) {
	r.tools[t.Name()] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns all registered tool names, sorted for stable output.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReadOnlyNames returns the names of read-classified tools.
func (r *Registry) ReadOnlyNames() []string {
	var names []string
	for name, t := range r.tools {
		if t.Kind() == KindRead {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Definitions builds the provider-facing definitions for a subset of tools.
// Unknown names are skipped rather than failing the turn.
func (r *Registry) Definitions(names []string) []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(names))
	for _, name := range names {
		t, ok := r.tools[name]
		if !ok {
			continue
		}
		defs = append(defs, llm.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// Execute runs a model-requested tool call. The returned Kind is valid even
// on error so callers can still classify the attempt.
func (r *Registry) Execute(ctx context.Context, userID uuid.UUID, call llm.ToolCall) (string, Kind, error) {
	t, ok := r.tools[call.Name]
	if !ok {
		return "", KindRead, fmt.Errorf("unknown tool: %s", call.Name)
	}
	result, err := t.Execute(ctx, userID, call.Arguments)
	return result, t.Kind(), err
}
