package tool

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recovery-coach-be/pkg/llm"
)

type stubTool struct {
	name   string
	kind   Kind
	result string
	err    error
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub" }
func (s *stubTool) Kind() Kind          { return s.kind }
func (s *stubTool) Parameters() map[string]interface{} {
	return map[string]interface{}{"type": "object"}
}
func (s *stubTool) Execute(ctx context.Context, userID uuid.UUID, args map[string]interface{}) (string, error) {
	return s.result, s.err
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubTool{name: "zeta", kind: KindWrite})
	r.Register(&stubTool{name: "alpha", kind: KindRead})
	r.Register(&stubTool{name: "mid", kind: KindRead})

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
	assert.Equal(t, []string{"alpha", "mid"}, r.ReadOnlyNames())
}

func TestRegistryDefinitionsSkipsUnknown(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubTool{name: "known", kind: KindRead})

	defs := r.Definitions([]string{"known", "missing"})
	require.Len(t, defs, 1)
	assert.Equal(t, "known", defs[0].Name)
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	r := NewRegistry()

	_, _, err := r.Execute(context.Background(), uuid.New(), llm.ToolCall{Name: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool")
}

func TestRegistryExecuteReturnsKindOnError(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubTool{name: "writer", kind: KindWrite, err: assert.AnError})

	_, kind, err := r.Execute(context.Background(), uuid.New(), llm.ToolCall{Name: "writer"})
	require.Error(t, err)
	assert.Equal(t, KindWrite, kind)
}
