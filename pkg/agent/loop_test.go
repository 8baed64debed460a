package agent

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"

	"recovery-coach-be/pkg/agent/crisis"
	"recovery-coach-be/pkg/agent/dispatch"
	"recovery-coach-be/pkg/agent/tool"
	"recovery-coach-be/pkg/llm"
	"recovery-coach-be/pkg/llm/fallback"
)

// scriptedCompleter replays a fixed sequence of completions; the last one
// repeats forever.
type scriptedCompleter struct {
	script []*llm.Completion
	calls  int
}

func (s *scriptedCompleter) Complete(ctx context.Context, history []llm.Message, options ...llm.Option) (*fallback.Result, error) {
	idx := s.calls
	if idx >= len(s.script) {
		idx = len(s.script) - 1
	}
	s.calls++
	return &fallback.Result{Completion: s.script[idx], Stage: "primary", Attempts: 1}, nil
}

type fakeExecutor struct {
	results map[string]string
	errs    map[string]error
	kinds   map[string]tool.Kind
}

func (f *fakeExecutor) Definitions(names []string) []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(names))
	for _, n := range names {
		defs = append(defs, llm.ToolDefinition{Name: n})
	}
	return defs
}

func (f *fakeExecutor) Execute(ctx context.Context, userID uuid.UUID, call llm.ToolCall) (string, tool.Kind, error) {
	kind := tool.KindRead
	if k, ok := f.kinds[call.Name]; ok {
		kind = k
	}
	if err, ok := f.errs[call.Name]; ok {
		return "", kind, err
	}
	return f.results[call.Name], kind, nil
}

func testLogger() *log.Logger {
	return log.New(os.Stderr, "", 0)
}

func toolCall(name string) llm.ToolCall {
	return llm.ToolCall{ID: "call_0", Name: name, Arguments: map[string]interface{}{}}
}

func TestLoopDirectAnswer(t *testing.T) {
	completer := &scriptedCompleter{script: []*llm.Completion{
		{Content: "Sounds like a good day."},
	}}
	loop := NewLoop(completer, &fakeExecutor{}, crisis.NewKeywordDetector(), 5, testLogger())

	binding := dispatch.Binding{Lane: "chat", Model: "fast", ToolMode: dispatch.ToolModeNone}
	res := loop.Run(context.Background(), uuid.New(), binding, []llm.Message{{Role: "user", Content: "today went well"}})

	if res.State != StateDone {
		t.Errorf("State = %s, want done", res.State)
	}
	if res.Answer != "Sounds like a good day." {
		t.Errorf("Answer = %q", res.Answer)
	}
	if res.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", res.Iterations)
	}
	if res.AutonomyScore != 0.2 {
		t.Errorf("AutonomyScore = %v, want 0.2", res.AutonomyScore)
	}
}

func TestLoopExecutesToolsThenAnswers(t *testing.T) {
	completer := &scriptedCompleter{script: []*llm.Completion{
		{ToolCalls: []llm.ToolCall{toolCall("get_mood_trend")}},
		{Content: "Your mood has been improving this week."},
	}}
	executor := &fakeExecutor{
		results: map[string]string{"get_mood_trend": "avg mood 7.2, trending up"},
	}
	loop := NewLoop(completer, executor, crisis.NewKeywordDetector(), 5, testLogger())

	binding := dispatch.Binding{
		Lane: "data_read", Model: "standard",
		Tools: []string{"get_mood_trend"}, ToolMode: dispatch.ToolModeRequired,
	}
	res := loop.Run(context.Background(), uuid.New(), binding, []llm.Message{{Role: "user", Content: "how's my mood?"}})

	if res.State != StateDone {
		t.Fatalf("State = %s, want done", res.State)
	}
	if res.Iterations != 2 {
		t.Errorf("Iterations = %d, want 2", res.Iterations)
	}
	if res.ReadCalls != 1 || res.WriteCalls != 0 {
		t.Errorf("ReadCalls=%d WriteCalls=%d, want 1/0", res.ReadCalls, res.WriteCalls)
	}
	if len(res.ToolsCalled) != 1 || res.ToolsCalled[0] != "get_mood_trend" {
		t.Errorf("ToolsCalled = %v", res.ToolsCalled)
	}
}

func TestLoopIterationCap(t *testing.T) {
	// A model that always requests another tool call terminates at exactly
	// the cap with a non-error final state.
	completer := &scriptedCompleter{script: []*llm.Completion{
		{ToolCalls: []llm.ToolCall{toolCall("get_checkin_history")}},
	}}
	executor := &fakeExecutor{results: map[string]string{"get_checkin_history": "3 check-ins"}}
	loop := NewLoop(completer, executor, crisis.NewKeywordDetector(), 5, testLogger())

	binding := dispatch.Binding{Lane: "data_read", Tools: []string{"get_checkin_history"}, ToolMode: dispatch.ToolModeRequired}
	res := loop.Run(context.Background(), uuid.New(), binding, nil)

	if res.Iterations != 5 {
		t.Errorf("Iterations = %d, want exactly 5", res.Iterations)
	}
	if res.State != StateDone {
		t.Errorf("State = %s, want done (cap expiry is not an error)", res.State)
	}
	if res.Answer == "" {
		t.Error("Answer must default to fallback text when no partial answer exists")
	}
}

func TestLoopCapKeepsPartialAnswer(t *testing.T) {
	completer := &scriptedCompleter{script: []*llm.Completion{
		{Content: "Checking your history now.", ToolCalls: []llm.ToolCall{toolCall("get_checkin_history")}},
	}}
	executor := &fakeExecutor{results: map[string]string{"get_checkin_history": "ok"}}
	loop := NewLoop(completer, executor, crisis.NewKeywordDetector(), 3, testLogger())

	res := loop.Run(context.Background(), uuid.New(), dispatch.Binding{Lane: "data_read", Tools: []string{"get_checkin_history"}, ToolMode: dispatch.ToolModeRequired}, nil)

	if res.Answer != "Checking your history now." {
		t.Errorf("Answer = %q, want the partial answer", res.Answer)
	}
	if res.AutonomyScore != 1 {
		t.Errorf("AutonomyScore = %v, want 1 when the cap expires", res.AutonomyScore)
	}
}

func TestLoopToolFailureFedBack(t *testing.T) {
	completer := &scriptedCompleter{script: []*llm.Completion{
		{ToolCalls: []llm.ToolCall{toolCall("log_urge")}},
		{Content: "I couldn't save that, but let's talk it through."},
	}}
	executor := &fakeExecutor{
		errs:  map[string]error{"log_urge": errors.New("db connection lost")},
		kinds: map[string]tool.Kind{"log_urge": tool.KindWrite},
	}
	loop := NewLoop(completer, executor, crisis.NewKeywordDetector(), 5, testLogger())

	binding := dispatch.Binding{Lane: "action_write", Tools: []string{"log_urge"}, ToolMode: dispatch.ToolModeRequired}
	res := loop.Run(context.Background(), uuid.New(), binding, nil)

	if res.State != StateDone {
		t.Errorf("tool failure must not abort the loop, State = %s", res.State)
	}
	if res.WriteCalls != 1 {
		t.Errorf("WriteCalls = %d, want 1 (failed calls still counted)", res.WriteCalls)
	}
	if res.Answer != "I couldn't save that, but let's talk it through." {
		t.Errorf("Answer = %q", res.Answer)
	}
}

func TestLoopMandatoryToolContract(t *testing.T) {
	// data_read lane: a final answer with zero prior tool calls is rejected
	// and the model re-prompted.
	completer := &scriptedCompleter{script: []*llm.Completion{
		{Content: "You checked in 12 times."}, // hallucinated, no tool call
		{ToolCalls: []llm.ToolCall{toolCall("get_checkin_history")}},
		{Content: "You checked in 3 times this week."},
	}}
	executor := &fakeExecutor{results: map[string]string{"get_checkin_history": "3 check-ins this week"}}
	loop := NewLoop(completer, executor, crisis.NewKeywordDetector(), 5, testLogger())

	binding := dispatch.Binding{Lane: "data_read", Tools: []string{"get_checkin_history"}, ToolMode: dispatch.ToolModeRequired}
	res := loop.Run(context.Background(), uuid.New(), binding, nil)

	if res.ReadCalls < 1 {
		t.Fatalf("final answer produced without any tool call on a mandatory-tool lane")
	}
	if res.Answer != "You checked in 3 times this week." {
		t.Errorf("Answer = %q, want the tool-grounded answer", res.Answer)
	}
}

func TestLoopCrisisOverrideMidLoop(t *testing.T) {
	completer := &scriptedCompleter{script: []*llm.Completion{
		{ToolCalls: []llm.ToolCall{toolCall("get_recent_journal_entries")}},
		{Content: "should never get here"},
	}}
	executor := &fakeExecutor{
		results: map[string]string{"get_recent_journal_entries": "entry: I want to die, nothing matters"},
	}
	loop := NewLoop(completer, executor, crisis.NewKeywordDetector(), 5, testLogger())

	binding := dispatch.Binding{Lane: "support", Tools: []string{"get_recent_journal_entries"}, ToolMode: dispatch.ToolModeAuto}
	res := loop.Run(context.Background(), uuid.New(), binding, nil)

	if !res.CrisisDetected {
		t.Fatal("crisis in tool result not flagged")
	}
	if res.State != StateDone {
		t.Errorf("State = %s, want done", res.State)
	}
	if res.Answer != crisis.SafetyResponse {
		t.Errorf("crisis override must replace the answer with the safety response")
	}
}
