package agent

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"recovery-coach-be/pkg/agent/crisis"
	"recovery-coach-be/pkg/agent/dispatch"
	"recovery-coach-be/pkg/agent/tool"
	"recovery-coach-be/pkg/llm"
	"recovery-coach-be/pkg/llm/fallback"
)

// State is the loop's lifecycle state.
type State string

const (
	StateAwaitingModel State = "awaiting_model"
	StateExecutingTool State = "executing_tool"
	StateDone          State = "done"
	StateError         State = "error"
)

// FallbackAnswer is returned when the iteration cap expires with no usable
// partial answer.
const FallbackAnswer = "I wasn't able to finish putting that together just now. Could you try asking again in a moment?"

const mandatoryToolReminder = "You must call at least one tool before giving a final answer. " +
	"Do not answer from memory; retrieve or record the data with a tool first."

// Completer is the slice of the fallback chain the loop depends on.
type Completer interface {
	Complete(ctx context.Context, history []llm.Message, options ...llm.Option) (*fallback.Result, error)
}

// ToolExecutor is the external tool/data-access surface.
type ToolExecutor interface {
	Definitions(names []string) []llm.ToolDefinition
	Execute(ctx context.Context, userID uuid.UUID, call llm.ToolCall) (string, tool.Kind, error)
}

// stepOutcome is the tagged result of one model invocation: either a final
// answer or a batch of tool requests, never both implicitly.
type stepOutcome struct {
	final        string
	toolRequests []llm.ToolCall
	// partial is any text the model emitted alongside tool requests; it
	// becomes the answer of last resort if the iteration cap expires.
	partial string
	stage   string
}

// LoopResult is everything one bounded run produced, including the metrics
// that feed the observability log.
type LoopResult struct {
	Answer     string
	State      State
	Iterations int
	// AutonomyScore is the share of the iteration budget the turn
	// consumed, in [0, 1]. A plain single-shot answer scores 1/cap; a
	// turn that exhausted the cap scores 1.
	AutonomyScore  float64
	ReadCalls      int
	WriteCalls     int
	ToolsCalled    []string
	ServedByStage  string
	CrisisDetected bool
}

// Loop runs the bounded ReAct-style tool execution cycle for one turn.
type Loop struct {
	completer Completer
	executor  ToolExecutor
	detector  crisis.Detector
	maxIters  int
	logger    *log.Logger
}

func NewLoop(completer Completer, executor ToolExecutor, detector crisis.Detector, maxIters int, logger *log.Logger) *Loop {
	if maxIters <= 0 {
		maxIters = 5
	}
	if detector != nil {
		detector = crisis.FailOpen(detector)
	}
	return &Loop{
		completer: completer,
		executor:  executor,
		detector:  detector,
		maxIters:  maxIters,
		logger:    logger,
	}
}

// Run executes the loop until the model produces a final answer, the
// iteration cap expires, or a crisis is flagged mid-loop. A tool execution
// failure never aborts the run; it is fed back as an error-bearing tool
// result so the model can adapt on the next iteration.
func (l *Loop) Run(ctx context.Context, userID uuid.UUID, binding dispatch.Binding, history []llm.Message) *LoopResult {
	result := l.run(ctx, userID, binding, history)
	result.AutonomyScore = float64(result.Iterations) / float64(l.maxIters)
	return result
}

func (l *Loop) run(ctx context.Context, userID uuid.UUID, binding dispatch.Binding, history []llm.Message) *LoopResult {
	result := &LoopResult{State: StateAwaitingModel}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: binding.SystemPrompt})
	messages = append(messages, history...)

	opts := []llm.Option{llm.WithModel(binding.Model)}
	if binding.ToolMode != dispatch.ToolModeNone && len(binding.Tools) > 0 {
		opts = append(opts, llm.WithTools(l.executor.Definitions(binding.Tools)))
		opts = append(opts, llm.WithToolChoice(string(binding.ToolMode)))
	}

	var partialAnswer string

	for result.Iterations < l.maxIters {
		result.Iterations++

		outcome, err := l.step(ctx, messages, opts)
		if err != nil {
			// The chain terminates in a static stage, so this is
			// unreachable today; kept so a chain without a terminal
			// still degrades instead of hanging the turn.
			l.logger.Printf("[LOOP] model step failed: %v", err)
			result.State = StateError
			result.Answer = FallbackAnswer
			return result
		}
		result.ServedByStage = outcome.stage

		if outcome.final != "" || len(outcome.toolRequests) == 0 {
			// Mandatory-tool lanes may not answer before touching a tool.
			toolCallsSoFar := result.ReadCalls + result.WriteCalls
			if binding.ToolMode == dispatch.ToolModeRequired && toolCallsSoFar == 0 {
				l.logger.Printf("[LOOP] lane %s answered without tool calls, re-prompting", binding.Lane)
				partialAnswer = ""
				messages = append(messages, llm.Message{Role: "system", Content: mandatoryToolReminder})
				continue
			}
			result.Answer = outcome.final
			if result.Answer == "" {
				result.Answer = FallbackAnswer
			}
			result.State = StateDone
			return result
		}

		if outcome.partial != "" {
			partialAnswer = outcome.partial
		}

		result.State = StateExecutingTool
		for _, call := range outcome.toolRequests {
			toolResult, kind, err := l.executor.Execute(ctx, userID, call)
			result.ToolsCalled = append(result.ToolsCalled, call.Name)
			if kind == tool.KindWrite {
				result.WriteCalls++
			} else {
				result.ReadCalls++
			}
			if err != nil {
				l.logger.Printf("[LOOP] tool %s failed: %v", call.Name, err)
				toolResult = fmt.Sprintf("ERROR: tool %s failed: %v. Adjust your approach or tell the user what you could not do.", call.Name, err)
			}

			if l.flagCrisis(toolResult) {
				result.CrisisDetected = true
				result.Answer = crisis.SafetyResponse
				result.State = StateDone
				return result
			}

			messages = append(messages, llm.Message{
				Role:     "tool",
				ToolName: call.Name,
				Content:  toolResult,
			})
		}
		result.State = StateAwaitingModel
	}

	// Cap expired: whatever partial answer exists wins, else the generic
	// fallback. This is a done state, not an error.
	result.Answer = partialAnswer
	if result.Answer == "" {
		result.Answer = FallbackAnswer
	}
	result.State = StateDone
	return result
}

func (l *Loop) step(ctx context.Context, messages []llm.Message, opts []llm.Option) (*stepOutcome, error) {
	res, err := l.completer.Complete(ctx, messages, opts...)
	if err != nil {
		return nil, err
	}
	if res.Completion.IsFinal() {
		return &stepOutcome{final: res.Completion.Content, stage: res.Stage}, nil
	}
	return &stepOutcome{
		toolRequests: res.Completion.ToolCalls,
		partial:      res.Completion.Content,
		stage:        res.Stage,
	}, nil
}

func (l *Loop) flagCrisis(text string) bool {
	if l.detector == nil {
		return false
	}
	detected, _ := l.detector.Detect(text)
	return detected
}
