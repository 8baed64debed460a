package risk

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"recovery-coach-be/pkg/llm"
	"recovery-coach-be/pkg/llm/fallback"
)

// Action tags suggested alongside an intervention message. The client maps
// these to concrete UI affordances.
const (
	ActionCheckIn    = "check_in"
	ActionJournal    = "journal"
	ActionBreathing  = "breathing_exercise"
	ActionOpenChat   = "open_chat"
	ActionReachOut   = "reach_out"
	ActionSleepTips  = "sleep_hygiene"
	ActionCelebrate  = "celebrate_milestone"
	ActionUrgeSurf   = "urge_surfing"
	ActionMoodLog    = "log_mood"
)

// actionsBySignal maps each signal type to the action tags it implies.
var actionsBySignal = map[string][]string{
	SignalMissedCheckins:       {ActionCheckIn, ActionOpenChat},
	SignalChatInactivity:       {ActionOpenChat},
	SignalJournalInactivity:    {ActionJournal, ActionOpenChat},
	SignalDecliningMood:        {ActionMoodLog, ActionReachOut, ActionOpenChat},
	SignalHighUrges:            {ActionUrgeSurf, ActionBreathing, ActionReachOut},
	SignalPoorSleep:            {ActionSleepTips, ActionCheckIn},
	SignalHighStress:           {ActionBreathing, ActionOpenChat},
	SignalMilestoneApproaching: {ActionCelebrate, ActionCheckIn},
}

// defaultActions guarantee suggested_actions is never empty.
var defaultActions = []string{ActionOpenChat, ActionBreathing}

// StaticMessage is the terminal-stage intervention text used when every
// provider is down.
const StaticMessage = "Hey, just checking in. It's been a tough stretch and that's okay - " +
	"small steps count. Take a slow breath, and when you're ready, open the app and talk it through."

// Draft is a generated intervention before persistence.
type Draft struct {
	TriggerType      string
	RiskScore        float64
	Message          string
	SuggestedActions []string
	ServedByStage    string
}

// Generator synthesizes the supportive message for a triggered signal set
// through the same fallback-chain pattern the chat path uses.
type Generator struct {
	chain *fallback.Chain
	model string
}

func NewGenerator(chain *fallback.Chain, model string) *Generator {
	return &Generator{chain: chain, model: model}
}

// Generate frames the message around the first (highest-priority) triggered
// signal and unions the action tags implied by all of them.
func (g *Generator) Generate(ctx context.Context, signals []Signal, score float64) (*Draft, error) {
	if len(signals) == 0 {
		return nil, fmt.Errorf("no triggered signals to generate from")
	}
	primary := signals[0]

	res, err := g.chain.Complete(ctx, []llm.Message{
		{Role: "system", Content: "You write one short supportive nudge (2-3 sentences) for someone in addiction recovery. " +
			"Warm, direct, zero clinical jargon, no guilt. Do not mention data, signals or monitoring."},
		{Role: "user", Content: g.buildPrompt(signals, primary)},
	}, llm.WithModel(g.model), llm.WithTemperature(0.7), llm.WithMaxTokens(160))
	if err != nil {
		// Unreachable with a static terminal stage, handled anyway.
		res = &fallback.Result{
			Completion: &llm.Completion{Content: StaticMessage},
			Stage:      fallback.StaticStage,
		}
	}

	message := strings.TrimSpace(res.Completion.Content)
	if message == "" {
		message = StaticMessage
	}

	return &Draft{
		TriggerType:      primary.Type,
		RiskScore:        score,
		Message:          message,
		SuggestedActions: suggestedActions(signals),
		ServedByStage:    res.Stage,
	}, nil
}

func (g *Generator) buildPrompt(signals []Signal, primary Signal) string {
	var b strings.Builder
	b.WriteString("Context for the nudge (do not repeat verbatim):\n")
	b.WriteString(fmt.Sprintf("- main concern: %s (%s)\n", primary.Type, primary.Description))
	for _, s := range signals[1:] {
		b.WriteString(fmt.Sprintf("- also: %s\n", s.Type))
	}
	if primary.Type == SignalMilestoneApproaching {
		b.WriteString("Tone: celebratory encouragement, they are close to a milestone.\n")
	} else {
		b.WriteString("Tone: gentle concern and practical support.\n")
	}
	b.WriteString("Write the nudge now.")
	return b.String()
}

// suggestedActions is the deduplicated union of tags implied by all matched
// signal types, falling back to the default pair so it is never empty.
func suggestedActions(signals []Signal) []string {
	seen := make(map[string]bool)
	var actions []string
	for _, s := range signals {
		for _, a := range actionsBySignal[s.Type] {
			if !seen[a] {
				seen[a] = true
				actions = append(actions, a)
			}
		}
	}
	if len(actions) == 0 {
		actions = append(actions, defaultActions...)
	}
	sort.Strings(actions)
	return actions
}
