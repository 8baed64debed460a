package dispatch

import (
	"recovery-coach-be/pkg/agent/intent"
	"recovery-coach-be/pkg/agent/tool"
)

// ToolMode is the tool-requirement contract bound to a lane.
type ToolMode string

const (
	// ToolModeNone binds no tools at all.
	ToolModeNone ToolMode = "none"
	// ToolModeAuto lets the model decide whether to call tools.
	ToolModeAuto ToolMode = "auto"
	// ToolModeRequired forces at least one tool call before a final answer.
	// This is the anti-hallucination contract for lanes that read or mutate
	// user data: the model must not invent what it never retrieved.
	ToolModeRequired ToolMode = "required"
)

// Binding is everything the execution loop needs to serve one lane: which
// model tier, which tool subset, and how strictly tools are required.
type Binding struct {
	Lane         string
	Model        string
	SystemPrompt string
	Tools        []string
	ToolMode     ToolMode
}

// ModelTiers names the configured models per latency/quality tier.
type ModelTiers struct {
	Fast     string
	Standard string
}

// Dispatcher maps a classified lane to its specialist agent binding.
type Dispatcher struct {
	tiers    ModelTiers
	registry *tool.Registry
}

func NewDispatcher(tiers ModelTiers, registry *tool.Registry) *Dispatcher {
	return &Dispatcher{tiers: tiers, registry: registry}
}

const (
	chatPrompt = "You are a warm, encouraging recovery coach. Keep replies short, personal and " +
		"grounded. Never give medical advice; suggest professional help for anything clinical."

	dataReadPrompt = "You are a recovery coach with access to the user's recovery data through tools. " +
		"You MUST retrieve data with tools before answering - never estimate or invent numbers, " +
		"dates or history. Summarize what the tools returned in plain supportive language."

	actionWritePrompt = "You are a recovery coach that records things for the user through tools. " +
		"You MUST perform the requested action with a tool before confirming it - never claim " +
		"something was saved unless a tool call succeeded. Confirm briefly once done."

	supportPrompt = "You are a compassionate recovery coach supporting someone who is struggling. " +
		"Use the read-only tools to ground your support in their recent history when it helps. " +
		"Validate feelings first, advise second. Keep it gentle and concrete."
)

// Dispatch returns the binding for one lane. Unknown lanes fall back to the
// chat binding, mirroring the classifier's own failure policy.
func (d *Dispatcher) Dispatch(lane string) Binding {
	switch lane {
	case intent.LaneDataRead:
		return Binding{
			Lane:         lane,
			Model:        d.tiers.Standard,
			SystemPrompt: dataReadPrompt,
			Tools:        d.registry.ReadOnlyNames(),
			ToolMode:     ToolModeRequired,
		}
	case intent.LaneActionWrite:
		return Binding{
			Lane:         lane,
			Model:        d.tiers.Standard,
			SystemPrompt: actionWritePrompt,
			Tools:        d.registry.Names(),
			ToolMode:     ToolModeRequired,
		}
	case intent.LaneSupport:
		return Binding{
			Lane:         lane,
			Model:        d.tiers.Standard,
			SystemPrompt: supportPrompt,
			Tools:        d.registry.ReadOnlyNames(),
			ToolMode:     ToolModeAuto,
		}
	default:
		// chat lane binds no tools and prioritizes latency
		return Binding{
			Lane:         intent.LaneChat,
			Model:        d.tiers.Fast,
			SystemPrompt: chatPrompt,
			ToolMode:     ToolModeNone,
		}
	}
}
