package protocol

// Intent represents one concrete tool call, ready for execution.
// Created by the router, owned by the caller once returned.
type Intent struct {
	Tool            string         `json:"tool"`
	Args            map[string]any `json:"args"`
	ContinueOnError bool           `json:"continue_on_error"`
}

// RouteMode says whether a decision is a deterministic tool plan
// or a deferral to the language model.
type RouteMode string

const (
	ModeToolPlan RouteMode = "tool_plan"
	ModeLLM      RouteMode = "llm"
)

// RoutingDecision is the router's output: either a tool plan with a
// confidence score, or a deferral to the LLM. Transient value, never
// persisted.
type RoutingDecision struct {
	Mode       RouteMode `json:"mode"`
	Intents    []Intent  `json:"intents,omitempty"`
	Reply      string    `json:"reply,omitempty"` // spoken reply hint for tool plans
	Confidence float64   `json:"confidence"`      // 0-1
}

// IsToolPlan reports whether the decision carries an executable plan.
func (d *RoutingDecision) IsToolPlan() bool {
	return d.Mode == ModeToolPlan && len(d.Intents) > 0
}

// Defer returns an LLM-deferral decision with the given confidence.
func Defer(confidence float64) RoutingDecision {
	return RoutingDecision{Mode: ModeLLM, Confidence: confidence}
}

// Plan returns a tool-plan decision wrapping the given intents.
func Plan(confidence float64, reply string, intents ...Intent) RoutingDecision {
	return RoutingDecision{
		Mode:       ModeToolPlan,
		Intents:    intents,
		Reply:      reply,
		Confidence: confidence,
	}
}
