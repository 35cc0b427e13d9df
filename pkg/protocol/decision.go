// Package protocol defines the plain, serializable records exchanged
// between the routing core and its collaborators (tool executor,
// language-model client, voice pipeline). No embedded behavior.
package protocol

// AutonomyAction is the policy's verdict for a candidate plan.
type AutonomyAction string

const (
	ActionExecute AutonomyAction = "execute"
	ActionAsk     AutonomyAction = "ask"
	ActionDeny    AutonomyAction = "deny"
)

// AutonomyDecision is the autonomy policy's output for one candidate
// plan. Recorded in the state store so "why did you do that" can be
// answered later.
type AutonomyDecision struct {
	Action            AutonomyAction `json:"action"`
	Reason            string         `json:"reason"`
	Question          string         `json:"question,omitempty"` // set when Action == ask
	Confidence        float64        `json:"confidence"`
	Risk              string         `json:"risk"` // low|medium|high
	NeedsConfirmation bool           `json:"needs_confirmation"`
	Mode              string         `json:"mode"`         // autonomy mode at decision time
	PlanSummary       string         `json:"plan_summary"` // short tool summary for logs
}

// ToolResult represents the result of a tool execution, as reported
// back by the executor.
type ToolResult struct {
	Success    bool           `json:"success"`
	Data       map[string]any `json:"data,omitempty"`
	Error      string         `json:"error,omitempty"`
	DurationMs int64          `json:"duration_ms"`
}
