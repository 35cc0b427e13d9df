// Package policy decides whether a routed tool plan executes
// immediately, requires a spoken confirmation first, or is refused.
// The decision is a pure function of plan confidence, risk tier, and
// the configured autonomy mode, so identical situations always get
// identical treatment.
package policy

import (
	"fmt"
	"strings"

	"github.com/aria-ai/aria/internal/risk"
	"github.com/aria-ai/aria/internal/state"
	"github.com/aria-ai/aria/pkg/protocol"
)

// Per-mode confidence thresholds. Execute when confidence clears the
// first number, ask when it clears the second, refuse below both.
const (
	lowExecThreshold = 0.95

	normalExecThreshold = 0.90
	normalAskThreshold  = 0.75

	highExecThreshold = 0.85
	highAskThreshold  = 0.70

	// sensitiveOverrideThreshold lets high mode execute high-risk
	// plans without asking, but only when confirm_sensitive is off and
	// confidence is near certain.
	sensitiveOverrideThreshold = 0.97
)

// Options carries the config knobs the policy consults.
type Options struct {
	ConfirmSensitive bool
}

// Assess maps a tool plan to an autonomy decision. mode is the
// session's current autonomy mode.
func Assess(d protocol.RoutingDecision, mode state.AutonomyMode, opts Options) protocol.AutonomyDecision {
	tier := risk.ClassifyPlan(d.Intents)
	summary := Summarize(d.Intents)
	base := protocol.AutonomyDecision{
		Confidence:  d.Confidence,
		Risk:        tier.String(),
		Mode:        string(mode),
		PlanSummary: summary,
	}

	if mode == state.AutonomyOff {
		base.Action = protocol.ActionExecute
		base.Reason = "autonomy checks disabled"
		return base
	}

	// High-risk plans confirm regardless of confidence. The only
	// escape hatch is explicit: sensitive confirmation disabled, high
	// mode, and near-certain confidence.
	if tier == risk.TierHigh {
		if !opts.ConfirmSensitive && mode == state.AutonomyHigh && d.Confidence >= sensitiveOverrideThreshold {
			base.Action = protocol.ActionExecute
			base.Reason = "high risk overridden: sensitive confirmation disabled and confidence near certain"
			return base
		}
		base.Action = protocol.ActionAsk
		base.NeedsConfirmation = true
		base.Reason = fmt.Sprintf("%s action always confirms", tier)
		base.Question = BuildQuestion(summary, tier)
		return base
	}

	exec, ask := thresholds(mode)
	switch {
	case d.Confidence >= exec:
		base.Action = protocol.ActionExecute
		base.Reason = fmt.Sprintf("confidence %.2f clears %s-mode threshold %.2f", d.Confidence, mode, exec)
	case d.Confidence >= ask:
		base.Action = protocol.ActionAsk
		base.NeedsConfirmation = true
		base.Reason = fmt.Sprintf("confidence %.2f below execute threshold %.2f", d.Confidence, exec)
		base.Question = BuildQuestion(summary, tier)
	default:
		base.Action = protocol.ActionDeny
		base.Reason = fmt.Sprintf("confidence %.2f too low to act in %s mode", d.Confidence, mode)
	}
	return base
}

// thresholds returns the (execute, ask) confidence floors for a mode.
// Low mode asks about everything it will not execute outright.
func thresholds(mode state.AutonomyMode) (float64, float64) {
	switch mode {
	case state.AutonomyLow:
		return lowExecThreshold, 0
	case state.AutonomyHigh:
		return highExecThreshold, highAskThreshold
	default:
		return normalExecThreshold, normalAskThreshold
	}
}

// Summarize renders a plan as one readable line for confirmation
// prompts and the decision log.
func Summarize(intents []protocol.Intent) string {
	if len(intents) == 0 {
		return "no actions"
	}
	parts := make([]string, 0, len(intents))
	for _, in := range intents {
		parts = append(parts, describeIntent(in))
	}
	return strings.Join(parts, ", then ")
}

func describeIntent(in protocol.Intent) string {
	name := strings.ReplaceAll(in.Tool, "_", " ")
	if t := intentTarget(in.Args); t != "" {
		return name + " " + t
	}
	return name
}

func intentTarget(args map[string]any) string {
	for _, key := range []string{"query", "process", "app", "target", "name", "drive", "path"} {
		if v, ok := args[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	if v, ok := args["level"]; ok {
		return fmt.Sprintf("to %v", v)
	}
	return ""
}

// BuildQuestion phrases the confirmation prompt, weighting the
// language by risk so the user hears how consequential the action is.
func BuildQuestion(summary string, tier risk.Tier) string {
	switch tier {
	case risk.TierHigh:
		return fmt.Sprintf("This will %s, which I can't undo. Are you sure?", summary)
	case risk.TierMedium:
		return fmt.Sprintf("Should I %s?", summary)
	default:
		return fmt.Sprintf("Want me to %s?", summary)
	}
}
