package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/aria-ai/aria/internal/state"
	"github.com/aria-ai/aria/pkg/protocol"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func planOf(conf float64, tool string) protocol.RoutingDecision {
	return protocol.Plan(conf, "", protocol.Intent{Tool: tool, Args: map[string]any{}})
}

func TestAssessModeThresholds(t *testing.T) {
	tests := []struct {
		name string
		mode state.AutonomyMode
		conf float64
		want protocol.AutonomyAction
	}{
		{"off always executes", state.AutonomyOff, 0.10, protocol.ActionExecute},
		{"low executes at 0.95", state.AutonomyLow, 0.95, protocol.ActionExecute},
		{"low asks below 0.95", state.AutonomyLow, 0.94, protocol.ActionAsk},
		{"low asks even when weak", state.AutonomyLow, 0.30, protocol.ActionAsk},
		{"normal executes at 0.90", state.AutonomyNormal, 0.90, protocol.ActionExecute},
		{"normal asks at 0.80", state.AutonomyNormal, 0.80, protocol.ActionAsk},
		{"normal denies below 0.75", state.AutonomyNormal, 0.70, protocol.ActionDeny},
		{"high executes at 0.85", state.AutonomyHigh, 0.85, protocol.ActionExecute},
		{"high asks at 0.72", state.AutonomyHigh, 0.72, protocol.ActionAsk},
		{"high denies below 0.70", state.AutonomyHigh, 0.60, protocol.ActionDeny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Assess(planOf(tt.conf, "close_window"), tt.mode, Options{ConfirmSensitive: true})
			assert.Equal(t, tt.want, d.Action)
		})
	}
}

func TestAssessHighRiskAlwaysAsks(t *testing.T) {
	// Even near-certain confidence confirms a destructive action.
	d := Assess(planOf(0.95, "delete_file"), state.AutonomyHigh, Options{ConfirmSensitive: true})
	assert.Equal(t, protocol.ActionAsk, d.Action)
	assert.True(t, d.NeedsConfirmation)
	assert.NotEmpty(t, d.Question)
	assert.Equal(t, "high", d.Risk)
}

func TestAssessHighRiskOffModeExecutes(t *testing.T) {
	d := Assess(planOf(0.95, "delete_file"), state.AutonomyOff, Options{ConfirmSensitive: true})
	assert.Equal(t, protocol.ActionExecute, d.Action)
}

func TestAssessSensitiveOverride(t *testing.T) {
	// confirm_sensitive off + high mode + near-certain confidence is
	// the only path that skips confirmation on a destructive action.
	d := Assess(planOf(0.97, "delete_file"), state.AutonomyHigh, Options{ConfirmSensitive: false})
	assert.Equal(t, protocol.ActionExecute, d.Action)

	d = Assess(planOf(0.96, "delete_file"), state.AutonomyHigh, Options{ConfirmSensitive: false})
	assert.Equal(t, protocol.ActionAsk, d.Action, "below override threshold")

	d = Assess(planOf(0.97, "delete_file"), state.AutonomyNormal, Options{ConfirmSensitive: false})
	assert.Equal(t, protocol.ActionAsk, d.Action, "normal mode never overrides")
}

func TestAssessRecordsContext(t *testing.T) {
	d := Assess(planOf(0.92, "close_window"), state.AutonomyNormal, Options{ConfirmSensitive: true})
	assert.Equal(t, protocol.ActionExecute, d.Action)
	assert.Equal(t, 0.92, d.Confidence)
	assert.Equal(t, "medium", d.Risk)
	assert.Equal(t, "normal", d.Mode)
	assert.NotEmpty(t, d.Reason)
	assert.NotEmpty(t, d.PlanSummary)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "no actions", Summarize(nil))

	got := Summarize([]protocol.Intent{
		{Tool: "open_target", Args: map[string]any{"query": "chrome"}},
		{Tool: "volume_control", Args: map[string]any{"scope": "master", "action": "set", "level": 35}},
	})
	assert.Equal(t, "open target chrome, then volume control to 35", got)
}
