package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aria-ai/aria/pkg/protocol"
)

func TestClassifyToolTiers(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args map[string]any
		want Tier
	}{
		{"read-only query", "get_time", nil, TierLow},
		{"reversible mutation", "close_window", nil, TierMedium},
		{"destructive table hit", "delete_file", nil, TierHigh},
		{"destructive name pattern", "force_delete_cache", nil, TierHigh},
		{"destructive verb in args", "run_action", map[string]any{"cmd": "delete everything"}, TierHigh},
		{"unknown tool defaults medium", "frobnicate_widget", nil, TierMedium},
		{"empty name", "", nil, TierMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTool(tt.tool, tt.args))
		})
	}
}

func TestClassifyPlanTakesMaximum(t *testing.T) {
	plan := []protocol.Intent{
		{Tool: "get_time"},
		{Tool: "close_window"},
		{Tool: "get_system_info"},
	}
	assert.Equal(t, TierMedium, ClassifyPlan(plan))

	plan = append(plan, protocol.Intent{Tool: "shutdown"})
	assert.Equal(t, TierHigh, ClassifyPlan(plan))
}

func TestClassifyPlanEmptyIsLow(t *testing.T) {
	assert.Equal(t, TierLow, ClassifyPlan(nil))
}

func TestReplayedPlanClassifiesLikeFirstRun(t *testing.T) {
	// Replays carry the original intents verbatim, so a repeated
	// destructive plan is still destructive.
	plan := []protocol.Intent{{Tool: "kill_process"}}
	assert.Equal(t, TierHigh, ClassifyPlan(plan))

	plan = []protocol.Intent{{Tool: "get_time"}}
	assert.Equal(t, TierLow, ClassifyPlan(plan))
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "low", TierLow.String())
	assert.Equal(t, "medium", TierMedium.String())
	assert.Equal(t, "high", TierHigh.String())
}
