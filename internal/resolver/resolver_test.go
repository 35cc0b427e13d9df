package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-ai/aria/internal/state"
	"github.com/aria-ai/aria/pkg/protocol"
)

func snapWithHistory() state.Snapshot {
	return state.Snapshot{
		LastTool:      "open_target",
		LastTarget:    "chrome",
		LastIntents:   []protocol.Intent{{Tool: "open_target", Args: map[string]any{"query": "chrome"}}},
		HasLastAction: true,
		Targets: []state.TargetRecord{
			{Name: "chrome", Tool: "open_target", At: time.Now()},
			{Name: "spotify", Tool: "open_target", At: time.Now().Add(-time.Minute)},
		},
	}
}

func TestReplayPhrases(t *testing.T) {
	snap := snapWithHistory()
	for _, text := range []string{
		"do that again", "do it again", "repeat that", "again",
		"same thing", "one more time", "Same thing again.",
	} {
		res := Resolve(text, snap)
		require.Equal(t, Replay, res.Kind, text)
		require.Len(t, res.Intents, 1, text)
		assert.Equal(t, "open_target", res.Intents[0].Tool, text)
	}
}

func TestReplayWithoutHistoryPassesThrough(t *testing.T) {
	res := Resolve("do that again", state.Snapshot{})
	assert.Equal(t, Passthrough, res.Kind)
	assert.Equal(t, "do that again", res.Text)
}

func TestReplaySuppressedAfterChatTurn(t *testing.T) {
	snap := snapWithHistory()
	snap.LastLLMReplyOnly = true

	res := Resolve("again", snap)
	assert.Equal(t, Passthrough, res.Kind)
}

func TestPronounPrefersLastTarget(t *testing.T) {
	// The user opened spotify, then alt-tabbed to chrome. "it" still
	// means spotify: the last command outranks the foreground window.
	snap := snapWithHistory()
	snap.LastTarget = "spotify"
	snap.ActiveApp = "chrome"

	res := Resolve("close it", snap)
	require.Equal(t, Rewritten, res.Kind)
	assert.Equal(t, "close spotify", res.Text)
	assert.Equal(t, "spotify", res.Referent)
}

func TestPronounFallsBackToActiveApp(t *testing.T) {
	// No app tool has run, so the foreground window is all we have.
	snap := state.Snapshot{ActiveApp: "Spotify"}

	res := Resolve("close it", snap)
	require.Equal(t, Rewritten, res.Kind)
	assert.Equal(t, "close Spotify", res.Text)
	assert.Equal(t, "Spotify", res.Referent)
}

func TestPronounNoContextPassesThrough(t *testing.T) {
	res := Resolve("close it", state.Snapshot{})
	assert.Equal(t, Passthrough, res.Kind)

	// A last target from a non-app tool is not a window referent.
	res = Resolve("close it", state.Snapshot{LastTool: "get_time", LastTarget: "x"})
	assert.Equal(t, Passthrough, res.Kind)
}

func TestPronounVerbVariants(t *testing.T) {
	snap := snapWithHistory()
	snap.LastTarget = "vlc"

	for text, want := range map[string]string{
		"pause it":      "pause vlc",
		"minimize this": "minimize vlc",
		"mute that":     "mute vlc",
		"open that one": "open vlc",
	} {
		res := Resolve(text, snap)
		require.Equal(t, Rewritten, res.Kind, text)
		assert.Equal(t, want, res.Text, text)
	}
}

func TestTheOtherOneToggles(t *testing.T) {
	snap := snapWithHistory()
	snap.ActiveApp = "chrome"

	res := Resolve("open the other one", snap)
	require.Equal(t, Rewritten, res.Kind)
	assert.Equal(t, "open spotify", res.Text)
}

func TestTheOtherOneNeedsTwoTargets(t *testing.T) {
	snap := state.Snapshot{
		Targets: []state.TargetRecord{{Name: "chrome"}},
		ActiveApp: "chrome",
	}
	res := Resolve("open the other one", snap)
	assert.Equal(t, Passthrough, res.Kind)
}

func TestMoveItToMonitor(t *testing.T) {
	snap := snapWithHistory()
	snap.ActiveApp = "chrome"

	res := Resolve("move it to monitor 2", snap)
	require.Equal(t, Rewritten, res.Kind)
	assert.Equal(t, "move chrome to monitor 2", res.Text)
	assert.Equal(t, "chrome", res.Referent)
}

func TestPlainTextPassesThrough(t *testing.T) {
	snap := snapWithHistory()
	for _, text := range []string{
		"open spotify",
		"close chrome",
		"what time is it",
		"play it cool", // "it" not the whole object
	} {
		res := Resolve(text, snap)
		assert.Equal(t, Passthrough, res.Kind, text)
		assert.Equal(t, text, res.Text, text)
	}
}
