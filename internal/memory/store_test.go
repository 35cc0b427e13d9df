package memory

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTemp(t)

	base := time.Now().Add(-time.Hour)
	for i, utterance := range []string{"open chrome", "volume 35", "close chrome"} {
		require.NoError(t, s.Record(Interaction{
			Utterance: utterance,
			Mode:      "tool_plan",
			Tools:     []string{"open_target"},
			Reply:     "done",
			Decision:  "executed",
			Success:   true,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	recent, err := s.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "close chrome", recent[0].Utterance, "newest first")
	assert.Equal(t, "volume 35", recent[1].Utterance)
	assert.Equal(t, []string{"open_target"}, recent[0].Tools)
	assert.Equal(t, s.SessionID(), recent[0].SessionID)
}

func TestRecallRanksByOverlapThenRecency(t *testing.T) {
	s := openTemp(t)

	base := time.Now().Add(-time.Hour)
	rows := []Interaction{
		{Utterance: "open chrome", Tools: []string{"open_target"}, Timestamp: base},
		{Utterance: "close chrome window please", Tools: []string{"close_window"}, Timestamp: base.Add(time.Minute)},
		{Utterance: "open spotify", Tools: []string{"open_target"}, Timestamp: base.Add(2 * time.Minute)},
	}
	for _, row := range rows {
		row.Mode = "tool_plan"
		row.Decision = "executed"
		require.NoError(t, s.Record(row))
	}

	hits, err := s.Recall("close chrome", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "close chrome window please", hits[0].Utterance,
		"two-term overlap outranks one")

	// Equal scores break toward the newer interaction.
	hits, err = s.Recall("open", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "open spotify", hits[0].Utterance)
}

func TestRecallNoTermsOrLimit(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Record(Interaction{Utterance: "open chrome", Mode: "tool_plan", Decision: "executed"}))

	hits, err := s.Recall("the a of", 5)
	require.NoError(t, err)
	assert.Empty(t, hits, "stop words only")

	hits, err = s.Recall("chrome", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
