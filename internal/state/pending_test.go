package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-ai/aria/pkg/protocol"
)

func newPending(ttl time.Duration) PendingConfirmation {
	now := time.Now()
	return PendingConfirmation{
		ID:        "p1",
		Plan:      []protocol.Intent{{Tool: "close_window", Args: map[string]any{"process": "chrome"}}},
		Prompt:    "Should I close chrome?",
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestConsumePendingClearsBeforeReturning(t *testing.T) {
	s := New()
	s.SetPending(newPending(time.Minute))

	got, ok := s.ConsumePending()
	require.True(t, ok)
	assert.Equal(t, "close_window", got.Plan[0].Tool)

	_, ok = s.ConsumePending()
	assert.False(t, ok, "second consume must find nothing")
	_, ok = s.Pending()
	assert.False(t, ok)
}

func TestSetPendingReplacesPrior(t *testing.T) {
	s := New()
	s.SetPending(newPending(time.Minute))

	second := newPending(time.Minute)
	second.ID = "p2"
	s.SetPending(second)

	got, ok := s.Pending()
	require.True(t, ok)
	assert.Equal(t, "p2", got.ID)
}

func TestExpirePendingIdempotent(t *testing.T) {
	s := New()
	s.SetPending(newPending(45 * time.Second))

	assert.False(t, s.ExpirePending(time.Now().Add(10*time.Second)))
	assert.True(t, s.ExpirePending(time.Now().Add(46*time.Second)))
	assert.False(t, s.ExpirePending(time.Now().Add(50*time.Second)), "already expired")
}

func TestBumpPendingIgnored(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.BumpPendingIgnored(), "nothing pending")

	s.SetPending(newPending(time.Minute))
	assert.Equal(t, 1, s.BumpPendingIgnored())
	assert.Equal(t, 2, s.BumpPendingIgnored())
}

func TestPendingPlanIsCopied(t *testing.T) {
	s := New()
	p := newPending(time.Minute)
	s.SetPending(p)
	p.Plan[0].Tool = "mutated"

	got, ok := s.Pending()
	require.True(t, ok)
	assert.Equal(t, "close_window", got.Plan[0].Tool)
}
