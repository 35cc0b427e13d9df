package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-ai/aria/internal/state"
	"github.com/aria-ai/aria/pkg/protocol"
)

func storeWithPending(t *testing.T, ttl time.Duration) (*state.Store, time.Time) {
	t.Helper()
	now := time.Now()
	s := state.New()
	s.SetPending(state.PendingConfirmation{
		ID:        "p1",
		Plan:      []protocol.Intent{{Tool: "close_window", Args: map[string]any{"process": "chrome"}}},
		Prompt:    "Should I close chrome?",
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	})
	return s, now
}

func TestResolvePendingNothingPending(t *testing.T) {
	s := state.New()
	r := ResolvePending(s, "yes", time.Now(), 2)
	assert.Equal(t, PendingNone, r.Outcome)
}

func TestResolvePendingYesWithinTTL(t *testing.T) {
	s, now := storeWithPending(t, 45*time.Second)

	r := ResolvePending(s, "yes please", now.Add(10*time.Second), 2)
	require.Equal(t, PendingConfirmed, r.Outcome)
	require.Len(t, r.Plan, 1)
	assert.Equal(t, "close_window", r.Plan[0].Tool)

	_, stillPending := s.Pending()
	assert.False(t, stillPending, "plan must be consumed before it is returned")
}

func TestResolvePendingYesVariants(t *testing.T) {
	for _, text := range []string{"Yes", "yeah", "sure", "go ahead", "do it", "okay", "yep, sounds good"} {
		s, now := storeWithPending(t, time.Minute)
		r := ResolvePending(s, text, now, 2)
		assert.Equal(t, PendingConfirmed, r.Outcome, text)
	}
}

func TestResolvePendingNo(t *testing.T) {
	s, now := storeWithPending(t, time.Minute)

	r := ResolvePending(s, "no, leave it", now, 2)
	assert.Equal(t, PendingCancelled, r.Outcome)

	_, stillPending := s.Pending()
	assert.False(t, stillPending)
}

func TestResolvePendingNoVariants(t *testing.T) {
	for _, text := range []string{"nope", "don't", "cancel", "never mind", "stop"} {
		s, now := storeWithPending(t, time.Minute)
		r := ResolvePending(s, text, now, 2)
		assert.Equal(t, PendingCancelled, r.Outcome, text)
	}
}

func TestResolvePendingExpired(t *testing.T) {
	s, now := storeWithPending(t, 45*time.Second)

	r := ResolvePending(s, "yes", now.Add(46*time.Second), 2)
	assert.Equal(t, PendingExpired, r.Outcome)
	assert.Empty(t, r.Plan, "an expired yes must never execute")

	_, stillPending := s.Pending()
	assert.False(t, stillPending)
}

func TestResolvePendingIgnoredThenDropped(t *testing.T) {
	s, now := storeWithPending(t, time.Hour)

	r := ResolvePending(s, "what time is it", now, 2)
	assert.Equal(t, PendingIgnored, r.Outcome)
	assert.Equal(t, "Should I close chrome?", r.Reprompt)

	r = ResolvePending(s, "open spotify", now, 2)
	assert.Equal(t, PendingIgnored, r.Outcome)

	r = ResolvePending(s, "tell me a joke", now, 2)
	assert.Equal(t, PendingDropped, r.Outcome)

	_, stillPending := s.Pending()
	assert.False(t, stillPending)
}

func TestResolvePendingUnlimitedReprompts(t *testing.T) {
	s, now := storeWithPending(t, time.Hour)

	for i := 0; i < 10; i++ {
		r := ResolvePending(s, "something else", now, 0)
		assert.Equal(t, PendingIgnored, r.Outcome)
	}
	_, stillPending := s.Pending()
	assert.True(t, stillPending)
}

func TestSweepExpired(t *testing.T) {
	s, now := storeWithPending(t, 45*time.Second)

	assert.False(t, SweepExpired(s, now.Add(44*time.Second)))
	assert.True(t, SweepExpired(s, now.Add(46*time.Second)))
	assert.False(t, SweepExpired(s, now.Add(47*time.Second)), "idempotent")
}
