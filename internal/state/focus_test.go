package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushFocusDedupAndCap(t *testing.T) {
	s := New()

	s.PushFocus("chrome", 1, "Chrome")
	s.PushFocus("Chrome", 1, "Chrome - Gmail")
	require.Len(t, s.FocusStack(), 1, "consecutive same app updates in place")
	assert.Equal(t, "Chrome - Gmail", s.FocusStack()[0].Title)

	for i := 0; i < 12; i++ {
		s.PushFocus(string(rune('a'+i)), 100+i, "")
	}
	stack := s.FocusStack()
	require.Len(t, stack, 10)
	assert.Equal(t, "l", stack[0].App, "most recent first")
}

func TestPreviousFocusedApp(t *testing.T) {
	s := New()

	_, err := s.PreviousFocusedApp()
	assert.ErrorIs(t, err, ErrNoHistory)

	s.PushFocus("chrome", 1, "")
	_, err = s.PreviousFocusedApp()
	assert.ErrorIs(t, err, ErrNoHistory, "one entry is not history")

	s.PushFocus("spotify", 2, "")
	prev, err := s.PreviousFocusedApp()
	require.NoError(t, err)
	assert.Equal(t, "chrome", prev.App)
}

func TestNextFocusedAppRoundRobin(t *testing.T) {
	s := New()
	s.PushFocus("chrome", 1, "")
	s.PushFocus("spotify", 2, "")
	s.PushFocus("discord", 3, "")

	// Repeated "next" visits every other app before coming back to
	// the current one.
	seen := make(map[string]int)
	for i := 0; i < 3; i++ {
		entry, err := s.NextFocusedApp()
		require.NoError(t, err)
		seen[entry.App]++
	}
	assert.Equal(t, map[string]int{"chrome": 1, "spotify": 1, "discord": 1}, seen)
}

func TestNextFocusedAppNeedsHistory(t *testing.T) {
	s := New()
	_, err := s.NextFocusedApp()
	assert.ErrorIs(t, err, ErrNoHistory)

	s.PushFocus("chrome", 1, "")
	_, err = s.NextFocusedApp()
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestFindFocusedApp(t *testing.T) {
	s := New()
	s.PushFocus("Google Chrome", 1, "")

	entry, ok := s.FindFocusedApp("chrome")
	require.True(t, ok)
	assert.Equal(t, "Google Chrome", entry.App)

	_, ok = s.FindFocusedApp("firefox")
	assert.False(t, ok)
}
