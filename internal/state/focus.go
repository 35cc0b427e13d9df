package state

import "strings"

// PushFocus records a window gaining focus. If the top entry is the
// same app (case-insensitive), its handle and title are updated in
// place instead of creating a duplicate; otherwise the entry is
// prepended and the history truncated to capacity. Either way the
// round-robin cursor resets to the newest entry.
func (s *Store) PushFocus(app string, handle int, title string) {
	app = strings.TrimSpace(app)
	if app == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.focus) > 0 && strings.EqualFold(s.focus[0].App, app) {
		s.focus[0].Handle = handle
		s.focus[0].Title = title
	} else {
		s.focus = append([]FocusEntry{{App: app, Handle: handle, Title: title}}, s.focus...)
		if len(s.focus) > focusCapacity {
			s.focus = s.focus[:focusCapacity]
		}
	}
	s.focusCursor = 0
}

// FocusStack returns a copy of the focus history, most recent first.
func (s *Store) FocusStack() []FocusEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]FocusEntry(nil), s.focus...)
}

// PreviousFocusedApp returns the second-most-recent distinct app, for
// "go back" semantics. ErrNoHistory when fewer than two entries exist.
func (s *Store) PreviousFocusedApp() (FocusEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.focus) < 2 {
		return FocusEntry{}, ErrNoHistory
	}
	return s.focus[1], nil
}

// NextFocusedApp cycles forward through the focus history, wrapping to
// the most recent after reaching the oldest. Each call advances the
// cursor: on a stack of size N, N successive calls visit each other
// entry exactly once before repeating. Callers must not call this
// speculatively; every call is a real advance.
func (s *Store) NextFocusedApp() (FocusEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.focus) < 2 {
		return FocusEntry{}, ErrNoHistory
	}
	s.focusCursor = (s.focusCursor + 1) % len(s.focus)
	return s.focus[s.focusCursor], nil
}

// FindFocusedApp looks up a focus entry by app name, case-insensitive
// substring match, most recent first.
func (s *Store) FindFocusedApp(app string) (FocusEntry, bool) {
	needle := strings.ToLower(strings.TrimSpace(app))
	if needle == "" {
		return FocusEntry{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.focus {
		if strings.Contains(strings.ToLower(e.App), needle) {
			return e, true
		}
	}
	return FocusEntry{}, false
}
