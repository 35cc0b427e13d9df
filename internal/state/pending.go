package state

import "time"

// SetPending installs a new pending confirmation, replacing (and so
// implicitly cancelling) any prior record. At most one pending
// confirmation exists at a time.
func (s *Store) SetPending(p PendingConfirmation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	cp.Plan = copyIntents(p.Plan)
	s.pending = &cp
}

// Pending returns a copy of the outstanding confirmation, if any.
// Expiry is not checked here; callers decide against their own clock.
func (s *Store) Pending() (PendingConfirmation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return PendingConfirmation{}, false
	}
	cp := *s.pending
	cp.Plan = copyIntents(s.pending.Plan)
	return cp, true
}

// ConsumePending atomically clears the pending record and returns it.
// The clear-then-return order is what prevents double execution when
// two near-simultaneous utterances both look like a "yes".
func (s *Store) ConsumePending() (PendingConfirmation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return PendingConfirmation{}, false
	}
	cp := *s.pending
	cp.Plan = copyIntents(s.pending.Plan)
	s.pending = nil
	return cp, true
}

// ClearPending drops any outstanding confirmation. Clearing an absent
// record is a no-op.
func (s *Store) ClearPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// ExpirePending clears the pending record if its TTL has elapsed at
// now, reporting whether anything was expired. Safe to call from both
// the lazy (next-utterance) and active (heartbeat tick) paths;
// expiring an already-cleared record is a no-op.
func (s *Store) ExpirePending(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return false
	}
	if now.After(s.pending.ExpiresAt) {
		s.pending = nil
		return true
	}
	return false
}

// BumpPendingIgnored increments the ignored-turn counter on the
// outstanding confirmation and returns the new count. Zero when no
// confirmation is pending.
func (s *Store) BumpPendingIgnored() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return 0
	}
	s.pending.Ignored++
	return s.pending.Ignored
}
