package policy

import (
	"regexp"
	"time"

	"github.com/aria-ai/aria/internal/state"
	"github.com/aria-ai/aria/pkg/protocol"
)

// PendingOutcome classifies what a user turn did to an outstanding
// confirmation.
type PendingOutcome int

const (
	// PendingNone: nothing was pending; the turn proceeds normally.
	PendingNone PendingOutcome = iota
	// PendingConfirmed: the user said yes; Plan holds the actions to run.
	PendingConfirmed
	// PendingCancelled: the user said no.
	PendingCancelled
	// PendingExpired: the confirmation aged out before an answer.
	PendingExpired
	// PendingIgnored: the turn was about something else; the prompt is
	// re-asked (bounded) and the turn proceeds normally.
	PendingIgnored
	// PendingDropped: ignored too many times; the plan is abandoned
	// and the turn proceeds normally.
	PendingDropped
)

// PendingResolution is the result of checking a turn against the
// pending confirmation.
type PendingResolution struct {
	Outcome  PendingOutcome
	Plan     []protocol.Intent // confirmed plan, set only for PendingConfirmed
	Reprompt string            // question to repeat, set only for PendingIgnored
}

// Affirmations and refusals match on the leading words only, so
// "yes please" and "no, leave it" both resolve.
var (
	yesRe = regexp.MustCompile(`(?i)^(?:yes|yeah|yep|yup|sure|ok(?:ay)?|go\s+ahead|do\s+it|confirm|please\s+do|affirmative)\b`)
	noRe  = regexp.MustCompile(`(?i)^(?:no|nope|nah|don'?t|do\s+not|cancel|stop|abort|never\s*mind|forget\s+it|negative)\b`)
)

// ResolvePending checks the user's turn against any outstanding
// confirmation. On a yes, the pending plan is consumed from the store
// BEFORE it is returned, so a crash or re-entry between resolution and
// execution can never run the plan twice. maxReprompts bounds how many
// unrelated turns re-ask the question; zero re-asks forever.
func ResolvePending(store *state.Store, text string, now time.Time, maxReprompts int) PendingResolution {
	pending, ok := store.Pending()
	if !ok {
		return PendingResolution{Outcome: PendingNone}
	}

	if now.After(pending.ExpiresAt) {
		store.ExpirePending(now)
		return PendingResolution{Outcome: PendingExpired}
	}

	switch {
	case yesRe.MatchString(text):
		consumed, ok := store.ConsumePending()
		if !ok {
			return PendingResolution{Outcome: PendingNone}
		}
		return PendingResolution{Outcome: PendingConfirmed, Plan: consumed.Plan}
	case noRe.MatchString(text):
		store.ClearPending()
		return PendingResolution{Outcome: PendingCancelled}
	}

	// Unrelated input. Re-ask up to the limit, then give up on the
	// plan rather than nagging indefinitely.
	ignored := store.BumpPendingIgnored()
	if maxReprompts > 0 && ignored > maxReprompts {
		store.ClearPending()
		return PendingResolution{Outcome: PendingDropped}
	}
	return PendingResolution{Outcome: PendingIgnored, Reprompt: pending.Prompt}
}

// SweepExpired clears a pending confirmation that has aged out, for
// callers that want expiry handled between turns. Idempotent.
func SweepExpired(store *state.Store, now time.Time) bool {
	return store.ExpirePending(now)
}
