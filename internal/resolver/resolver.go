// Package resolver rewrites anaphoric utterances ("close it", "do
// that again", "open the other one") into self-contained text before
// routing, using a read-only snapshot of the conversation state.
//
// Resolution is a tagged result rather than an in-band sentinel
// string: a replay carries the prior plan directly so downstream
// stages never have to re-parse a magic token.
package resolver

import (
	"regexp"
	"strings"

	"github.com/aria-ai/aria/internal/state"
	"github.com/aria-ai/aria/pkg/protocol"
)

// Kind discriminates the three resolution outcomes.
type Kind int

const (
	// Passthrough means the text needed no rewriting.
	Passthrough Kind = iota
	// Rewritten means a reference was substituted; Text holds the
	// rewritten utterance and Referent names what was substituted in.
	Rewritten
	// Replay means the user asked to repeat the last action; Intents
	// holds the prior plan verbatim.
	Replay
)

func (k Kind) String() string {
	switch k {
	case Rewritten:
		return "rewritten"
	case Replay:
		return "replay"
	default:
		return "passthrough"
	}
}

// Resolution is the resolver's output for one utterance.
type Resolution struct {
	Kind     Kind
	Text     string // original or rewritten utterance
	Referent string // what a pronoun was resolved to, empty unless Rewritten
	Intents  []protocol.Intent
}

var replayRe = regexp.MustCompile(`(?i)^(?:do\s+(?:that|it)\s+again|repeat\s+(?:that|it)|again|(?:the\s+)?same\s+thing(?:\s+again)?|one\s+more\s+time|repeat)$`)

// pronounVerbRe matches verbs whose pronoun object can be resolved
// from context. The pronoun must be the whole object.
var pronounVerbRe = regexp.MustCompile(`(?i)^(close|shut|quit|exit|open|launch|start|minimize|maximize|focus(?:\s+on)?|switch\s+to|mute|unmute|pause|resume|play)\s+(it|that|this|that\s+one|this\s+one)$`)

var otherOneRe = regexp.MustCompile(`(?i)^(close|shut|quit|exit|open|launch|start|minimize|maximize|focus(?:\s+on)?|switch\s+to|mute|unmute|pause|resume|play)\s+the\s+other\s+one$`)

var moveItRe = regexp.MustCompile(`(?i)^(move)\s+(it|that|this|that\s+window|this\s+window)\s+(to\s+.+)$`)

// appTools are tools whose recorded target names an application, which
// makes the last target a valid pronoun referent.
var appTools = map[string]struct{}{
	"open_target": {}, "close_window": {}, "focus_window": {},
	"minimize_window": {}, "maximize_window": {}, "switch_app": {},
	"move_window_to_monitor": {},
}

// Resolve rewrites references in text against the given snapshot. It
// never fails; text it cannot improve passes through unchanged.
func Resolve(text string, snap state.Snapshot) Resolution {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(strings.TrimRight(trimmed, ".?!,;:"))
	pass := Resolution{Kind: Passthrough, Text: trimmed}

	if replayRe.MatchString(lower) {
		// A repeat request only makes sense after a tool actually ran.
		// After a chat-only turn "again" is conversational, not a
		// command, so it flows through to the language model.
		if snap.LastLLMReplyOnly || !snap.HasLastAction || len(snap.LastIntents) == 0 {
			return pass
		}
		return Resolution{Kind: Replay, Text: trimmed, Intents: snap.LastIntents}
	}

	if m := moveItRe.FindStringSubmatch(trimmed); m != nil {
		ref := referentFor(snap)
		if ref == "" {
			return pass
		}
		return Resolution{
			Kind:     Rewritten,
			Text:     m[1] + " " + ref + " " + m[3],
			Referent: ref,
		}
	}

	if m := otherOneRe.FindStringSubmatch(trimmed); m != nil {
		other := otherTarget(snap)
		if other == "" {
			return pass
		}
		return Resolution{
			Kind:     Rewritten,
			Text:     m[1] + " " + other,
			Referent: other,
		}
	}

	if m := pronounVerbRe.FindStringSubmatch(trimmed); m != nil {
		ref := referentFor(snap)
		if ref == "" {
			return pass
		}
		return Resolution{
			Kind:     Rewritten,
			Text:     m[1] + " " + ref,
			Referent: ref,
		}
	}

	return pass
}

// referentFor picks what "it" points at: the target of the last app or
// window tool wins, with the foreground app as fallback. The last
// command names the thing the user was talking about even if they have
// alt-tabbed since.
func referentFor(snap state.Snapshot) string {
	if snap.LastTarget != "" {
		if _, ok := appTools[snap.LastTool]; ok {
			return snap.LastTarget
		}
	}
	return snap.ActiveApp
}

// otherTarget toggles between the two most recent distinct targets:
// whichever one is not the most recent referent.
func otherTarget(snap state.Snapshot) string {
	cur := referentFor(snap)
	for _, t := range snap.Targets {
		if !strings.EqualFold(t.Name, cur) {
			return t.Name
		}
	}
	return ""
}
