package parser

import (
	"strings"

	"github.com/aria-ai/aria/internal/router"
	"github.com/aria-ai/aria/pkg/protocol"
)

// connectors that may separate a leading command from trailing free
// text. Broader than the compound separators: bare sentence
// punctuation counts ("pause. what's a VPN").
var connectors = []string{
	" and then ",
	" then ",
	" and ",
	" also ",
	" plus ",
	"; ",
	";",
	". ",
	", ",
	",",
}

// leadingMinConfidence gates the command half of a mixed split. Only
// clauses the router is firmly sure of qualify; a marginal match must
// not steal half an utterance from the language model.
const leadingMinConfidence = 0.8

// fillerPrefixes are polite lead-ins stripped before matching.
var fillerPrefixes = []string{
	"please ", "can you ", "could you ", "would you ", "okay ", "ok ",
}

var interrogatives = map[string]struct{}{
	"what": {}, "whats": {}, "what's": {}, "who": {}, "where": {},
	"when": {}, "why": {}, "how": {}, "is": {}, "are": {}, "can": {},
	"does": {}, "do": {}, "will": {},
}

// SplitLeading carves a mixed utterance such as "pause music and
// what's a VPN" into a leading tool plan plus the leftover text for
// the language model. The split is conservative: it succeeds only when
// everything before the first connector routes as a tool plan at high
// confidence and the leftover itself is not a routable command. ok is
// false otherwise and normal routing continues.
func SplitLeading(text string) (protocol.RoutingDecision, string, bool) {
	trimmed := strings.Join(strings.Fields(text), " ")
	for _, f := range fillerPrefixes {
		if strings.HasPrefix(strings.ToLower(trimmed), f) {
			trimmed = strings.TrimSpace(trimmed[len(f):])
		}
	}
	if trimmed == "" {
		return protocol.RoutingDecision{}, "", false
	}
	lower := strings.ToLower(trimmed)

	// Earliest connector wins, so the command half stays short.
	start, end := -1, 0
	for _, c := range connectors {
		if i := strings.Index(lower, c); i >= 0 && (start < 0 || i < start) {
			start, end = i, i+len(c)
		}
	}
	if start <= 0 {
		return protocol.RoutingDecision{}, "", false
	}

	head := strings.TrimSpace(trimmed[:start])
	leftover := strings.TrimSpace(trimmed[end:])
	if head == "" || leftover == "" {
		return protocol.RoutingDecision{}, "", false
	}

	d := router.Route(head)
	if !d.IsToolPlan() || d.Confidence < leadingMinConfidence {
		return protocol.RoutingDecision{}, "", false
	}
	if rest := router.Route(leftover); rest.IsToolPlan() {
		// Two commands are a compound, not a command plus a question.
		return protocol.RoutingDecision{}, "", false
	}

	leftover = strings.TrimSpace(strings.TrimRight(leftover, "?!.,;"))
	if leftover == "" {
		return protocol.RoutingDecision{}, "", false
	}
	first := strings.ToLower(strings.Fields(leftover)[0])
	if _, q := interrogatives[first]; q {
		leftover += "?"
	}
	return d, leftover, true
}
