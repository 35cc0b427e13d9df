// Package parser decomposes compound utterances ("open chrome and
// mute spotify, then play music") into an ordered tool plan by
// splitting on separators, inferring elided verbs, and routing each
// clause through the single-clause rules.
//
// Composition is all-or-nothing: if any clause fails to route as a
// tool call with enough confidence, the whole utterance is left for
// the language model rather than executing a half-understood plan.
package parser

import (
	"regexp"
	"strings"

	"github.com/aria-ai/aria/internal/router"
	"github.com/aria-ai/aria/pkg/protocol"
)

const (
	// Clause count bounds. One clause is not a compound; more than
	// maxClauses is almost certainly a transcription error.
	minClauses = 2
	maxClauses = 7

	// aggregatePenalty discounts the weakest clause: a seven-step plan
	// should never score as high as its best single step.
	aggregatePenalty = 0.95
)

// separators in precedence order, tried most explicit first;
// " and then " must outrank " then " and " and " or it would never
// match.
var separators = []string{
	" and then ",
	" then ",
	" and ",
	";",
	",",
	" & ",
	" also ",
	" plus ",
}

// clauseVerbs are the leading command verbs a clause can start with.
// Used both for verb inference on elided clauses and for splitting
// run-on clauses at verb boundaries.
var clauseVerbs = map[string]struct{}{
	"open": {}, "launch": {}, "start": {},
	"close": {}, "quit": {}, "exit": {},
	"mute": {}, "unmute": {},
	"play": {}, "pause": {}, "resume": {},
	"minimize": {}, "maximize": {}, "focus": {},
	"set": {}, "move": {}, "scan": {}, "switch": {},
}

// questionWords mark interrogative clauses; those never inherit a
// verb from the previous clause ("open chrome and what time is it").
var questionWords = map[string]struct{}{
	"what": {}, "when": {}, "where": {}, "who": {}, "why": {}, "how": {},
	"is": {}, "are": {}, "can": {}, "could": {}, "do": {}, "does": {},
	"tell": {}, "whats": {}, "what's": {},
}

// Parse attempts a multi-intent decomposition of text. ok is false
// when the text is not a parsable compound; the caller then routes it
// as a single clause.
//
// Separators are tried in precedence order, and a failed attempt falls
// through to the next separator rather than aborting the whole parse:
// the clause set that routes cleanly wins. Sentence boundaries count
// as a separator of their own, and a run-on with no separator at all
// gets one verb-boundary attempt.
func Parse(text string) (protocol.RoutingDecision, bool) {
	trimmed := strings.Join(strings.Fields(text), " ")
	if trimmed == "" {
		return protocol.RoutingDecision{}, false
	}

	lower := strings.ToLower(trimmed)
	for _, sep := range separators {
		if !strings.Contains(lower, sep) {
			continue
		}
		parts := splitOnOne(trimmed, sep)
		if len(parts) < minClauses {
			continue
		}
		if d, ok := routeClauses(expandParts(parts, sep)); ok {
			return d, true
		}
	}

	if parts := splitSentences(trimmed); len(parts) >= minClauses {
		if d, ok := routeClauses(expandParts(parts, "")); ok {
			return d, true
		}
	}

	// No separator anywhere: a run-on like "close chrome open spotify"
	// can still split at its verbs.
	if !hasSeparator(trimmed) {
		if clauses := splitAtVerbBoundaries(trimmed); len(clauses) >= minClauses {
			if d, ok := routeClauses(inferVerbs(clauses)); ok {
				return d, true
			}
		}
	}

	return protocol.RoutingDecision{}, false
}

// routeClauses routes every clause through the single-clause rules,
// all-or-nothing: any deferral or weak clause fails the attempt.
func routeClauses(clauses []string) (protocol.RoutingDecision, bool) {
	if len(clauses) < minClauses || len(clauses) > maxClauses {
		return protocol.RoutingDecision{}, false
	}

	var (
		intents []protocol.Intent
		replies []string
		minConf = 1.0
	)
	for _, clause := range clauses {
		d := router.Route(clause)
		if !d.IsToolPlan() || d.Confidence < router.MinClauseConfidence {
			return protocol.RoutingDecision{}, false
		}
		for _, in := range d.Intents {
			in.ContinueOnError = true
			intents = append(intents, in)
		}
		if d.Reply != "" {
			replies = append(replies, d.Reply)
		}
		if d.Confidence < minConf {
			minConf = d.Confidence
		}
	}
	if len(intents) < minClauses {
		return protocol.RoutingDecision{}, false
	}

	return protocol.Plan(minConf*aggregatePenalty, strings.Join(replies, " "), intents...), true
}

// expandParts expands each separator part in place: comma lists (when
// the comma was not the anchor separator itself) and sentence
// boundaries inside a part split further, then elided verbs are filled
// in across the full clause list.
func expandParts(parts []string, sep string) []string {
	var out []string
	for _, p := range parts {
		sub := []string{p}
		if sep != "," && strings.Contains(p, ",") {
			sub = splitOnOne(p, ",")
		}
		for _, s := range sub {
			out = append(out, splitSentences(s)...)
		}
	}
	return inferVerbs(out)
}

func hasSeparator(text string) bool {
	lower := strings.ToLower(text)
	for _, sep := range separators {
		if strings.Contains(lower, sep) {
			return true
		}
	}
	return sentenceRe.MatchString(text)
}

// Split breaks text into candidate clauses: separator splits first
// (recursively, so "open chrome, spotify and discord" decomposes past
// the top-level "and"), then verb inference for elided clauses, then
// verb-boundary splits for run-ons inside each clause.
func Split(text string) []string {
	parts := splitRecursive(text, 0)
	parts = inferVerbs(parts)

	var clauses []string
	for _, p := range parts {
		clauses = append(clauses, splitAtVerbBoundaries(p)...)
	}
	return clauses
}

// splitRecursive keeps applying the separator split to each fragment
// until none splits further. Depth-bounded against pathological input.
func splitRecursive(text string, depth int) []string {
	if depth > 4 {
		return []string{text}
	}
	parts := splitOnSeparator(text)
	if len(parts) == 1 {
		return parts
	}
	var out []string
	for _, p := range parts {
		out = append(out, splitRecursive(p, depth+1)...)
	}
	return out
}

// splitOnSeparator splits on the highest-precedence separator present,
// with sentence boundaries as the last resort. Only one separator
// level applies per pass; mixed separators resolve through recursion.
func splitOnSeparator(text string) []string {
	lower := strings.ToLower(text)
	for _, sep := range separators {
		if !strings.Contains(lower, sep) {
			continue
		}
		if out := splitOnOne(text, sep); len(out) > 1 {
			return out
		}
	}
	if parts := splitSentences(text); len(parts) > 1 {
		return parts
	}
	return []string{strings.TrimSpace(text)}
}

// splitOnOne splits on exactly the given separator, case-insensitively,
// returning trimmed non-empty parts.
func splitOnOne(text, sep string) []string {
	var parts []string
	rest := text
	restLower := strings.ToLower(text)
	for {
		i := strings.Index(restLower, sep)
		if i < 0 {
			break
		}
		parts = append(parts, strings.TrimSpace(rest[:i]))
		rest = rest[i+len(sep):]
		restLower = restLower[i+len(sep):]
	}
	parts = append(parts, strings.TrimSpace(rest))

	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// sentenceRe marks a sentence boundary: terminal punctuation followed
// by a capital letter, the shape speech-to-text emits when the speaker
// pauses between commands.
var sentenceRe = regexp.MustCompile(`[.?!]\s+[A-Z]`)

// splitSentences breaks "open chrome. Close spotify" at its sentence
// boundaries, dropping the boundary punctuation.
func splitSentences(text string) []string {
	var out []string
	rest := strings.TrimSpace(text)
	for {
		loc := sentenceRe.FindStringIndex(rest)
		if loc == nil {
			break
		}
		if head := strings.TrimSpace(rest[:loc[0]]); head != "" {
			out = append(out, head)
		}
		rest = rest[loc[1]-1:]
	}
	if rest = strings.TrimSpace(rest); rest != "" {
		out = append(out, rest)
	}
	return out
}

// inferVerbs fills in elided verbs in list-form compounds: in "open
// chrome, spotify and discord" the bare clauses inherit "open".
// Questions and clauses that already lead with a verb are untouched.
func inferVerbs(parts []string) []string {
	out := make([]string, 0, len(parts))
	lastVerb := ""
	for _, p := range parts {
		fields := strings.Fields(p)
		if len(fields) == 0 {
			continue
		}
		head := strings.ToLower(fields[0])
		if _, isVerb := clauseVerbs[head]; isVerb {
			lastVerb = fields[0]
			out = append(out, p)
			continue
		}
		if _, q := questionWords[head]; q || lastVerb == "" {
			out = append(out, p)
			continue
		}
		out = append(out, lastVerb+" "+p)
	}
	return out
}

// splitAtVerbBoundaries breaks a run-on clause like "close chrome
// open spotify" at each interior command verb. Only applies when the
// clause itself leads with a command verb; otherwise interior verbs
// are probably nouns ("tell me about open source").
func splitAtVerbBoundaries(clause string) []string {
	fields := strings.Fields(clause)
	if len(fields) < 2 {
		return []string{clause}
	}
	if _, ok := clauseVerbs[strings.ToLower(fields[0])]; !ok {
		return []string{clause}
	}

	var out []string
	start := 0
	for i := 1; i < len(fields); i++ {
		if _, ok := clauseVerbs[strings.ToLower(fields[i])]; ok && i > start+1 {
			out = append(out, strings.Join(fields[start:i], " "))
			start = i
		}
	}
	out = append(out, strings.Join(fields[start:], " "))
	return out
}
