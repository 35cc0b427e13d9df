// Package router pattern-matches one normalized clause against an
// ordered set of deterministic rules and either returns a tool-call
// intent with a confidence score or defers to the language model.
//
// Routing flow:
// 1. Ordered guard list (instant, free), first match wins
// 2. LLM deferral for everything else
//
// The router is a pure function per call: identical input always
// yields an identical decision. It is intentionally conservative; a
// clause it cannot route with confidence is deferred, never guessed.
package router

import (
	"regexp"
	"strings"

	"github.com/aria-ai/aria/pkg/protocol"
)

// Guard confidences. The deferral confidences express how sure the
// router is that deferring was the right call.
const (
	ConfURLDefer     = 0.8
	ConfTime         = 0.95
	ConfStorageScan  = 0.93
	ConfStorageList  = 0.91
	ConfStorageOpen  = 0.95
	ConfOpen         = 0.9
	ConfClose        = 0.85
	ConfWindow       = 0.85
	ConfMoveMonitor  = 0.88
	ConfVolumeSet    = 0.93
	ConfVolumeGet    = 0.9
	ConfVolumeMute   = 0.9
	ConfVolumeChange = 0.85
	ConfMedia        = 0.8
	ConfBadTarget    = 0.4 // missing or pronoun target inside a matched verb
	ConfCompound     = 0.3 // second verb inside a target: unparsed compound
	ConfDefault      = 0.3
)

// MinClauseConfidence is the per-clause floor the multi-intent parser
// applies when composing routed clauses into one plan.
const MinClauseConfidence = 0.7

// Guard is one (name, matcher) pair of the ordered rule list. Matchers
// return ok=false to pass control to the next guard.
type Guard struct {
	Name  string
	Match func(c Clause) (protocol.RoutingDecision, bool)
}

// Clause is a normalized single-clause utterance.
type Clause struct {
	Raw   string // trimmed, trailing punctuation stripped, case preserved
	Lower string
}

// guards is evaluated first to last; order is load-bearing. Kept as
// data so tests can enumerate the rules independently of control flow.
var guards = []Guard{
	{"url_defer", matchURLDefer},
	{"time_query", matchTime},
	{"storage", matchStorage},
	{"switch_app", matchSwitchApp},
	{"move_to_monitor", matchMoveToMonitor},
	{"open_target", matchOpen},
	{"close_window", matchClose},
	{"window_manage", matchWindowManage},
	{"volume", matchVolume},
	{"media_transport", matchMedia},
}

// GuardNames returns the rule names in evaluation order.
func GuardNames() []string {
	names := make([]string, len(guards))
	for i, g := range guards {
		names[i] = g.Name
	}
	return names
}

// Route matches one clause against the guard list. Never fails: every
// input produces a decision, the worst case being an LLM deferral.
func Route(text string) protocol.RoutingDecision {
	c := Normalize(text)
	if c.Lower == "" {
		return protocol.Defer(0)
	}
	for _, g := range guards {
		if d, ok := g.Match(c); ok {
			return d
		}
	}
	return protocol.Defer(ConfDefault)
}

// Normalize trims the clause and strips trailing punctuation that
// speech-to-text tends to append.
func Normalize(text string) Clause {
	raw := strings.TrimSpace(text)
	raw = strings.TrimRight(raw, ".?!,;:\"")
	raw = strings.Join(strings.Fields(raw), " ")
	return Clause{Raw: raw, Lower: strings.ToLower(raw)}
}

// ----------------------------------------------------------------
// URL / domain deferral
// ----------------------------------------------------------------

var (
	urlSchemeRe = regexp.MustCompile(`(?i)\bhttps?://`)
	wwwRe       = regexp.MustCompile(`(?i)\bwww\.`)
	domainRe    = regexp.MustCompile(`(?i)\b[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.(?:[a-z]{2,})(?:/\S*)?\b`)
)

// LooksLikeURL reports whether text contains a URL or bare domain.
// Domains are never treated as app names.
func LooksLikeURL(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return false
	}
	return urlSchemeRe.MatchString(t) || wwwRe.MatchString(t) || domainRe.MatchString(t)
}

func matchURLDefer(c Clause) (protocol.RoutingDecision, bool) {
	if LooksLikeURL(c.Lower) {
		return protocol.Defer(ConfURLDefer), true
	}
	return protocol.RoutingDecision{}, false
}

// ----------------------------------------------------------------
// Time query
// ----------------------------------------------------------------

var timeRe = regexp.MustCompile(`(?i)^(?:what\s+time\s+is\s+it|what\s+is\s+the\s+time|time\s+is\s+it|current\s+time|time)$`)

func matchTime(c Clause) (protocol.RoutingDecision, bool) {
	if !timeRe.MatchString(c.Lower) {
		return protocol.RoutingDecision{}, false
	}
	return protocol.Plan(ConfTime, "", protocol.Intent{Tool: "get_time", Args: map[string]any{}}), true
}

// ----------------------------------------------------------------
// Storage: scan / list / open drives
// ----------------------------------------------------------------

var (
	storageScanRe  = regexp.MustCompile(`(?i)^(?:scan\s+(?:the\s+)?(?:disk|disks|drives?|storage)|system\s+(?:storage\s+)?scan|scan\s+my\s+(?:drives?|disks?))$`)
	storageOpenRe  = regexp.MustCompile(`(?i)^(?:open|show)\s+drive\s+([a-z])$`)
	storageDriveRe = regexp.MustCompile(`(?i)\bdrive\s+([a-z])\b`)
	storageListRe  = regexp.MustCompile(`(?i)\b(?:list\s+(?:my\s+)?drives?|how\s+much\s+(?:storage|space|disk\s+space)|free\s+space|space\s+(?:left\s+)?on|check\s+drive|what'?s\s+on\s+drive)\b`)
)

func matchStorage(c Clause) (protocol.RoutingDecision, bool) {
	if storageScanRe.MatchString(c.Lower) {
		return protocol.Plan(ConfStorageScan, "",
			protocol.Intent{Tool: "system_storage_scan", Args: map[string]any{}}), true
	}
	if m := storageOpenRe.FindStringSubmatch(c.Lower); m != nil {
		return protocol.Plan(ConfStorageOpen, "",
			protocol.Intent{Tool: "system_storage_open", Args: map[string]any{"drive": strings.ToUpper(m[1])}}), true
	}
	if storageListRe.MatchString(c.Lower) {
		args := map[string]any{}
		if m := storageDriveRe.FindStringSubmatch(c.Lower); m != nil {
			args["drive"] = strings.ToUpper(m[1])
		}
		return protocol.Plan(ConfStorageList, "",
			protocol.Intent{Tool: "system_storage_list", Args: args}), true
	}
	return protocol.RoutingDecision{}, false
}

// ----------------------------------------------------------------
// Focus-history app switching
// ----------------------------------------------------------------

var (
	switchPrevRe = regexp.MustCompile(`(?i)^(?:switch\s+(?:back|to\s+(?:the\s+)?(?:previous|last)\s+(?:app|window))|go\s+back|previous\s+app)$`)
	switchNextRe = regexp.MustCompile(`(?i)^(?:switch\s+to\s+(?:the\s+)?next\s+(?:app|window)|next\s+app)$`)
)

func matchSwitchApp(c Clause) (protocol.RoutingDecision, bool) {
	if switchPrevRe.MatchString(c.Lower) {
		return protocol.Plan(ConfWindow, "",
			protocol.Intent{Tool: "switch_app", Args: map[string]any{"direction": "previous"}}), true
	}
	if switchNextRe.MatchString(c.Lower) {
		return protocol.Plan(ConfWindow, "",
			protocol.Intent{Tool: "switch_app", Args: map[string]any{"direction": "next"}}), true
	}
	return protocol.RoutingDecision{}, false
}

// ----------------------------------------------------------------
// Move window to monitor
// ----------------------------------------------------------------

var ordinalMonitors = map[string]int{
	"first": 1, "1st": 1, "one": 1,
	"second": 2, "2nd": 2, "two": 2, "secondary": 2, "other": 2,
	"third": 3, "3rd": 3, "three": 3,
	"fourth": 4, "4th": 4, "four": 4,
}

var moveMonitorRe = regexp.MustCompile(`(?i)^move\s+(.+?)\s+to\s+(?:the\s+)?(?:monitor\s+(\d+)|(\w+)\s+monitor)$`)

func matchMoveToMonitor(c Clause) (protocol.RoutingDecision, bool) {
	m := moveMonitorRe.FindStringSubmatch(c.Raw)
	if m == nil {
		return protocol.RoutingDecision{}, false
	}
	target := strings.TrimSpace(m[1])
	if target == "" {
		return protocol.Defer(ConfBadTarget), true
	}

	args := map[string]any{"process": target}
	switch {
	case m[2] != "":
		n := 0
		for _, r := range m[2] {
			n = n*10 + int(r-'0')
		}
		args["monitor"] = n
	default:
		word := strings.ToLower(m[3])
		if n, ok := ordinalMonitors[word]; ok {
			args["monitor"] = n
		} else if word == "left" || word == "right" || word == "primary" || word == "main" {
			args["monitor"] = word
		} else {
			return protocol.Defer(ConfBadTarget), true
		}
	}
	return protocol.Plan(ConfMoveMonitor, "",
		protocol.Intent{Tool: "move_window_to_monitor", Args: args}), true
}

// ----------------------------------------------------------------
// Open / close, with target-quality guards
// ----------------------------------------------------------------

var (
	openRe  = regexp.MustCompile(`(?i)^(?:open|launch|start)\s+(.+)$`)
	closeRe = regexp.MustCompile(`(?i)^(?:close|quit|exit)\s+(.+)$`)
)

// bareProunouns are targets that name nothing by themselves. The
// reference resolver runs before the router; a pronoun surviving to
// this point means it could not be resolved, so defer.
var barePronouns = map[string]struct{}{
	"it": {}, "this": {}, "that": {}, "something": {}, "anything": {},
	"that one": {}, "this one": {}, "the other one": {},
}

// embeddedVerbs inside a target signal an unparsed compound command
// ("open steam and play music"); the router never guesses at those.
var embeddedVerbs = map[string]struct{}{
	"open": {}, "launch": {}, "start": {}, "close": {}, "quit": {}, "exit": {},
	"play": {}, "pause": {}, "resume": {}, "mute": {}, "unmute": {},
	"then": {}, "and": {}, "also": {}, "plus": {},
}

// vetTarget screens an extracted verb target. Second return is the
// deferral decision to use when the target is unusable.
func vetTarget(target string) (string, protocol.RoutingDecision, bool) {
	t := strings.TrimSpace(strings.Trim(strings.TrimSpace(target), `"'`))
	if t == "" {
		return "", protocol.Defer(ConfBadTarget), false
	}
	if _, bad := barePronouns[strings.ToLower(t)]; bad {
		return "", protocol.Defer(ConfBadTarget), false
	}
	if LooksLikeURL(t) {
		return "", protocol.Defer(ConfURLDefer), false
	}
	for _, word := range strings.Fields(strings.ToLower(t)) {
		if _, verb := embeddedVerbs[word]; verb {
			return "", protocol.Defer(ConfCompound), false
		}
	}
	return t, protocol.RoutingDecision{}, true
}

func matchOpen(c Clause) (protocol.RoutingDecision, bool) {
	m := openRe.FindStringSubmatch(c.Raw)
	if m == nil {
		return protocol.RoutingDecision{}, false
	}
	target, deferral, ok := vetTarget(m[1])
	if !ok {
		return deferral, true
	}
	return protocol.Plan(ConfOpen, "Opening "+target+".",
		protocol.Intent{Tool: "open_target", Args: map[string]any{"query": target}}), true
}

func matchClose(c Clause) (protocol.RoutingDecision, bool) {
	m := closeRe.FindStringSubmatch(c.Raw)
	if m == nil {
		return protocol.RoutingDecision{}, false
	}
	target, deferral, ok := vetTarget(m[1])
	if !ok {
		return deferral, true
	}
	return protocol.Plan(ConfClose, "",
		protocol.Intent{Tool: "close_window", Args: map[string]any{"process": target, "force": false}}), true
}

// ----------------------------------------------------------------
// Focus / minimize / maximize
// ----------------------------------------------------------------

var windowManageRe = regexp.MustCompile(`(?i)^(focus(?:\s+on)?|activate|switch\s+to|minimize|maximize|fullscreen)\s+(.+)$`)

func matchWindowManage(c Clause) (protocol.RoutingDecision, bool) {
	m := windowManageRe.FindStringSubmatch(c.Raw)
	if m == nil {
		return protocol.RoutingDecision{}, false
	}
	target, deferral, ok := vetTarget(m[2])
	if !ok {
		return deferral, true
	}

	var tool string
	switch strings.Fields(strings.ToLower(m[1]))[0] {
	case "minimize":
		tool = "minimize_window"
	case "maximize", "fullscreen":
		tool = "maximize_window"
	default:
		tool = "focus_window"
	}
	return protocol.Plan(ConfWindow, "",
		protocol.Intent{Tool: tool, Args: map[string]any{"process": target}}), true
}

// ----------------------------------------------------------------
// Media transport
// ----------------------------------------------------------------

var (
	mediaPlayPauseRe = regexp.MustCompile(`(?i)^(?:play|pause|resume|unpause|play\s*pause|play/pause)(?:\s+(?:the\s+|my\s+)?(?:music|media|song))?$`)
	mediaNextRe      = regexp.MustCompile(`(?i)^(?:next\s+(?:track|song)|skip(?:\s+(?:track|song))?)$`)
	mediaPrevRe      = regexp.MustCompile(`(?i)^(?:previous\s+(?:track|song)|prev\s+track)$`)
)

func matchMedia(c Clause) (protocol.RoutingDecision, bool) {
	switch {
	case mediaNextRe.MatchString(c.Lower):
		return protocol.Plan(ConfMedia, "", protocol.Intent{Tool: "media_next", Args: map[string]any{}}), true
	case mediaPrevRe.MatchString(c.Lower):
		return protocol.Plan(ConfMedia, "", protocol.Intent{Tool: "media_previous", Args: map[string]any{}}), true
	case mediaPlayPauseRe.MatchString(c.Lower):
		return protocol.Plan(ConfMedia, "", protocol.Intent{Tool: "media_play_pause", Args: map[string]any{}}), true
	}
	return protocol.RoutingDecision{}, false
}
