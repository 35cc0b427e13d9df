// Package state holds the shared world state the routing core consults
// between turns: the last executed action, recent targets, the active
// window, focus history, autonomy mode and any pending confirmation.
//
// Pure data plus accessors; no decision logic. All mutation goes through
// methods that hold one mutex for the duration of the read-modify-write,
// and no method holds the lock across a blocking call. The store is
// constructed explicitly and passed by handle to every component; there
// is no package-level singleton.
package state

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/aria-ai/aria/pkg/protocol"
)

// ErrNoHistory is returned when an accessor needs more interaction
// history than the store has (e.g. "previous app" with a single focus
// entry). A state-invariant miss, never a fault.
var ErrNoHistory = errors.New("state: not enough history")

const (
	focusCapacity  = 10
	targetCapacity = 5
)

// AutonomyMode governs how much confirmation is required before
// executing medium/high-risk actions. Survives Clear().
type AutonomyMode string

const (
	AutonomyOff    AutonomyMode = "off"
	AutonomyLow    AutonomyMode = "low"
	AutonomyNormal AutonomyMode = "normal"
	AutonomyHigh   AutonomyMode = "high"
)

// ParseAutonomyMode parses a user-supplied mode name.
func ParseAutonomyMode(s string) (AutonomyMode, bool) {
	switch AutonomyMode(strings.ToLower(strings.TrimSpace(s))) {
	case AutonomyOff:
		return AutonomyOff, true
	case AutonomyLow:
		return AutonomyLow, true
	case AutonomyNormal:
		return AutonomyNormal, true
	case AutonomyHigh:
		return AutonomyHigh, true
	}
	return AutonomyOff, false
}

// LastAction is the canonical record of the most recently executed
// (not merely proposed) action, kept for deterministic replay.
type LastAction struct {
	Tool      string
	Args      map[string]any
	Resolved  map[string]any // resolved details from the tool result, if any
	Timestamp time.Time
}

// TargetRecord is one entry of the bounded recent-target history used
// by "the other one" resolution.
type TargetRecord struct {
	Name string
	Tool string
	At   time.Time
}

// FocusEntry is one entry of the window-focus history.
type FocusEntry struct {
	App    string
	Handle int
	Title  string
}

// ActiveWindow describes the current foreground window as reported by
// the window watcher.
type ActiveWindow struct {
	App    string
	Title  string
	Handle int
}

// PendingConfirmation is a time-boxed record awaiting a yes/no/cancel
// response before the held plan may execute. At most one exists at a
// time; creating a new one replaces (implicitly cancels) any prior.
type PendingConfirmation struct {
	ID        string
	Plan      []protocol.Intent
	Prompt    string
	CreatedAt time.Time
	ExpiresAt time.Time
	Decision  *protocol.AutonomyDecision
	Ignored   int // non-answer turns seen while this confirmation was pending
}

// Store is the process-wide world state. Zero value is not usable;
// construct with New.
type Store struct {
	mu sync.Mutex

	lastTool          string
	lastTarget        string
	lastResultSummary string
	lastUpdated       time.Time

	lastAction       *LastAction
	lastIntents      []protocol.Intent
	lastLLMReplyOnly bool

	targets []TargetRecord // most recent first
	active  *ActiveWindow

	focus       []FocusEntry // most recent first
	focusCursor int

	mode         AutonomyMode
	pending      *PendingConfirmation
	lastDecision *protocol.AutonomyDecision
}

// New creates an empty store with autonomy off.
func New() *Store {
	return &Store{mode: AutonomyOff}
}

// Clear resets interaction history. AutonomyMode is deliberately
// preserved: it is a user setting, not interaction state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTool = ""
	s.lastTarget = ""
	s.lastResultSummary = ""
	s.lastUpdated = time.Now()
	s.lastAction = nil
	s.lastIntents = nil
	s.lastLLMReplyOnly = false
	s.targets = nil
	s.active = nil
	s.focus = nil
	s.focusCursor = 0
	s.pending = nil
	s.lastDecision = nil
}

// Snapshot is a read-only copy of the fields the reference resolver
// consults. Taken under the lock, then used without it.
type Snapshot struct {
	LastTool         string
	LastTarget       string
	ActiveApp        string
	ActiveTitle      string
	ActiveHandle     int
	LastIntents      []protocol.Intent
	LastLLMReplyOnly bool
	Targets          []TargetRecord
	HasLastAction    bool
}

// Snapshot returns a consistent copy of the resolver-facing state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		LastTool:         s.lastTool,
		LastTarget:       s.lastTarget,
		LastIntents:      copyIntents(s.lastIntents),
		LastLLMReplyOnly: s.lastLLMReplyOnly,
		Targets:          append([]TargetRecord(nil), s.targets...),
		HasLastAction:    s.lastAction != nil,
	}
	if s.active != nil {
		snap.ActiveApp = s.active.App
		snap.ActiveTitle = s.active.Title
		snap.ActiveHandle = s.active.Handle
	}
	return snap
}

// UpdateFromToolExecution records the outcome of a successfully
// executed tool. The single write-back entry point for the executor:
// called after any tool runs, it extracts the action target best-effort
// and refreshes the replay record. Error results are ignored so a
// failed action never becomes the referent of "do that again".
func (s *Store) UpdateFromToolExecution(tool string, args map[string]any, result protocol.ToolResult) {
	if tool == "" || !result.Success {
		return
	}

	target := extractTarget(tool, args)
	summary := extractSummary(result)
	var resolved map[string]any
	if result.Data != nil {
		if r, ok := result.Data["resolved"].(map[string]any); ok {
			resolved = r
		}
	}

	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastTool = tool
	if target != "" {
		s.lastTarget = target
		s.pushTargetLocked(TargetRecord{Name: target, Tool: tool, At: now})
	}
	if summary != "" {
		s.lastResultSummary = summary
	}
	s.lastAction = &LastAction{
		Tool:      tool,
		Args:      copyArgs(args),
		Resolved:  resolved,
		Timestamp: now,
	}
	s.lastLLMReplyOnly = false
	s.lastUpdated = now
}

// pushTargetLocked prepends a target record, deduplicating a
// consecutive identical name so "the other one" toggles between two
// distinct targets. Caller holds the lock.
func (s *Store) pushTargetLocked(rec TargetRecord) {
	if len(s.targets) > 0 && strings.EqualFold(s.targets[0].Name, rec.Name) {
		s.targets[0] = rec
		return
	}
	s.targets = append([]TargetRecord{rec}, s.targets...)
	if len(s.targets) > targetCapacity {
		s.targets = s.targets[:targetCapacity]
	}
}

// SetLastIntents stores the most recent executed intent list for
// deterministic replay.
func (s *Store) SetLastIntents(intents []protocol.Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastIntents = copyIntents(intents)
}

// LastIntents returns a copy of the stored replay plan, or nil.
func (s *Store) LastIntents() []protocol.Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyIntents(s.lastIntents)
}

// SetLastLLMReplyOnly marks whether the last turn produced only a
// chat reply. Replay is suppressed after chat-only turns.
func (s *Store) SetLastLLMReplyOnly(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLLMReplyOnly = v
}

// SetActiveWindow records the current foreground window, as reported
// by the window watcher. An empty app clears the record.
func (s *Store) SetActiveWindow(app, title string, handle int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if app == "" {
		s.active = nil
	} else {
		s.active = &ActiveWindow{App: app, Title: title, Handle: handle}
	}
	s.lastUpdated = time.Now()
}

// ActiveWindow returns the current foreground window, if known.
func (s *Store) ActiveWindow() (ActiveWindow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return ActiveWindow{}, false
	}
	return *s.active, true
}

// LastTargets returns up to n recent action targets, most recent first.
func (s *Store) LastTargets(n int) []TargetRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.targets) {
		n = len(s.targets)
	}
	return append([]TargetRecord(nil), s.targets[:n]...)
}

// LastAction returns a copy of the replay record.
func (s *Store) LastAction() (LastAction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastAction == nil {
		return LastAction{}, false
	}
	la := *s.lastAction
	la.Args = copyArgs(s.lastAction.Args)
	return la, true
}

// SetAutonomyMode sets the process-wide autonomy mode.
func (s *Store) SetAutonomyMode(m AutonomyMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

// AutonomyMode returns the current autonomy mode.
func (s *Store) AutonomyMode() AutonomyMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == "" {
		return AutonomyOff
	}
	return s.mode
}

// SetLastDecision records the most recent autonomy decision for
// explainability. Write-only from the policy's perspective.
func (s *Store) SetLastDecision(d protocol.AutonomyDecision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastDecision = &d
}

// LastDecision returns the most recent autonomy decision, if any.
func (s *Store) LastDecision() (protocol.AutonomyDecision, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastDecision == nil {
		return protocol.AutonomyDecision{}, false
	}
	return *s.lastDecision, true
}

func copyArgs(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	return out
}

func copyIntents(intents []protocol.Intent) []protocol.Intent {
	if intents == nil {
		return nil
	}
	out := make([]protocol.Intent, len(intents))
	for i, in := range intents {
		out[i] = in
		out[i].Args = copyArgs(in.Args)
	}
	return out
}

// targetArgKeys are the common argument names that carry the target of
// an action, in lookup order.
var targetArgKeys = []string{
	"target", "app", "app_name", "name", "process",
	"query", "url", "path", "file", "folder", "window", "window_title",
}

// extractTarget pulls the primary target out of tool arguments,
// best-effort. Different tools use different argument shapes.
func extractTarget(tool string, args map[string]any) string {
	if len(args) > 0 {
		for _, key := range targetArgKeys {
			if v, ok := args[key].(string); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}

	switch tool {
	case "volume_control":
		for _, key := range []string{"scope", "process"} {
			if p, ok := args[key].(string); ok && p != "" && p != "master" {
				return "volume:" + p
			}
		}
		return "volume:system"
	case "timer":
		if label, ok := args["label"].(string); ok && label != "" {
			return "timer:" + label
		}
	}
	return ""
}

// extractSummary derives a short result summary for logs and
// follow-up questions.
func extractSummary(result protocol.ToolResult) string {
	if result.Error != "" {
		return "failed"
	}
	if msg, ok := result.Data["message"].(string); ok && msg != "" {
		if len(msg) > 50 {
			return msg[:50]
		}
		return msg
	}
	if result.Success {
		return "success"
	}
	return ""
}
