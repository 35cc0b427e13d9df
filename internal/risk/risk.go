// Package risk provides deterministic risk classification for tool plans.
//
// Classification flow:
// 1. Static table lookup per tool name
// 2. Name/argument pattern screen for destructive verbs
// 3. Plan risk = maximum tier across intents
//
// The high tier stays deliberately narrow: only destructive or
// irreversible actions. Over-classification triggers unnecessary
// confirmations and degrades UX.
package risk

import (
	"strings"

	"github.com/aria-ai/aria/pkg/protocol"
)

// Tier is a low/medium/high risk classification of an action.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "medium"
	}
}

// highRiskTools are destructive or dangerous actions. Keep this set narrow.
var highRiskTools = map[string]struct{}{
	"delete_file":       {},
	"delete_files":      {},
	"delete_folder":     {},
	"delete_directory":  {},
	"remove_file":       {},
	"remove_files":      {},
	"wipe":              {},
	"format":            {},
	"format_drive":      {},
	"empty_trash":       {},
	"empty_recycle_bin": {},
	"shutdown":          {},
	"restart":           {},
	"reboot":            {},
	"logoff":            {},
	"log_off":           {},
	"hibernate":         {},
	"sleep_system":      {},
	"kill_process":      {},
	"terminate_process": {},
	"kill_all":          {},
	"end_task":          {},
	"force_close_all":   {},
}

// highRiskPatterns are substrings of a tool name or string argument that
// indicate danger regardless of the lookup tables.
var highRiskPatterns = []string{
	"delete", "remove", "wipe", "format",
	"shutdown", "restart", "reboot", "logoff",
	"kill", "terminate",
}

// mediumRiskTools are benign, reversible mutations.
var mediumRiskTools = map[string]struct{}{
	"open_target":             {},
	"open_website":            {},
	"open_app":                {},
	"launch_app":              {},
	"close_window":            {},
	"minimize_window":         {},
	"maximize_window":         {},
	"focus_window":            {},
	"move_window_to_monitor":  {},
	"switch_app":              {},
	"volume_control":          {},
	"media_play_pause":        {},
	"media_next":              {},
	"media_previous":          {},
	"set_audio_output_device": {},
	"timer":                   {},
	"google_search_open":      {},
	"local_library_refresh":   {},
	"system_storage_scan":     {},
	"system_storage_open":     {},
}

// lowRiskTools are read-only queries.
var lowRiskTools = map[string]struct{}{
	"get_time":             {},
	"get_system_info":      {},
	"get_location":         {},
	"get_weather_forecast": {},
	"get_window_context":   {},
	"get_window_monitor":   {},
	"monitor_info":         {},
	"get_now_playing":      {},
	"system_storage_list":  {},
}

// ClassifyTool classifies a single tool. Unknown tools default to
// medium: fail toward caution, not toward silent high-risk execution.
func ClassifyTool(name string, args map[string]any) Tier {
	if name == "" {
		return TierMedium
	}

	nameLower := strings.ToLower(strings.TrimSpace(name))

	if _, ok := highRiskTools[nameLower]; ok {
		return TierHigh
	}
	for _, pat := range highRiskPatterns {
		if strings.Contains(nameLower, pat) {
			return TierHigh
		}
	}

	// Destructive verbs hiding in arguments promote the tier too.
	for _, v := range args {
		s, ok := v.(string)
		if !ok {
			continue
		}
		sl := strings.ToLower(s)
		for _, pat := range []string{"delete", "remove", "wipe", "kill", "terminate"} {
			if strings.Contains(sl, pat) {
				return TierHigh
			}
		}
	}

	if _, ok := mediumRiskTools[nameLower]; ok {
		return TierMedium
	}
	if _, ok := lowRiskTools[nameLower]; ok {
		return TierLow
	}

	return TierMedium
}

// ClassifyPlan returns the maximum tier across all intents in a plan.
// An empty plan is low risk. A replayed plan carries its original
// intents verbatim, so it classifies exactly like the first run did.
func ClassifyPlan(intents []protocol.Intent) Tier {
	maxTier := TierLow
	for _, intent := range intents {
		if t := ClassifyTool(intent.Tool, intent.Args); t > maxTier {
			maxTier = t
		}
	}
	return maxTier
}

// Description returns a human-readable description of a tier, used in
// spoken explanations.
func Description(t Tier) string {
	switch t {
	case TierLow:
		return "read-only or informational"
	case TierMedium:
		return "modifies state but reversible"
	case TierHigh:
		return "potentially destructive or dangerous"
	default:
		return "unknown"
	}
}
