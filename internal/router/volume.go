package router

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aria-ai/aria/pkg/protocol"
)

// Volume clauses dispatch on (scope, action): scope is master or a
// named app, action is one of set, get, mute, unmute, up, down.

const (
	defaultVolumeStep = 10
	smallVolumeStep   = 5
	largeVolumeStep   = 20
)

var (
	volumeWordRe = regexp.MustCompile(`(?i)\b(?:volume|sound|audio)\b`)
	muteRe       = regexp.MustCompile(`(?i)^(?:mute|silence)(?:\s+(.+))?$`)
	unmuteRe     = regexp.MustCompile(`(?i)^(?:unmute|unsilence)(?:\s+(.+))?$`)
	percentRe    = regexp.MustCompile(`(?i)\b(\d{1,3})\s*(?:%|percent)?\b`)
	volumeUpRe   = regexp.MustCompile(`(?i)\b(?:up|louder|raise|increase|higher)\b`)
	volumeDownRe = regexp.MustCompile(`(?i)\b(?:down|quieter|lower|decrease|reduce|softer)\b`)
	volumeGetRe  = regexp.MustCompile(`(?i)^(?:what(?:'s|\s+is)?\s+the\s+)?(?:current\s+)?volume(?:\s+(?:level|at))?$`)
	volumeSetRe  = regexp.MustCompile(`(?i)^(?:set\s+(?:the\s+)?)?(?:(.+?)\s+)?volume(?:\s+(?:to|at))?\s+(\d{1,3})\s*(?:%|percent)?$`)
	volumeAppRe  = regexp.MustCompile(`(?i)\b(?:for|in|on)\s+(.+)$`)
)

// deltaHint maps intensity qualifiers to a step size.
func deltaHint(lower string) int {
	switch {
	case strings.Contains(lower, "a little") || strings.Contains(lower, "a bit") || strings.Contains(lower, "slightly"):
		return smallVolumeStep
	case strings.Contains(lower, "a lot") || strings.Contains(lower, "way ") || strings.Contains(lower, "much"):
		return largeVolumeStep
	default:
		return defaultVolumeStep
	}
}

// volumeScope extracts an app scope ("volume up for spotify") or
// returns master.
func volumeScope(lower string) string {
	if m := volumeAppRe.FindStringSubmatch(lower); m != nil {
		app := strings.TrimSpace(m[1])
		app = strings.TrimPrefix(app, "the ")
		if app != "" && !LooksLikeURL(app) {
			return app
		}
	}
	return "master"
}

func volumeIntent(scope, action string, extra map[string]any) protocol.Intent {
	args := map[string]any{"scope": scope, "action": action}
	for k, v := range extra {
		args[k] = v
	}
	return protocol.Intent{Tool: "volume_control", Args: args}
}

func matchVolume(c Clause) (protocol.RoutingDecision, bool) {
	// Mute and unmute read naturally without the word "volume".
	if m := muteRe.FindStringSubmatch(c.Lower); m != nil {
		scope := "master"
		if t := strings.TrimSpace(m[1]); t != "" && t != "everything" && t != "all" && t != "the sound" && t != "audio" {
			if _, bad := barePronouns[t]; bad {
				return protocol.Defer(ConfBadTarget), true
			}
			scope = strings.TrimPrefix(t, "the ")
		}
		return protocol.Plan(ConfVolumeMute, "", volumeIntent(scope, "mute", nil)), true
	}
	if m := unmuteRe.FindStringSubmatch(c.Lower); m != nil {
		scope := "master"
		if t := strings.TrimSpace(m[1]); t != "" && t != "everything" && t != "all" && t != "the sound" && t != "audio" {
			if _, bad := barePronouns[t]; bad {
				return protocol.Defer(ConfBadTarget), true
			}
			scope = strings.TrimPrefix(t, "the ")
		}
		return protocol.Plan(ConfVolumeMute, "", volumeIntent(scope, "unmute", nil)), true
	}

	if !volumeWordRe.MatchString(c.Lower) {
		return protocol.RoutingDecision{}, false
	}

	// "volume" or "what's the volume" with no level or direction.
	if volumeGetRe.MatchString(c.Lower) {
		return protocol.Plan(ConfVolumeGet, "", volumeIntent("master", "get", nil)), true
	}

	// Absolute level: "volume 35", "set volume to 80%", "spotify volume 40".
	if m := volumeSetRe.FindStringSubmatch(c.Lower); m != nil {
		level, err := strconv.Atoi(m[2])
		if err != nil || level < 0 || level > 100 {
			return protocol.Defer(ConfBadTarget), true
		}
		scope := "master"
		if app := strings.TrimSpace(m[1]); app != "" && app != "the" && app != "my" && app != "system" && app != "master" {
			scope = strings.TrimPrefix(app, "the ")
		}
		return protocol.Plan(ConfVolumeSet, "",
			volumeIntent(scope, "set", map[string]any{"level": level})), true
	}

	// Relative change: "turn the volume up", "volume down a lot".
	up := volumeUpRe.MatchString(c.Lower)
	down := volumeDownRe.MatchString(c.Lower)
	if up != down {
		action := "up"
		if down {
			action = "down"
		}
		return protocol.Plan(ConfVolumeChange, "",
			volumeIntent(volumeScope(c.Lower), action, map[string]any{"delta": deltaHint(c.Lower)})), true
	}

	// "volume to eighty" and other unparsed levels defer.
	if percentRe.MatchString(c.Lower) {
		if m := percentRe.FindStringSubmatch(c.Lower); m != nil {
			if level, err := strconv.Atoi(m[1]); err == nil && level >= 0 && level <= 100 {
				return protocol.Plan(ConfVolumeSet, "",
					volumeIntent(volumeScope(c.Lower), "set", map[string]any{"level": level})), true
			}
		}
	}
	return protocol.Defer(ConfBadTarget), true
}
