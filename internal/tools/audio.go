package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/aria-ai/aria/pkg/protocol"
)

// volumeTool dispatches on the (scope, action) pair the router
// extracted. Scope "master" adjusts system volume, anything else is
// treated as an application mixer channel.
type volumeTool struct{ d *Desktop }

func (t *volumeTool) Name() string        { return "volume_control" }
func (t *volumeTool) Description() string { return "Set, change, or mute system and app volume" }

func (t *volumeTool) Execute(_ context.Context, args map[string]any) (protocol.ToolResult, error) {
	scope := argString(args, "scope")
	if scope == "" {
		scope = "master"
	}
	action := argString(args, "action")

	t.d.mu.Lock()
	defer t.d.mu.Unlock()

	switch action {
	case "get":
		return okResult(map[string]any{
			"scope":   scope,
			"level":   t.levelLocked(scope),
			"muted":   t.mutedLocked(scope),
			"summary": fmt.Sprintf("%s volume is %d%%", scope, t.levelLocked(scope)),
		}), nil
	case "set":
		level, ok := argInt(args, "level")
		if !ok || level < 0 || level > 100 {
			return failResult("volume_control: level must be 0-100"), nil
		}
		t.setLevelLocked(scope, level)
		return okResult(map[string]any{
			"scope":   scope,
			"level":   level,
			"summary": fmt.Sprintf("set %s volume to %d%%", scope, level),
		}), nil
	case "up", "down":
		delta, ok := argInt(args, "delta")
		if !ok {
			delta = 10
		}
		if action == "down" {
			delta = -delta
		}
		level := clampVolume(t.levelLocked(scope) + delta)
		t.setLevelLocked(scope, level)
		return okResult(map[string]any{
			"scope":   scope,
			"level":   level,
			"summary": fmt.Sprintf("%s volume now %d%%", scope, level),
		}), nil
	case "mute", "unmute":
		muted := action == "mute"
		t.setMutedLocked(scope, muted)
		verb := "muted"
		if !muted {
			verb = "unmuted"
		}
		return okResult(map[string]any{
			"scope":   scope,
			"muted":   muted,
			"summary": verb + " " + scope,
		}), nil
	}
	return failResult("volume_control: unknown action %q", action), nil
}

func (t *volumeTool) levelLocked(scope string) int {
	if scope == "master" {
		return t.d.masterVolume
	}
	if v, ok := t.d.appVolume[strings.ToLower(scope)]; ok {
		return v
	}
	return 50
}

func (t *volumeTool) setLevelLocked(scope string, level int) {
	if scope == "master" {
		t.d.masterVolume = level
		return
	}
	t.d.appVolume[strings.ToLower(scope)] = level
}

func (t *volumeTool) mutedLocked(scope string) bool {
	if scope == "master" {
		return t.d.masterMuted
	}
	return t.d.appMuted[strings.ToLower(scope)]
}

func (t *volumeTool) setMutedLocked(scope string, muted bool) {
	if scope == "master" {
		t.d.masterMuted = muted
		return
	}
	t.d.appMuted[strings.ToLower(scope)] = muted
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func argInt(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// mediaTool covers the three transport controls; they share one
// implementation because the model only tracks play state.
type mediaTool struct {
	d    *Desktop
	name string
	desc string
}

func (t *mediaTool) Name() string        { return t.name }
func (t *mediaTool) Description() string { return t.desc }

func (t *mediaTool) Execute(_ context.Context, _ map[string]any) (protocol.ToolResult, error) {
	t.d.mu.Lock()
	defer t.d.mu.Unlock()

	switch t.name {
	case "media_play_pause":
		t.d.mediaPlaying = !t.d.mediaPlaying
		verb := "paused"
		if t.d.mediaPlaying {
			verb = "playing"
		}
		return okResult(map[string]any{"playing": t.d.mediaPlaying, "summary": verb}), nil
	case "media_next":
		return okResult(map[string]any{"summary": "skipped to next track"}), nil
	default:
		return okResult(map[string]any{"summary": "went back a track"}), nil
	}
}
