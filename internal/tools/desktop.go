package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aria-ai/aria/internal/state"
	"github.com/aria-ai/aria/pkg/protocol"
)

// Desktop is an in-process model of the user's desktop: running apps,
// the foreground window, per-app audio. Window and audio tools operate
// against it, and it writes focus changes through to the shared state
// store so reference resolution tracks what the user sees.
//
// A real OS backend would implement the same tools against platform
// APIs; the model keeps every layer above it fully testable.
type Desktop struct {
	mu    sync.Mutex
	store *state.Store

	windows    map[string]*window // keyed by lowercase app name
	nextHandle int

	masterVolume int
	masterMuted  bool
	appVolume    map[string]int
	appMuted     map[string]bool
	mediaPlaying bool
}

type window struct {
	App       string
	Handle    int
	Minimized bool
	Maximized bool
	Monitor   int
}

// NewDesktop creates an empty desktop model bound to the state store.
func NewDesktop(store *state.Store) *Desktop {
	return &Desktop{
		store:        store,
		windows:      make(map[string]*window),
		nextHandle:   1000,
		masterVolume: 50,
		appVolume:    make(map[string]int),
		appMuted:     make(map[string]bool),
	}
}

// RegisterAll registers every desktop tool on the registry.
func (d *Desktop) RegisterAll(r *Registry) {
	for _, t := range []Tool{
		&openTool{d}, &closeTool{d}, &focusTool{d},
		&minimizeTool{d}, &maximizeTool{d}, &switchAppTool{d},
		&moveMonitorTool{d},
		&volumeTool{d}, &mediaTool{d: d, name: "media_play_pause", desc: "Toggle media playback"},
		&mediaTool{d: d, name: "media_next", desc: "Skip to the next track"},
		&mediaTool{d: d, name: "media_previous", desc: "Go back to the previous track"},
		&timeTool{}, &storageScanTool{}, &storageListTool{}, &storageOpenTool{},
	} {
		r.Register(t)
	}
}

// findWindow matches an app by exact then substring name.
func (d *Desktop) findWindow(query string) (*window, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if w, ok := d.windows[q]; ok {
		return w, true
	}
	for name, w := range d.windows {
		if strings.Contains(name, q) {
			return w, true
		}
	}
	return nil, false
}

// focusLocked brings a window to the foreground and records the focus
// change in the shared store.
func (d *Desktop) focusLocked(w *window) {
	w.Minimized = false
	d.store.SetActiveWindow(w.App, w.App, w.Handle)
	d.store.PushFocus(w.App, w.Handle, w.App)
}

func argString(args map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := args[k]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func okResult(data map[string]any) protocol.ToolResult {
	if data == nil {
		data = map[string]any{}
	}
	return protocol.ToolResult{Success: true, Data: data}
}

func failResult(format string, a ...any) protocol.ToolResult {
	return protocol.ToolResult{Success: false, Error: fmt.Sprintf(format, a...)}
}

// ----------------------------------------------------------------

type openTool struct{ d *Desktop }

func (t *openTool) Name() string        { return "open_target" }
func (t *openTool) Description() string { return "Open or focus an application" }

func (t *openTool) Execute(_ context.Context, args map[string]any) (protocol.ToolResult, error) {
	query := argString(args, "query", "target", "app")
	if query == "" {
		return failResult("open_target: missing query"), nil
	}

	t.d.mu.Lock()
	defer t.d.mu.Unlock()

	w, ok := t.d.findWindow(query)
	launched := false
	if !ok {
		t.d.nextHandle++
		w = &window{App: query, Handle: t.d.nextHandle, Monitor: 1}
		t.d.windows[strings.ToLower(query)] = w
		launched = true
	}
	t.d.focusLocked(w)
	return okResult(map[string]any{
		"resolved": map[string]any{"app": w.App, "handle": w.Handle},
		"launched": launched,
		"summary":  "opened " + w.App,
	}), nil
}

type closeTool struct{ d *Desktop }

func (t *closeTool) Name() string        { return "close_window" }
func (t *closeTool) Description() string { return "Close an application window" }

func (t *closeTool) Execute(_ context.Context, args map[string]any) (protocol.ToolResult, error) {
	query := argString(args, "process", "app", "target")
	if query == "" {
		return failResult("close_window: missing process"), nil
	}

	t.d.mu.Lock()
	defer t.d.mu.Unlock()

	w, ok := t.d.findWindow(query)
	if !ok {
		return failResult("close_window: no window matching %q", query), nil
	}
	delete(t.d.windows, strings.ToLower(w.App))
	if active, hasActive := t.d.store.ActiveWindow(); hasActive && strings.EqualFold(active.App, w.App) {
		t.d.store.SetActiveWindow("", "", 0)
	}
	return okResult(map[string]any{
		"resolved": map[string]any{"app": w.App, "handle": w.Handle},
		"summary":  "closed " + w.App,
	}), nil
}

type focusTool struct{ d *Desktop }

func (t *focusTool) Name() string        { return "focus_window" }
func (t *focusTool) Description() string { return "Bring an application window to the foreground" }

func (t *focusTool) Execute(_ context.Context, args map[string]any) (protocol.ToolResult, error) {
	query := argString(args, "process", "app", "target")
	if query == "" {
		return failResult("focus_window: missing process"), nil
	}

	t.d.mu.Lock()
	defer t.d.mu.Unlock()

	// Focus history first: it resolves a partial name to the exact app
	// that last held focus, where the window table would pick an
	// arbitrary substring match.
	var (
		w  *window
		ok bool
	)
	if entry, found := t.d.store.FindFocusedApp(query); found {
		w, ok = t.d.findWindow(entry.App)
	}
	if !ok {
		w, ok = t.d.findWindow(query)
	}
	if !ok {
		return failResult("focus_window: no window matching %q", query), nil
	}
	t.d.focusLocked(w)
	return okResult(map[string]any{
		"resolved": map[string]any{"app": w.App, "handle": w.Handle},
		"summary":  "focused " + w.App,
	}), nil
}

type minimizeTool struct{ d *Desktop }

func (t *minimizeTool) Name() string        { return "minimize_window" }
func (t *minimizeTool) Description() string { return "Minimize an application window" }

func (t *minimizeTool) Execute(_ context.Context, args map[string]any) (protocol.ToolResult, error) {
	return t.d.setWindowState(args, func(w *window) string {
		w.Minimized = true
		w.Maximized = false
		return "minimized"
	})
}

type maximizeTool struct{ d *Desktop }

func (t *maximizeTool) Name() string        { return "maximize_window" }
func (t *maximizeTool) Description() string { return "Maximize an application window" }

func (t *maximizeTool) Execute(_ context.Context, args map[string]any) (protocol.ToolResult, error) {
	return t.d.setWindowState(args, func(w *window) string {
		w.Maximized = true
		w.Minimized = false
		return "maximized"
	})
}

func (d *Desktop) setWindowState(args map[string]any, apply func(*window) string) (protocol.ToolResult, error) {
	query := argString(args, "process", "app", "target")
	if query == "" {
		return failResult("missing process"), nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	w, ok := d.findWindow(query)
	if !ok {
		return failResult("no window matching %q", query), nil
	}
	verb := apply(w)
	return okResult(map[string]any{
		"resolved": map[string]any{"app": w.App, "handle": w.Handle},
		"summary":  verb + " " + w.App,
	}), nil
}

type switchAppTool struct{ d *Desktop }

func (t *switchAppTool) Name() string        { return "switch_app" }
func (t *switchAppTool) Description() string { return "Switch focus through recently used apps" }

func (t *switchAppTool) Execute(_ context.Context, args map[string]any) (protocol.ToolResult, error) {
	direction := argString(args, "direction")

	var (
		entry state.FocusEntry
		err   error
	)
	switch direction {
	case "next":
		entry, err = t.d.store.NextFocusedApp()
	default:
		entry, err = t.d.store.PreviousFocusedApp()
	}
	if err != nil {
		return failResult("switch_app: %v", err), nil
	}

	t.d.mu.Lock()
	defer t.d.mu.Unlock()
	w, ok := t.d.findWindow(entry.App)
	if !ok {
		return failResult("switch_app: %q is no longer running", entry.App), nil
	}
	t.d.focusLocked(w)
	return okResult(map[string]any{
		"resolved": map[string]any{"app": w.App, "handle": w.Handle},
		"summary":  "switched to " + w.App,
	}), nil
}

type moveMonitorTool struct{ d *Desktop }

func (t *moveMonitorTool) Name() string        { return "move_window_to_monitor" }
func (t *moveMonitorTool) Description() string { return "Move a window to another monitor" }

func (t *moveMonitorTool) Execute(_ context.Context, args map[string]any) (protocol.ToolResult, error) {
	query := argString(args, "process", "app", "target")
	if query == "" {
		return failResult("move_window_to_monitor: missing process"), nil
	}

	monitor := 2
	switch v := args["monitor"].(type) {
	case int:
		monitor = v
	case float64:
		monitor = int(v)
	case string:
		switch v {
		case "left", "primary", "main":
			monitor = 1
		case "right":
			monitor = 2
		}
	}

	t.d.mu.Lock()
	defer t.d.mu.Unlock()

	w, ok := t.d.findWindow(query)
	if !ok {
		return failResult("move_window_to_monitor: no window matching %q", query), nil
	}
	w.Monitor = monitor
	return okResult(map[string]any{
		"resolved": map[string]any{"app": w.App, "handle": w.Handle, "monitor": monitor},
		"summary":  fmt.Sprintf("moved %s to monitor %d", w.App, monitor),
	}), nil
}
