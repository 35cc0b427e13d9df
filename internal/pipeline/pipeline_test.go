package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aria-ai/aria/internal/config"
	"github.com/aria-ai/aria/internal/state"
	"github.com/aria-ai/aria/internal/tools"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestPipeline(t *testing.T, mode string) (*Pipeline, *state.Store) {
	t.Helper()
	cfg := config.Default()
	cfg.Autonomy.Mode = mode

	store := state.New()
	registry := tools.NewRegistry()
	tools.NewDesktop(store).RegisterAll(registry)
	executor := tools.NewExecutor(registry, store, nil)

	return New(cfg, store, executor, nil, nil, nil), store
}

func TestHandleOpenExecutes(t *testing.T) {
	p, store := newTestPipeline(t, "normal")

	resp := p.Handle(context.Background(), "open chrome")
	assert.True(t, resp.Executed)
	assert.Contains(t, resp.Reply, "chrome")

	snap := store.Snapshot()
	assert.Equal(t, "chrome", snap.ActiveApp)
	assert.Equal(t, "open_target", snap.LastTool)
}

func TestHandleCloseItResolvesAndAsks(t *testing.T) {
	p, store := newTestPipeline(t, "normal")
	p.Handle(context.Background(), "open chrome")

	// close_window routes at 0.85, below the normal-mode execute
	// threshold, so the pipeline asks first.
	resp := p.Handle(context.Background(), "close it")
	require.True(t, resp.Asked)
	assert.Contains(t, resp.Reply, "chrome")

	resp = p.Handle(context.Background(), "yes")
	assert.True(t, resp.Executed)
	assert.Contains(t, resp.Reply, "Closed chrome")

	_, active := store.ActiveWindow()
	assert.False(t, active, "closed window is no longer foreground")
}

func TestHandleNoCancelsPending(t *testing.T) {
	p, store := newTestPipeline(t, "normal")
	p.Handle(context.Background(), "open chrome")
	resp := p.Handle(context.Background(), "close it")
	require.True(t, resp.Asked)

	resp = p.Handle(context.Background(), "no")
	assert.Contains(t, resp.Reply, "won't")
	_, pending := store.Pending()
	assert.False(t, pending)

	// The window survived.
	active, ok := store.ActiveWindow()
	require.True(t, ok)
	assert.Equal(t, "chrome", active.App)
}

func TestHandleIgnoredPendingReprompts(t *testing.T) {
	p, _ := newTestPipeline(t, "normal")
	p.Handle(context.Background(), "open chrome")
	require.True(t, p.Handle(context.Background(), "close it").Asked)

	resp := p.Handle(context.Background(), "what time is it")
	assert.Contains(t, resp.Reply, "Still waiting")
	assert.Contains(t, resp.Reply, "Should I", "the original question is repeated")
}

func TestHandleExitAfterPendingResolution(t *testing.T) {
	p, _ := newTestPipeline(t, "normal")
	p.Handle(context.Background(), "open chrome")
	require.True(t, p.Handle(context.Background(), "close it").Asked)

	// "no" must cancel the plan, not be swallowed by the exit guard,
	// and "exit" afterwards must quit rather than close a window.
	resp := p.Handle(context.Background(), "no")
	assert.False(t, resp.Quit)

	resp = p.Handle(context.Background(), "exit")
	assert.True(t, resp.Quit)
}

func TestHandleReplay(t *testing.T) {
	p, _ := newTestPipeline(t, "normal")
	p.Handle(context.Background(), "open chrome")

	resp := p.Handle(context.Background(), "do that again")
	assert.True(t, resp.Executed)
	assert.Contains(t, resp.Reply, "chrome")
}

func TestHandleReplayWithoutHistoryDefers(t *testing.T) {
	p, _ := newTestPipeline(t, "normal")

	resp := p.Handle(context.Background(), "do that again")
	assert.False(t, resp.Executed)
	assert.Contains(t, resp.Reply, "not sure")
}

func TestHandleReplaySuppressedAfterChat(t *testing.T) {
	p, _ := newTestPipeline(t, "normal")
	p.Handle(context.Background(), "open chrome")
	p.Handle(context.Background(), "tell me about penguins") // chat-only turn

	resp := p.Handle(context.Background(), "again")
	assert.False(t, resp.Executed, "replay after a chat turn is conversation, not a command")
}

type fakeLLM struct {
	prompts []string
}

func (f *fakeLLM) Reply(_ context.Context, text string) (string, error) {
	f.prompts = append(f.prompts, text)
	return "A VPN tunnels your traffic through another server.", nil
}

func TestHandleMixedToolAndQuestion(t *testing.T) {
	cfg := config.Default()
	cfg.Autonomy.Mode = "normal"
	store := state.New()
	registry := tools.NewRegistry()
	tools.NewDesktop(store).RegisterAll(registry)
	executor := tools.NewExecutor(registry, store, nil)
	llm := &fakeLLM{}
	p := New(cfg, store, executor, nil, llm, nil)

	resp := p.Handle(context.Background(), "what time is it and what's a VPN?")
	assert.True(t, resp.Executed)
	assert.Contains(t, resp.Reply, "VPN tunnels")
	require.Len(t, llm.prompts, 1)
	assert.Equal(t, "what's a VPN?", llm.prompts[0])

	snap := store.Snapshot()
	assert.Equal(t, "get_time", snap.LastTool)
	assert.False(t, snap.LastLLMReplyOnly, "the tool half keeps the turn replayable")
}

func TestHandleCompoundNeedsHighMode(t *testing.T) {
	// A two-step plan scores 0.9 * 0.95, under the normal execute
	// threshold but over the high one.
	p, _ := newTestPipeline(t, "normal")
	resp := p.Handle(context.Background(), "open chrome and open spotify")
	assert.True(t, resp.Asked)

	p2, store := newTestPipeline(t, "high")
	resp = p2.Handle(context.Background(), "open chrome and open spotify")
	assert.True(t, resp.Executed)
	assert.Len(t, store.Snapshot().LastIntents, 2)
}

func TestHandleVolume(t *testing.T) {
	p, _ := newTestPipeline(t, "normal")
	resp := p.Handle(context.Background(), "volume 35")
	assert.True(t, resp.Executed)
	assert.Contains(t, resp.Reply, "35")
}

func TestHandleMetaAutonomy(t *testing.T) {
	p, store := newTestPipeline(t, "normal")

	resp := p.Handle(context.Background(), "set autonomy to high")
	assert.Contains(t, resp.Reply, "high")
	assert.Equal(t, state.AutonomyHigh, store.AutonomyMode())

	resp = p.Handle(context.Background(), "autonomy")
	assert.Contains(t, resp.Reply, "high")
}

func TestHandleMetaWhy(t *testing.T) {
	p, _ := newTestPipeline(t, "normal")

	resp := p.Handle(context.Background(), "why did you do that")
	assert.Contains(t, resp.Reply, "haven't decided")

	p.Handle(context.Background(), "open chrome")
	resp = p.Handle(context.Background(), "why did you do that")
	assert.Contains(t, resp.Reply, "went ahead")
	assert.Contains(t, resp.Reply, "open target chrome")
}

func TestHandleMetaStats(t *testing.T) {
	p, _ := newTestPipeline(t, "normal")
	p.Handle(context.Background(), "open chrome")

	resp := p.Handle(context.Background(), "stats")
	assert.Contains(t, resp.Reply, "1 executed")
}

func TestHandleOffModeExecutesEverything(t *testing.T) {
	p, _ := newTestPipeline(t, "off")

	resp := p.Handle(context.Background(), "close chrome")
	// No such window, but the policy let it run without asking.
	assert.False(t, resp.Asked)
	assert.Contains(t, resp.Reply, "no window matching")
}

func TestHandleEmptyInput(t *testing.T) {
	p, _ := newTestPipeline(t, "normal")
	resp := p.Handle(context.Background(), "   ")
	assert.Empty(t, resp.Reply)
	assert.False(t, resp.Quit)
}
