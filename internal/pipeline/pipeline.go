// Package pipeline wires the decision core together: each user turn
// flows through pending-confirmation resolution, the exit guard, meta
// commands, reference resolution, routing, the autonomy policy, and
// finally tool execution or the language-model fallback.
//
// Stage order is a correctness property, not a convenience. Pending
// resolution must run before the exit guard so "no" cancels a plan
// instead of being swallowed; the exit guard must run before routing
// so "exit" never matches the close-window rule and kills an app.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aria-ai/aria/internal/config"
	"github.com/aria-ai/aria/internal/memory"
	"github.com/aria-ai/aria/internal/parser"
	"github.com/aria-ai/aria/internal/policy"
	"github.com/aria-ai/aria/internal/resolver"
	"github.com/aria-ai/aria/internal/router"
	"github.com/aria-ai/aria/internal/state"
	"github.com/aria-ai/aria/internal/stats"
	"github.com/aria-ai/aria/internal/tools"
	"github.com/aria-ai/aria/pkg/protocol"
)

// LLMClient answers utterances the deterministic rules defer.
type LLMClient interface {
	Reply(ctx context.Context, text string) (string, error)
}

// Response is what one turn produced.
type Response struct {
	Reply    string
	Quit     bool
	Executed bool // at least one tool ran this turn
	Asked    bool // a confirmation is now pending
}

// Pipeline is the per-session decision core. Turns are handled one at
// a time; Handle is not safe for concurrent calls.
type Pipeline struct {
	cfg      *config.Config
	store    *state.Store
	executor *tools.Executor
	log      *memory.Store // nil disables persistence
	llm      LLMClient     // nil disables the fallback
	logger   *zap.Logger
	stats    *stats.Collector
	now      func() time.Time

	turnStart time.Time
}

// New assembles a pipeline. log and llm may be nil.
func New(cfg *config.Config, store *state.Store, executor *tools.Executor, log *memory.Store, llm LLMClient, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	mode, ok := state.ParseAutonomyMode(cfg.Autonomy.Mode)
	if !ok {
		mode = state.AutonomyNormal
	}
	store.SetAutonomyMode(mode)
	return &Pipeline{
		cfg:      cfg,
		store:    store,
		executor: executor,
		log:      log,
		llm:      llm,
		logger:   logger,
		stats:    stats.NewCollector(),
		now:      time.Now,
	}
}

// Stats returns the session counters.
func (p *Pipeline) Stats() stats.Snapshot {
	return p.stats.Collect()
}

var exitPhrases = map[string]struct{}{
	"exit": {}, "quit": {}, "goodbye": {}, "bye": {},
	"stop listening": {}, "shut down": {}, "shutdown": {},
}

// Handle processes one user turn.
func (p *Pipeline) Handle(ctx context.Context, text string) Response {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Response{}
	}
	p.turnStart = p.now()
	lower := strings.ToLower(strings.TrimRight(trimmed, ".!?"))

	// Outstanding confirmation first. The answer words overlap with
	// exit phrases and command verbs, so nothing else may see this
	// turn until the pending question is settled.
	if r := policy.ResolvePending(p.store, trimmed, p.now(), p.cfg.Autonomy.MaxReprompts); r.Outcome != policy.PendingNone {
		switch r.Outcome {
		case policy.PendingConfirmed:
			return p.execute(ctx, trimmed, protocol.Plan(1.0, "", r.Plan...), "confirmed")
		case policy.PendingCancelled:
			return p.record(trimmed, Response{Reply: "Okay, I won't do that."}, "cancelled", nil)
		case policy.PendingExpired:
			// Fall through: the stale question is gone, the current
			// turn still deserves an answer.
		case policy.PendingDropped:
			p.logger.Info("pending confirmation dropped after repeated ignores")
		case policy.PendingIgnored:
			resp := p.route(ctx, trimmed, lower)
			if !resp.Quit && r.Reprompt != "" {
				resp.Reply = strings.TrimSpace(resp.Reply + " (Still waiting: " + r.Reprompt + ")")
			}
			return resp
		}
	}

	return p.route(ctx, trimmed, lower)
}

// route handles a turn with no pending confirmation in the way.
func (p *Pipeline) route(ctx context.Context, trimmed, lower string) Response {
	if _, quit := exitPhrases[lower]; quit {
		return Response{Reply: "Goodbye.", Quit: true}
	}

	if resp, ok := p.handleMeta(trimmed, lower); ok {
		return resp
	}

	res := resolver.Resolve(trimmed, p.store.Snapshot())
	switch res.Kind {
	case resolver.Replay:
		d := protocol.Plan(replayConfidence, "", res.Intents...)
		return p.assess(ctx, trimmed, d)
	case resolver.Rewritten:
		p.logger.Debug("reference resolved",
			zap.String("referent", res.Referent),
			zap.String("rewritten", res.Text))
	}

	if d, ok := parser.Parse(res.Text); ok {
		return p.assess(ctx, trimmed, d)
	}

	d := router.Route(res.Text)
	if !d.IsToolPlan() {
		if lead, leftover, ok := parser.SplitLeading(res.Text); ok {
			return p.mixed(ctx, trimmed, lead, leftover)
		}
		return p.llmFallback(ctx, trimmed)
	}
	return p.assess(ctx, trimmed, d)
}

// mixed handles a command-plus-question utterance: the tool plan runs
// through the policy as usual, then the leftover text goes to the
// language model and the two replies are joined.
func (p *Pipeline) mixed(ctx context.Context, utterance string, d protocol.RoutingDecision, leftover string) Response {
	resp := p.assess(ctx, utterance, d)
	if !resp.Executed || p.llm == nil {
		return resp
	}
	answer, err := p.llm.Reply(ctx, leftover)
	if err != nil {
		p.logger.Warn("llm fallback failed", zap.Error(err))
		return resp
	}
	resp.Reply = strings.TrimSpace(resp.Reply + " " + answer)
	return resp
}

// replayConfidence scores a confirmed-by-phrasing repeat of an action
// that already ran once.
const replayConfidence = 0.9

// assess runs the routed plan through the autonomy policy.
func (p *Pipeline) assess(ctx context.Context, utterance string, d protocol.RoutingDecision) Response {
	decision := policy.Assess(d, p.store.AutonomyMode(), policy.Options{
		ConfirmSensitive: p.cfg.Autonomy.ConfirmSensitive,
	})
	p.store.SetLastDecision(decision)

	switch decision.Action {
	case protocol.ActionExecute:
		return p.execute(ctx, utterance, d, "executed")
	case protocol.ActionAsk:
		ttl := time.Duration(p.cfg.Autonomy.ConfirmationTTLSecs) * time.Second
		now := p.now()
		p.store.SetPending(state.PendingConfirmation{
			ID:        uuid.NewString(),
			Plan:      d.Intents,
			Prompt:    decision.Question,
			CreatedAt: now,
			ExpiresAt: now.Add(ttl),
		})
		return p.record(utterance, Response{Reply: decision.Question, Asked: true}, "asked", intentTools(d.Intents))
	default:
		return p.record(utterance, Response{
			Reply: "I'm not confident enough about that to act on it. Could you rephrase?",
		}, "denied", intentTools(d.Intents))
	}
}

// execute runs an approved plan and composes the spoken reply from
// the step summaries.
func (p *Pipeline) execute(ctx context.Context, utterance string, d protocol.RoutingDecision, decision string) Response {
	results := p.executor.Run(ctx, d.Intents)

	var parts []string
	executed := false
	for _, step := range results {
		p.stats.RecordToolRun(step.Result.Success)
		if step.Result.Success {
			executed = true
			if s, ok := step.Result.Data["summary"].(string); ok && s != "" {
				parts = append(parts, s)
			}
		} else if step.Result.Error != "" {
			parts = append(parts, "couldn't "+strings.ReplaceAll(step.Intent.Tool, "_", " ")+" ("+step.Result.Error+")")
		}
	}

	reply := d.Reply
	if len(parts) > 0 {
		reply = capitalize(strings.Join(parts, "; ")) + "."
	}
	if reply == "" {
		reply = "Done."
	}

	if executed {
		p.store.SetLastIntents(d.Intents)
		p.store.SetLastLLMReplyOnly(false)
	}
	return p.record(utterance, Response{Reply: reply, Executed: executed}, decision, intentTools(d.Intents))
}

// llmFallback hands the turn to the language model, or explains that
// it is unavailable.
func (p *Pipeline) llmFallback(ctx context.Context, utterance string) Response {
	p.store.SetLastLLMReplyOnly(true)

	if p.llm == nil {
		return p.record(utterance, Response{
			Reply: "I'm not sure how to help with that.",
		}, "deferred", nil)
	}
	reply, err := p.llm.Reply(ctx, utterance)
	if err != nil {
		p.logger.Warn("llm fallback failed", zap.Error(err))
		return p.record(utterance, Response{
			Reply: "I couldn't reach the language model for that one.",
		}, "deferred", nil)
	}
	return p.record(utterance, Response{Reply: reply}, "deferred", nil)
}

// record counts the turn and persists it to the interaction log,
// best-effort.
func (p *Pipeline) record(utterance string, resp Response, decision string, toolNames []string) Response {
	p.stats.RecordTurn(decision, p.now().Sub(p.turnStart))
	if p.log == nil {
		return resp
	}
	mode := protocol.ModeLLM
	if len(toolNames) > 0 {
		mode = protocol.ModeToolPlan
	}
	err := p.log.Record(memory.Interaction{
		Utterance: utterance,
		Mode:      string(mode),
		Tools:     toolNames,
		Reply:     resp.Reply,
		Decision:  decision,
		Success:   resp.Executed,
	})
	if err != nil {
		p.logger.Warn("failed to record interaction", zap.Error(err))
	}
	return resp
}

func intentTools(intents []protocol.Intent) []string {
	out := make([]string, 0, len(intents))
	for _, in := range intents {
		out = append(out, in.Tool)
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
