package tools

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/aria-ai/aria/internal/state"
	"github.com/aria-ai/aria/pkg/protocol"
)

// Executor runs approved plans against the registry and writes each
// outcome back to the shared state store.
type Executor struct {
	registry *Registry
	store    *state.Store
	logger   *zap.Logger
}

// NewExecutor creates an executor.
func NewExecutor(registry *Registry, store *state.Store, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{registry: registry, store: store, logger: logger}
}

// StepResult pairs one intent with its outcome.
type StepResult struct {
	Intent protocol.Intent
	Result protocol.ToolResult
}

// Run executes a plan in order. A failed step aborts the rest unless
// that intent opted into ContinueOnError. Successful steps update the
// state store immediately, so later steps in the same plan see the
// effects of earlier ones.
func (e *Executor) Run(ctx context.Context, plan []protocol.Intent) []StepResult {
	results := make([]StepResult, 0, len(plan))
	for _, in := range plan {
		if err := ctx.Err(); err != nil {
			results = append(results, StepResult{Intent: in, Result: protocol.ToolResult{Error: err.Error()}})
			break
		}

		res := e.runOne(ctx, in)
		results = append(results, StepResult{Intent: in, Result: res})

		if res.Success {
			e.store.UpdateFromToolExecution(in.Tool, in.Args, res)
		} else if !in.ContinueOnError {
			break
		}
	}
	return results
}

func (e *Executor) runOne(ctx context.Context, in protocol.Intent) protocol.ToolResult {
	tool, ok := e.registry.Get(in.Tool)
	if !ok {
		e.logger.Warn("unknown tool requested", zap.String("tool", in.Tool))
		return protocol.ToolResult{Error: "unknown tool: " + in.Tool}
	}

	start := time.Now()
	res, err := tool.Execute(ctx, in.Args)
	res.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		res.Success = false
		if res.Error == "" {
			res.Error = err.Error()
		}
	}

	e.logger.Debug("tool executed",
		zap.String("tool", in.Tool),
		zap.Bool("success", res.Success),
		zap.Int64("duration_ms", res.DurationMs))
	return res
}
