// Package stats tracks per-session counters for Aria.
package stats

import (
	"sync"
	"time"
)

// Collector counts what happened this session: how turns were routed,
// how the autonomy policy came down, how tools fared.
type Collector struct {
	mu        sync.Mutex
	startTime time.Time

	turns         int64
	toolPlans     int64
	deferred      int64
	executed      int64
	asked         int64
	denied        int64
	toolRuns      int64
	toolErrors    int64
	totalDuration time.Duration
}

// NewCollector creates a collector anchored at now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time copy of the session counters.
type Snapshot struct {
	Uptime       time.Duration `json:"uptime"`
	Turns        int64         `json:"turns"`
	ToolPlans    int64         `json:"tool_plans"`
	Deferred     int64         `json:"deferred"`
	Executed     int64         `json:"executed"`
	Asked        int64         `json:"asked"`
	Denied       int64         `json:"denied"`
	ToolRuns     int64         `json:"tool_runs"`
	ToolErrors   int64         `json:"tool_errors"`
	AvgTurnMs    float64       `json:"avg_turn_ms"`
}

// RecordTurn records one handled turn and its latency. decision is
// the policy outcome: executed, asked, denied, deferred, or a meta
// or pending-resolution label, which only counts toward the total.
func (c *Collector) RecordTurn(decision string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.turns++
	c.totalDuration += duration
	switch decision {
	case "executed", "confirmed":
		c.toolPlans++
		c.executed++
	case "asked":
		c.toolPlans++
		c.asked++
	case "denied":
		c.toolPlans++
		c.denied++
	case "deferred":
		c.deferred++
	}
}

// RecordToolRun records one tool execution.
func (c *Collector) RecordToolRun(success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toolRuns++
	if !success {
		c.toolErrors++
	}
}

// Collect returns the current counters.
func (c *Collector) Collect() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	avg := float64(0)
	if c.turns > 0 {
		avg = float64(c.totalDuration.Milliseconds()) / float64(c.turns)
	}
	return Snapshot{
		Uptime:     time.Since(c.startTime),
		Turns:      c.turns,
		ToolPlans:  c.toolPlans,
		Deferred:   c.deferred,
		Executed:   c.executed,
		Asked:      c.asked,
		Denied:     c.denied,
		ToolRuns:   c.toolRuns,
		ToolErrors: c.toolErrors,
		AvgTurnMs:  avg,
	}
}
