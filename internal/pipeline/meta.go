package pipeline

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aria-ai/aria/internal/state"
	"github.com/aria-ai/aria/pkg/protocol"
)

// Meta commands are about the assistant itself rather than the
// desktop, so they bypass routing and the autonomy policy entirely.

var (
	setAutonomyRe = regexp.MustCompile(`(?i)^(?:set\s+)?autonomy(?:\s+mode)?\s+(?:to\s+)?(off|low|normal|high)$`)
	getAutonomyRe = regexp.MustCompile(`(?i)^(?:what(?:'s|\s+is)\s+(?:your\s+|the\s+)?autonomy(?:\s+mode)?|autonomy(?:\s+mode)?)$`)
	whyRe         = regexp.MustCompile(`(?i)^why\s+(?:did\s+you\s+(?:do|say)\s+that|(?:did\s+you\s+)?ask)$`)
	recallRe      = regexp.MustCompile(`(?i)^(?:recall|what\s+did\s+(?:i|we)\s+(?:say|do)\s+about)\s+(.+)$`)
)

func (p *Pipeline) handleMeta(trimmed, lower string) (Response, bool) {
	if m := setAutonomyRe.FindStringSubmatch(lower); m != nil {
		mode, _ := state.ParseAutonomyMode(m[1])
		p.store.SetAutonomyMode(mode)
		return p.record(trimmed, Response{
			Reply: fmt.Sprintf("Autonomy set to %s.", mode),
		}, "meta", nil), true
	}

	if getAutonomyRe.MatchString(lower) {
		return p.record(trimmed, Response{
			Reply: fmt.Sprintf("Autonomy is %s.", p.store.AutonomyMode()),
		}, "meta", nil), true
	}

	if whyRe.MatchString(lower) {
		return p.record(trimmed, Response{Reply: p.explainLastDecision()}, "meta", nil), true
	}

	if m := recallRe.FindStringSubmatch(trimmed); m != nil && p.log != nil {
		return p.record(trimmed, Response{Reply: p.recall(m[1])}, "meta", nil), true
	}

	if lower == "stats" || lower == "session stats" {
		s := p.stats.Collect()
		return p.record(trimmed, Response{
			Reply: fmt.Sprintf("Up %s: %d turns, %d executed, %d asked, %d denied, %d deferred, %d tool runs (%d failed).",
				s.Uptime.Round(time.Second), s.Turns, s.Executed, s.Asked, s.Denied, s.Deferred, s.ToolRuns, s.ToolErrors),
		}, "meta", nil), true
	}

	return Response{}, false
}

// explainLastDecision replays the reasoning behind the most recent
// autonomy decision in plain language.
func (p *Pipeline) explainLastDecision() string {
	d, ok := p.store.LastDecision()
	if !ok {
		return "I haven't decided anything yet this session."
	}

	var verb string
	switch d.Action {
	case protocol.ActionExecute:
		verb = "went ahead"
	case protocol.ActionAsk:
		verb = "asked first"
	default:
		verb = "held off"
	}
	return fmt.Sprintf("I %s because %s. The plan was to %s (risk %s, confidence %.0f%%, autonomy %s).",
		verb, d.Reason, d.PlanSummary, d.Risk, d.Confidence*100, d.Mode)
}

// recall searches the interaction log for past turns about topic.
func (p *Pipeline) recall(topic string) string {
	hits, err := p.log.Recall(topic, 3)
	if err != nil || len(hits) == 0 {
		return fmt.Sprintf("I don't remember anything about %s.", strings.TrimSpace(topic))
	}

	var lines []string
	for _, h := range hits {
		line := fmt.Sprintf("%s you said %q", h.Timestamp.Format("Jan 2 3:04 PM"), h.Utterance)
		if len(h.Tools) > 0 {
			line += " and I ran " + strings.Join(h.Tools, ", ")
		}
		lines = append(lines, line)
	}
	return "Here's what I have: " + strings.Join(lines, "; ") + "."
}
