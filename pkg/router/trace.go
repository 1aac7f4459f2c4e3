package router

import (
	"fmt"
	"strings"
)

// Rule identifies which precedence rule fired for a selection.
type Rule string

const (
	RuleOverride      Rule = "manual override"
	RuleMood          Rule = "mood match"
	RuleSyntax        Rule = "syntax match"
	RuleFallback      Rule = "fallback"
	RuleGlobalDefault Rule = "no task config; global default"
)

// TieBreak records an LLM tie-breaker consultation.
type TieBreak struct {
	Candidates []string `json:"candidates"`
	Picked     string   `json:"picked,omitempty"`
	Adapter    string   `json:"adapter,omitempty"`
	Model      string   `json:"model,omitempty"`
	Reason     string   `json:"reason,omitempty"`
	Err        string   `json:"error,omitempty"`
}

// Trace is the structured explanation of a routing decision.
type Trace struct {
	Rule           Rule      `json:"rule"`
	Task           string    `json:"task"`
	Mood           string    `json:"mood,omitempty"`
	MoodScore      float64   `json:"mood_score,omitempty"`
	Patterns       []string  `json:"patterns,omitempty"`
	MatchedPattern string    `json:"matched_pattern,omitempty"`
	Agent          string    `json:"agent"`
	TieBreak       *TieBreak `json:"tie_break,omitempty"`
}

// Reason returns the one-line explanation for the decision.
func (t *Trace) Reason() string {
	switch t.Rule {
	case RuleOverride:
		return fmt.Sprintf("manual override to %s", t.Agent)
	case RuleMood:
		return fmt.Sprintf("%s mood (%.1f) matched to %s", t.Mood, t.MoodScore, t.Agent)
	case RuleSyntax:
		return fmt.Sprintf("%s syntax matched to %s", t.MatchedPattern, t.Agent)
	case RuleFallback:
		return fmt.Sprintf("fallback to %s for %s", t.Agent, t.Task)
	case RuleGlobalDefault:
		return fmt.Sprintf("no routing for %s; using default %s", t.Task, t.Agent)
	default:
		return string(t.Rule)
	}
}

// Render formats the full trace for the --explain consumer.
func (t *Trace) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "rule:     %s\n", t.Rule)
	fmt.Fprintf(&sb, "task:     %s\n", t.Task)
	if t.Mood != "" {
		fmt.Fprintf(&sb, "mood:     %s (score %.2f)\n", t.Mood, t.MoodScore)
	} else {
		sb.WriteString("mood:     none detected\n")
	}
	if len(t.Patterns) > 0 {
		fmt.Fprintf(&sb, "patterns: %s\n", strings.Join(t.Patterns, ", "))
	} else {
		sb.WriteString("patterns: none matched\n")
	}
	if t.TieBreak != nil {
		fmt.Fprintf(&sb, "tiebreak: %s via %s/%s (candidates: %s)\n",
			t.TieBreak.Picked, t.TieBreak.Adapter, t.TieBreak.Model,
			strings.Join(t.TieBreak.Candidates, ", "))
	}
	fmt.Fprintf(&sb, "agent:    %s\n", t.Agent)
	return sb.String()
}
