package router

import (
	"context"
	"log"

	"github.com/str8zero/str8zero/pkg/config"
	"github.com/str8zero/str8zero/pkg/mood"
)

// MoodThreshold is the significance threshold for a dominant mood. With
// max-normalized scores the dominant score is 1.0 whenever any keyword
// matched, so anything in (0,1) means "any match at all".
const MoodThreshold = 0.7

// Signals bundles the extracted mood and syntax signals for a prompt.
type Signals struct {
	Mood   mood.MoodSignal
	Syntax mood.SyntaxSignal
}

// Selection is the routing result: one agent plus its explanation trace.
type Selection struct {
	Agent        string
	Trace        *Trace
	OverrideUsed bool
}

// Router selects an agent from extracted signals and routing preferences.
type Router struct {
	prefs      *config.Preferences
	classifier *Classifier
	debug      bool
}

// Option configures a Router.
type Option func(*Router)

// WithClassifier sets the optional LLM tie-breaker.
func WithClassifier(c *Classifier) Option {
	return func(r *Router) {
		r.classifier = c
	}
}

// WithDebug enables debug logging.
func WithDebug(debug bool) Option {
	return func(r *Router) {
		r.debug = debug
	}
}

// New creates a router over the given preferences.
func New(prefs *config.Preferences, opts ...Option) *Router {
	r := &Router{prefs: prefs}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route selects an agent by strict precedence: override, mood, syntax,
// fallback, global default. Pure: deterministic for identical inputs.
func (r *Router) Route(task string, sig Signals, override string) (*Selection, error) {
	return r.route(task, sig, override, nil)
}

// RouteWithTieBreak routes like Route, but when the mood signal is
// ambiguous (two or more labels within the configured margin) and a
// classifier is configured, it consults the classifier to pick the mood
// label first. Classifier failure degrades to the declaration-order
// dominant; it never fails the routing decision.
func (r *Router) RouteWithTieBreak(ctx context.Context, prompt, task string, sig Signals, override string) (*Selection, error) {
	var tb *TieBreak
	if override == "" && r.classifier != nil {
		candidates := tieCandidates(sig.Mood, r.prefs.Classifier.TieMargin)
		if len(candidates) > 1 {
			var err error
			tb, err = r.classifier.Disambiguate(ctx, prompt, candidates)
			if err != nil && r.debug {
				log.Printf("[router] tie-breaker error: %v", err)
			}
		}
	}
	return r.route(task, sig, override, tb)
}

func (r *Router) route(task string, sig Signals, override string, tb *TieBreak) (*Selection, error) {
	trace := &Trace{
		Task:      task,
		Mood:      sig.Mood.Dominant,
		MoodScore: sig.Mood.Score,
		Patterns:  sig.Syntax.Matched,
		TieBreak:  tb,
	}

	if override != "" {
		trace.Rule = RuleOverride
		trace.Agent = override
		return &Selection{Agent: override, Trace: trace, OverrideUsed: true}, nil
	}

	tp, ok := r.prefs.Tasks[task]
	if !ok {
		if r.prefs.Defaults.Agent == "" {
			return nil, configurationIncomplete(task)
		}
		trace.Rule = RuleGlobalDefault
		trace.Agent = r.prefs.Defaults.Agent
		return &Selection{Agent: trace.Agent, Trace: trace}, nil
	}

	dominant := sig.Mood.Dominant
	if tb != nil && tb.Picked != "" {
		dominant = tb.Picked
		trace.Mood = dominant
		trace.MoodScore = sig.Mood.Scores[dominant]
	}
	if dominant != "" && sig.Mood.Scores[dominant] > MoodThreshold {
		if agent, ok := tp.Mood[dominant]; ok && agent != "" {
			trace.Rule = RuleMood
			trace.Mood = dominant
			trace.MoodScore = sig.Mood.Scores[dominant]
			trace.Agent = agent
			return &Selection{Agent: agent, Trace: trace}, nil
		}
	}

	// Matched patterns arrive in lexicon declaration order; the first one
	// with a configured entry wins.
	for _, pattern := range sig.Syntax.Matched {
		if agent, ok := tp.Syntax[pattern]; ok && agent != "" {
			trace.Rule = RuleSyntax
			trace.MatchedPattern = pattern
			trace.Agent = agent
			return &Selection{Agent: agent, Trace: trace}, nil
		}
	}

	fallback := tp.Fallback
	if fallback == "" {
		fallback = r.prefs.Defaults.Agent
	}
	if fallback == "" {
		return nil, configurationIncomplete(task)
	}
	trace.Rule = RuleFallback
	trace.Agent = fallback
	return &Selection{Agent: fallback, Trace: trace}, nil
}

// tieCandidates returns the mood labels whose normalized score is within
// margin of the top score, in rank order.
func tieCandidates(sig mood.MoodSignal, margin float64) []string {
	if sig.Dominant == "" {
		return nil
	}
	floor := sig.Score - margin
	var candidates []string
	for _, label := range sig.Ranked {
		if sig.Scores[label] >= floor {
			candidates = append(candidates, label)
		}
	}
	return candidates
}
