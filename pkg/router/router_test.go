package router

import (
	"errors"
	"strings"
	"testing"

	"github.com/str8zero/str8zero/pkg/config"
	"github.com/str8zero/str8zero/pkg/mood"
)

func testPreferences() *config.Preferences {
	return &config.Preferences{
		Tasks: map[string]config.TaskPreference{
			"vibe-gen": {
				Mood:     map[string]string{"rebellious": "Gemini CLI", "nostalgic": "Codex CLI"},
				Syntax:   map[string]string{"sketch-based": "Gemini CLI"},
				Fallback: "Aider",
			},
			"app-gen": {
				Mood:     map[string]string{"futuristic": "Gemini CLI", "precise": "Claude Code"},
				Syntax:   map[string]string{"code-refactor": "Aider"},
				Fallback: "Codex CLI",
			},
		},
		Defaults: config.Defaults{Agent: "Aider"},
	}
}

func extracted(t *testing.T, prompt string) Signals {
	t.Helper()
	m, s := mood.NewDetector(mood.DefaultLexicon()).Extract(prompt)
	return Signals{Mood: m, Syntax: s}
}

func TestRoute_Override(t *testing.T) {
	r := New(testPreferences())

	// Override wins regardless of signals or config.
	sig := extracted(t, "anything")
	selection, err := r.Route("vibe-gen", sig, "Claude Code")
	if err != nil {
		t.Fatalf("Route() error: %v", err)
	}
	if selection.Agent != "Claude Code" {
		t.Errorf("agent = %q, want Claude Code", selection.Agent)
	}
	if selection.Trace.Rule != RuleOverride {
		t.Errorf("rule = %q, want manual override", selection.Trace.Rule)
	}
	if !selection.OverrideUsed {
		t.Error("expected OverrideUsed")
	}

	// Even with an empty config.
	empty := &config.Preferences{}
	selection, err = New(empty).Route("nope", Signals{}, "Claude Code")
	if err != nil {
		t.Fatalf("Route() error: %v", err)
	}
	if selection.Agent != "Claude Code" {
		t.Errorf("agent = %q, want Claude Code", selection.Agent)
	}
}

func TestRoute_MoodMatch(t *testing.T) {
	r := New(testPreferences())

	sig := extracted(t, "rebellion meets prophecy")
	selection, err := r.Route("vibe-gen", sig, "")
	if err != nil {
		t.Fatalf("Route() error: %v", err)
	}
	if selection.Agent != "Gemini CLI" {
		t.Errorf("agent = %q, want Gemini CLI", selection.Agent)
	}
	if selection.Trace.Rule != RuleMood {
		t.Errorf("rule = %q, want mood match", selection.Trace.Rule)
	}
	if selection.Trace.Mood != "rebellious" || selection.Trace.MoodScore != 1.0 {
		t.Errorf("trace mood = %s (%v), want rebellious (1.0)", selection.Trace.Mood, selection.Trace.MoodScore)
	}
	if !strings.Contains(selection.Trace.Reason(), "rebellious mood") {
		t.Errorf("reason %q does not cite the mood", selection.Trace.Reason())
	}
}

func TestRoute_SyntaxMatch(t *testing.T) {
	r := New(testPreferences())

	// "quick" makes rapid the dominant mood, but app-gen has no rapid
	// entry, so the syntax rule fires.
	sig := extracted(t, "quick refactor")
	selection, err := r.Route("app-gen", sig, "")
	if err != nil {
		t.Fatalf("Route() error: %v", err)
	}
	if selection.Agent != "Aider" {
		t.Errorf("agent = %q, want Aider", selection.Agent)
	}
	if selection.Trace.Rule != RuleSyntax {
		t.Errorf("rule = %q, want syntax match", selection.Trace.Rule)
	}
	if !strings.Contains(selection.Trace.Reason(), "code-refactor syntax") {
		t.Errorf("reason %q does not cite the pattern", selection.Trace.Reason())
	}
}

func TestRoute_SyntaxTieBrokenByDeclarationOrder(t *testing.T) {
	prefs := &config.Preferences{
		Tasks: map[string]config.TaskPreference{
			"app-gen": {
				Syntax: map[string]string{
					"sketch-based":  "Gemini CLI",
					"code-refactor": "Aider",
				},
				Fallback: "Codex CLI",
			},
		},
	}
	r := New(prefs)

	// Both sketch-based and code-refactor match; sketch-based is declared
	// first in the lexicon and must win.
	sig := extracted(t, "refactor the ui")
	if len(sig.Syntax.Matched) < 2 {
		t.Fatalf("expected two matched patterns, got %v", sig.Syntax.Matched)
	}
	selection, err := r.Route("app-gen", sig, "")
	if err != nil {
		t.Fatalf("Route() error: %v", err)
	}
	if selection.Agent != "Gemini CLI" {
		t.Errorf("agent = %q, want Gemini CLI", selection.Agent)
	}
	if selection.Trace.MatchedPattern != "sketch-based" {
		t.Errorf("matched pattern = %q, want sketch-based", selection.Trace.MatchedPattern)
	}
}

func TestRoute_SyntaxSkipsUnconfiguredPattern(t *testing.T) {
	prefs := &config.Preferences{
		Tasks: map[string]config.TaskPreference{
			"app-gen": {
				Syntax:   map[string]string{"code-refactor": "Aider"},
				Fallback: "Codex CLI",
			},
		},
	}
	r := New(prefs)

	// sketch-based matches first but has no entry; code-refactor does.
	sig := extracted(t, "refactor the ui")
	selection, err := r.Route("app-gen", sig, "")
	if err != nil {
		t.Fatalf("Route() error: %v", err)
	}
	if selection.Agent != "Aider" {
		t.Errorf("agent = %q, want Aider", selection.Agent)
	}
}

func TestRoute_Fallback(t *testing.T) {
	r := New(testPreferences())

	sig := extracted(t, "hello there")
	selection, err := r.Route("vibe-gen", sig, "")
	if err != nil {
		t.Fatalf("Route() error: %v", err)
	}
	if selection.Agent != "Aider" {
		t.Errorf("agent = %q, want Aider", selection.Agent)
	}
	if selection.Trace.Rule != RuleFallback {
		t.Errorf("rule = %q, want fallback", selection.Trace.Rule)
	}
}

func TestRoute_FallbackUsesGlobalDefault(t *testing.T) {
	prefs := &config.Preferences{
		Tasks: map[string]config.TaskPreference{
			"app-gen": {Syntax: map[string]string{"code-refactor": "Aider"}},
		},
		Defaults: config.Defaults{Agent: "Codex CLI"},
	}
	r := New(prefs)

	selection, err := r.Route("app-gen", Signals{}, "")
	if err != nil {
		t.Fatalf("Route() error: %v", err)
	}
	if selection.Agent != "Codex CLI" {
		t.Errorf("agent = %q, want Codex CLI", selection.Agent)
	}
}

func TestRoute_UnknownTaskUsesGlobalDefault(t *testing.T) {
	r := New(testPreferences())

	sig := extracted(t, "rebellion everywhere")
	selection, err := r.Route("unknown-task", sig, "")
	if err != nil {
		t.Fatalf("Route() error: %v", err)
	}
	if selection.Agent != "Aider" {
		t.Errorf("agent = %q, want Aider", selection.Agent)
	}
	if selection.Trace.Rule != RuleGlobalDefault {
		t.Errorf("rule = %q, want global default", selection.Trace.Rule)
	}
}

func TestRoute_ConfigurationIncomplete(t *testing.T) {
	tests := []struct {
		name  string
		prefs *config.Preferences
		task  string
	}{
		{
			name: "task with no fallback and no global default",
			prefs: &config.Preferences{
				Tasks: map[string]config.TaskPreference{
					"app-gen": {Mood: map[string]string{"precise": "Claude Code"}},
				},
			},
			task: "app-gen",
		},
		{
			name:  "unknown task with no global default",
			prefs: &config.Preferences{},
			task:  "deploy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.prefs).Route(tt.task, Signals{}, "")
			if !errors.Is(err, ErrConfigurationIncomplete) {
				t.Errorf("Route() error = %v, want ErrConfigurationIncomplete", err)
			}
			if err != nil && !strings.Contains(err.Error(), tt.task) {
				t.Errorf("error %q does not name the task", err)
			}
		})
	}
}

func TestRoute_NoMoodRuleWithoutMatches(t *testing.T) {
	r := New(testPreferences())

	// Zero keyword matches means zero dominant score; the mood rule must
	// never fire even though the task has mood entries.
	sig := extracted(t, "xyzzy plugh")
	selection, err := r.Route("vibe-gen", sig, "")
	if err != nil {
		t.Fatalf("Route() error: %v", err)
	}
	if selection.Trace.Rule == RuleMood {
		t.Errorf("mood rule fired with no matches")
	}
}

func TestTieCandidates(t *testing.T) {
	sig := mood.MoodSignal{
		Scores:   map[string]float64{"rebellious": 1.0, "futuristic": 1.0, "rapid": 0.4},
		Ranked:   []string{"rebellious", "futuristic", "rapid"},
		Dominant: "rebellious",
		Score:    1.0,
	}

	got := tieCandidates(sig, 0.1)
	if len(got) != 2 || got[0] != "rebellious" || got[1] != "futuristic" {
		t.Errorf("tieCandidates = %v, want [rebellious futuristic]", got)
	}

	if got := tieCandidates(mood.MoodSignal{}, 0.1); got != nil {
		t.Errorf("tieCandidates on empty signal = %v, want nil", got)
	}
}

func TestTieCandidates_MarginRelativeToTop(t *testing.T) {
	// The margin is measured from the top score, not from 1.0.
	sig := mood.MoodSignal{
		Scores:   map[string]float64{"elegant": 0.8, "precise": 0.75, "rapid": 0.3},
		Ranked:   []string{"elegant", "precise", "rapid"},
		Dominant: "elegant",
		Score:    0.8,
	}

	got := tieCandidates(sig, 0.1)
	if len(got) != 2 || got[0] != "elegant" || got[1] != "precise" {
		t.Errorf("tieCandidates = %v, want [elegant precise]", got)
	}
}
