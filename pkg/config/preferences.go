package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrMalformedConfig indicates a preferences file that failed to parse or
// validate. Fatal at load time: routing never runs on bad config.
var ErrMalformedConfig = errors.New("malformed config")

// Preferences holds the routing preference configuration.
type Preferences struct {
	Tasks      map[string]TaskPreference `yaml:"preferences"`
	Defaults   Defaults                  `yaml:"defaults"`
	Classifier ClassifierConfig          `yaml:"classifier,omitempty"`
}

// TaskPreference defines the routing table for one task.
type TaskPreference struct {
	Mood     map[string]string `yaml:"mood,omitempty"`
	Syntax   map[string]string `yaml:"syntax,omitempty"`
	Fallback string            `yaml:"fallback,omitempty"`
}

// Defaults holds global defaults used when a task has no configuration.
type Defaults struct {
	Agent string `yaml:"agent"`
}

// ClassifierConfig configures the optional LLM mood tie-breaker.
// Disabled unless an adapter and model are set and Enabled is true.
// TieMargin is relative: moods scoring within TieMargin of the top score
// count as tied.
type ClassifierConfig struct {
	Adapter   string  `yaml:"adapter,omitempty"`
	Model     string  `yaml:"model,omitempty"`
	Enabled   *bool   `yaml:"enabled,omitempty"`
	TieMargin float64 `yaml:"tie_margin,omitempty"`
}

// IsEnabled reports whether the tie-breaker should be consulted at all.
func (c ClassifierConfig) IsEnabled() bool {
	return c.Enabled != nil && *c.Enabled && c.Adapter != "" && c.Model != ""
}

// LoadPreferences reads routing preferences from a YAML file.
func LoadPreferences(path string) (*Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var prefs Preferences
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedConfig, path, err)
	}

	applyPreferenceDefaults(&prefs)
	return &prefs, nil
}

// Validate cross-checks preferences against the lexicon's mood labels and
// pattern names, and against the known agent names. Returns all problems
// found rather than stopping at the first.
func (p *Preferences) Validate(moodLabels, patternNames, agents []string) []error {
	labelSet := toSet(moodLabels)
	patternSet := toSet(patternNames)
	agentSet := toSet(agents)

	var errs []error
	checkAgent := func(context, agent string) {
		if agent != "" && len(agentSet) > 0 && !agentSet[agent] {
			errs = append(errs, fmt.Errorf("%w: %s references unknown agent %q", ErrMalformedConfig, context, agent))
		}
	}

	for task, tp := range p.Tasks {
		for label, agent := range tp.Mood {
			if !labelSet[label] {
				errs = append(errs, fmt.Errorf("%w: task %q references unknown mood %q", ErrMalformedConfig, task, label))
			}
			checkAgent(fmt.Sprintf("task %q mood %q", task, label), agent)
		}
		for pattern, agent := range tp.Syntax {
			if !patternSet[pattern] {
				errs = append(errs, fmt.Errorf("%w: task %q references unknown pattern %q", ErrMalformedConfig, task, pattern))
			}
			checkAgent(fmt.Sprintf("task %q syntax %q", task, pattern), agent)
		}
		checkAgent(fmt.Sprintf("task %q fallback", task), tp.Fallback)
	}
	checkAgent("defaults", p.Defaults.Agent)

	return errs
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// DefaultPreferences returns the default routing preferences.
func DefaultPreferences() *Preferences {
	prefs := &Preferences{
		Tasks: map[string]TaskPreference{
			"vibe-gen": {
				Mood: map[string]string{
					"rebellious": "Gemini CLI",
					"nostalgic":  "Codex CLI",
				},
				Syntax: map[string]string{
					"sketch-based": "Gemini CLI",
				},
				Fallback: "Aider",
			},
			"app-gen": {
				Mood: map[string]string{
					"futuristic": "Gemini CLI",
					"precise":    "Claude Code",
				},
				Syntax: map[string]string{
					"code-refactor": "Aider",
				},
				Fallback: "Codex CLI",
			},
			"deploy": {
				Mood: map[string]string{
					"cautious": "Claude Code",
				},
				Syntax: map[string]string{
					"multi-file": "Claude Code",
				},
				Fallback: "Aider",
			},
			"monetize": {
				Syntax: map[string]string{
					"api-bindings": "Codex CLI",
				},
				Fallback: "Claude Code",
			},
		},
		Defaults: Defaults{Agent: "Aider"},
	}

	applyPreferenceDefaults(prefs)
	return prefs
}

func applyPreferenceDefaults(prefs *Preferences) {
	if prefs == nil {
		return
	}
	if prefs.Classifier.TieMargin == 0 {
		prefs.Classifier.TieMargin = 0.1
	}
}
