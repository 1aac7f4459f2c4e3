package mood

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrMalformedLexicon indicates lexicon data that failed to parse or validate.
// Loading is fail-fast: routing never runs on bad lexicon data.
var ErrMalformedLexicon = errors.New("malformed lexicon")

// Weight constants for score accumulation. Absolute values don't matter
// after normalization, only their ratios.
const (
	defaultKeywordWeight = 0.3
	intensifierBonus     = 0.2
	defaultComboBonus    = 0.4
)

// Keyword associates a lexicon term with a weight.
type Keyword struct {
	Term   string  `yaml:"term"`
	Weight float64 `yaml:"weight,omitempty"`
}

// MoodEntry maps one mood label to its trigger keywords.
// Entries are ordered; declaration order is the dominant-mood tie-break.
type MoodEntry struct {
	Label    string    `yaml:"label"`
	Keywords []Keyword `yaml:"keywords"`
}

// Pattern is a named syntax category with trigger substrings.
type Pattern struct {
	Name     string   `yaml:"name"`
	Triggers []string `yaml:"triggers"`
}

// Combo adds a bonus to a mood label when all terms co-occur in the prompt.
type Combo struct {
	Terms []string `yaml:"terms"`
	Label string   `yaml:"label"`
	Bonus float64  `yaml:"bonus,omitempty"`
}

// Lexicon holds the static mood/syntax data. Loaded once, immutable for the
// run's duration.
type Lexicon struct {
	Moods        []MoodEntry `yaml:"moods"`
	Patterns     []Pattern   `yaml:"patterns"`
	Intensifiers []string    `yaml:"intensifiers,omitempty"`
	Combos       []Combo     `yaml:"combos,omitempty"`
}

// LoadLexicon reads and validates a lexicon from a YAML file.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedLexicon, path, err)
	}

	if err := lex.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &lex, nil
}

// LoadLexiconWithFallback loads the lexicon from the user config dir, then
// the provided default path, then the compiled-in default.
func LoadLexiconWithFallback(defaultPath string) (*Lexicon, error) {
	home, err := os.UserHomeDir()
	if err == nil {
		userPath := filepath.Join(home, ".str8zero", "lexicon.yaml")
		if _, err := os.Stat(userPath); err == nil {
			return LoadLexicon(userPath)
		}
	}

	if defaultPath != "" {
		if _, err := os.Stat(defaultPath); err == nil {
			return LoadLexicon(defaultPath)
		}
	}

	return DefaultLexicon(), nil
}

// Validate checks structural invariants: non-empty unique labels and pattern
// names, non-empty keyword/trigger lists, combos referencing known labels.
func (l *Lexicon) Validate() error {
	if len(l.Moods) == 0 {
		return fmt.Errorf("%w: no mood entries", ErrMalformedLexicon)
	}

	labels := make(map[string]bool, len(l.Moods))
	for i, m := range l.Moods {
		if m.Label == "" {
			return fmt.Errorf("%w: mood entry %d has no label", ErrMalformedLexicon, i)
		}
		if labels[m.Label] {
			return fmt.Errorf("%w: duplicate mood label %q", ErrMalformedLexicon, m.Label)
		}
		labels[m.Label] = true
		if len(m.Keywords) == 0 {
			return fmt.Errorf("%w: mood %q has no keywords", ErrMalformedLexicon, m.Label)
		}
		for _, k := range m.Keywords {
			if k.Term == "" {
				return fmt.Errorf("%w: mood %q has an empty keyword", ErrMalformedLexicon, m.Label)
			}
			if k.Weight < 0 {
				return fmt.Errorf("%w: keyword %q has negative weight", ErrMalformedLexicon, k.Term)
			}
		}
	}

	names := make(map[string]bool, len(l.Patterns))
	for i, p := range l.Patterns {
		if p.Name == "" {
			return fmt.Errorf("%w: pattern %d has no name", ErrMalformedLexicon, i)
		}
		if names[p.Name] {
			return fmt.Errorf("%w: duplicate pattern %q", ErrMalformedLexicon, p.Name)
		}
		names[p.Name] = true
		if len(p.Triggers) == 0 {
			return fmt.Errorf("%w: pattern %q has no triggers", ErrMalformedLexicon, p.Name)
		}
	}

	for _, c := range l.Combos {
		if len(c.Terms) == 0 {
			return fmt.Errorf("%w: combo for %q has no terms", ErrMalformedLexicon, c.Label)
		}
		if !labels[c.Label] {
			return fmt.Errorf("%w: combo references unknown mood %q", ErrMalformedLexicon, c.Label)
		}
	}

	return nil
}

// MoodLabels returns the mood labels in declaration order.
func (l *Lexicon) MoodLabels() []string {
	labels := make([]string, 0, len(l.Moods))
	for _, m := range l.Moods {
		labels = append(labels, m.Label)
	}
	return labels
}

// PatternNames returns the pattern names in declaration order.
func (l *Lexicon) PatternNames() []string {
	names := make([]string, 0, len(l.Patterns))
	for _, p := range l.Patterns {
		names = append(names, p.Name)
	}
	return names
}

// DefaultLexicon returns the compiled-in lexicon.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Moods: []MoodEntry{
			{Label: "rebellious", Keywords: keywords("rebellion", "freedom", "break", "disrupt", "revolution", "anarchy", "resist", "defy", "challenge", "unconventional")},
			{Label: "elegant", Keywords: keywords("clean", "elegant", "minimal", "precise", "refined", "sophisticated", "polished", "sleek", "streamlined", "graceful")},
			{Label: "nostalgic", Keywords: keywords("retro", "nostalgia", "classic", "vintage", "old-school", "traditional", "legacy", "throwback", "memory", "reminiscent")},
			{Label: "futuristic", Keywords: keywords("future", "prophecy", "advanced", "cutting-edge", "innovative", "forward", "next-gen", "tomorrow", "visionary", "ahead")},
			{Label: "precise", Keywords: keywords("precise", "exact", "accurate", "meticulous", "detailed", "rigorous", "specific", "exacting", "careful", "thorough")},
			{Label: "rapid", Keywords: keywords("rapid", "quick", "fast", "swift", "speedy", "immediate", "instant", "prompt", "expedient", "hasty")},
			{Label: "cautious", Keywords: keywords("cautious", "careful", "prudent", "wary", "vigilant", "guarded", "conservative", "safe", "measured", "deliberate")},
		},
		Patterns: []Pattern{
			{Name: "sketch-based", Triggers: []string{"sketch", "design", "wireframe", "mockup", "prototype", "layout", "ui", "ux", "interface", "visual"}},
			{Name: "code-refactor", Triggers: []string{"refactor", "improve", "optimize", "clean", "restructure", "rewrite", "enhance", "upgrade", "modernize", "fix"}},
			{Name: "multi-file", Triggers: []string{"files", "project", "codebase", "repository", "directory", "structure", "organize", "architecture", "system", "framework"}},
			{Name: "api-bindings", Triggers: []string{"api", "connect", "integrate", "binding", "endpoint", "service", "request", "response", "data"}},
		},
		Intensifiers: []string{"very", "extremely", "deeply", "highly", "incredibly", "truly", "absolutely"},
		Combos: []Combo{
			{Terms: []string{"freedom", "expression"}, Label: "rebellious"},
			{Terms: []string{"clean", "code"}, Label: "elegant"},
			{Terms: []string{"like the old days"}, Label: "nostalgic"},
			{Terms: []string{"remember when"}, Label: "nostalgic"},
			{Terms: []string{"cutting edge"}, Label: "futuristic"},
			{Terms: []string{"next generation"}, Label: "futuristic"},
			{Terms: []string{"no errors"}, Label: "precise"},
			{Terms: []string{"perfect output"}, Label: "precise"},
			{Terms: []string{"deadline"}, Label: "rapid"},
			{Terms: []string{"as soon as possible"}, Label: "rapid"},
			{Terms: []string{"make sure"}, Label: "cautious"},
			{Terms: []string{"double check"}, Label: "cautious"},
		},
	}
}

func keywords(terms ...string) []Keyword {
	ks := make([]Keyword, 0, len(terms))
	for _, t := range terms {
		ks = append(ks, Keyword{Term: t})
	}
	return ks
}
