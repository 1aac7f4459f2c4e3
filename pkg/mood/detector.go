package mood

import (
	"sort"
	"strings"
)

// MoodSignal is the mood classification for a prompt. Scores are normalized
// so the maximum observed score is 1.0. Dominant is empty when nothing
// matched; ties go to the first-declared label. Ranked lists matched labels
// by score, descending, with the same tie-break.
type MoodSignal struct {
	Scores   map[string]float64 `json:"scores,omitempty"`
	Ranked   []string           `json:"ranked,omitempty"`
	Dominant string             `json:"dominant,omitempty"`
	Score    float64            `json:"score"`
}

// SyntaxSignal is the set of matched syntax patterns, in lexicon declaration
// order.
type SyntaxSignal struct {
	Matched []string `json:"matched,omitempty"`
}

// Detector extracts mood and syntax signals from prompt text.
type Detector struct {
	lex *Lexicon
}

// NewDetector creates a detector over the given lexicon.
func NewDetector(lex *Lexicon) *Detector {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Detector{lex: lex}
}

// Extract scans the prompt against the lexicon and returns both signals.
// Pure: deterministic for identical input and lexicon, no side effects.
func (d *Detector) Extract(prompt string) (MoodSignal, SyntaxSignal) {
	promptLower := strings.ToLower(prompt)

	raw := make(map[string]float64)
	for _, entry := range d.lex.Moods {
		for _, kw := range entry.Keywords {
			term := strings.ToLower(kw.Term)
			n := countMatches(promptLower, term)
			if n == 0 {
				continue
			}
			weight := kw.Weight
			if weight == 0 {
				weight = defaultKeywordWeight
			}
			raw[entry.Label] += weight * float64(n)

			for _, intensifier := range d.lex.Intensifiers {
				if strings.Contains(promptLower, strings.ToLower(intensifier)+" "+term) {
					raw[entry.Label] += intensifierBonus
				}
			}
		}
	}

	for _, combo := range d.lex.Combos {
		all := true
		for _, term := range combo.Terms {
			if countMatches(promptLower, strings.ToLower(term)) == 0 {
				all = false
				break
			}
		}
		if !all {
			continue
		}
		bonus := combo.Bonus
		if bonus == 0 {
			bonus = defaultComboBonus
		}
		raw[combo.Label] += bonus
	}

	moodSig := normalize(raw, d.lex.Moods)

	var syntaxSig SyntaxSignal
	for _, pattern := range d.lex.Patterns {
		for _, trigger := range pattern.Triggers {
			if countMatches(promptLower, strings.ToLower(trigger)) > 0 {
				syntaxSig.Matched = append(syntaxSig.Matched, pattern.Name)
				break
			}
		}
	}

	return moodSig, syntaxSig
}

// normalize scales raw scores so the maximum maps to 1.0 and picks the
// dominant label, breaking ties by declaration order.
func normalize(raw map[string]float64, moods []MoodEntry) MoodSignal {
	var max float64
	for _, v := range raw {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return MoodSignal{}
	}

	sig := MoodSignal{Scores: make(map[string]float64, len(raw))}
	for label, v := range raw {
		sig.Scores[label] = v / max
	}

	// Declaration order first, then a stable sort by score keeps ties in
	// declaration order.
	for _, m := range moods {
		if raw[m.Label] > 0 {
			sig.Ranked = append(sig.Ranked, m.Label)
		}
	}
	sort.SliceStable(sig.Ranked, func(i, j int) bool {
		return sig.Scores[sig.Ranked[i]] > sig.Scores[sig.Ranked[j]]
	})

	sig.Dominant = sig.Ranked[0]
	sig.Score = sig.Scores[sig.Dominant]
	return sig
}

// countMatches counts whole-word occurrences of term in prompt.
// Both arguments must already be lowercase.
func countMatches(prompt, term string) int {
	if term == "" {
		return 0
	}
	count := 0
	for offset := 0; ; {
		idx := strings.Index(prompt[offset:], term)
		if idx == -1 {
			return count
		}
		start := offset + idx
		end := start + len(term)
		if boundaryBefore(prompt, start) && boundaryAfter(prompt, end) {
			count++
		}
		offset = start + 1
	}
}

func boundaryBefore(s string, idx int) bool {
	return idx == 0 || !isWordChar(s[idx-1])
}

func boundaryAfter(s string, idx int) bool {
	return idx >= len(s) || !isWordChar(s[idx])
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}
