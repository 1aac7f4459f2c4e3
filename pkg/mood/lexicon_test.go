package mood

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeLexicon(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadLexicon(t *testing.T) {
	path := writeLexicon(t, `
moods:
  - label: rebellious
    keywords:
      - term: rebellion
      - term: anarchy
        weight: 0.5
  - label: precise
    keywords:
      - term: exact
patterns:
  - name: code-refactor
    triggers: [refactor, rewrite]
intensifiers: [very]
combos:
  - terms: [no errors]
    label: precise
`)

	lex, err := LoadLexicon(path)
	if err != nil {
		t.Fatalf("LoadLexicon() error: %v", err)
	}
	if len(lex.Moods) != 2 || lex.Moods[0].Label != "rebellious" {
		t.Errorf("unexpected moods: %+v", lex.Moods)
	}
	if lex.Moods[0].Keywords[1].Weight != 0.5 {
		t.Errorf("weight = %v, want 0.5", lex.Moods[0].Keywords[1].Weight)
	}
	if got := lex.PatternNames(); len(got) != 1 || got[0] != "code-refactor" {
		t.Errorf("pattern names = %v", got)
	}
}

func TestLoadLexicon_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "invalid yaml",
			content: "moods: [unterminated",
		},
		{
			name:    "no moods",
			content: "patterns:\n  - name: p\n    triggers: [x]\n",
		},
		{
			name: "duplicate label",
			content: `
moods:
  - label: rapid
    keywords: [{term: quick}]
  - label: rapid
    keywords: [{term: fast}]
`,
		},
		{
			name: "mood without keywords",
			content: `
moods:
  - label: rapid
    keywords: []
`,
		},
		{
			name: "pattern without triggers",
			content: `
moods:
  - label: rapid
    keywords: [{term: quick}]
patterns:
  - name: empty
    triggers: []
`,
		},
		{
			name: "combo references unknown mood",
			content: `
moods:
  - label: rapid
    keywords: [{term: quick}]
combos:
  - terms: [deadline]
    label: nonexistent
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeLexicon(t, tt.content)
			_, err := LoadLexicon(path)
			if !errors.Is(err, ErrMalformedLexicon) {
				t.Errorf("LoadLexicon() error = %v, want ErrMalformedLexicon", err)
			}
		})
	}
}

func TestDefaultLexiconIsValid(t *testing.T) {
	if err := DefaultLexicon().Validate(); err != nil {
		t.Fatalf("default lexicon invalid: %v", err)
	}
}

func TestMoodLabelsOrder(t *testing.T) {
	lex := DefaultLexicon()
	labels := lex.MoodLabels()
	if len(labels) == 0 || labels[0] != "rebellious" {
		t.Errorf("labels = %v, want rebellious first", labels)
	}
}
