package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/str8zero/str8zero/pkg/adapter"
	"github.com/str8zero/str8zero/pkg/config"
)

// Classifier asks an LLM to pick between near-tied mood labels.
// It is only consulted when the heuristic signal is ambiguous.
type Classifier struct {
	adapters map[string]adapter.Adapter
	cfg      config.ClassifierConfig
}

// NewClassifier creates a classifier with adapters and tie-breaker config.
func NewClassifier(adapters map[string]adapter.Adapter, cfg config.ClassifierConfig) *Classifier {
	return &Classifier{adapters: adapters, cfg: cfg}
}

// Disambiguate picks one mood label among the tied candidates. Returns nil
// without error when the classifier is disabled or unconfigured. On adapter
// or parse failure it returns a TieBreak with Err set so the caller can
// degrade to the declaration-order dominant.
func (c *Classifier) Disambiguate(ctx context.Context, prompt string, candidates []string) (*TieBreak, error) {
	if c == nil || len(candidates) <= 1 || !c.cfg.IsEnabled() {
		return nil, nil
	}

	adapterName := strings.TrimSpace(c.cfg.Adapter)
	model := strings.TrimSpace(c.cfg.Model)
	adapterImpl, ok := c.adapters[adapterName]
	if !ok || adapterImpl == nil {
		return nil, nil
	}

	tb := &TieBreak{Candidates: candidates, Adapter: adapterName, Model: model}

	tiePrompt := buildTieBreakPrompt(prompt, candidates)
	resp, err := adapterImpl.Generate(ctx, model, tiePrompt)
	if err != nil && adapter.IsTransient(err) {
		// One retry on rate limits and provider 5xx; permanent failures
		// degrade immediately.
		resp, err = adapterImpl.Generate(ctx, model, tiePrompt)
	}
	if err != nil {
		tb.Err = err.Error()
		return tb, err
	}

	pick, err := parseTieBreakResponse(resp)
	if err != nil {
		tb.Err = err.Error()
		return tb, err
	}

	if !contains(candidates, pick.Mood) {
		err := fmt.Errorf("tie-breaker mood %q not in candidates", pick.Mood)
		tb.Err = err.Error()
		return tb, err
	}

	tb.Picked = pick.Mood
	tb.Reason = pick.Reason
	return tb, nil
}

type tieBreakPick struct {
	Mood   string `json:"mood"`
	Reason string `json:"reason"`
}

func parseTieBreakResponse(content string) (*tieBreakPick, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var pick tieBreakPick
	if err := json.Unmarshal([]byte(content), &pick); err != nil {
		return nil, err
	}
	if pick.Mood == "" {
		return nil, fmt.Errorf("missing mood")
	}
	return &pick, nil
}

func buildTieBreakPrompt(userPrompt string, candidates []string) string {
	var sb strings.Builder
	sb.WriteString("You are a mood classifier for a coding-agent router. Pick the single best mood.\n")
	sb.WriteString("Return ONLY JSON: {\"mood\":\"...\",\"reason\":\"...\"}.\n\n")
	sb.WriteString("User prompt:\n")
	sb.WriteString(userPrompt)
	sb.WriteString("\n\nCandidate moods:\n")
	for _, c := range candidates {
		sb.WriteString("- " + c + "\n")
	}
	return sb.String()
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
