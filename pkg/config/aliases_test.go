package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestAliasResolve(t *testing.T) {
	aliases := DefaultAgentAliases()

	tests := []struct {
		in   string
		want string
	}{
		{"claude", "Claude Code"},
		{"CLAUDE", "Claude Code"},
		{"gemini", "Gemini CLI"},
		{"aider", "Aider"},
		{"Claude Code", "Claude Code"},
		{"unknown", "unknown"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := aliases.Resolve(tt.in); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAliasResolve_Nil(t *testing.T) {
	var aliases *AgentAliases
	if got := aliases.Resolve("claude"); got != "claude" {
		t.Errorf("nil Resolve(claude) = %q, want claude", got)
	}
	if aliases.IsAlias("claude") {
		t.Error("nil IsAlias(claude) = true")
	}
}

func TestLoadAgentAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	content := "aliases:\n  cc: Claude Code\n  g: Gemini CLI\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	aliases, err := LoadAgentAliases(path)
	if err != nil {
		t.Fatalf("LoadAgentAliases() error: %v", err)
	}
	if got := aliases.Resolve("cc"); got != "Claude Code" {
		t.Errorf("Resolve(cc) = %q", got)
	}
	if !aliases.IsAlias("g") {
		t.Error("IsAlias(g) = false")
	}
	if got := aliases.ListAliases(); !reflect.DeepEqual(got, []string{"cc", "g"}) {
		t.Errorf("ListAliases() = %v", got)
	}
}

func TestLoadAgentAliasesWithFallback_CompiledDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	aliases, err := LoadAgentAliasesWithFallback(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadAgentAliasesWithFallback() error: %v", err)
	}
	if got := aliases.Resolve("codex"); got != "Codex CLI" {
		t.Errorf("Resolve(codex) = %q", got)
	}
}

func TestLoadAgentAliasesWithFallback_MalformedUserFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".str8zero")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "aliases.yaml"), []byte("aliases: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	// A broken user file must surface as an error, never as nil aliases
	// that silently disable short-name resolution.
	aliases, err := LoadAgentAliasesWithFallback("")
	if err == nil {
		t.Fatal("expected error for malformed aliases file")
	}
	if aliases != nil {
		t.Errorf("aliases = %+v, want nil with error", aliases)
	}
}

func TestLoadAgentAliasesWithFallback_UserFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".str8zero")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "aliases:\n  mine: My Agent\n"
	if err := os.WriteFile(filepath.Join(dir, "aliases.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	aliases, err := LoadAgentAliasesWithFallback("")
	if err != nil {
		t.Fatalf("LoadAgentAliasesWithFallback() error: %v", err)
	}
	if got := aliases.Resolve("mine"); got != "My Agent" {
		t.Errorf("Resolve(mine) = %q", got)
	}
}
