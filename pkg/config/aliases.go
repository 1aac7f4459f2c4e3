package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// AgentAliases manages short-name resolution for agents, so --override
// accepts "claude" as well as "Claude Code".
type AgentAliases struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadAgentAliases reads agent aliases from a YAML file.
func LoadAgentAliases(path string) (*AgentAliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var aliases AgentAliases
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, err
	}

	if aliases.Aliases == nil {
		aliases.Aliases = make(map[string]string)
	}
	return &aliases, nil
}

// LoadAgentAliasesWithFallback loads aliases from the user config dir,
// falling back to the provided default path, then the compiled-in defaults.
func LoadAgentAliasesWithFallback(defaultPath string) (*AgentAliases, error) {
	home, err := os.UserHomeDir()
	if err == nil {
		userPath := filepath.Join(home, ".str8zero", "aliases.yaml")
		if _, err := os.Stat(userPath); err == nil {
			return LoadAgentAliases(userPath)
		}
	}

	if defaultPath != "" {
		if _, err := os.Stat(defaultPath); err == nil {
			return LoadAgentAliases(defaultPath)
		}
	}

	return DefaultAgentAliases(), nil
}

// Resolve returns the canonical agent name for a short name.
// Lookup is case-insensitive; unknown names are returned unchanged.
func (a *AgentAliases) Resolve(nameOrAlias string) string {
	if a == nil || a.Aliases == nil {
		return nameOrAlias
	}
	if canonical, ok := a.Aliases[strings.ToLower(nameOrAlias)]; ok {
		return canonical
	}
	return nameOrAlias
}

// IsAlias returns true if the given string is a known alias.
func (a *AgentAliases) IsAlias(name string) bool {
	if a == nil || a.Aliases == nil {
		return false
	}
	_, ok := a.Aliases[strings.ToLower(name)]
	return ok
}

// ListAliases returns the alias names, sorted.
func (a *AgentAliases) ListAliases() []string {
	if a == nil || a.Aliases == nil {
		return nil
	}
	names := make([]string, 0, len(a.Aliases))
	for name := range a.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultAgentAliases returns the built-in short names.
func DefaultAgentAliases() *AgentAliases {
	return &AgentAliases{
		Aliases: map[string]string{
			"aider":  "Aider",
			"codex":  "Codex CLI",
			"gemini": "Gemini CLI",
			"claude": "Claude Code",
		},
	}
}
