package agent

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Descriptor describes one coding agent. Purely descriptive: the router
// selects a name, it never runs the executable.
type Descriptor struct {
	Name       string   `yaml:"name"`
	Emoji      string   `yaml:"emoji,omitempty"`
	BaseCost   float64  `yaml:"base_cost,omitempty"`
	Strengths  []string `yaml:"strengths,omitempty"`
	Executable string   `yaml:"executable,omitempty"`
	Custom     bool     `yaml:"-"`
}

// Registry holds built-in and custom agent descriptors, built-ins first.
type Registry struct {
	agents []Descriptor
}

// Builtins returns the built-in agent descriptors.
func Builtins() []Descriptor {
	return []Descriptor{
		{Name: "Aider", Emoji: "🕶", BaseCost: 0.05, Strengths: []string{"code-refactor", "git-aware edits"}, Executable: "aider"},
		{Name: "Codex CLI", Emoji: "🧠", BaseCost: 0.10, Strengths: []string{"app scaffolding", "bulk generation"}, Executable: "codex"},
		{Name: "Gemini CLI", Emoji: "🚀", BaseCost: 0.08, Strengths: []string{"creative output", "multimodal"}, Executable: "gemini"},
		{Name: "Claude Code", Emoji: "🔐", BaseCost: 0.15, Strengths: []string{"precision", "security review"}, Executable: "claude"},
	}
}

// NewRegistry creates a registry with the built-in agents.
func NewRegistry() *Registry {
	return &Registry{agents: Builtins()}
}

// LoadCustom reads custom agent descriptors from *.yaml files in dir.
// Files that fail to parse are skipped with a warning; one bad custom agent
// must not take down the CLI.
func (r *Registry) LoadCustom(dir string) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return
	}
	sort.Strings(paths)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[agent] skipping %s: %v", path, err)
			continue
		}
		var d Descriptor
		if err := yaml.Unmarshal(data, &d); err != nil {
			log.Printf("[agent] skipping %s: %v", path, err)
			continue
		}
		if d.Name == "" {
			log.Printf("[agent] skipping %s: no name", path)
			continue
		}
		if _, exists := r.Get(d.Name); exists {
			log.Printf("[agent] skipping %s: duplicate agent %q", path, d.Name)
			continue
		}
		d.Custom = true
		r.agents = append(r.agents, d)
	}
}

// Get returns the descriptor for an agent by name, case-insensitively.
func (r *Registry) Get(name string) (Descriptor, bool) {
	for _, d := range r.agents {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Descriptor{}, false
}

// List returns all descriptors, built-ins first, customs in filename order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.agents))
	copy(out, r.agents)
	return out
}

// Names returns all agent names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.agents))
	for _, d := range r.agents {
		names = append(names, d.Name)
	}
	return names
}

// Emoji returns the agent's emoji, or a generic one for unknown agents.
func (r *Registry) Emoji(name string) string {
	if d, ok := r.Get(name); ok && d.Emoji != "" {
		return d.Emoji
	}
	return "✨"
}

// Available reports whether the agent's executable is on PATH.
// Listing only; nothing is ever invoked.
func (d Descriptor) Available() bool {
	if d.Executable == "" {
		return false
	}
	_, err := exec.LookPath(d.Executable)
	return err == nil
}

var taskMultipliers = map[string]float64{
	"app-gen":  2.0,
	"deploy":   1.5,
	"monetize": 1.2,
	"vibe-gen": 0.8,
}

// EstimateCost returns a deterministic cost estimate in USD for running the
// given task with the given agent. Cosmetic: it never influences routing.
func (r *Registry) EstimateCost(agent, task string) float64 {
	base := 0.10
	if d, ok := r.Get(agent); ok && d.BaseCost > 0 {
		base = d.BaseCost
	}
	multiplier, ok := taskMultipliers[task]
	if !ok {
		multiplier = 1.0
	}
	return base * multiplier
}

// CreateTemplate writes a starter descriptor for a new custom agent into dir
// and returns the file path.
func CreateTemplate(dir, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("agent name is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, slug(name)+".yaml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("agent file %s already exists", path)
	}

	d := Descriptor{
		Name:      name,
		Emoji:     "✨",
		BaseCost:  0.10,
		Strengths: []string{"describe what this agent is good at"},
	}
	data, err := yaml.Marshal(&d)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func slug(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return strings.Trim(sb.String(), "_")
}
