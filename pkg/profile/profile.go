package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile pins per-user defaults that apply when route flags are absent.
type Profile struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Preferences ProfilePrefs `yaml:"preferences,omitempty"`
}

// ProfilePrefs are the defaults a profile can pin.
type ProfilePrefs struct {
	DefaultTask     string `yaml:"default_task,omitempty"`
	DefaultPlatform string `yaml:"default_platform,omitempty"`
	DefaultAgent    string `yaml:"default_agent,omitempty"`
}

// Manager reads and writes YAML profiles in a directory.
type Manager struct {
	dir string
}

// NewManager creates a manager over dir, creating the directory and a
// default profile if missing.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	m := &Manager{dir: dir}

	defaultPath := m.path("default")
	if _, err := os.Stat(defaultPath); os.IsNotExist(err) {
		p := Profile{
			Name:        "Default",
			Description: "Default profile",
			Preferences: ProfilePrefs{
				DefaultTask:     "app-gen",
				DefaultPlatform: "all",
			},
		}
		if err := m.write(defaultPath, &p); err != nil {
			return nil, fmt.Errorf("failed to create default profile: %w", err)
		}
	}

	return m, nil
}

// Get returns the named profile, falling back to the default profile, then
// an empty one. A missing profile is not an error: routing must still work.
func (m *Manager) Get(name string) (*Profile, error) {
	if name == "" {
		name = "default"
	}

	p, err := m.read(m.path(name))
	if err == nil {
		return p, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}

	p, err = m.read(m.path("default"))
	if err == nil {
		return p, nil
	}
	return &Profile{Name: "Default"}, nil
}

// List returns all profiles sorted by file name.
func (m *Manager) List() ([]Profile, error) {
	paths, err := filepath.Glob(filepath.Join(m.dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var profiles []Profile
	for _, path := range paths {
		p, err := m.read(path)
		if err != nil {
			profiles = append(profiles, Profile{
				Name:        strings.TrimSuffix(filepath.Base(path), ".yaml"),
				Description: "error loading profile",
			})
			continue
		}
		profiles = append(profiles, *p)
	}
	return profiles, nil
}

// Create writes a new profile and returns its file path. Refuses to
// overwrite an existing profile.
func (m *Manager) Create(name string, prefs ProfilePrefs) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("profile name is required")
	}

	path := m.path(name)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("profile %q already exists", name)
	}

	p := Profile{
		Name:        name,
		Description: fmt.Sprintf("Custom profile: %s", name),
		Preferences: prefs,
	}
	if err := m.write(path, &p); err != nil {
		return "", err
	}
	return path, nil
}

func (m *Manager) path(name string) string {
	return filepath.Join(m.dir, strings.ToLower(name)+".yaml")
}

func (m *Manager) read(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *Manager) write(path string, p *Profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
