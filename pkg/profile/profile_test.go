package profile

import (
	"strings"
	"testing"
)

func TestNewManagerCreatesDefault(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}

	p, err := m.Get("default")
	if err != nil {
		t.Fatalf("Get(default) error: %v", err)
	}
	if p.Name != "Default" {
		t.Errorf("name = %q, want Default", p.Name)
	}
	if p.Preferences.DefaultTask != "app-gen" || p.Preferences.DefaultPlatform != "all" {
		t.Errorf("preferences = %+v", p.Preferences)
	}
	if p.Preferences.DefaultAgent != "" {
		t.Errorf("default profile pins an agent: %q", p.Preferences.DefaultAgent)
	}
}

func TestGetFallsBackToDefault(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}

	p, err := m.Get("missing")
	if err != nil {
		t.Fatalf("Get(missing) error: %v", err)
	}
	if p.Name != "Default" {
		t.Errorf("name = %q, want Default", p.Name)
	}
}

func TestCreateAndGet(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}

	path, err := m.Create("Night", ProfilePrefs{DefaultTask: "vibe-gen", DefaultAgent: "Gemini CLI"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if !strings.HasSuffix(path, "night.yaml") {
		t.Errorf("path = %q, want lowercase file name", path)
	}

	p, err := m.Get("night")
	if err != nil {
		t.Fatalf("Get(night) error: %v", err)
	}
	if p.Preferences.DefaultTask != "vibe-gen" || p.Preferences.DefaultAgent != "Gemini CLI" {
		t.Errorf("preferences = %+v", p.Preferences)
	}

	if _, err := m.Create("night", ProfilePrefs{}); err == nil {
		t.Error("duplicate Create() succeeded")
	}
	if _, err := m.Create("  ", ProfilePrefs{}); err == nil {
		t.Error("blank name accepted")
	}
}

func TestList(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	if _, err := m.Create("alpha", ProfilePrefs{DefaultTask: "deploy"}); err != nil {
		t.Fatal(err)
	}

	profiles, err := m.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("len(profiles) = %d, want 2", len(profiles))
	}
	// File-name order: alpha.yaml before default.yaml.
	if profiles[0].Name != "alpha" || profiles[1].Name != "Default" {
		t.Errorf("profiles = %+v", profiles)
	}
}
