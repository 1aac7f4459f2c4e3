package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GoogleAPIKey    string
	Preferences     *Preferences
	ConfigDir       string
}

// FileConfig represents the structure of ~/.str8zero/config.yaml
type FileConfig struct {
	APIKeys APIKeysConfig `yaml:"api_keys"`
}

// APIKeysConfig holds API key configuration from file.
type APIKeysConfig struct {
	Anthropic string `yaml:"anthropic,omitempty"`
	OpenAI    string `yaml:"openai,omitempty"`
	Google    string `yaml:"google,omitempty"`
}

// Load reads configuration from config files and environment variables.
// Environment variables take precedence over file configuration.
func Load() (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	fileConfig := loadFileConfig(filepath.Join(configDir, "config.yaml"))

	cfg := &Config{
		AnthropicAPIKey: getEnvOrDefault("ANTHROPIC_API_KEY", fileConfig.APIKeys.Anthropic),
		OpenAIAPIKey:    getEnvOrDefault("OPENAI_API_KEY", fileConfig.APIKeys.OpenAI),
		GoogleAPIKey:    getEnvOrDefault("GOOGLE_API_KEY", fileConfig.APIKeys.Google),
		ConfigDir:       configDir,
	}

	prefsPath := filepath.Join(configDir, "preferences.yaml")
	if _, err := os.Stat(prefsPath); err == nil {
		prefs, err := LoadPreferences(prefsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load preferences: %w", err)
		}
		cfg.Preferences = prefs
	} else {
		cfg.Preferences = DefaultPreferences()
	}

	return cfg, nil
}

// LoadWithPreferencesFile loads config with a specific preferences file.
func LoadWithPreferencesFile(prefsPath string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	prefs, err := LoadPreferences(prefsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences from %s: %w", prefsPath, err)
	}
	cfg.Preferences = prefs

	return cfg, nil
}

// HasAdapter returns true if the API key for the given adapter is configured.
func (c *Config) HasAdapter(name string) bool {
	switch name {
	case "anthropic":
		return c.AnthropicAPIKey != ""
	case "openai":
		return c.OpenAIAPIKey != ""
	case "google":
		return c.GoogleAPIKey != ""
	default:
		return false
	}
}

// KeyServices returns the services that accept an API key.
func KeyServices() []string {
	return []string{"anthropic", "google", "openai"}
}

// SetAPIKey writes an API key for a service into the config file.
// Environment variables still take precedence at load time.
func (c *Config) SetAPIKey(service, key string) error {
	path := filepath.Join(c.ConfigDir, "config.yaml")
	fileConfig := loadFileConfig(path)

	switch service {
	case "anthropic":
		fileConfig.APIKeys.Anthropic = key
	case "openai":
		fileConfig.APIKeys.OpenAI = key
	case "google":
		fileConfig.APIKeys.Google = key
	default:
		return fmt.Errorf("unknown service %q (known: %v)", service, KeyServices())
	}

	data, err := yaml.Marshal(fileConfig)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// ConfiguredServices returns service names with a key set, sorted.
func (c *Config) ConfiguredServices() []string {
	var services []string
	for _, s := range KeyServices() {
		if c.HasAdapter(s) {
			services = append(services, s)
		}
	}
	sort.Strings(services)
	return services
}

// loadFileConfig reads the config file, returning empty config if not found.
func loadFileConfig(path string) *FileConfig {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, cfg)
	return cfg
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".str8zero")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}
