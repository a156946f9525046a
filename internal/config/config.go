// Package config loads fwlens settings from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// APIKeyEnvVars are consulted in order when no key is set in the config file.
var APIKeyEnvVars = []string{"FWLENS_API_KEY", "API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"}

// ValidProviders lists the supported inference providers.
var ValidProviders = []string{"gemini"}

// Config is the root configuration.
type Config struct {
	Inference InferenceConfig `yaml:"inference"`
	Editor    EditorConfig    `yaml:"editor"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// InferenceConfig configures schema inference.
type InferenceConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"` // extra variable checked before the defaults
	BaseURL   string `yaml:"base_url,omitempty"`
}

// EditorConfig holds the defaults for fields added in the editor.
type EditorConfig struct {
	DefaultFieldName   string `yaml:"default_field_name"`
	DefaultFieldLength int    `yaml:"default_field_length"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // log file for the terminal UI
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Inference: InferenceConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
		},
		Editor: EditorConfig{
			DefaultFieldName:   "New Field",
			DefaultFieldLength: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/fwlens/config.yaml, or the platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".fwlens", "config.yaml")
	}
	return filepath.Join(dir, "fwlens", "config.yaml")
}

// Load reads the configuration at path. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides fills the API key from the environment. A key written in the
// config file is never replaced.
func (c *Config) applyEnvOverrides() {
	if c.Inference.APIKey != "" {
		return
	}
	vars := APIKeyEnvVars
	if c.Inference.APIKeyEnv != "" {
		vars = append([]string{c.Inference.APIKeyEnv}, vars...)
	}
	for _, name := range vars {
		if key := os.Getenv(name); key != "" {
			c.Inference.APIKey = key
			return
		}
	}
}

// Validate checks the configuration. A missing API key is not an error: the
// editor works without inference.
func (c *Config) Validate() error {
	valid := false
	for _, p := range ValidProviders {
		if c.Inference.Provider == p {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid inference provider: %q (valid: %v)", c.Inference.Provider, ValidProviders)
	}
	if c.Editor.DefaultFieldLength < 1 {
		return fmt.Errorf("editor.default_field_length must be at least 1, got %d", c.Editor.DefaultFieldLength)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging level: %w", err)
	}
	return nil
}
