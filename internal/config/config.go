// Package config loads Fassimo configuration from .fassimo/config.yaml with
// environment overrides for provider credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all Fassimo configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// LLM configuration for the responder pipeline
	LLM LLMConfig `yaml:"llm"`

	// Storage for tasks and session history
	Storage StorageConfig `yaml:"storage"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the model-completion boundary.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini, anthropic, openai
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// TimeoutDuration parses the timeout string, falling back to 120s.
func (l LLMConfig) TimeoutDuration() time.Duration {
	if l.Timeout == "" {
		return 120 * time.Second
	}
	d, err := time.ParseDuration(l.Timeout)
	if err != nil || d <= 0 {
		return 120 * time.Second
	}
	return d
}

// StorageConfig configures durable persistence.
type StorageConfig struct {
	// Persist enables the SQLite store for tasks and session history.
	// When false, everything lives in process memory.
	Persist      bool   `yaml:"persist"`
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	Categories map[string]bool `yaml:"categories"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Name:    "fassimo",
		Version: "3.0.0",
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
			Timeout:  "120s",
		},
		Storage: StorageConfig{
			Persist:      false,
			DatabasePath: filepath.Join(".fassimo", "fassimo.db"),
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Path returns the config file location for a workspace.
func Path(workspace string) string {
	return filepath.Join(workspace, ".fassimo", "config.yaml")
}

// Load reads the workspace config, creating it with defaults on first run.
// Environment overrides are applied after the file is read.
func Load(workspace string) (*Config, error) {
	cfg := Default()

	path := Path(workspace)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if saveErr := cfg.Save(workspace); saveErr != nil {
			return nil, fmt.Errorf("failed to write default config: %w", saveErr)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config back to the workspace.
func (c *Config) Save(workspace string) error {
	path := Path(workspace)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// applyEnvOverrides lets environment variables override provider credentials.
// Precedence when several keys are set: openai > anthropic > gemini.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		if c.LLM.Provider == "" {
			c.LLM.Provider = "gemini"
		}
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "anthropic"
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "openai"
	}

	if provider := os.Getenv("FASSIMO_LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}
	if model := os.Getenv("FASSIMO_LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if dbPath := os.Getenv("FASSIMO_DB_PATH"); dbPath != "" {
		c.Storage.Persist = true
		c.Storage.DatabasePath = dbPath
	}
}
