// Package config loads chatlab settings from a TOML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"chatlab/internal/logger"
)

// Config holds the session defaults applied when a Chat is built from a
// file instead of explicit options.
type Config struct {
	Model             string  `toml:"model"`
	Temperature       float32 `toml:"temperature"`
	MaxResponseTokens int     `toml:"max_response_tokens"`
	RequestTimeoutSec int     `toml:"request_timeout_secs"`
	RetryDelaySec     int     `toml:"retry_delay_secs"`
	AutoContinue      bool    `toml:"auto_continue"`
	MaxAutoContinues  int     `toml:"max_auto_continues"`
	APIBaseURL        string  `toml:"api_base_url"`
	SystemPrompt      string  `toml:"system_prompt"`
}

// Known friendly names mapped to the model IDs the API expects.
var modelAliases = map[string]string{
	"gpt-4o":  "gpt-4o",
	"gpt-4.5": "gpt-4.5-preview",
	"4o-mini": "gpt-4o-mini",
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Model:             "gpt-4o-mini",
		Temperature:       0.7,
		MaxResponseTokens: 0,
		RequestTimeoutSec: 120,
		RetryDelaySec:     5,
		AutoContinue:      true,
		MaxAutoContinues:  10,
	}
}

// Validate checks that the decoded settings are usable.
func Validate(cfg *Config) error {
	var problems []string

	if cfg.Model == "" {
		problems = append(problems, "model must not be empty")
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		problems = append(problems, "temperature must be between 0 and 2")
	}
	if cfg.RequestTimeoutSec <= 0 {
		problems = append(problems, "request_timeout_secs must be positive")
	}
	if cfg.RetryDelaySec < 0 {
		problems = append(problems, "retry_delay_secs must not be negative")
	}
	if cfg.MaxAutoContinues < 0 {
		problems = append(problems, "max_auto_continues must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Load decodes and validates a TOML config file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the config file location: CHATLAB_CONFIG if set, otherwise
// ./chatlab.toml.
func Path() string {
	if p := os.Getenv("CHATLAB_CONFIG"); p != "" {
		return p
	}
	return "chatlab.toml"
}

// LoadOrDefault loads the config at Path, falling back to defaults when
// the file does not exist.
func LoadOrDefault() (*Config, error) {
	path := Path()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// LoadEnv reads a .env file if present. A missing file is not an error;
// keys already set in the environment win.
func LoadEnv() {
	if err := godotenv.Load(); err == nil {
		logger.Debugf("Loaded environment from .env")
	}
}

// APIKey resolves the OpenAI API key from the environment.
func APIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// ResolveModel maps a friendly model name to the ID the API expects.
// Unknown names pass through unchanged.
func ResolveModel(name string) string {
	if mapped, ok := modelAliases[name]; ok {
		return mapped
	}
	return name
}
