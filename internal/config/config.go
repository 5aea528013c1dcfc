// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kairoscv/resume-extractor/internal/llm"
	"github.com/kairoscv/resume-extractor/internal/logging"
)

// Snapshot store backends
const (
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config represents the configuration that can be loaded from a JSON or YAML
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags or the environment.
type Config struct {
	// Model provider
	Provider        string            `json:"provider,omitempty" yaml:"provider,omitempty"`                   // gemini or anthropic
	APIKey          string            `json:"api_key,omitempty" yaml:"api_key,omitempty"`                     // Gemini API key
	AnthropicAPIKey string            `json:"anthropic_api_key,omitempty" yaml:"anthropic_api_key,omitempty"` // Claude API key
	Models          map[string]string `json:"models,omitempty" yaml:"models,omitempty"`                       // tier -> model overrides

	// Persistence
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`
	SnapshotDir string `json:"snapshot_dir,omitempty" yaml:"snapshot_dir,omitempty"`
	Store       string `json:"store,omitempty" yaml:"store,omitempty"` // file, redis or postgres

	// Capability calls
	MaxAttempts       int `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
	BaseDelayMS       int `json:"base_delay_ms,omitempty" yaml:"base_delay_ms,omitempty"`
	RequestsPerMinute int `json:"requests_per_minute,omitempty" yaml:"requests_per_minute,omitempty"`

	// Behavior
	EnableVisual bool   `json:"enable_visual,omitempty" yaml:"enable_visual,omitempty"` // Run the vision pass when a document is supplied
	Verbose      bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`             // Print detailed debug information
	LogFormat    string `json:"log_format,omitempty" yaml:"log_format,omitempty"`       // text or json
	Addr         string `json:"addr,omitempty" yaml:"addr,omitempty"`                   // HTTP listen address
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Provider:          string(llm.ProviderGemini),
		SnapshotDir:       filepath.Join("data", "snapshots"),
		Store:             StoreFile,
		MaxAttempts:       3,
		BaseDelayMS:       1000,
		RequestsPerMinute: 60,
		LogFormat:         logging.FormatText,
		Addr:              ":8080",
	}
}

// LoadConfig loads configuration from a JSON file, or YAML when the file
// ends in .yaml or .yml. Returns an error if the file cannot be read or
// parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// FromEnv overlays API keys and connection URLs from the environment onto
// fields the file left empty.
func (c *Config) FromEnv() {
	overlay := func(field *string, name string) {
		if *field == "" {
			*field = os.Getenv(name)
		}
	}
	overlay(&c.APIKey, "GEMINI_API_KEY")
	overlay(&c.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	overlay(&c.DatabaseURL, "DATABASE_URL")
	overlay(&c.RedisURL, "REDIS_URL")
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for API keys since a missing key only disables
// the capability-backed layers.
func (c *Config) Validate() error {
	if _, err := llm.ParseProvider(c.Provider); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	for tier := range c.Models {
		if _, err := llm.ParseTier(tier); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	switch c.Store {
	case "", StoreFile:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config error: 'redis_url' is required for the redis store")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres store")
		}
	default:
		return fmt.Errorf("config error: unknown store %q", c.Store)
	}

	// Validate numeric ranges
	if c.MaxAttempts < 0 {
		return fmt.Errorf("config error: 'max_attempts' must be non-negative")
	}
	if c.BaseDelayMS < 0 {
		return fmt.Errorf("config error: 'base_delay_ms' must be non-negative")
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("config error: 'requests_per_minute' must be non-negative")
	}

	switch strings.ToLower(c.LogFormat) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("config error: unknown log format %q", c.LogFormat)
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fill := func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	}
	fill(&result.Provider, defaults.Provider)
	fill(&result.APIKey, defaults.APIKey)
	fill(&result.AnthropicAPIKey, defaults.AnthropicAPIKey)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.RedisURL, defaults.RedisURL)
	fill(&result.SnapshotDir, defaults.SnapshotDir)
	fill(&result.Store, defaults.Store)
	fill(&result.LogFormat, defaults.LogFormat)
	fill(&result.Addr, defaults.Addr)

	// Int fields: use default if zero
	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}
	if result.BaseDelayMS == 0 {
		result.BaseDelayMS = defaults.BaseDelayMS
	}
	if result.RequestsPerMinute == 0 {
		result.RequestsPerMinute = defaults.RequestsPerMinute
	}

	// Model overrides from the file win per tier
	if len(defaults.Models) > 0 {
		merged := make(map[string]string, len(defaults.Models)+len(result.Models))
		for k, v := range defaults.Models {
			merged[k] = v
		}
		for k, v := range result.Models {
			merged[k] = v
		}
		result.Models = merged
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LLMConfig returns the model configuration for the selected provider with
// any per-tier overrides applied.
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.ConfigFor(c.provider())
	for name, model := range c.Models {
		tier, err := llm.ParseTier(name)
		if err == nil && model != "" {
			cfg = cfg.WithModel(tier, model)
		}
	}
	return cfg
}

// provider returns the selected provider, Gemini when unset or unknown.
func (c *Config) provider() llm.Provider {
	p, err := llm.ParseProvider(c.Provider)
	if err != nil {
		return llm.ProviderGemini
	}
	return p
}

// ProviderAPIKey returns the key for the selected provider.
func (c *Config) ProviderAPIKey() string {
	if c.provider() == llm.ProviderAnthropic {
		return c.AnthropicAPIKey
	}
	return c.APIKey
}

// RetryPolicy returns the capability retry policy with the configured
// attempt budget and base delay.
func (c *Config) RetryPolicy() llm.RetryPolicy {
	p := llm.DefaultRetryPolicy()
	if c.MaxAttempts > 0 {
		p.MaxAttempts = c.MaxAttempts
	}
	if c.BaseDelayMS > 0 {
		p.BaseDelay = time.Duration(c.BaseDelayMS) * time.Millisecond
	}
	return p
}
