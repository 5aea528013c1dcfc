// Package llm is the single capability handle behind structuring,
// classification, verification and vision calls. It hides the provider
// (Gemini or Anthropic) and maps model tiers to concrete models.
package llm

import (
	"fmt"
	"maps"
	"strings"
)

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: field classification, placement checks
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: structuring, completeness checks
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: vision transcription, second passes
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
)

const (
	// defaultTemperature keeps extraction output close to deterministic.
	defaultTemperature float32 = 0.1
	// defaultMaxOutputTokens fits a full structured record.
	defaultMaxOutputTokens int32 = 8192
)

// Config selects the provider and the model for each tier.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// Temperature and MaxOutputTokens apply to every call. Zero values use
	// the package defaults.
	Temperature     float32
	MaxOutputTokens int32
}

// DefaultConfig returns the Gemini configuration.
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// DefaultAnthropicConfig returns the default Claude configuration
func DefaultAnthropicConfig() *Config {
	return &Config{
		Provider: ProviderAnthropic,
		Models: map[ModelTier]string{
			TierLite:     "claude-3-5-haiku-latest",
			TierStandard: "claude-3-7-sonnet-latest",
			TierAdvanced: "claude-sonnet-4-20250514",
		},
	}
}

// ConfigFor returns the default configuration for a provider. Unknown
// providers get the Gemini defaults.
func ConfigFor(provider Provider) *Config {
	if provider == ProviderAnthropic {
		return DefaultAnthropicConfig()
	}
	return DefaultGeminiConfig()
}

// ParseProvider accepts a provider name in any case. An empty name is
// Gemini.
func ParseProvider(name string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return ProviderGemini, nil
	case ProviderGemini, ProviderAnthropic:
		return p, nil
	default:
		return "", fmt.Errorf("unknown provider %q", name)
	}
}

// ParseTier accepts a tier name in any case.
func ParseTier(name string) (ModelTier, error) {
	switch t := ModelTier(strings.ToLower(strings.TrimSpace(name))); t {
	case TierLite, TierStandard, TierAdvanced:
		return t, nil
	default:
		return "", fmt.Errorf("unknown model tier %q", name)
	}
}

// GetModel returns the model for tier, falling back to the standard and
// then the lite model. It returns "" when none is configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model := c.Models[t]; model != "" {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of c that uses model for tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	cp := *c
	cp.Models = maps.Clone(c.Models)
	if cp.Models == nil {
		cp.Models = make(map[ModelTier]string)
	}
	cp.Models[tier] = model
	return &cp
}

func (c *Config) temperature() float32 {
	if c.Temperature > 0 {
		return c.Temperature
	}
	return defaultTemperature
}

func (c *Config) maxOutputTokens() int32 {
	if c.MaxOutputTokens > 0 {
		return c.MaxOutputTokens
	}
	return defaultMaxOutputTokens
}
