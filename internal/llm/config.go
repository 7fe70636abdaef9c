package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures the LLM provider.
type Config struct {
	Provider string `yaml:"provider"`

	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration `yaml:"timeout"`
}

// AnthropicConfig configures the Anthropic provider.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// OpenAIConfig configures the OpenAI provider. BaseURL points it at any
// OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// OpenRouterConfig configures the OpenRouter provider.
type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// RetryConfig controls backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns the defaults. No provider is selected until an API
// key is supplied.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 45 * time.Second,
	}
}

// envBindings maps PISAPH_* variables onto config fields.
func (c *Config) envBindings() map[string]*string {
	return map[string]*string{
		"PISAPH_LLM_PROVIDER":        &c.Provider,
		"PISAPH_ANTHROPIC_API_KEY":   &c.Anthropic.APIKey,
		"PISAPH_ANTHROPIC_MODEL":     &c.Anthropic.Model,
		"PISAPH_OPENAI_API_KEY":      &c.OpenAI.APIKey,
		"PISAPH_OPENAI_MODEL":        &c.OpenAI.Model,
		"PISAPH_OPENAI_BASE_URL":     &c.OpenAI.BaseURL,
		"PISAPH_GEMINI_API_KEY":      &c.Gemini.APIKey,
		"PISAPH_GEMINI_MODEL":        &c.Gemini.Model,
		"PISAPH_OPENROUTER_API_KEY":  &c.OpenRouter.APIKey,
		"PISAPH_OPENROUTER_MODEL":    &c.OpenRouter.Model,
		"PISAPH_OPENROUTER_BASE_URL": &c.OpenRouter.BaseURL,
	}
}

// ApplyEnv overrides fields from PISAPH_* environment variables.
func (c *Config) ApplyEnv() {
	for name, dst := range c.envBindings() {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("PISAPH_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
}

// ConfigFromEnv returns DefaultConfig with environment overrides applied.
// When PISAPH_LLM_PROVIDER is unset the provider is discovered from the
// standard vendor API key variables.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	if cfg.Provider == "" {
		cfg.Discover()
	}
	return cfg
}

// Discover selects the first provider whose standard vendor API key
// variable is set, in the order Anthropic, OpenAI, Gemini, OpenRouter.
// It reports whether a provider was found.
func (c *Config) Discover() bool {
	candidates := []struct {
		provider string
		env      string
		dst      *string
	}{
		{ProviderAnthropic, "ANTHROPIC_API_KEY", &c.Anthropic.APIKey},
		{ProviderOpenAI, "OPENAI_API_KEY", &c.OpenAI.APIKey},
		{ProviderGemini, "GEMINI_API_KEY", &c.Gemini.APIKey},
		{ProviderOpenRouter, "OPENROUTER_API_KEY", &c.OpenRouter.APIKey},
	}
	for _, cand := range candidates {
		if k := os.Getenv(cand.env); k != "" {
			c.Provider = cand.provider
			if *cand.dst == "" {
				*cand.dst = k
			}
			return true
		}
	}
	return false
}

// Validate checks that the selected provider has what it needs.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case "":
		return ErrNotConfigured
	case ProviderMock:
		return nil
	case ProviderAnthropic:
		key = c.Anthropic.APIKey
	case ProviderOpenAI:
		key = c.OpenAI.APIKey
	case ProviderGemini:
		key = c.Gemini.APIKey
	case ProviderOpenRouter:
		key = c.OpenRouter.APIKey
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s: API key is required", c.Provider)
	}
	return nil
}
