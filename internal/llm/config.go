// Package llm provides the provider-neutral inference client used to turn a
// prompt into raw model text, plus the concrete provider implementations.
package llm

import (
	"strings"
	"time"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderCloudflare is Cloudflare Workers AI (the default backend)
	ProviderCloudflare Provider = "cloudflare"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is OpenAI or any OpenAI-compatible endpoint
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic is the Anthropic/Claude provider
	ProviderAnthropic Provider = "anthropic"
)

// Defaults favour determinism over creativity since strict-schema output is required.
const (
	DefaultMaxTokens   = 1400
	DefaultTemperature = 0.3
	DefaultTimeout     = 60 * time.Second
)

var defaultModels = map[Provider]string{
	ProviderCloudflare: "@cf/meta/llama-3-8b-instruct",
	ProviderGemini:     "gemini-2.5-flash",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderAnthropic:  "claude-3-5-haiku-latest",
}

// Config holds the backend selection and credentials for the inference client
type Config struct {
	Provider    Provider
	Model       string
	BaseURL     string // optional endpoint override
	AccountID   string // Cloudflare account id
	APIKey      string // API token for the selected provider
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultConfig returns the default configuration (Cloudflare Workers AI)
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderCloudflare,
		Model:       defaultModels[ProviderCloudflare],
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		Timeout:     DefaultTimeout,
	}
}

// ParseProvider maps a config value onto a Provider; empty means Cloudflare.
func ParseProvider(s string) (Provider, bool) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ProviderCloudflare, true
	case ProviderCloudflare, ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		return p, true
	default:
		return p, false
	}
}

// DefaultModel returns the model used for a provider when none is configured
func DefaultModel(p Provider) string {
	return defaultModels[p]
}

// GetModel returns the configured model, falling back to the provider default
func (c *Config) GetModel() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel(c.Provider)
}

// WithModel returns a copy of the config using a specific model
func (c *Config) WithModel(model string) *Config {
	cp := *c
	cp.Model = model
	return &cp
}

// HasCredentials reports whether the provider's required secrets are set
func (c *Config) HasCredentials() bool {
	return c.Validate() == nil
}

// Validate checks that the selected provider has its required credentials.
// The provider is normalized in place, so an empty value becomes Cloudflare.
// It never returns the credential values themselves.
func (c *Config) Validate() error {
	provider, ok := ParseProvider(string(c.Provider))
	if !ok {
		return &ConfigError{Message: "unknown provider " + string(c.Provider)}
	}
	c.Provider = provider
	if c.Provider == ProviderCloudflare && c.AccountID == "" {
		return &ConfigError{Message: "missing Cloudflare account id (CF_ACCOUNT_ID)"}
	}
	if c.APIKey == "" {
		return &ConfigError{Message: "missing API token for provider " + string(c.Provider)}
	}
	return nil
}

// Options returns the default call options for this config
func (c *Config) Options(system string) Options {
	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return Options{
		MaxTokens:   maxTokens,
		Temperature: c.Temperature,
		System:      system,
		JSON:        true,
	}
}

func (c *Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}
