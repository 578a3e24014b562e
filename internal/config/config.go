// Package config provides configuration loading and validation for the proxy and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/cv-maker/internal/llm"
)

// Default values applied by MergeWithDefaults(Defaults())
const (
	DefaultPort           = "8787"
	DefaultRequestTimeout = 30 * time.Second
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// Config represents the service configuration that can be loaded from a JSON file
// and overridden from the environment.
// All fields are optional; missing values use defaults.
type Config struct {
	// Server
	Port          string `json:"port,omitempty"`
	AllowedOrigin string `json:"allowed_origin,omitempty"` // the single origin allowed by CORS

	// Inference backend
	Provider        string   `json:"provider,omitempty"` // cloudflare, gemini, openai, anthropic
	Model           string   `json:"model,omitempty"`
	BaseURL         string   `json:"base_url,omitempty"`
	CFAccountID     string   `json:"cf_account_id,omitempty"`
	CFAPIToken      string   `json:"cf_api_token,omitempty"`
	GeminiAPIKey    string   `json:"gemini_api_key,omitempty"`
	OpenAIAPIKey    string   `json:"openai_api_key,omitempty"`
	AnthropicAPIKey string   `json:"anthropic_api_key,omitempty"`
	MaxTokens       int      `json:"max_tokens,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"` // pointer so 0 is distinguishable from unset

	// Behavior
	RequestTimeout string `json:"request_timeout,omitempty"` // Go duration, e.g. "30s"
	ChromePath     string `json:"chrome_path,omitempty"`     // headless Chrome binary for PDF output
	LogLevel       string `json:"log_level,omitempty"`
	LogFormat      string `json:"log_format,omitempty"` // text or json
}

// envKeys maps environment variables onto config setters
var envKeys = []struct {
	name string
	set  func(c *Config, v string) error
}{
	{"PORT", func(c *Config, v string) error { c.Port = v; return nil }},
	{"ALLOWED_ORIGIN", func(c *Config, v string) error { c.AllowedOrigin = v; return nil }},
	{"LLM_PROVIDER", func(c *Config, v string) error { c.Provider = v; return nil }},
	{"LLM_MODEL", func(c *Config, v string) error { c.Model = v; return nil }},
	{"LLM_BASE_URL", func(c *Config, v string) error { c.BaseURL = v; return nil }},
	{"CF_ACCOUNT_ID", func(c *Config, v string) error { c.CFAccountID = v; return nil }},
	{"CF_API_TOKEN", func(c *Config, v string) error { c.CFAPIToken = v; return nil }},
	{"GEMINI_API_KEY", func(c *Config, v string) error { c.GeminiAPIKey = v; return nil }},
	{"OPENAI_API_KEY", func(c *Config, v string) error { c.OpenAIAPIKey = v; return nil }},
	{"ANTHROPIC_API_KEY", func(c *Config, v string) error { c.AnthropicAPIKey = v; return nil }},
	{"LLM_MAX_TOKENS", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LLM_MAX_TOKENS: %v", err)
		}
		c.MaxTokens = n
		return nil
	}},
	{"LLM_TEMPERATURE", func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid LLM_TEMPERATURE: %v", err)
		}
		c.Temperature = &f
		return nil
	}},
	{"REQUEST_TIMEOUT", func(c *Config, v string) error { c.RequestTimeout = v; return nil }},
	{"CHROME_PATH", func(c *Config, v string) error { c.ChromePath = v; return nil }},
	{"LOG_LEVEL", func(c *Config, v string) error { c.LogLevel = v; return nil }},
	{"LOG_FORMAT", func(c *Config, v string) error { c.LogFormat = v; return nil }},
}

// Defaults returns the built-in configuration
func Defaults() Config {
	temperature := llm.DefaultTemperature
	return Config{
		Port:           DefaultPort,
		Provider:       string(llm.ProviderCloudflare),
		MaxTokens:      llm.DefaultMaxTokens,
		Temperature:    &temperature,
		RequestTimeout: DefaultRequestTimeout.String(),
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
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
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables using lookup.
// Unset and empty variables leave the field empty.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	var cfg Config
	for _, key := range envKeys {
		v, ok := lookup(key.name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := key.set(&cfg, strings.TrimSpace(v)); err != nil {
			return Config{}, fmt.Errorf("config error: %w", err)
		}
	}
	return cfg, nil
}

// Load resolves the effective configuration: environment over file over defaults.
// An empty path skips the file.
func Load(path string) (Config, error) {
	file := Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		file = *loaded
	}

	env, err := FromEnv(os.LookupEnv)
	if err != nil {
		return Config{}, err
	}

	merged := env.MergeWithDefaults(file)
	merged = merged.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}

// Validate checks that the configuration has valid values.
// Missing credentials are not an error here: the server still starts and
// reports the configuration failure per request.
func (c *Config) Validate() error {
	if c.Port != "" {
		port, err := strconv.Atoi(c.Port)
		if err != nil || port < 0 || port > 65535 {
			return fmt.Errorf("config error: 'port' must be a number between 0 and 65535, got %q", c.Port)
		}
	}

	if _, ok := llm.ParseProvider(c.Provider); !ok {
		return fmt.Errorf("config error: unknown provider %q (want cloudflare, gemini, openai or anthropic)", c.Provider)
	}

	if c.AllowedOrigin != "" {
		if err := validateOrigin(c.AllowedOrigin); err != nil {
			return err
		}
	}

	if c.BaseURL != "" {
		if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config error: 'base_url' must be an absolute URL, got %q", c.BaseURL)
		}
	}

	if c.MaxTokens < 0 {
		return fmt.Errorf("config error: 'max_tokens' must be non-negative")
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 2")
	}

	if c.RequestTimeout != "" {
		d, err := time.ParseDuration(c.RequestTimeout)
		if err != nil {
			return fmt.Errorf("config error: invalid 'request_timeout': %v", err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'request_timeout' must be positive")
		}
	}

	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("config error: 'log_format' must be text or json")
	}

	return nil
}

// validateOrigin accepts a bare scheme://host[:port] origin
func validateOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config error: 'allowed_origin' must be an http(s) origin, got %q", origin)
	}
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("config error: 'allowed_origin' must not carry a path or query, got %q", origin)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer environment over file over built-in values.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.Port, defaults.Port)
	fill(&result.AllowedOrigin, defaults.AllowedOrigin)
	fill(&result.Provider, defaults.Provider)
	fill(&result.Model, defaults.Model)
	fill(&result.BaseURL, defaults.BaseURL)
	fill(&result.CFAccountID, defaults.CFAccountID)
	fill(&result.CFAPIToken, defaults.CFAPIToken)
	fill(&result.GeminiAPIKey, defaults.GeminiAPIKey)
	fill(&result.OpenAIAPIKey, defaults.OpenAIAPIKey)
	fill(&result.AnthropicAPIKey, defaults.AnthropicAPIKey)
	fill(&result.RequestTimeout, defaults.RequestTimeout)
	fill(&result.ChromePath, defaults.ChromePath)
	fill(&result.LogLevel, defaults.LogLevel)
	fill(&result.LogFormat, defaults.LogFormat)

	// Int fields: use default if zero
	if result.MaxTokens == 0 {
		result.MaxTokens = defaults.MaxTokens
	}

	// Float fields: nil means unset
	if result.Temperature == nil && defaults.Temperature != nil {
		t := *defaults.Temperature
		result.Temperature = &t
	}

	return result
}

// Timeout returns the whole-request deadline
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return DefaultRequestTimeout
	}
	return d
}

// Addr returns the listen address for the configured port
func (c *Config) Addr() string {
	port := c.Port
	if port == "" {
		port = DefaultPort
	}
	return ":" + port
}

// LLMConfig returns the inference client configuration for the selected provider.
// Only the selected provider's secret is carried over.
func (c *Config) LLMConfig() *llm.Config {
	provider, _ := llm.ParseProvider(c.Provider)

	out := llm.DefaultConfig()
	out.Provider = provider
	out.Model = c.Model
	out.BaseURL = c.BaseURL
	out.Timeout = c.Timeout()
	if c.MaxTokens > 0 {
		out.MaxTokens = c.MaxTokens
	}
	if c.Temperature != nil {
		out.Temperature = *c.Temperature
	}

	switch provider {
	case llm.ProviderCloudflare:
		out.AccountID = c.CFAccountID
		out.APIKey = c.CFAPIToken
	case llm.ProviderGemini:
		out.APIKey = c.GeminiAPIKey
	case llm.ProviderOpenAI:
		out.APIKey = c.OpenAIAPIKey
	case llm.ProviderAnthropic:
		out.APIKey = c.AnthropicAPIKey
	}
	return out
}
