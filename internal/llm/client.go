package llm

import (
	"context"
	"fmt"
)

// Options controls a single model call
type Options struct {
	MaxTokens   int
	Temperature float64
	System      string // system message; empty sends none
	JSON        bool   // request JSON output where the provider supports it
}

// Result is the outcome of one model call
type Result struct {
	OK      bool
	Status  int
	RawText string
}

// Client is an abstraction over LLM providers.
// Run performs exactly one network call and never retries.
type Client interface {
	Run(ctx context.Context, prompt string, opts Options) (Result, error)
	// Provider returns the backend this client talks to
	Provider() Provider
	// Model returns the model name sent with each call
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration.
// Missing credentials are reported as *ConfigError.
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		client Client
		err    error
	)
	switch config.Provider {
	case ProviderCloudflare:
		client, err = NewCloudflareClient(config)
	case ProviderGemini:
		client, err = NewGeminiClient(ctx, config)
	case ProviderOpenAI:
		client, err = NewOpenAIClient(config)
	case ProviderAnthropic:
		client, err = NewAnthropicClient(config)
	default:
		return nil, &ConfigError{Message: fmt.Sprintf("unsupported provider %q", config.Provider)}
	}
	// constructors return typed pointers; keep a failed client a nil interface
	if err != nil {
		return nil, err
	}
	return client, nil
}
