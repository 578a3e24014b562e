package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements Client for the Anthropic Messages API
type AnthropicClient struct {
	client anthropic.Client
	config *Config
}

// NewAnthropicClient creates a Claude client
func NewAnthropicClient(config *Config) (*AnthropicClient, error) {
	if config.APIKey == "" {
		return nil, &ConfigError{Message: "Anthropic API key is required"}
	}

	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(config.APIKey),
		anthropicoption.WithRequestTimeout(config.timeout()),
		anthropicoption.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, anthropicoption.WithBaseURL(config.BaseURL))
	}

	return &AnthropicClient{client: anthropic.NewClient(opts...), config: config}, nil
}

// Run sends one Messages request and joins the returned text blocks
func (c *AnthropicClient) Run(ctx context.Context, prompt string, opts Options) (Result, error) {
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.config.MaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.Model()),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(opts.Temperature),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	}
	if opts.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: opts.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		apiErr := &APICallError{Provider: ProviderAnthropic, Message: "messages request failed", Cause: err}
		var aerr *anthropic.Error
		if errors.As(err, &aerr) {
			apiErr.Status = aerr.StatusCode
			apiErr.Body = truncateBody(aerr.RawJSON())
		}
		return Result{Status: apiErr.Status}, apiErr
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return Result{OK: true, Status: http.StatusOK, RawText: sb.String()}, nil
}

// Provider returns ProviderAnthropic
func (c *AnthropicClient) Provider() Provider {
	return ProviderAnthropic
}

// Model returns the Claude model name
func (c *AnthropicClient) Model() string {
	return c.config.GetModel()
}

// Close is a no-op for the HTTP-based client
func (c *AnthropicClient) Close() error {
	return nil
}
