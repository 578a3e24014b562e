package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client for OpenAI and OpenAI-compatible endpoints
type OpenAIClient struct {
	client *openai.Client
	config *Config
}

// NewOpenAIClient creates a chat-completions client; BaseURL selects a compatible endpoint
func NewOpenAIClient(config *Config) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, &ConfigError{Message: "OpenAI API key is required"}
	}

	cfg := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		cfg.BaseURL = config.BaseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: config.timeout()}

	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), config: config}, nil
}

// Run sends one chat completion request
func (c *OpenAIClient) Run(ctx context.Context, prompt string, opts Options) (Result, error) {
	var messages []openai.ChatCompletionMessage
	if opts.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: opts.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.config.MaxTokens
	}

	req := openai.ChatCompletionRequest{
		Model:       c.Model(),
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: float32(opts.Temperature),
	}
	if opts.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		apiErr := &APICallError{Provider: ProviderOpenAI, Message: "chat completion failed", Cause: err}
		var oerr *openai.APIError
		var rerr *openai.RequestError
		switch {
		case errors.As(err, &oerr):
			apiErr.Status = oerr.HTTPStatusCode
			apiErr.Body = truncateBody(oerr.Message)
		case errors.As(err, &rerr):
			apiErr.Status = rerr.HTTPStatusCode
			apiErr.Body = truncateBody(string(rerr.Body))
		}
		return Result{Status: apiErr.Status}, apiErr
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}
	return Result{OK: true, Status: http.StatusOK, RawText: text}, nil
}

// Provider returns ProviderOpenAI
func (c *OpenAIClient) Provider() Provider {
	return ProviderOpenAI
}

// Model returns the chat model name
func (c *OpenAIClient) Model() string {
	return c.config.GetModel()
}

// Close is a no-op for the HTTP-based client
func (c *OpenAIClient) Close() error {
	return nil
}
