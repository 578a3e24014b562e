package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, &ConfigError{Message: "Gemini API key is required"}
	}

	opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Run generates content with the configured model
func (c *GeminiClient) Run(ctx context.Context, prompt string, opts Options) (Result, error) {
	model := c.client.GenerativeModel(c.Model())
	model.SetTemperature(float32(opts.Temperature))
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.config.MaxTokens
	}
	model.SetMaxOutputTokens(int32(maxTokens))
	if opts.JSON {
		model.ResponseMIMEType = "application/json"
	}
	if opts.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(opts.System)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		apiErr := &APICallError{Provider: ProviderGemini, Message: "failed to generate content", Cause: err}
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			apiErr.Status = gerr.Code
			apiErr.Body = truncateBody(gerr.Message)
		}
		return Result{Status: apiErr.Status}, apiErr
	}

	return Result{OK: true, Status: 200, RawText: extractTextFromResponse(resp)}, nil
}

// extractTextFromResponse joins the text parts of the first candidate.
// A response without text yields "" and is left to the coercion stage.
func extractTextFromResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	return strings.Join(parts, "")
}

// Provider returns ProviderGemini
func (c *GeminiClient) Provider() Provider {
	return ProviderGemini
}

// Model returns the Gemini model name
func (c *GeminiClient) Model() string {
	return c.config.GetModel()
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
