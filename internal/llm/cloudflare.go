package llm

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// DefaultCloudflareBaseURL is the Workers AI REST endpoint root
const DefaultCloudflareBaseURL = "https://api.cloudflare.com/client/v4"

// CloudflareClient implements Client for Cloudflare Workers AI
type CloudflareClient struct {
	http   *resty.Client
	config *Config
}

type cfMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type cfRequest struct {
	Messages    []cfMessage `json:"messages"`
	MaxTokens   int         `json:"max_tokens"`
	Temperature float64     `json:"temperature"`
}

// NewCloudflareClient creates a Workers AI client using the account id and API token
func NewCloudflareClient(config *Config) (*CloudflareClient, error) {
	if config.AccountID == "" || config.APIKey == "" {
		return nil, &ConfigError{Message: "Cloudflare account id and API token are required"}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultCloudflareBaseURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(config.timeout()).
		SetAuthToken(config.APIKey).
		SetHeader("Content-Type", "application/json")

	return &CloudflareClient{http: client, config: config}, nil
}

// Run sends one chat request to the configured model
func (c *CloudflareClient) Run(ctx context.Context, prompt string, opts Options) (Result, error) {
	var messages []cfMessage
	if opts.System != "" {
		messages = append(messages, cfMessage{Role: "system", Content: opts.System})
	}
	messages = append(messages, cfMessage{Role: "user", Content: prompt})

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.config.MaxTokens
	}

	// The model id contains slashes that must reach the endpoint unescaped.
	path := fmt.Sprintf("/accounts/%s/ai/run/%s", url.PathEscape(c.config.AccountID), c.Model())

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(cfRequest{Messages: messages, MaxTokens: maxTokens, Temperature: opts.Temperature}).
		Post(path)
	if err != nil {
		return Result{}, &APICallError{Provider: ProviderCloudflare, Message: "request failed", Cause: err}
	}

	status := resp.StatusCode()
	if !resp.IsSuccess() {
		return Result{OK: false, Status: status}, &APICallError{
			Provider: ProviderCloudflare,
			Status:   status,
			Body:     truncateBody(resp.String()),
			Message:  "upstream returned an error",
		}
	}

	return Result{OK: true, Status: status, RawText: cloudflareText(resp.Body())}, nil
}

// cloudflareText reads result.response, falling back to result itself.
// Non-string values are returned as their raw JSON text.
func cloudflareText(body []byte) string {
	for _, path := range []string{"result.response", "result"} {
		v := gjson.GetBytes(body, path)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if v.Type == gjson.String {
			return v.String()
		}
		return v.Raw
	}
	return ""
}

// Provider returns ProviderCloudflare
func (c *CloudflareClient) Provider() Provider {
	return ProviderCloudflare
}

// Model returns the Workers AI model id
func (c *CloudflareClient) Model() string {
	return c.config.GetModel()
}

// Close is a no-op for the HTTP-based client
func (c *CloudflareClient) Close() error {
	return nil
}
