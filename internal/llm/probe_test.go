package llm_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cv-maker/internal/llm"
	"github.com/jonathan/cv-maker/internal/llm/llmtest"
)

func TestProbe_Success(t *testing.T) {
	client := llmtest.NewScriptedClient(strings.Repeat("p", 300))
	cfg := &llm.Config{Provider: llm.ProviderCloudflare, AccountID: "acc", APIKey: "secret-token"}

	report := llm.Probe(context.Background(), client, cfg, "ping")

	assert.True(t, report.OK)
	assert.Equal(t, 200, report.Status)
	assert.True(t, report.HasAccountID)
	assert.True(t, report.HasToken)
	assert.Equal(t, "scripted-model", report.Model)
	assert.Len(t, []rune(report.Snippet), llm.ProbeSnippetRunes)
	assert.Empty(t, report.Error)

	calls := client.Calls()
	if assert.Len(t, calls, 1) {
		assert.Equal(t, "ping", calls[0].Prompt)
	}
}

func TestProbe_UpstreamFailure(t *testing.T) {
	client := llmtest.NewScriptedReplies(llmtest.Reply{Err: &llm.APICallError{
		Provider: llm.ProviderCloudflare,
		Status:   401,
		Body:     `{"errors":[{"message":"bad token"}]}`,
		Message:  "non-success response",
	}})

	report := llm.Probe(context.Background(), client, nil, "ping")

	assert.False(t, report.OK)
	assert.Equal(t, 401, report.Status)
	assert.Contains(t, report.Snippet, "bad token")
	assert.NotEmpty(t, report.Error)
}

func TestProbe_NoClient(t *testing.T) {
	cfg := &llm.Config{Provider: llm.ProviderCloudflare, APIKey: "secret-token"}

	report := llm.Probe(context.Background(), nil, cfg, "ping")

	assert.False(t, report.OK)
	assert.False(t, report.HasAccountID)
	assert.True(t, report.HasToken)
	assert.Contains(t, report.Error, "account id")
	assert.NotContains(t, report.Error, "secret-token")
	assert.Equal(t, "@cf/meta/llama-3-8b-instruct", report.Model)
}
