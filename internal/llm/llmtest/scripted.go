// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/jonathan/cv-maker/internal/llm"
)

// Reply is one scripted answer
type Reply struct {
	Text string
	Err  error
}

// Call records a prompt the client received
type Call struct {
	Prompt  string
	Options llm.Options
}

// ScriptedClient returns its replies in order and records every call.
// Once the script is exhausted the last reply repeats.
type ScriptedClient struct {
	mu      sync.Mutex
	replies []Reply
	calls   []Call
	model   string
}

// NewScriptedClient creates a client that answers with the given texts
func NewScriptedClient(texts ...string) *ScriptedClient {
	replies := make([]Reply, len(texts))
	for i, t := range texts {
		replies[i] = Reply{Text: t}
	}
	return &ScriptedClient{replies: replies, model: "scripted-model"}
}

// NewScriptedReplies creates a client from full replies, including errors
func NewScriptedReplies(replies ...Reply) *ScriptedClient {
	return &ScriptedClient{replies: replies, model: "scripted-model"}
}

// Run implements llm.Client
func (c *ScriptedClient) Run(ctx context.Context, prompt string, opts llm.Options) (llm.Result, error) {
	c.mu.Lock()
	idx := len(c.calls)
	c.calls = append(c.calls, Call{Prompt: prompt, Options: opts})
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return llm.Result{}, &llm.APICallError{Provider: "scripted", Message: "request failed", Cause: err}
	}
	if len(c.replies) == 0 {
		return llm.Result{OK: true, Status: 200}, nil
	}
	if idx >= len(c.replies) {
		idx = len(c.replies) - 1
	}
	r := c.replies[idx]
	if r.Err != nil {
		return llm.Result{}, r.Err
	}
	return llm.Result{OK: true, Status: 200, RawText: r.Text}, nil
}

// Calls returns a copy of the recorded calls
func (c *ScriptedClient) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}

// Provider implements llm.Client
func (c *ScriptedClient) Provider() llm.Provider {
	return "scripted"
}

// Model implements llm.Client
func (c *ScriptedClient) Model() string {
	return c.model
}

// Close implements llm.Client
func (c *ScriptedClient) Close() error {
	return nil
}
