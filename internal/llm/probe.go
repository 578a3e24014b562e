package llm

import (
	"context"
	"errors"
	"net/http"
)

// ProbeSnippetRunes bounds the model text echoed back by a probe
const ProbeSnippetRunes = 200

// ProbeReport describes one trivial round-trip to the backend.
// It carries presence flags only, never credential values.
type ProbeReport struct {
	OK           bool     `json:"ok"`
	Provider     Provider `json:"provider"`
	Model        string   `json:"model"`
	HasAccountID bool     `json:"has_account_id"`
	HasToken     bool     `json:"has_token"`
	Status       int      `json:"status"`
	Snippet      string   `json:"snippet"`
	Error        string   `json:"error,omitempty"`
}

// Probe sends prompt through client once and reports the outcome.
// cfg supplies the presence flags and may be nil; a nil client reports the
// configuration failure from cfg without making a call.
func Probe(ctx context.Context, client Client, cfg *Config, prompt string) ProbeReport {
	var report ProbeReport
	if cfg != nil {
		report.Provider = cfg.Provider
		report.Model = cfg.GetModel()
		report.HasAccountID = cfg.AccountID != ""
		report.HasToken = cfg.APIKey != ""
	}

	if client == nil {
		report.Error = "inference client not configured"
		if cfg != nil {
			if err := cfg.Validate(); err != nil {
				report.Error = err.Error()
			}
		}
		return report
	}
	report.Provider = client.Provider()
	report.Model = client.Model()

	res, err := client.Run(ctx, prompt, Options{MaxTokens: 16, Temperature: 0})
	report.Status = res.Status
	if err != nil {
		report.Error = err.Error()
		var apiErr *APICallError
		if errors.As(err, &apiErr) {
			if apiErr.Status != 0 {
				report.Status = apiErr.Status
			}
			report.Snippet = snippet(apiErr.Body)
		}
		return report
	}

	report.OK = res.OK
	if report.Status == 0 && res.OK {
		report.Status = http.StatusOK
	}
	report.Snippet = snippet(res.RawText)
	return report
}

func snippet(s string) string {
	r := []rune(s)
	if len(r) <= ProbeSnippetRunes {
		return s
	}
	return string(r[:ProbeSnippetRunes])
}
