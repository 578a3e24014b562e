package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-maker/internal/llm"
)

func envLookup(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func ptr(f float64) *float64 { return &f }

// clearEnv blanks every variable FromEnv reads
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key.name, "")
	}
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"port": "9000",
		"allowed_origin": "https://cv.example.com",
		"provider": "openai",
		"model": "gpt-4o",
		"max_tokens": 900,
		"temperature": 0,
		"request_timeout": "45s"
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "https://cv.example.com", cfg.AllowedOrigin)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 900, cfg.MaxTokens)
	require.NotNil(t, cfg.Temperature)
	assert.Equal(t, 0.0, *cfg.Temperature)
	assert.Equal(t, "45s", cfg.RequestTimeout)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestFromEnv(t *testing.T) {
	cfg, err := FromEnv(envLookup(map[string]string{
		"PORT":            "8080",
		"ALLOWED_ORIGIN":  "https://cv.example.com",
		"LLM_PROVIDER":    "cloudflare",
		"CF_ACCOUNT_ID":   "acc",
		"CF_API_TOKEN":    "tok",
		"LLM_MAX_TOKENS":  "700",
		"LLM_TEMPERATURE": "0.1",
		"REQUEST_TIMEOUT": "20s",
		"LLM_MODEL":       "   ",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "acc", cfg.CFAccountID)
	assert.Equal(t, "tok", cfg.CFAPIToken)
	assert.Equal(t, 700, cfg.MaxTokens)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.1, *cfg.Temperature, 1e-9)
	assert.Equal(t, "20s", cfg.RequestTimeout)
	assert.Empty(t, cfg.Model, "blank variables are treated as unset")
}

func TestFromEnv_InvalidNumbers(t *testing.T) {
	_, err := FromEnv(envLookup(map[string]string{"LLM_MAX_TOKENS": "lots"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_MAX_TOKENS")

	_, err = FromEnv(envLookup(map[string]string{"LLM_TEMPERATURE": "warm"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_TEMPERATURE")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{"port": "9000", "model": "file-model"}`), 0644))

	clearEnv(t)
	t.Setenv("LLM_MODEL", "env-model")

	cfg, err := Load(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "env-model", cfg.Model)
	assert.Equal(t, string(llm.ProviderCloudflare), cfg.Provider)
	assert.Equal(t, llm.DefaultMaxTokens, cfg.MaxTokens)
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultRequestTimeout, cfg.Timeout())
}

func TestLoad_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "mystery")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults", Defaults(), ""},
		{"empty", Config{}, ""},
		{"bad port", Config{Port: "http"}, "port"},
		{"port out of range", Config{Port: "70000"}, "port"},
		{"unknown provider", Config{Provider: "mystery"}, "unknown provider"},
		{"origin with path", Config{AllowedOrigin: "https://cv.example.com/app"}, "allowed_origin"},
		{"origin without scheme", Config{AllowedOrigin: "cv.example.com"}, "allowed_origin"},
		{"origin ok", Config{AllowedOrigin: "http://localhost:5173"}, ""},
		{"relative base url", Config{BaseURL: "/v1"}, "base_url"},
		{"negative max tokens", Config{MaxTokens: -1}, "max_tokens"},
		{"temperature too high", Config{Temperature: ptr(3)}, "temperature"},
		{"zero temperature", Config{Temperature: ptr(0)}, ""},
		{"bad timeout", Config{RequestTimeout: "soon"}, "request_timeout"},
		{"negative timeout", Config{RequestTimeout: "-1s"}, "request_timeout"},
		{"bad log format", Config{LogFormat: "xml"}, "log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_MissingCredentialsAllowed(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.LLMConfig().HasCredentials())
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		Port:        "8787",
		Provider:    "cloudflare",
		CFAPIToken:  "default-token",
		MaxTokens:   1400,
		Temperature: ptr(0.3),
	}

	partial := Config{
		Port:        "9000",
		Temperature: ptr(0),
	}

	merged := partial.MergeWithDefaults(defaults)

	// Custom values should be preserved
	assert.Equal(t, "9000", merged.Port)
	assert.Equal(t, 0.0, *merged.Temperature)

	// Default values should fill in empty fields
	assert.Equal(t, "cloudflare", merged.Provider)
	assert.Equal(t, "default-token", merged.CFAPIToken)
	assert.Equal(t, 1400, merged.MaxTokens)
}

func TestMergeWithDefaults_DoesNotAliasTemperature(t *testing.T) {
	defaults := Config{Temperature: ptr(0.3)}

	merged := (&Config{}).MergeWithDefaults(defaults)
	*merged.Temperature = 1

	assert.Equal(t, 0.3, *defaults.Temperature)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Port: "9000", Model: "m"}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "9000", merged.Port)
	assert.Equal(t, "m", merged.Model)
	assert.Nil(t, merged.Temperature)
}

func TestTimeout(t *testing.T) {
	assert.Equal(t, 45*time.Second, (&Config{RequestTimeout: "45s"}).Timeout())
	assert.Equal(t, DefaultRequestTimeout, (&Config{}).Timeout())
	assert.Equal(t, DefaultRequestTimeout, (&Config{RequestTimeout: "garbage"}).Timeout())
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":9000", (&Config{Port: "9000"}).Addr())
	assert.Equal(t, ":"+DefaultPort, (&Config{}).Addr())
}

func TestLLMConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantKey   string
		wantAcct  string
		wantModel string
	}{
		{
			name:      "cloudflare",
			cfg:       Config{Provider: "cloudflare", CFAccountID: "acc", CFAPIToken: "cf", OpenAIAPIKey: "oa"},
			wantKey:   "cf",
			wantAcct:  "acc",
			wantModel: "@cf/meta/llama-3-8b-instruct",
		},
		{
			name:      "openai with model",
			cfg:       Config{Provider: "openai", Model: "gpt-4o", OpenAIAPIKey: "oa", CFAPIToken: "cf"},
			wantKey:   "oa",
			wantModel: "gpt-4o",
		},
		{
			name:      "gemini",
			cfg:       Config{Provider: "gemini", GeminiAPIKey: "gm"},
			wantKey:   "gm",
			wantModel: "gemini-2.5-flash",
		},
		{
			name:      "anthropic",
			cfg:       Config{Provider: "anthropic", AnthropicAPIKey: "an"},
			wantKey:   "an",
			wantModel: "claude-3-5-haiku-latest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.cfg.LLMConfig()
			assert.Equal(t, tt.wantKey, out.APIKey)
			assert.Equal(t, tt.wantAcct, out.AccountID)
			assert.Equal(t, tt.wantModel, out.GetModel())
			assert.NoError(t, out.Validate())
		})
	}
}

func TestLLMConfig_CarriesTuning(t *testing.T) {
	cfg := Config{MaxTokens: 500, Temperature: ptr(0), RequestTimeout: "10s"}
	out := cfg.LLMConfig()

	assert.Equal(t, llm.ProviderCloudflare, out.Provider)
	assert.Equal(t, 500, out.MaxTokens)
	assert.Equal(t, 0.0, out.Temperature)
	assert.Equal(t, 10*time.Second, out.Timeout)
}
