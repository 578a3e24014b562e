package coercion

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce_Recovers(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantStrategy string
		want         map[string]any
	}{
		{
			name:         "plain object",
			raw:          `{"summary":"Hi"}`,
			wantStrategy: StrategyDirect,
			want:         map[string]any{"summary": "Hi"},
		},
		{
			name:         "fenced json",
			raw:          "```json\n{\"header\":{\"full_name\":\"Ana Putri\"}}\n```",
			wantStrategy: StrategyStripFences,
			want:         map[string]any{"header": map[string]any{"full_name": "Ana Putri"}},
		},
		{
			name:         "bare fence",
			raw:          "```\n{\"summary\":\"Hi\"}\n```",
			wantStrategy: StrategyStripFences,
			want:         map[string]any{"summary": "Hi"},
		},
		{
			name:         "double encoded",
			raw:          `"{\"summary\":\"Hi\"}"`,
			wantStrategy: StrategyUnwrapString,
			want:         map[string]any{"summary": "Hi"},
		},
		{
			name:         "surrounding prose",
			raw:          "Sure! Here is your CV:\n{\"summary\":\"Hi\"}\nLet me know if you need changes.",
			wantStrategy: StrategyOuterSpan,
			want:         map[string]any{"summary": "Hi"},
		},
		{
			name:         "trailing commas",
			raw:          `{"extras":["a","b",],"summary":"Hi",}`,
			wantStrategy: StrategyTrailingCommas,
			want:         map[string]any{"extras": []any{"a", "b"}, "summary": "Hi"},
		},
		{
			name:         "escaped quotes and newlines with trailing comma",
			raw:          `Output: {\"summary\":\"Hi\",\n\"extras\":[],}`,
			wantStrategy: StrategyUnescape,
			want:         map[string]any{"summary": "Hi", "extras": []any{}},
		},
		{
			name:         "zero width and raw tab",
			raw:          "{\"summary\":\u200b\"a\tb\"}\ufeff",
			wantStrategy: StrategyStripInvisible,
			want:         map[string]any{"summary": "a b"},
		},
		{
			name:         "escaped newline inside a string value",
			raw:          `{\"summary\":\"Line one\nLine two\",\"extras\":[],}`,
			wantStrategy: StrategyStripInvisible,
			want:         map[string]any{"summary": "Line one Line two", "extras": []any{}},
		},
		{
			name:         "fenced and double encoded",
			raw:          "```json\n\"{\\\"summary\\\":\\\"Hi\\\"}\"\n```",
			wantStrategy: StrategyUnwrapString,
			want:         map[string]any{"summary": "Hi"},
		},
		{
			name:         "unbalanced brace inside string",
			raw:          `Here: {"summary":"uses { in text"} bye`,
			wantStrategy: StrategyOuterSpan,
			want:         map[string]any{"summary": "uses { in text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempt := NewEngine().Run(tt.raw)
			require.True(t, attempt.OK, "failed steps: %v", attempt.Failed())
			assert.Equal(t, tt.wantStrategy, attempt.Strategy)
			assert.Equal(t, tt.want, attempt.Value)
		})
	}
}

func TestCoerce_PreservesContent(t *testing.T) {
	original := `{"header":{"full_name":"Ana Putri","links":["https://x.dev"]},"score":1.50,"count":12345678901234567890}`

	for _, raw := range []string{original, "```json\n" + original + "\n```", "```" + original + "```"} {
		v, ok := Coerce(raw)
		require.True(t, ok)

		assert.Equal(t, json.Number("1.50"), v["score"])
		assert.Equal(t, json.Number("12345678901234567890"), v["count"])

		out, err := json.Marshal(v)
		require.NoError(t, err)
		assert.JSONEq(t, original, string(out))
	}
}

func TestCoerce_FailureMarker(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"not json at all",
		"{",
		"}{",
		`[1,2,3]`,
		`"just a string"`,
		`{"a":}`,
		strings.Repeat("{", 5000),
		"\x00\x01\x02",
		"```\n```",
	}

	for _, raw := range inputs {
		assert.NotPanics(t, func() {
			v, ok := Coerce(raw)
			assert.False(t, ok, "input %q", raw)
			assert.Nil(t, v)
		})
	}
}

func TestEngine_TraceForDoubleEncoding(t *testing.T) {
	attempt := NewEngine().Run(`"{\"summary\":\"Hi\"}"`)

	require.True(t, attempt.OK)
	require.Len(t, attempt.Steps, 3)
	assert.Equal(t, StrategyStripFences, attempt.Steps[0].Strategy)
	assert.True(t, attempt.Steps[0].Skipped)
	assert.Equal(t, StrategyDirect, attempt.Steps[1].Strategy)
	assert.ErrorIs(t, attempt.Steps[1].Err, errNotObject)
	assert.True(t, attempt.Steps[2].OK)
	assert.Equal(t, []string{StrategyDirect}, attempt.Failed())
}

func TestEngine_TraceForFailure(t *testing.T) {
	attempt := NewEngine().Run("not json at all")

	assert.False(t, attempt.OK)
	assert.Equal(t, "not json at all", attempt.Raw)
	assert.Len(t, attempt.Steps, len(DefaultStrategies()))
	assert.Equal(t, []string{StrategyDirect}, attempt.Failed())
}

func TestEngine_ZeroValueUsesDefaults(t *testing.T) {
	var e Engine
	attempt := e.Run(`{"summary":"Hi"}`)
	assert.True(t, attempt.OK)
}

func TestEngine_CustomStrategies(t *testing.T) {
	e := &Engine{Strategies: []Strategy{
		{Name: "wrap", Apply: func(work string) (string, bool) { return `{"raw":"` + work + `"}`, true }},
	}}

	attempt := e.Run("hello")
	require.True(t, attempt.OK)
	assert.Equal(t, "wrap", attempt.Strategy)
	assert.Equal(t, "hello", attempt.Value["raw"])
}

func TestStrategies_Isolated(t *testing.T) {
	t.Run("strip fences anywhere", func(t *testing.T) {
		got, ok := stripFences("a ```JSON b ``` c")
		assert.True(t, ok)
		assert.Equal(t, "a  b c", got)

		_, ok = stripFences("no fences")
		assert.False(t, ok)
	})

	t.Run("span uses first and last brace", func(t *testing.T) {
		got, ok := span(`x {"a":{"b":1}} y }`)
		assert.True(t, ok)
		assert.Equal(t, `{"a":{"b":1}} y }`, got)

		_, ok = span("} {")
		assert.False(t, ok)
	})

	t.Run("unescape requires escape signs", func(t *testing.T) {
		_, ok := unescape(`{"a":"b"}`)
		assert.False(t, ok)

		got, ok := unescape(`{\"a\":\"c:\\\\dir\"}`)
		assert.True(t, ok)
		assert.Equal(t, `{"a":"c:\\dir"}`, got)
	})

	t.Run("trailing commas", func(t *testing.T) {
		assert.Equal(t, `{"a":[1]}`, RemoveTrailingCommas("{\"a\":[1,\n],\t}"))
	})

	t.Run("strip invisible", func(t *testing.T) {
		assert.Equal(t, "a b c", StripInvisible("a\u200b\tb\u00a0c\ufeff"))
	})
}
