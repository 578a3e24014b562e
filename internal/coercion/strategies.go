// Package coercion turns untrusted model output into a JSON object by trying
// an ordered list of textual repair strategies, cheapest first.
package coercion

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Strategy names, in the order DefaultStrategies applies them
const (
	StrategyStripFences    = "strip-fences"
	StrategyDirect         = "direct"
	StrategyUnwrapString   = "unwrap-string"
	StrategyOuterSpan      = "outer-span"
	StrategyTrailingCommas = "trailing-commas"
	StrategyUnescape       = "unescape"
	StrategyStripInvisible = "strip-invisible"
)

// Strategy is one named repair step.
// Apply derives a parse candidate from the working text and reports whether
// the strategy applies at all. When Keep is set the candidate replaces the
// working text for the strategies that follow.
type Strategy struct {
	Name  string
	Apply func(work string) (candidate string, applies bool)
	Keep  bool
}

var (
	fenceRe         = regexp.MustCompile("```[ \t]*(?i:json)?")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

	escapeReplacer = strings.NewReplacer(`\\`, `\`, `\"`, `"`, `\n`, "\n")
)

// DefaultStrategies returns the standard strategy list
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: StrategyStripFences, Apply: stripFences, Keep: true},
		{Name: StrategyDirect, Apply: direct},
		{Name: StrategyUnwrapString, Apply: unwrapString, Keep: true},
		{Name: StrategyOuterSpan, Apply: outerSpan},
		{Name: StrategyTrailingCommas, Apply: trailingCommas},
		{Name: StrategyUnescape, Apply: unescape},
		{Name: StrategyStripInvisible, Apply: stripInvisible},
	}
}

// stripFences removes ``` and ```json delimiters wherever they appear
func stripFences(work string) (string, bool) {
	if !strings.Contains(work, "```") {
		return work, false
	}
	return strings.TrimSpace(fenceRe.ReplaceAllString(work, "")), true
}

func direct(work string) (string, bool) {
	return strings.TrimSpace(work), strings.TrimSpace(work) != ""
}

// unwrapString handles double encoding: a JSON string literal whose
// content is the document.
func unwrapString(work string) (string, bool) {
	trimmed := strings.TrimSpace(work)
	if !strings.HasPrefix(trimmed, `"`) {
		return work, false
	}
	var inner string
	if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
		return work, false
	}
	return strings.TrimSpace(inner), true
}

// span returns the text from the first '{' to the last '}'.
// Braces are not matched, so unbalanced braces inside strings are tolerated.
func span(work string) (string, bool) {
	start := strings.Index(work, "{")
	end := strings.LastIndex(work, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return work[start : end+1], true
}

func outerSpan(work string) (string, bool) {
	return span(work)
}

// RemoveTrailingCommas drops commas that directly precede a closing brace or bracket
func RemoveTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

func trailingCommas(work string) (string, bool) {
	s, ok := span(work)
	if !ok {
		return "", false
	}
	return RemoveTrailingCommas(s), true
}

// unescape only applies when the span shows signs of escaping
func unescape(work string) (string, bool) {
	s, ok := span(work)
	if !ok || !(strings.Contains(s, `\"`) || strings.Contains(s, `\n`)) {
		return "", false
	}
	return RemoveTrailingCommas(escapeReplacer.Replace(s)), true
}

// Chained transformers keep state, so each call builds its own.
func newInvisibleCleaner() transform.Transformer {
	return transform.Chain(
		runes.Map(func(r rune) rune {
			switch r {
			case '\t', '\n', '\r', '\v', '\f', '\u00a0', '\u2028', '\u2029':
				return ' '
			}
			return r
		}),
		runes.Remove(runes.Predicate(isInvisible)),
	)
}

func isInvisible(r rune) bool {
	return unicode.Is(unicode.Cc, r) || unicode.Is(unicode.Cf, r)
}

// StripInvisible maps control whitespace to spaces and removes other
// control and format runes such as zero-width spaces and byte order marks.
func StripInvisible(s string) string {
	out, _, err := transform.String(newInvisibleCleaner(), s)
	if err != nil {
		return s
	}
	return out
}

// stripInvisible also retries on the unescaped span: unescaping can leave a
// raw newline inside a string value, which only this step turns into a space.
func stripInvisible(work string) (string, bool) {
	s, ok := span(StripInvisible(work))
	if !ok {
		return "", false
	}
	candidate := RemoveTrailingCommas(s)
	if _, err := decodeObject(candidate); err == nil {
		return candidate, true
	}

	if escaped, ok := unescape(work); ok {
		return RemoveTrailingCommas(StripInvisible(escaped)), true
	}
	return candidate, true
}
