package rendering

import "strings"

// latexReplacer escapes the LaTeX special characters \ { } $ & % # ^ _ ~
var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
)

// EscapeLaTeX escapes special LaTeX characters in text.
// Newlines become spaces so a value cannot end a paragraph or a table row.
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")
	return latexReplacer.Replace(text)
}

// escapeJoin escapes each item and joins them with sep, which is emitted verbatim
func escapeJoin(items []string, sep string) string {
	escaped := make([]string, len(items))
	for i, item := range items {
		escaped[i] = EscapeLaTeX(item)
	}
	return strings.Join(escaped, sep)
}
