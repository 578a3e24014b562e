package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLaTeX(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Data analyst with SQL", "Data analyst with SQL"},
		{"backslash", `C:\temp`, `C:\textbackslash{}temp`},
		{"braces", "text{with}braces", `text\{with\}braces`},
		{"dollar", "cost $100", `cost \$100`},
		{"ampersand", "Research & Development", `Research \& Development`},
		{"percent", "grew revenue 30%", `grew revenue 30\%`},
		{"hash", "C# developer", `C\# developer`},
		{"caret", "x^2", `x\textasciicircum{}2`},
		{"underscore", "snake_case", `snake\_case`},
		{"tilde", "~approx", `\textasciitilde{}approx`},
		{"all", `${}~&%#^_\`, `\$\{\}\textasciitilde{}\&\%\#\textasciicircum{}\_\textbackslash{}`},
		{"unicode passes through", "résumé Pengalaman Kerja α", "résumé Pengalaman Kerja α"},
		{"newlines folded", "line one\n\nline two", "line one line two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeLaTeX(tt.in))
		})
	}
}

func TestEscapeJoin(t *testing.T) {
	assert.Equal(t, `a\_b, c\&d`, escapeJoin([]string{"a_b", "c&d"}, ", "))
	assert.Equal(t, "", escapeJoin(nil, ", "))
}
