// Package fallback builds a minimal resume document from the input fields
// alone, for when no model output could be coerced.
package fallback

import (
	"strings"
	"unicode"

	"github.com/jonathan/cv-maker/internal/cleaning"
	"github.com/jonathan/cv-maker/internal/types"
)

// Placeholders used when the inputs carry no name or summary
const (
	PlaceholderName    = "Your Name"
	PlaceholderSummary = "Motivated professional seeking new opportunities."
)

// rawSummaryLines is how many raw-text lines after the name form the summary
const rawSummaryLines = 3

// Synthesize returns a schema-valid document built only from fields.
// It is total and deterministic: every input, including the zero value,
// yields a document with a non-empty name and summary and empty lists for
// skills, experience, education, certifications and extras.
func Synthesize(fields types.ResumeInputFields) types.ResumeDocument {
	f := cleaning.CleanFields(fields)
	rawLines := nonEmptyLines(f.RawText)

	name := f.FullName()
	if name == "" && len(rawLines) > 0 {
		name = cleaning.Truncate(rawLines[0], cleaning.LimitName)
	}
	if name == "" {
		name = PlaceholderName
	}

	summary := f.Summary
	if summary == "" && len(rawLines) > 1 {
		end := min(len(rawLines), 1+rawSummaryLines)
		summary = strings.Join(rawLines[1:end], " ")
	}
	if summary == "" {
		summary = PlaceholderSummary
	}

	doc := types.ResumeDocument{
		Header: types.Header{
			FullName: name,
			Title:    f.Title,
			Location: f.Location(),
			Email:    f.Email,
			Phone:    f.Phone,
			Links:    splitLinks(f.Links),
		},
		Summary: summary,
	}
	return doc.Normalize()
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// splitLinks splits on commas, semicolons and whitespace
func splitLinks(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
}
