// Package cleaning normalizes raw form text before it reaches the prompt.
package cleaning

import (
	"regexp"
	"strings"

	"github.com/jonathan/cv-maker/internal/types"
)

// Per-field rune limits. They bound prompt size, and with it the latency
// and cost of the model call.
const (
	LimitName       = 80
	LimitEmail      = 120
	LimitPhone      = 40
	LimitPlace      = 80
	LimitTitle      = 120
	LimitLinks      = 500
	LimitSkills     = 800
	LimitSummary    = 800
	LimitEducation  = 1500
	LimitExperience = 4000
	LimitRawText    = 6000
)

var (
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankLines      = regexp.MustCompile(`\n(?:[ \t]*\n)+`)
	skillCountNoise = regexp.MustCompile(`(?i)\+?\d+\s*skills?\b`)
)

// bulletReplacer maps decorative bullet glyphs onto a plain hyphen
var bulletReplacer = strings.NewReplacer(
	"•", "-",
	"·", "-",
	"●", "-",
	"▪", "-",
	"◦", "-",
	"‣", "-",
	"∙", "-",
	"■", "-",
	"►", "-",
	"➤", "-",
	"➢", "-",
	"✓", "-",
	"✔", "-",
	"★", "-",
)

// CleanText removes carriage returns, collapses whitespace runs, replaces
// bullet glyphs with "-", collapses blank lines and truncates to limit runes.
// A limit <= 0 disables truncation.
func CleanText(raw string, limit int) string {
	if raw == "" {
		return ""
	}

	s := strings.ReplaceAll(raw, "\r", "")
	s = horizontalSpace.ReplaceAllString(s, " ")
	s = bulletReplacer.Replace(s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankLines.ReplaceAllString(s, "\n")
	s = strings.TrimSpace(s)

	return Truncate(s, limit)
}

// Truncate cuts s to at most limit runes without adding an ellipsis.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return strings.TrimSpace(s[:i])
		}
		count++
	}
	return s
}

// StripPasteNoise removes artefacts left by copying from job-network profiles,
// such as "+12 skills" counters.
func StripPasteNoise(raw string) string {
	if raw == "" {
		return ""
	}
	return skillCountNoise.ReplaceAllString(raw, "")
}

// CleanFields applies markup stripping, paste-noise removal and CleanText
// to every field using the fixed per-field limits.
func CleanFields(fields types.ResumeInputFields) types.ResumeInputFields {
	long := func(s string, limit int) string {
		return CleanText(StripPasteNoise(StripMarkup(s)), limit)
	}

	return types.ResumeInputFields{
		FirstName:  oneLine(CleanText(fields.FirstName, LimitName)),
		LastName:   oneLine(CleanText(fields.LastName, LimitName)),
		Email:      oneLine(CleanText(fields.Email, LimitEmail)),
		Phone:      oneLine(CleanText(fields.Phone, LimitPhone)),
		City:       oneLine(CleanText(fields.City, LimitPlace)),
		Province:   oneLine(CleanText(fields.Province, LimitPlace)),
		Title:      oneLine(CleanText(fields.Title, LimitTitle)),
		Links:      CleanText(fields.Links, LimitLinks),
		Skills:     long(fields.Skills, LimitSkills),
		Experience: long(fields.Experience, LimitExperience),
		Education:  long(fields.Education, LimitEducation),
		Summary:    long(fields.Summary, LimitSummary),
		RawText:    long(fields.RawText, LimitRawText),
	}
}

// oneLine folds newlines into spaces for single-line fields
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
