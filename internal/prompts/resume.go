package prompts

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/jonathan/cv-maker/internal/cleaning"
	"github.com/jonathan/cv-maker/internal/types"
)

// maxReformatEcho bounds how much of a malformed model output is echoed back
const maxReformatEcho = 8000

// LanguageName returns the English display name of the target language,
// e.g. "Indonesian" for "id".
func LanguageName(lang types.Language) string {
	tag, err := language.Parse(string(lang))
	if err != nil {
		tag = language.Indonesian
	}
	if name := display.Languages(language.English).Name(tag); name != "" {
		return name
	}
	return string(lang)
}

// SchemaLiteral is the fixed output schema embedded in every prompt
func SchemaLiteral() string {
	return MustGet(ResumeFile, "schema")
}

// SystemPrompt is sent as the system message on every model call
func SystemPrompt() string {
	return MustGet(ResumeFile, "system")
}

// ProbePrompt is the trivial prompt used by the debug round-trip
func ProbePrompt() string {
	return MustGet(ResumeFile, "probe")
}

// BuildResumePrompt deterministically builds the generation prompt.
// Fields are normalized first; empty fields are omitted from the candidate block.
func BuildResumePrompt(fields types.ResumeInputFields, lang types.Language) string {
	return Format(MustGet(ResumeFile, "generate-resume"), map[string]string{
		"Language": LanguageName(lang),
		"Schema":   SchemaLiteral(),
		"Fields":   FieldBlock(cleaning.CleanFields(fields)),
	})
}

// BuildReformatPrompt asks the model to re-emit a malformed output as bare JSON.
// The previous output is included verbatim, truncated to a fixed bound.
func BuildReformatPrompt(raw string) string {
	return Format(MustGet(ResumeFile, "reformat-json"), map[string]string{
		"Schema": SchemaLiteral(),
		"Raw":    cleaning.Truncate(raw, maxReformatEcho),
	})
}

// FieldBlock renders labelled field blocks in a fixed order
func FieldBlock(f types.ResumeInputFields) string {
	var sb strings.Builder

	inline := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteString("\n")
	}
	block := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(label)
		sb.WriteString(":\n")
		sb.WriteString(value)
		sb.WriteString("\n")
	}

	inline("NAME", f.FullName())
	inline("TITLE", f.Title)
	inline("LOCATION", f.Location())
	inline("EMAIL", f.Email)
	inline("PHONE", f.Phone)
	block("LINKS", f.Links)
	block("SUMMARY", f.Summary)
	block("SKILLS", f.Skills)
	block("EXPERIENCE", f.Experience)
	block("EDUCATION", f.Education)
	block("RAW_CV", f.RawText)

	if sb.Len() == 0 {
		return "(no details provided)"
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
