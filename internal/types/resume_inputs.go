//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Language is the target natural language of the generated résumé
type Language string

const (
	// LanguageEnglish renders the résumé in English
	LanguageEnglish Language = "en"
	// LanguageIndonesian renders the résumé in Indonesian
	LanguageIndonesian Language = "id"
)

// DefaultLanguage is used when a request does not name one
const DefaultLanguage = LanguageIndonesian

// ParseLanguage maps a request value onto a Language, defaulting empty input.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultLanguage, nil
	case LanguageEnglish:
		return LanguageEnglish, nil
	case LanguageIndonesian:
		return LanguageIndonesian, nil
	default:
		return "", fmt.Errorf("unsupported language %q (want en or id)", s)
	}
}

// ResumeInputFields is the flat record collected by the browser form.
// Every field is a trimmed string; a missing field is the empty string.
type ResumeInputFields struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
	Province   string `json:"province"`
	Title      string `json:"title"`
	Links      string `json:"links"`
	Skills     string `json:"skills"`
	Experience string `json:"experience"`
	Education  string `json:"education"`
	Summary    string `json:"summary"`

	// RawText carries inputs submitted as one free-text blob instead of a form object
	RawText string `json:"rawText,omitempty"`
}

// Trimmed returns a copy with every field trimmed
func (f ResumeInputFields) Trimmed() ResumeInputFields {
	return ResumeInputFields{
		FirstName:  strings.TrimSpace(f.FirstName),
		LastName:   strings.TrimSpace(f.LastName),
		Email:      strings.TrimSpace(f.Email),
		Phone:      strings.TrimSpace(f.Phone),
		City:       strings.TrimSpace(f.City),
		Province:   strings.TrimSpace(f.Province),
		Title:      strings.TrimSpace(f.Title),
		Links:      strings.TrimSpace(f.Links),
		Skills:     strings.TrimSpace(f.Skills),
		Experience: strings.TrimSpace(f.Experience),
		Education:  strings.TrimSpace(f.Education),
		Summary:    strings.TrimSpace(f.Summary),
		RawText:    strings.TrimSpace(f.RawText),
	}
}

// FullName joins first and last name
func (f ResumeInputFields) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(f.FirstName) + " " + strings.TrimSpace(f.LastName))
}

// Location joins city and province, skipping whichever is empty
func (f ResumeInputFields) Location() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{f.City, f.Province} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// IsBlank reports whether no field carries any content
func (f ResumeInputFields) IsBlank() bool {
	return f.Trimmed() == ResumeInputFields{}
}

// UnmarshalJSON accepts either the form object or a plain string.
// Non-string form values (numbers, booleans) are stringified rather than rejected.
func (f *ResumeInputFields) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ResumeInputFields{}
		return nil
	}

	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*f = ResumeInputFields{RawText: strings.TrimSpace(raw)}
		return nil
	}

	var loose map[string]any
	if err := json.Unmarshal(data, &loose); err != nil {
		return fmt.Errorf("inputs must be an object or a string: %w", err)
	}

	get := func(key string) string {
		v, ok := loose[key]
		if !ok || v == nil {
			return ""
		}
		switch val := v.(type) {
		case string:
			return strings.TrimSpace(val)
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				if item != nil {
					parts = append(parts, strings.TrimSpace(fmt.Sprint(item)))
				}
			}
			return strings.Join(parts, "\n")
		default:
			return strings.TrimSpace(fmt.Sprint(val))
		}
	}

	*f = ResumeInputFields{
		FirstName:  get("firstName"),
		LastName:   get("lastName"),
		Email:      get("email"),
		Phone:      get("phone"),
		City:       get("city"),
		Province:   get("province"),
		Title:      get("title"),
		Links:      get("links"),
		Skills:     get("skills"),
		Experience: get("experience"),
		Education:  get("education"),
		Summary:    get("summary"),
		RawText:    get("rawText"),
	}
	return nil
}

// GenerateRequest is the body accepted by the generate endpoints
type GenerateRequest struct {
	Inputs ResumeInputFields `json:"inputs"`
	Lang   string            `json:"lang" validate:"omitempty,oneof=en id"`
}

// Validate validates the GenerateRequest using the validator.
// Lang is normalized to lower case first, matching ParseLanguage.
func (r *GenerateRequest) Validate() error {
	r.Lang = strings.ToLower(strings.TrimSpace(r.Lang))
	validate := validator.New()
	return validate.Struct(r)
}

// Language returns the parsed target language
func (r *GenerateRequest) Language() Language {
	lang, err := ParseLanguage(r.Lang)
	if err != nil {
		return DefaultLanguage
	}
	return lang
}

// RenderRequest is the body accepted by the render endpoint
type RenderRequest struct {
	Document ResumeDocument `json:"document"`
	Lang     string         `json:"lang" validate:"omitempty,oneof=en id"`
}

// Validate validates the RenderRequest using the validator.
// Lang is normalized to lower case first, matching ParseLanguage.
func (r *RenderRequest) Validate() error {
	r.Lang = strings.ToLower(strings.TrimSpace(r.Lang))
	validate := validator.New()
	return validate.Struct(r)
}
