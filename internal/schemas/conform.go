package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/cv-maker/internal/types"
)

// ErrEmptyDocument is returned when a value passes the schema but carries no content
var ErrEmptyDocument = errors.New("document has no content")

// Conform validates a coerced value and builds a ResumeDocument from it.
// Missing or null leaves become empty strings and empty lists; a single
// string where a list is expected becomes a one-element list. Values of
// the wrong type fail validation.
func Conform(v map[string]any) (types.ResumeDocument, error) {
	if err := ValidateResumeValue(v); err != nil {
		return types.ResumeDocument{}, err
	}

	header := object(v, "header")
	doc := types.ResumeDocument{
		Header: types.Header{
			FullName: scalar(header, "full_name"),
			Title:    scalar(header, "title"),
			Location: scalar(header, "location"),
			Email:    scalar(header, "email"),
			Phone:    scalar(header, "phone"),
			Links:    list(header, "links"),
		},
		Summary:        scalar(v, "summary"),
		Skills:         conformSkills(v["skills"]),
		Certifications: list(v, "certifications"),
		Extras:         list(v, "extras"),
	}

	for _, item := range objects(v, "experience") {
		doc.Experience = append(doc.Experience, types.ExperienceItem{
			Company:        scalar(item, "company"),
			Role:           scalar(item, "role"),
			Location:       scalar(item, "location"),
			EmploymentType: scalar(item, "employment_type"),
			StartDate:      scalar(item, "start_date"),
			EndDate:        scalar(item, "end_date"),
			Bullets:        list(item, "bullets"),
		})
	}
	for _, item := range objects(v, "education") {
		doc.Education = append(doc.Education, types.EducationItem{
			Degree:    scalar(item, "degree"),
			School:    scalar(item, "school"),
			Location:  scalar(item, "location"),
			StartDate: scalar(item, "start_date"),
			EndDate:   scalar(item, "end_date"),
		})
	}

	doc = doc.Normalize()
	if doc.IsEmpty() && doc.Header.FullName == "" {
		return types.ResumeDocument{}, ErrEmptyDocument
	}
	return doc, nil
}

// ConformJSON decodes JSON text and conforms it
func ConformJSON(data []byte) (types.ResumeDocument, error) {
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return types.ResumeDocument{}, fmt.Errorf("failed to parse document: %w", err)
	}
	return Conform(v)
}

// A flat skills list is read as core skills.
func conformSkills(v any) types.Skills {
	switch s := v.(type) {
	case []any:
		return types.Skills{Core: toList(s)}
	case map[string]any:
		return types.Skills{
			Core:      list(s, "core"),
			Tools:     list(s, "tools"),
			Languages: list(s, "languages"),
		}
	default:
		return types.Skills{}
	}
}

func object(m map[string]any, key string) map[string]any {
	if o, ok := m[key].(map[string]any); ok {
		return o
	}
	return nil
}

func objects(m map[string]any, key string) []map[string]any {
	arr, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		if o, ok := item.(map[string]any); ok {
			out = append(out, o)
		}
	}
	return out
}

func scalar(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	return stringify(m[key])
}

func list(m map[string]any, key string) []string {
	if m == nil {
		return nil
	}
	switch v := m[key].(type) {
	case []any:
		return toList(v)
	case nil:
		return nil
	default:
		return []string{stringify(v)}
	}
}

func toList(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, stringify(item))
	}
	return out
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		return fmt.Sprintf("%g", s)
	default:
		return fmt.Sprint(s)
	}
}
