// Package types provides type definitions for structured data used throughout the cv-maker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// ResumeDocument is the canonical résumé produced for every request
type ResumeDocument struct {
	Header         Header           `json:"header"`
	Summary        string           `json:"summary"`
	Skills         Skills           `json:"skills"`
	Experience     []ExperienceItem `json:"experience"`
	Education      []EducationItem  `json:"education"`
	Certifications []string         `json:"certifications"`
	Extras         []string         `json:"extras"`
}

// Header holds the candidate identity and contact block
type Header struct {
	FullName string   `json:"full_name"`
	Title    string   `json:"title"`
	Location string   `json:"location"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Links    []string `json:"links"`
}

// Skills groups skills into the three fixed buckets
type Skills struct {
	Core      []string `json:"core"`
	Tools     []string `json:"tools"`
	Languages []string `json:"languages"`
}

// ExperienceItem is a single role at a company
type ExperienceItem struct {
	Company        string   `json:"company"`
	Role           string   `json:"role"`
	Location       string   `json:"location"`
	EmploymentType string   `json:"employment_type"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"` // "MMM YYYY" or "Present"
	Bullets        []string `json:"bullets"`
}

// EducationItem is a single degree or programme
type EducationItem struct {
	Degree    string `json:"degree"`
	School    string `json:"school"`
	Location  string `json:"location"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Normalize returns a copy with every string trimmed and every slice non-nil,
// so the document always encodes with all leaf fields present.
func (d ResumeDocument) Normalize() ResumeDocument {
	out := ResumeDocument{
		Header: Header{
			FullName: strings.TrimSpace(d.Header.FullName),
			Title:    strings.TrimSpace(d.Header.Title),
			Location: strings.TrimSpace(d.Header.Location),
			Email:    strings.TrimSpace(d.Header.Email),
			Phone:    strings.TrimSpace(d.Header.Phone),
			Links:    cleanList(d.Header.Links),
		},
		Summary: strings.TrimSpace(d.Summary),
		Skills: Skills{
			Core:      cleanList(d.Skills.Core),
			Tools:     cleanList(d.Skills.Tools),
			Languages: cleanList(d.Skills.Languages),
		},
		Experience:     make([]ExperienceItem, 0, len(d.Experience)),
		Education:      make([]EducationItem, 0, len(d.Education)),
		Certifications: cleanList(d.Certifications),
		Extras:         cleanList(d.Extras),
	}

	for _, exp := range d.Experience {
		out.Experience = append(out.Experience, ExperienceItem{
			Company:        strings.TrimSpace(exp.Company),
			Role:           strings.TrimSpace(exp.Role),
			Location:       strings.TrimSpace(exp.Location),
			EmploymentType: strings.TrimSpace(exp.EmploymentType),
			StartDate:      strings.TrimSpace(exp.StartDate),
			EndDate:        strings.TrimSpace(exp.EndDate),
			Bullets:        cleanList(exp.Bullets),
		})
	}

	for _, edu := range d.Education {
		out.Education = append(out.Education, EducationItem{
			Degree:    strings.TrimSpace(edu.Degree),
			School:    strings.TrimSpace(edu.School),
			Location:  strings.TrimSpace(edu.Location),
			StartDate: strings.TrimSpace(edu.StartDate),
			EndDate:   strings.TrimSpace(edu.EndDate),
		})
	}

	return out
}

// IsEmpty reports whether the document carries no candidate content beyond the header name
func (d ResumeDocument) IsEmpty() bool {
	return d.Summary == "" &&
		len(d.Experience) == 0 &&
		len(d.Education) == 0 &&
		len(d.Skills.Core)+len(d.Skills.Tools)+len(d.Skills.Languages) == 0
}

// cleanList trims entries and drops empty ones; never returns nil
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
