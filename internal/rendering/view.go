// Package rendering turns a ResumeDocument into HTML, LaTeX or PDF.
package rendering

import (
	"strings"

	"github.com/jonathan/cv-maker/internal/types"
)

// Headings holds the section titles for one language
type Headings struct {
	Summary        string
	Experience     string
	Education      string
	Skills         string
	Core           string
	Tools          string
	Languages      string
	Certifications string
	Extras         string
	Present        string
}

var headings = map[types.Language]Headings{
	types.LanguageEnglish: {
		Summary:        "Summary",
		Experience:     "Experience",
		Education:      "Education",
		Skills:         "Skills",
		Core:           "Core",
		Tools:          "Tools",
		Languages:      "Languages",
		Certifications: "Certifications",
		Extras:         "Additional Information",
		Present:        "Present",
	},
	types.LanguageIndonesian: {
		Summary:        "Ringkasan",
		Experience:     "Pengalaman Kerja",
		Education:      "Pendidikan",
		Skills:         "Keahlian",
		Core:           "Inti",
		Tools:          "Perangkat",
		Languages:      "Bahasa",
		Certifications: "Sertifikasi",
		Extras:         "Informasi Tambahan",
		Present:        "Sekarang",
	},
}

// HeadingsFor returns the section titles for lang, defaulting to the service language
func HeadingsFor(lang types.Language) Headings {
	if h, ok := headings[lang]; ok {
		return h
	}
	return headings[types.DefaultLanguage]
}

// TemplateData represents the data structure passed to the resume templates
type TemplateData struct {
	Lang           string
	H              Headings
	Header         types.Header
	Contact        []string
	Summary        string
	Skills         []SkillGroup
	Companies      []CompanySection
	Education      []EducationEntry
	Certifications []string
	Extras         []string
}

// SkillGroup is one labelled skills line
type SkillGroup struct {
	Label string
	Items []string
}

// CompanySection represents a company with one or more roles
type CompanySection struct {
	Company string
	Roles   []RoleSection
}

// RoleSection represents a role within a company
type RoleSection struct {
	Role           string
	Location       string
	EmploymentType string
	Dates          string
	Bullets        []string
}

// EducationEntry is one education line with formatted dates
type EducationEntry struct {
	Degree   string
	School   string
	Location string
	Dates    string
}

// buildTemplateData constructs the template data from a document.
// dash separates start and end dates.
func buildTemplateData(doc types.ResumeDocument, lang types.Language, dash string) *TemplateData {
	doc = doc.Normalize()
	h := HeadingsFor(lang)

	data := &TemplateData{
		Lang:           string(lang),
		H:              h,
		Header:         doc.Header,
		Summary:        doc.Summary,
		Companies:      groupByCompany(doc.Experience, h.Present, dash),
		Certifications: doc.Certifications,
		Extras:         doc.Extras,
	}
	if data.Lang == "" {
		data.Lang = string(types.DefaultLanguage)
	}

	for _, c := range []string{doc.Header.Location, doc.Header.Email, doc.Header.Phone} {
		if c != "" {
			data.Contact = append(data.Contact, c)
		}
	}
	data.Contact = append(data.Contact, doc.Header.Links...)

	for _, g := range []SkillGroup{
		{Label: h.Core, Items: doc.Skills.Core},
		{Label: h.Tools, Items: doc.Skills.Tools},
		{Label: h.Languages, Items: doc.Skills.Languages},
	} {
		if len(g.Items) > 0 {
			data.Skills = append(data.Skills, g)
		}
	}

	for _, edu := range doc.Education {
		data.Education = append(data.Education, EducationEntry{
			Degree:   edu.Degree,
			School:   edu.School,
			Location: edu.Location,
			Dates:    formatDates(edu.StartDate, edu.EndDate, h.Present, dash),
		})
	}

	return data
}

// groupByCompany merges adjacent roles at the same company, keeping document order
func groupByCompany(items []types.ExperienceItem, present, dash string) []CompanySection {
	companies := make([]CompanySection, 0, len(items))
	for _, item := range items {
		role := RoleSection{
			Role:           item.Role,
			Location:       item.Location,
			EmploymentType: item.EmploymentType,
			Dates:          formatDates(item.StartDate, item.EndDate, present, dash),
			Bullets:        item.Bullets,
		}

		last := len(companies) - 1
		if last >= 0 && item.Company != "" && strings.EqualFold(companies[last].Company, item.Company) {
			companies[last].Roles = append(companies[last].Roles, role)
			continue
		}
		companies = append(companies, CompanySection{Company: item.Company, Roles: []RoleSection{role}})
	}
	return companies
}

// formatDates renders "start dash end", localizing open-ended ranges
func formatDates(start, end, present, dash string) string {
	if isPresent(end) {
		end = present
	}
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start
	default:
		return start + dash + end
	}
}

func isPresent(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present", "current", "now", "sekarang", "saat ini":
		return true
	}
	return false
}
