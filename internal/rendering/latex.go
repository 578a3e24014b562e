package rendering

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/cv-maker/internal/types"
)

// RenderLaTeX renders a document as LaTeX source.
// An empty templatePath uses the embedded template.
func RenderLaTeX(doc types.ResumeDocument, lang types.Language, templatePath string) (string, error) {
	var (
		tmpl *template.Template
		err  error
	)
	if templatePath == "" {
		tmpl, err = parseLaTeX("resume.tex.tmpl", mustTemplate("templates/resume.tex.tmpl"))
	} else {
		tmpl, err = parseTemplate(templatePath)
	}
	if err != nil {
		return "", err
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, buildTemplateData(doc, lang, " -- ")); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return result.String(), nil
}

// parseTemplate reads and parses a LaTeX template file
func parseTemplate(templatePath string) (*template.Template, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}
	return parseLaTeX("resume", string(content))
}

func parseLaTeX(name, content string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(template.FuncMap{
		"escape":     EscapeLaTeX,
		"escapeJoin": escapeJoin,
	}).Parse(content)
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}
	return tmpl, nil
}
