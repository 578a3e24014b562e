package rendering

import (
	"embed"
	"html/template"
	"strings"
	"sync"

	"github.com/jonathan/cv-maker/internal/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	htmlOnce sync.Once
	htmlTmpl *template.Template
	htmlErr  error
)

func mustTemplate(name string) string {
	b, err := templateFS.ReadFile(name)
	if err != nil {
		panic("rendering: missing embedded template " + name)
	}
	return string(b)
}

func htmlTemplate() (*template.Template, error) {
	htmlOnce.Do(func() {
		htmlTmpl, htmlErr = template.New("resume.html.tmpl").
			Funcs(template.FuncMap{"join": strings.Join}).
			Parse(mustTemplate("templates/resume.html.tmpl"))
		if htmlErr != nil {
			htmlErr = &TemplateError{Message: "failed to parse HTML template", Cause: htmlErr}
		}
	})
	return htmlTmpl, htmlErr
}

// RenderHTML renders a single-column, ATS-friendly HTML page with headings in lang
func RenderHTML(doc types.ResumeDocument, lang types.Language) (string, error) {
	tmpl, err := htmlTemplate()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, buildTemplateData(doc, lang, " – ")); err != nil {
		return "", &TemplateError{Message: "failed to execute HTML template", Cause: err}
	}
	return sb.String(), nil
}
