package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-maker/internal/rendering"
	"github.com/jonathan/cv-maker/internal/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume document as PDF, HTML or LaTeX",
	Long: `Renders a resume document JSON (bare, or wrapped as {"document","lang"}) into a printable format.
PDF output drives headless Chrome and needs --out.`,
	RunE: runRender,
}

var (
	renderDoc      string
	renderLang     string
	renderFormat   string
	renderTemplate string
	renderOut      string
)

func init() {
	renderCmd.Flags().StringVarP(&renderDoc, "doc", "d", "", "Path to the document JSON file, or - for stdin (required)")
	renderCmd.Flags().StringVarP(&renderLang, "lang", "l", "", "Heading language: en or id (overrides the document's lang)")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "pdf", "Output format: pdf, html or tex")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Path to a LaTeX template (tex only; defaults to the embedded one)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Path to the output file (default stdout, except pdf)")

	_ = renderCmd.MarkFlagRequired("doc")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(renderFormat)
	if format == "pdf" && renderOut == "" {
		return fmt.Errorf("--out is required for pdf output")
	}

	data, err := readInput(renderDoc, cmd.InOrStdin())
	if err != nil {
		return err
	}
	doc, docLang, err := loadDocument(data)
	if err != nil {
		return err
	}
	lang, err := resolveLanguage(renderLang, docLang)
	if err != nil {
		return err
	}

	var out []byte
	switch format {
	case "html":
		html, err := rendering.RenderHTML(doc, lang)
		if err != nil {
			return fmt.Errorf("failed to render HTML: %w", err)
		}
		out = []byte(html)
	case "tex", "latex":
		latex, err := rendering.RenderLaTeX(doc, lang, renderTemplate)
		if err != nil {
			return fmt.Errorf("failed to render LaTeX: %w", err)
		}
		out = []byte(latex)
	case "pdf":
		cfg, logger, err := loadSettings()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
		defer cancel()
		out, err = rendering.NewPDFRenderer(cfg.ChromePath, logger).Render(ctx, doc, lang)
		if err != nil {
			return fmt.Errorf("failed to render PDF: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q (want pdf, html or tex)", renderFormat)
	}

	if err := writeOutput(renderOut, out, cmd.OutOrStdout()); err != nil {
		return err
	}
	if renderOut != "" {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Rendered %s resume (%s): %s\n", format, headingLanguage(lang), renderOut)
	}
	return nil
}

func headingLanguage(lang types.Language) string {
	if lang == types.LanguageEnglish {
		return "English"
	}
	return "Indonesian"
}
