package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-maker/internal/fallback"
	"github.com/jonathan/cv-maker/internal/llm"
	"github.com/jonathan/cv-maker/internal/observability"
	"github.com/jonathan/cv-maker/internal/pipeline"
	"github.com/jonathan/cv-maker/internal/rendering"
	"github.com/jonathan/cv-maker/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a resume document from form inputs",
	Long: `Runs the generation pipeline once: normalize the inputs, call the model, coerce its output,
retry once with a reformat prompt and fall back to a deterministic document.

The input may be a {"inputs","lang"} request body, a bare inputs object, a JSON string or plain text.`,
	RunE: runGenerate,
}

var (
	generateInput   string
	generateLang    string
	generateOut     string
	generatePDF     string
	generateHTML    string
	generateOffline bool
	generateRescue  bool
	generateVerbose bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateInput, "input", "i", "-", "Path to the inputs file, or - for stdin")
	generateCmd.Flags().StringVarP(&generateLang, "lang", "l", "", "Target language: en or id (overrides the input's lang)")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Path to write the document JSON (default stdout)")
	generateCmd.Flags().StringVar(&generatePDF, "pdf", "", "Also print the document to this PDF path (requires Chrome)")
	generateCmd.Flags().StringVar(&generateHTML, "html", "", "Also write the printable HTML to this path")
	generateCmd.Flags().BoolVar(&generateOffline, "offline", false, "Skip the model and build the fallback document only")
	generateCmd.Flags().BoolVar(&generateRescue, "offline-fallback", false, "Build the fallback document when the model cannot be reached")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print pipeline progress and the coercion trace to stderr")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}

	data, err := readInput(generateInput, cmd.InOrStdin())
	if err != nil {
		return err
	}
	fields, reqLang, err := parseInputs(data)
	if err != nil {
		return err
	}
	lang, err := resolveLanguage(generateLang, reqLang)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.ErrOrStderr())
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	var outcome pipeline.Outcome
	if generateOffline {
		outcome = fallbackOutcome(fields, lang)
	} else {
		outcome, err = generateWithModel(ctx, cfg.LLMConfig(), fields, lang, logger, printer)
		if err != nil {
			if !generateRescue {
				return err
			}
			logger.Warn("model unavailable, using fallback document", "error", err)
			outcome = fallbackOutcome(fields, lang)
		}
	}

	if generateVerbose {
		printer.PrintOutcome(outcome)
	}

	out, err := marshalDocument(outcome.Document)
	if err != nil {
		return err
	}
	if err := writeOutput(generateOut, out, cmd.OutOrStdout()); err != nil {
		return err
	}

	if generateHTML != "" {
		html, err := rendering.RenderHTML(outcome.Document, lang)
		if err != nil {
			return fmt.Errorf("failed to render HTML: %w", err)
		}
		if err := writeOutput(generateHTML, []byte(html), cmd.OutOrStdout()); err != nil {
			return err
		}
	}

	if generatePDF != "" {
		renderCtx, renderCancel := context.WithTimeout(context.Background(), cfg.Timeout())
		defer renderCancel()
		pdf, err := rendering.NewPDFRenderer(cfg.ChromePath, logger).Render(renderCtx, outcome.Document, lang)
		if err != nil {
			return fmt.Errorf("failed to render PDF: %w", err)
		}
		if err := writeOutput(generatePDF, pdf, cmd.OutOrStdout()); err != nil {
			return err
		}
	}

	logger.Info("document generated", "source", outcome.Source, "lang", lang, "model_calls", outcome.ModelCalls)
	return nil
}

// generateWithModel runs the full pipeline against the configured backend
func generateWithModel(ctx context.Context, llmConfig *llm.Config, fields types.ResumeInputFields, lang types.Language, logger *slog.Logger, printer *observability.Printer) (pipeline.Outcome, error) {
	client, err := llm.NewClient(ctx, llmConfig)
	if err != nil {
		return pipeline.Outcome{}, fmt.Errorf("failed to create inference client: %w", err)
	}
	defer func() { _ = client.Close() }()

	gen := pipeline.NewGenerator(client, pipeline.Options{
		MaxTokens:   llmConfig.MaxTokens,
		Temperature: llmConfig.Temperature,
	}, logger)
	if generateVerbose {
		gen = gen.WithProgress(printer.PrintProgress)
	}

	outcome, err := gen.Generate(ctx, fields, lang)
	if err != nil {
		return pipeline.Outcome{}, fmt.Errorf("generation failed: %w", err)
	}
	return outcome, nil
}

func fallbackOutcome(fields types.ResumeInputFields, lang types.Language) pipeline.Outcome {
	return pipeline.Outcome{
		Document: fallback.Synthesize(fields),
		Source:   pipeline.SourceFallback,
		Language: lang,
	}
}
