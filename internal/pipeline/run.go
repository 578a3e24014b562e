// Package pipeline orchestrates resume generation: normalize, prompt, model
// call, coercion, a single reformat retry and the fallback document.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonathan/cv-maker/internal/cleaning"
	"github.com/jonathan/cv-maker/internal/coercion"
	"github.com/jonathan/cv-maker/internal/fallback"
	"github.com/jonathan/cv-maker/internal/llm"
	"github.com/jonathan/cv-maker/internal/logging"
	"github.com/jonathan/cv-maker/internal/prompts"
	"github.com/jonathan/cv-maker/internal/schemas"
	"github.com/jonathan/cv-maker/internal/types"
)

// Source says which stage produced the document
type Source string

// Document sources, in the order the pipeline tries them
const (
	SourceModel    Source = "model"
	SourceReformat Source = "reformat"
	SourceFallback Source = "fallback"
)

// Pipeline steps reported through ProgressEvent.Step
const (
	StepNormalize = "normalize"
	StepInference = "inference"
	StepCoerce    = "coerce"
	StepReformat  = "reformat"
	StepFallback  = "fallback"
	StepDone      = "done"
)

// StrategySchema is the trace entry recorded when a parsed object fails the schema gate
const StrategySchema = "schema"

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Options controls the model calls made by a Generator
type Options struct {
	MaxTokens   int
	Temperature float64
}

// DefaultOptions matches the llm package defaults
func DefaultOptions() Options {
	return Options{MaxTokens: llm.DefaultMaxTokens, Temperature: llm.DefaultTemperature}
}

// Outcome is the result of a successful Generate call.
// Document is always populated; Attempts holds one trace per coerced model output.
type Outcome struct {
	Document   types.ResumeDocument `json:"document"`
	Source     Source               `json:"source"`
	Language   types.Language       `json:"lang"`
	Attempts   []coercion.Attempt   `json:"attempts,omitempty"`
	ModelCalls int                  `json:"model_calls"`
}

// Generator runs the generation pipeline against one inference client.
// It holds no per-request state and is safe for concurrent use.
type Generator struct {
	Client     llm.Client
	Engine     *coercion.Engine
	Options    Options
	Logger     *slog.Logger
	OnProgress ProgressCallback
}

// NewGenerator creates a generator with the default engine and options
func NewGenerator(client llm.Client, opts Options, logger *slog.Logger) *Generator {
	return &Generator{
		Client:  client,
		Engine:  coercion.NewEngine(),
		Options: opts,
		Logger:  logger,
	}
}

// WithProgress returns a copy of g that reports progress to cb
func (g *Generator) WithProgress(cb ProgressCallback) *Generator {
	cp := *g
	cp.OnProgress = cb
	return &cp
}

// Generate produces a resume document for fields in lang.
// A transport or configuration failure on the first model call is returned
// as *TransportError with no document. Every other path yields a document:
// the model output, the reformatted output, or the fallback.
func (g *Generator) Generate(ctx context.Context, fields types.ResumeInputFields, lang types.Language) (Outcome, error) {
	log := logging.FromContext(ctx, g.Logger)
	runID := logging.RequestID(ctx)
	out := Outcome{Language: lang}

	if g.Client == nil {
		return out, &TransportError{Message: "no inference client configured", Cause: &llm.ConfigError{Message: "missing inference client"}}
	}

	cleaned := cleaning.CleanFields(fields)
	g.emit(runID, StepNormalize, "input", "Normalized input fields", nil)

	opts := g.callOptions()
	prompt := prompts.BuildResumePrompt(cleaned, lang)

	g.emit(runID, StepInference, "llm", fmt.Sprintf("Calling %s", g.Client.Model()), nil)
	first, err := g.Client.Run(ctx, prompt, opts)
	out.ModelCalls++
	if err != nil {
		log.Error("model call failed", "provider", g.Client.Provider(), "status", first.Status, "error", err)
		return out, &TransportError{Message: "model call failed", Cause: err}
	}

	doc, attempt, ok := g.coerce(first.RawText)
	out.Attempts = append(out.Attempts, attempt)
	g.emit(runID, StepCoerce, "coercion", coerceMessage(attempt), attempt.Steps)
	if ok {
		return g.finish(runID, log, out, doc, SourceModel), nil
	}

	log.Warn("model output could not be coerced, requesting reformat", "failed_strategies", attempt.Failed())
	g.emit(runID, StepReformat, "llm", "Asking the model to reformat its output", nil)

	second, err := g.Client.Run(ctx, prompts.BuildReformatPrompt(first.RawText), opts)
	out.ModelCalls++
	if err != nil {
		log.Warn("reformat call failed, using fallback", "status", second.Status, "error", err)
	} else {
		doc, attempt, ok = g.coerce(second.RawText)
		out.Attempts = append(out.Attempts, attempt)
		g.emit(runID, StepCoerce, "coercion", coerceMessage(attempt), attempt.Steps)
		if ok {
			return g.finish(runID, log, out, doc, SourceReformat), nil
		}
	}

	g.emit(runID, StepFallback, "fallback", "Building the document from the input fields", nil)
	return g.finish(runID, log, out, fallback.Synthesize(cleaned), SourceFallback), nil
}

// coerce runs the engine and the schema gate over one raw model output
func (g *Generator) coerce(raw string) (types.ResumeDocument, coercion.Attempt, bool) {
	engine := g.Engine
	if engine == nil {
		engine = coercion.NewEngine()
	}

	attempt := engine.Run(raw)
	if !attempt.OK {
		return types.ResumeDocument{}, attempt, false
	}

	doc, err := schemas.Conform(attempt.Value)
	if err != nil {
		attempt.Steps = append(attempt.Steps, coercion.StepResult{Strategy: StrategySchema, Err: err})
		attempt.OK = false
		return types.ResumeDocument{}, attempt, false
	}
	attempt.Steps = append(attempt.Steps, coercion.StepResult{Strategy: StrategySchema, OK: true})
	return doc, attempt, true
}

func (g *Generator) finish(runID string, log *slog.Logger, out Outcome, doc types.ResumeDocument, source Source) Outcome {
	out.Document = doc
	out.Source = source
	log.Info("resume generated", "source", source, "model_calls", out.ModelCalls, "lang", out.Language)
	g.emit(runID, StepDone, "pipeline", fmt.Sprintf("Document ready (source: %s)", source), out.Document)
	return out
}

func (g *Generator) callOptions() llm.Options {
	maxTokens := g.Options.MaxTokens
	if maxTokens <= 0 {
		maxTokens = llm.DefaultMaxTokens
	}
	return llm.Options{
		MaxTokens:   maxTokens,
		Temperature: g.Options.Temperature,
		System:      prompts.SystemPrompt(),
		JSON:        true,
	}
}

// emit calls the progress callback if configured
func (g *Generator) emit(runID, step, category, message string, content any) {
	if g.OnProgress != nil {
		g.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			RunID:    runID,
			Content:  content,
		})
	}
}

func coerceMessage(a coercion.Attempt) string {
	if a.OK {
		return fmt.Sprintf("Parsed model output (%s)", a.Strategy)
	}
	return "Model output could not be parsed"
}
