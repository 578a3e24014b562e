// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/cv-maker/internal/coercion"
	"github.com/jonathan/cv-maker/internal/pipeline"
	"github.com/jonathan/cv-maker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// rawPreviewRunes bounds the raw model text shown in a coercion trace
	rawPreviewRunes = 120
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// PrintDocument outputs a human-readable summary of a résumé document.
func (p *Printer) PrintDocument(doc types.ResumeDocument) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:     %s\n", orDash(doc.Header.FullName)))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", orDash(doc.Header.Title)))
	sb.WriteString(fmt.Sprintf("Location: %s\n", orDash(doc.Header.Location)))
	if doc.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary:  %s\n", doc.Summary))
	}
	sb.WriteString("\n")

	if len(doc.Experience) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(doc.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			exp := doc.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s", orDash(exp.Role)))
			if exp.Company != "" {
				sb.WriteString(fmt.Sprintf(" @ %s", exp.Company))
			}
			if len(exp.Bullets) > 0 {
				sb.WriteString(fmt.Sprintf(" (%d bullets)", len(exp.Bullets)))
			}
			sb.WriteString("\n")
		}
		if len(doc.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.Experience)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(doc.Education) > 0 {
		sb.WriteString("Education:\n")
		count := min(len(doc.Education), 3)
		for i := 0; i < count; i++ {
			edu := doc.Education[i]
			sb.WriteString(fmt.Sprintf("  • %s", orDash(edu.Degree)))
			if edu.School != "" {
				sb.WriteString(fmt.Sprintf(", %s", edu.School))
			}
			sb.WriteString("\n")
		}
		if len(doc.Education) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.Education)-3))
		}
		sb.WriteString("\n")
	}

	skills := len(doc.Skills.Core) + len(doc.Skills.Tools) + len(doc.Skills.Languages)
	if skills > 0 {
		sb.WriteString(fmt.Sprintf("Skills:   %d core, %d tools, %d languages\n",
			len(doc.Skills.Core), len(doc.Skills.Tools), len(doc.Skills.Languages)))
	}

	p.printBox("RESUME DOCUMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAttempt outputs the coercion trace for one model response.
func (p *Printer) PrintAttempt(attempt coercion.Attempt) {
	var sb strings.Builder

	raw := strings.Join(strings.Fields(attempt.Raw), " ")
	sb.WriteString(fmt.Sprintf("Raw:      %s\n", truncate(orDash(raw), rawPreviewRunes)))
	sb.WriteString("\n")

	for _, step := range attempt.Steps {
		switch {
		case step.Skipped:
			sb.WriteString(fmt.Sprintf("  - %s (skipped)\n", step.Strategy))
		case step.OK:
			sb.WriteString(fmt.Sprintf("  ✓ %s\n", step.Strategy))
		default:
			sb.WriteString(fmt.Sprintf("  ✗ %s", step.Strategy))
			if step.Err != nil {
				sb.WriteString(fmt.Sprintf(": %s", step.Err))
			}
			sb.WriteString("\n")
		}
	}

	if attempt.OK {
		sb.WriteString(fmt.Sprintf("\nRecovered via %s", attempt.Strategy))
	} else {
		sb.WriteString("\nNo strategy recovered an object")
	}

	p.printBox("COERCION TRACE", sb.String())
}

// PrintOutcome outputs where the final document came from and every coercion trace behind it.
func (p *Printer) PrintOutcome(outcome pipeline.Outcome) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:      %s\n", outcome.Source))
	sb.WriteString(fmt.Sprintf("Language:    %s\n", outcome.Language))
	sb.WriteString(fmt.Sprintf("Model calls: %d\n", outcome.ModelCalls))
	sb.WriteString(fmt.Sprintf("Attempts:    %d", len(outcome.Attempts)))
	p.printBox("GENERATION OUTCOME", sb.String())

	for _, attempt := range outcome.Attempts {
		p.PrintAttempt(attempt)
	}
	p.PrintDocument(outcome.Document)
}

// PrintProgress outputs a single progress event as one line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(event pipeline.ProgressEvent) {
	marker := "→"
	switch event.Category {
	case "fallback":
		marker = "!"
	case "pipeline":
		marker = "✓"
	}
	fmt.Fprintf(p.out, "%s [%s] %s\n", marker, event.Step, event.Message)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
