package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-maker/internal/coercion"
	"github.com/jonathan/cv-maker/internal/observability"
	"github.com/jonathan/cv-maker/internal/schemas"
)

var coerceCmd = &cobra.Command{
	Use:   "coerce [file|-]",
	Short: "Recover a JSON object from raw model output",
	Long: `Runs the coercion strategies (fence stripping, string unwrapping, brace spans, trailing commas,
unescaping) against raw model text and prints the recovered object.

With --validate the object must also pass the resume schema and is printed as a conformed document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCoerce,
}

var (
	coerceValidate bool
	coerceTrace    bool
)

func init() {
	coerceCmd.Flags().BoolVar(&coerceValidate, "validate", false, "Validate against the resume schema and print the conformed document")
	coerceCmd.Flags().BoolVar(&coerceTrace, "trace", false, "Print the strategy trace to stderr")

	rootCmd.AddCommand(coerceCmd)
}

func runCoerce(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	data, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	out, attempt, err := coerceText(string(data), coerceValidate)
	if coerceTrace {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintAttempt(attempt)
	}
	if err != nil {
		return err
	}
	return writeOutput("", out, cmd.OutOrStdout())
}

// coerceText recovers an object from raw and returns it as indented JSON.
// With validate set the object is conformed into a resume document first.
func coerceText(raw string, validate bool) ([]byte, coercion.Attempt, error) {
	attempt := coercion.NewEngine().Run(raw)
	if !attempt.OK {
		return nil, attempt, fmt.Errorf("no strategy recovered a JSON object")
	}

	if validate {
		doc, err := schemas.Conform(attempt.Value)
		if err != nil {
			return nil, attempt, fmt.Errorf("recovered object is not a resume document: %w", err)
		}
		out, err := marshalDocument(doc)
		return out, attempt, err
	}

	data, err := json.MarshalIndent(attempt.Value, "", "  ")
	if err != nil {
		return nil, attempt, fmt.Errorf("failed to marshal object: %w", err)
	}
	return append(data, '\n'), attempt, nil
}
