package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/cv-maker/internal/schemas"
	"github.com/jonathan/cv-maker/internal/types"
)

// readInput reads path, or stdin when path is empty or "-"
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

// writeOutput writes data to path, or to stdout when path is empty or "-"
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}

	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// parseInputs accepts a {"inputs","lang"} request body, a bare inputs object,
// a JSON string or plain text. The returned lang is empty when the input names none.
func parseInputs(data []byte) (types.ResumeInputFields, string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return types.ResumeInputFields{}, "", fmt.Errorf("input is empty")
	}

	switch trimmed[0] {
	case '{':
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return types.ResumeInputFields{}, "", fmt.Errorf("failed to parse input JSON: %w", err)
		}
		if _, ok := probe["inputs"]; ok {
			var req types.GenerateRequest
			if err := json.Unmarshal(trimmed, &req); err != nil {
				return types.ResumeInputFields{}, "", fmt.Errorf("failed to parse request JSON: %w", err)
			}
			if err := req.Validate(); err != nil {
				return types.ResumeInputFields{}, "", fmt.Errorf("invalid request: %w", err)
			}
			return req.Inputs, req.Lang, nil
		}
		fallthrough
	case '"':
		var fields types.ResumeInputFields
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return types.ResumeInputFields{}, "", fmt.Errorf("failed to parse inputs JSON: %w", err)
		}
		return fields, "", nil
	default:
		return types.ResumeInputFields{RawText: string(trimmed)}, "", nil
	}
}

// loadDocument reads a resume document, either bare or wrapped as
// {"document","lang"}. Loose shapes are conformed the same way model output is.
func loadDocument(data []byte) (types.ResumeDocument, string, error) {
	var v map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &v); err != nil {
		return types.ResumeDocument{}, "", fmt.Errorf("failed to parse document JSON: %w", err)
	}

	lang := ""
	if inner, ok := v["document"].(map[string]any); ok {
		lang, _ = v["lang"].(string)
		v = inner
	}

	doc, err := schemas.Conform(v)
	if err != nil {
		return types.ResumeDocument{}, "", fmt.Errorf("invalid document: %w", err)
	}
	return doc, lang, nil
}

// resolveLanguage prefers the flag over the input's own lang
func resolveLanguage(flag, fromInput string) (types.Language, error) {
	if flag != "" {
		return types.ParseLanguage(flag)
	}
	return types.ParseLanguage(fromInput)
}

func marshalDocument(doc types.ResumeDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return append(data, '\n'), nil
}
