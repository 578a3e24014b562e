package coercion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// StepResult records one strategy tried against a raw blob
type StepResult struct {
	Strategy string `json:"strategy"`
	Skipped  bool   `json:"skipped,omitempty"`
	OK       bool   `json:"ok"`
	Err      error  `json:"-"`
}

// Attempt is the trace of coercing one raw text blob.
// Value is nil and OK false when every strategy failed.
type Attempt struct {
	Raw      string         `json:"raw"`
	Steps    []StepResult   `json:"steps"`
	Strategy string         `json:"strategy,omitempty"`
	Value    map[string]any `json:"value,omitempty"`
	OK       bool           `json:"ok"`
}

// Engine applies an ordered strategy list. The zero value uses DefaultStrategies.
type Engine struct {
	Strategies []Strategy
}

// NewEngine creates an engine with the default strategies
func NewEngine() *Engine {
	return &Engine{Strategies: DefaultStrategies()}
}

var errNotObject = errors.New("parsed value is not a JSON object")

// Run tries each strategy in order and stops at the first candidate that
// decodes to a JSON object. It never panics and never returns an error.
func (e *Engine) Run(raw string) Attempt {
	strategies := e.Strategies
	if strategies == nil {
		strategies = DefaultStrategies()
	}

	attempt := Attempt{Raw: raw}
	work := raw
	for _, s := range strategies {
		candidate, applies := s.Apply(work)
		if !applies {
			attempt.Steps = append(attempt.Steps, StepResult{Strategy: s.Name, Skipped: true})
			continue
		}
		if s.Keep {
			work = candidate
		}

		v, err := decodeObject(candidate)
		if err != nil {
			attempt.Steps = append(attempt.Steps, StepResult{Strategy: s.Name, Err: err})
			continue
		}

		attempt.Steps = append(attempt.Steps, StepResult{Strategy: s.Name, OK: true})
		attempt.Strategy = s.Name
		attempt.Value = v
		attempt.OK = true
		return attempt
	}
	return attempt
}

// Coerce runs the default engine and returns the parsed object, if any
func Coerce(raw string) (map[string]any, bool) {
	a := NewEngine().Run(raw)
	return a.Value, a.OK
}

// decodeObject strictly parses s as exactly one JSON object.
// Numbers are kept as json.Number so values round-trip unchanged.
func decodeObject(s string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after JSON value at offset %d", dec.InputOffset())
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return obj, nil
}

// Failed returns the names of strategies that were tried and did not succeed
func (a Attempt) Failed() []string {
	var out []string
	for _, s := range a.Steps {
		if !s.Skipped && !s.OK {
			out = append(out, s.Strategy)
		}
	}
	return out
}
