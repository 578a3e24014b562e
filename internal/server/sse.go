package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/cv-maker/internal/pipeline"
)

// SSE event names sent by the stream endpoint
const (
	EventStep     = "step"
	EventError    = "error"
	EventComplete = "complete"
)

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer.
// CORS headers are left to the middleware so the allow-list is respected.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteError sends an error event carrying the status the plain endpoint would have used
func (s *SSEWriter) WriteError(err error) {
	body := toErrorResponse(err)
	s.WriteEvent(EventError, map[string]any{ //nolint:errcheck
		"status": HTTPStatus(err),
		"error":  body.Error,
		"detail": body.Detail,
	})
}

// WriteComplete sends the final document and where it came from
func (s *SSEWriter) WriteComplete(outcome pipeline.Outcome) {
	s.WriteEvent(EventComplete, map[string]any{ //nolint:errcheck
		"source":      outcome.Source,
		"lang":        outcome.Language,
		"model_calls": outcome.ModelCalls,
		"document":    outcome.Document,
	})
}
