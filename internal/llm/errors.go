package llm

import "fmt"

// maxErrorBody bounds how much of an upstream error body is kept
const maxErrorBody = 500

// ConfigError represents missing or invalid backend configuration
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("llm config error: %s", e.Message)
}

// APICallError represents a transport failure or a non-2xx upstream response
type APICallError struct {
	Provider Provider
	Status   int    // upstream HTTP status, 0 when no response was received
	Body     string // truncated upstream body
	Message  string
	Cause    error
}

func (e *APICallError) Error() string {
	msg := fmt.Sprintf("%s API call failed: %s", e.Provider, e.Message)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

func truncateBody(body string) string {
	if len(body) <= maxErrorBody {
		return body
	}
	return body[:maxErrorBody]
}
