package pipeline

import "fmt"

// TransportError is returned when the first model call fails, either on the
// network, with a non-2xx upstream status or for missing configuration.
// Malformed model output never produces this error.
type TransportError struct {
	Message string
	Cause   error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}
