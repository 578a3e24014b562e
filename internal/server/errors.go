package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/cv-maker/internal/llm"
	"github.com/jonathan/cv-maker/internal/rendering"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrRateLimited indicates the client exhausted its request budget
type ErrRateLimited struct {
	RetryAfterSeconds int
}

func (e *ErrRateLimited) Error() string {
	return "rate limit exceeded"
}

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail any    `json:"detail,omitempty"`
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Configuration failures are checked before upstream failures because the
// pipeline wraps both in the same transport error.
func HTTPStatus(err error) int {
	var (
		cfgErr      *llm.ConfigError
		validErr    *ErrValidation
		limitErr    *ErrRateLimited
		apiErr      *llm.APICallError
		maxBytesErr *http.MaxBytesError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError
	case errors.As(err, &validErr):
		return http.StatusBadRequest
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &limitErr):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// toErrorResponse converts err into a client-safe body.
// Upstream bodies are already truncated and never carry our credentials.
func toErrorResponse(err error) ErrorResponse {
	var (
		cfgErr    *llm.ConfigError
		validErr  *ErrValidation
		limitErr  *ErrRateLimited
		apiErr    *llm.APICallError
		renderErr *rendering.RenderError
		tmplErr   *rendering.TemplateError
	)

	switch {
	case errors.As(err, &cfgErr):
		return ErrorResponse{Error: "Server misconfigured", Detail: cfgErr.Message}
	case errors.As(err, &validErr):
		return ErrorResponse{Error: "Invalid request", Detail: map[string]string{"field": validErr.Field, "message": validErr.Message}}
	case errors.As(err, &limitErr):
		return ErrorResponse{Error: "Rate limit exceeded", Detail: map[string]int{"retry_after": limitErr.RetryAfterSeconds}}
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorResponse{Error: "Request timed out"}
	case errors.As(err, &apiErr):
		return ErrorResponse{Error: "Upstream error", Detail: map[string]any{
			"provider": apiErr.Provider,
			"status":   apiErr.Status,
			"body":     apiErr.Body,
		}}
	case errors.As(err, &renderErr), errors.As(err, &tmplErr):
		return ErrorResponse{Error: "Render failed", Detail: err.Error()}
	default:
		return ErrorResponse{Error: "Internal server error"}
	}
}

// validationError converts validator output into an *ErrValidation for the first failing field
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: fmt.Sprintf("failed %q constraint", fe.Tag())}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}
