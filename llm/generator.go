package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/BaSui01/clinicalflow/types"
)

// Generator sends one prompt to a text-generation service and returns the
// raw text. Implementations make exactly one outbound call per invocation
// and never retry; failures are returned as *GenerationFailure.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationFailure is a transport or service failure of a single call.
type GenerationFailure struct {
	Code       types.ErrorCode `json:"code"`
	Message    string          `json:"message"`
	Provider   string          `json:"provider,omitempty"`
	HTTPStatus int             `json:"http_status,omitempty"`
	Cause      error           `json:"-"`
}

// Error implements the error interface.
func (f *GenerationFailure) Error() string {
	prefix := "generation failed"
	if f.Provider != "" {
		prefix = fmt.Sprintf("generation failed (%s)", f.Provider)
	}
	if f.Cause != nil && f.Cause.Error() != f.Message {
		return fmt.Sprintf("%s [%s]: %s: %v", prefix, f.Code, f.Message, f.Cause)
	}
	return fmt.Sprintf("%s [%s]: %s", prefix, f.Code, f.Message)
}

// Unwrap returns the underlying cause.
func (f *GenerationFailure) Unwrap() error {
	return f.Cause
}

// AsTypesError converts the failure into the shared error type.
func (f *GenerationFailure) AsTypesError() *types.Error {
	return types.NewError(f.Code, f.Message).
		WithProvider(f.Provider).
		WithHTTPStatus(f.HTTPStatus).
		WithCause(f.Cause)
}

// NewGenerationFailure creates a failure for provider.
func NewGenerationFailure(code types.ErrorCode, provider, message string, cause error) *GenerationFailure {
	return &GenerationFailure{Code: code, Message: message, Provider: provider, Cause: cause}
}

// AsGenerationFailure extracts a *GenerationFailure from an error chain.
func AsGenerationFailure(err error) (*GenerationFailure, bool) {
	var f *GenerationFailure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// ToGenerationFailure normalizes any error returned by a Generator.
// Context errors become canceled or timeout failures.
func ToGenerationFailure(err error, provider string) *GenerationFailure {
	if err == nil {
		return nil
	}
	if f, ok := AsGenerationFailure(err); ok {
		return f
	}
	switch {
	case errors.Is(err, context.Canceled):
		return NewGenerationFailure(types.ErrCanceled, provider, "request canceled", err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewGenerationFailure(types.ErrUpstreamTimeout, provider, "request deadline exceeded", err)
	default:
		return NewGenerationFailure(types.ErrUpstreamError, provider, err.Error(), err)
	}
}

// CheckContext returns a failure when ctx is already done, so callers can
// refuse to issue a call that would be abandoned.
func CheckContext(ctx context.Context, provider string) error {
	if err := ctx.Err(); err != nil {
		return ToGenerationFailure(err, provider)
	}
	return nil
}
