package contracts

import (
	"context"
	"errors"
	"fmt"
)

// ChatProvider is the abstraction over model backends. Implementations
// send one prompt and return the complete response text.
type ChatProvider interface {
	GenerateResponse(ctx context.Context, prompt string) (string, error)
	Name() string
	Model() string
}

// ErrorKind classifies provider failures for retry decisions.
type ErrorKind int

const (
	ErrKindUnknown ErrorKind = iota
	ErrKindAuth
	ErrKindRateLimit
	ErrKindServer
)

// ProviderError carries the HTTP status and failure class of a backend call.
type ProviderError struct {
	Provider   string
	StatusCode int
	Kind       ErrorKind
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: API request failed with status code '%d' - %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// IsAuthError reports whether err is a credential failure, which callers
// must not retry.
func IsAuthError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Kind == ErrKindAuth
}

// IsRateLimitError reports whether err is a rate-limit rejection.
func IsRateLimitError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Kind == ErrKindRateLimit
}

// IsRetryable reports whether a backend call may be retried.
func IsRetryable(err error) bool {
	var pe *ProviderError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.Kind == ErrKindRateLimit || pe.Kind == ErrKindServer
}
