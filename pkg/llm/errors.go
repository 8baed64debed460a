package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies provider failures so callers can react uniformly
// regardless of which backend produced them.
type ErrorKind string

const (
	ErrKindRateLimit   ErrorKind = "rate_limit"
	ErrKindTimeout     ErrorKind = "timeout"
	ErrKindUnavailable ErrorKind = "unavailable"
	ErrKindParse       ErrorKind = "parse"
)

// ProviderError is the normalized error every adapter returns. Each concrete
// provider maps its own status codes and response shapes into this one type,
// keeping everything above the adapter provider-agnostic.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Status   int
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider error (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err with a provider name and kind.
func NewProviderError(provider string, kind ErrorKind, status int, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Status: status, Err: err}
}

// ClassifyTransportError maps transport-level failures to an ErrorKind.
func ClassifyTransportError(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrKindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrKindTimeout
	}
	return ErrKindUnavailable
}

// ClassifyStatus maps an HTTP status code to an ErrorKind.
func ClassifyStatus(status int) ErrorKind {
	if status == 429 {
		return ErrKindRateLimit
	}
	return ErrKindUnavailable
}
