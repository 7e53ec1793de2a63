package injective

import (
	"errors"
	"fmt"
)

// Sentinel errors for gateway failures.
var (
	// ErrNotFound is returned when the chain reports the resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTransientUpstream marks a retryable failure (network error, 429, 5xx).
	ErrTransientUpstream = errors.New("transient upstream failure")
	// ErrUpstreamFatal marks a call that failed permanently or exhausted retries.
	ErrUpstreamFatal = errors.New("upstream failure")
	// ErrMalformedInput is returned for caller-supplied values that cannot be queried.
	ErrMalformedInput = errors.New("malformed input")
	// ErrDecoding is returned when an upstream payload cannot be decoded.
	ErrDecoding = errors.New("decoding failure")
)

// UpstreamError describes a call that failed after the retry policy ran out.
// It matches both ErrUpstreamFatal and the underlying cause under errors.Is.
type UpstreamError struct {
	Endpoint   string
	Attempts   int
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d after %d attempt(s): %v", e.Endpoint, e.StatusCode, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s: failed after %d attempt(s): %v", e.Endpoint, e.Attempts, e.Err)
}

// Unwrap exposes ErrUpstreamFatal and the cause.
func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstreamFatal, e.Err}
}

// statusError carries a non-200 HTTP status.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("unexpected status %d", e.code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

func (e *statusError) Unwrap() error {
	if e.code == 404 {
		return ErrNotFound
	}
	if e.code == 429 || e.code >= 500 {
		return ErrTransientUpstream
	}
	return nil
}
