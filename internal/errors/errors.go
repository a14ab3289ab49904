// Package errors defines the closed error-kind enumeration the core surfaces
// across component boundaries, following the teacher's typed-error-with-Unwrap
// style rather than bare string errors.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Kind is the closed enumeration from the error handling design.
type Kind string

const (
	KindIndexUnavailable Kind = "index_unavailable"
	KindExtractFailed    Kind = "extract_failed"
	KindAmbiguousEntry   Kind = "ambiguous_entry"
	KindUnknownEntry     Kind = "unknown_entry"
	KindSessionIO        Kind = "session_io_error"
	KindCancelled        Kind = "cancelled"
	KindTimeout          Kind = "timeout"
	KindInternal         Kind = "internal_error"
)

// CoreError is the concrete error type carried across every component
// boundary. Op names the failing operation; Detail is free-form context
// (a path, an entry string, a session id).
type CoreError struct {
	Kind       Kind
	Op         string
	Detail     string
	Underlying error
	Timestamp  time.Time
}

// New creates a CoreError of the given kind.
func New(kind Kind, op string, err error) *CoreError {
	return &CoreError{Kind: kind, Op: op, Underlying: err, Timestamp: time.Now()}
}

// WithDetail attaches free-form context and returns the same error for chaining.
func (e *CoreError) WithDetail(detail string) *CoreError {
	e.Detail = detail
	return e
}

// Error implements the error interface.
func (e *CoreError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s): %v", e.Kind, e.Op, e.Detail, e.Underlying)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Op)
}

// Unwrap supports errors.Is/As against the underlying cause.
func (e *CoreError) Unwrap() error {
	return e.Underlying
}

// Is matches another CoreError by Kind, so callers can do
// errors.Is(err, &CoreError{Kind: KindTimeout}).
func (e *CoreError) Is(target error) bool {
	var other *CoreError
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// Convenience constructors mirroring the teacher's per-category builders.

func IndexUnavailable(op string) *CoreError { return New(KindIndexUnavailable, op, nil) }

func ExtractFailed(path string, err error) *CoreError {
	return New(KindExtractFailed, "extract", err).WithDetail(path)
}

func AmbiguousEntry(entry string) *CoreError {
	return New(KindAmbiguousEntry, "resolve_entry", nil).WithDetail(entry)
}

func UnknownEntry(entry string) *CoreError {
	return New(KindUnknownEntry, "resolve_entry", nil).WithDetail(entry)
}

func SessionIO(sessionID string, err error) *CoreError {
	return New(KindSessionIO, "delta_reconcile", err).WithDetail(sessionID)
}

func Cancelled(op string) *CoreError { return New(KindCancelled, op, nil) }

func Timeout(op string) *CoreError { return New(KindTimeout, op, nil) }

func Internal(op string, err error) *CoreError { return New(KindInternal, op, err) }

// MultiError aggregates independent failures (e.g. per-file extraction errors
// collected during an index build) without aborting the caller.
type MultiError struct {
	Errors []error
}

func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return &MultiError{Errors: filtered}
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors (first: %v)", len(e.Errors), e.Errors[0])
}

func (e *MultiError) Unwrap() []error {
	return e.Errors
}
