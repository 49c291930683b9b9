// Package errors defines the coded errors shared by the record store, the
// enrichment pipeline, and the HTTP surface. Handlers translate codes to
// status codes in exactly one place so the mapping never drifts.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Code classifies a failure independent of transport.
type Code string

const (
	// CodeInvalidRecord marks a record that failed schema validation.
	CodeInvalidRecord Code = "invalid_record"
	// CodeNotFound marks a record that does not exist on disk. This is a
	// normal outcome for lookups, not an exceptional one.
	CodeNotFound Code = "not_found"
	// CodeEnrichmentFailed marks an enricher that errored or panicked for a
	// single field.
	CodeEnrichmentFailed Code = "enrichment_failed"
	// CodeInternal is the catch-all for everything else.
	CodeInternal Code = "internal"
)

// Error carries a code alongside a human-readable message and an optional
// wrapped cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error with no cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error from a format string.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the HTTP status the API surface uses for it.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidRecord, CodeEnrichmentFailed, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
