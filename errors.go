package kitchenlog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned while the document store has not connected yet.
	ErrNotReady = errors.New("store not ready")

	// ErrCookNotFound is returned when an id is not in the active set.
	ErrCookNotFound = errors.New("cook not found")

	// ErrSaveInProgress is returned when a save for the same cook is already running.
	ErrSaveInProgress = errors.New("save already in progress")

	// ErrRendererUnavailable is returned when no PDF renderer is configured or reachable.
	ErrRendererUnavailable = errors.New("pdf renderer unavailable")
)

// ValidationError reports missing or malformed user input.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid is a shorthand for building a *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IOError wraps a file or network failure during persistence.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError describes a stored row that could not be decoded.
// Readers skip the line and keep going.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
