package sequence

import (
	"errors"
	"fmt"
)

// ErrInvalidDiagram is matched by errors.Is for every ValidationError.
var ErrInvalidDiagram = errors.New("invalid diagram")

// ValidationError describes the first problem found in a participant list
// or message log.
type ValidationError struct {
	// Field is the offending field, e.g. "messages[2].to".
	Field string

	// Index is the position of the offending participant or message.
	Index int

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid diagram: %s: %s", e.Field, e.Message)
}

// Is reports whether target is ErrInvalidDiagram.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidDiagram
}

// DiagramErrorCode categorizes diagram pipeline failures.
type DiagramErrorCode string

const (
	// ErrCodeCompilation indicates the compiler rejected the markup or failed.
	ErrCodeCompilation DiagramErrorCode = "DIAGRAM_COMPILATION"

	// ErrCodeCanonicalization indicates the compiler output was not well-formed XML.
	ErrCodeCanonicalization DiagramErrorCode = "XML_CANONICALIZATION"
)

// DiagramError is returned when a diagram cannot be compiled or canonicalized.
type DiagramError struct {
	// Code identifies the failing stage.
	Code DiagramErrorCode

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *DiagramError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DiagramError) Unwrap() error {
	return e.Err
}

// IsCompilationError returns true if the diagram compiler failed.
// Uses errors.As to handle wrapped errors.
func IsCompilationError(err error) bool {
	var de *DiagramError
	if errors.As(err, &de) {
		return de.Code == ErrCodeCompilation
	}
	return false
}

// IsCanonicalizationError returns true if compiler output could not be
// canonicalized.
func IsCanonicalizationError(err error) bool {
	var de *DiagramError
	if errors.As(err, &de) {
		return de.Code == ErrCodeCanonicalization
	}
	return false
}
