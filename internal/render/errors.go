package render

import (
	"errors"
	"fmt"
)

// ErrNoRenderer is matched by errors.Is when no entry accepts a value and
// the registry has no unmatched renderer.
var ErrNoRenderer = errors.New("no renderer matches value")

// ErrorCode categorizes render errors.
type ErrorCode string

const (
	// ErrCodeNoRenderer indicates no entry matched the value.
	ErrCodeNoRenderer ErrorCode = "NO_RENDERER"

	// ErrCodeRenderFailed indicates the matched renderer returned an error.
	ErrCodeRenderFailed ErrorCode = "RENDER_FAILED"
)

// Error is returned by Registry.Render and Registry.Resolve.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Entry names the entry whose renderer failed. Empty for NO_RENDERER.
	Entry string

	// ValueType is the dynamic type of the value being rendered.
	ValueType string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("%s: entry %q failed to render %s: %v", e.Code, e.Entry, e.ValueType, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.ValueType, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsRenderFailure returns true if a renderer failed while rendering a value.
// Uses errors.As to handle wrapped errors.
func IsRenderFailure(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeRenderFailed
	}
	return false
}

// IsNoRenderer returns true if no entry matched a value.
func IsNoRenderer(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeNoRenderer
	}
	return errors.Is(err, ErrNoRenderer)
}

func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", v)
}
