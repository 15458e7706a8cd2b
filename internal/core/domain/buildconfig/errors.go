package buildconfig

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError reports a structurally malformed descriptor.
type ParseError struct {
	Source string
	Line   int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse error")
	if e.Source != "" {
		b.WriteString(" in ")
		b.WriteString(e.Source)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
	} else if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports a field that violates an invariant of the record.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Msg
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Msg)
}

// NotFoundError reports a reference (path, signing config, provider property)
// that could not be resolved.
type NotFoundError struct {
	Kind   string
	Name   string
	Detail string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s not found: %s", e.Kind, e.Name)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// NewParseError creates a ParseError without a wrapped cause
func NewParseError(source string, line int, format string, args ...any) *ParseError {
	return &ParseError{Source: source, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// NewValidationError creates a ValidationError for a single field
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// IsParseError reports whether err carries a ParseError
func IsParseError(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// IsValidationError reports whether err carries a ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFoundError reports whether err carries a NotFoundError
func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// Class names the error category for display. Unknown errors yield "error".
func Class(err error) string {
	switch {
	case err == nil:
		return ""
	case IsParseError(err):
		return "parse error"
	case IsValidationError(err):
		return "validation error"
	case IsNotFoundError(err):
		return "not found"
	default:
		return "error"
	}
}
