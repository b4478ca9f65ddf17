package xmlerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrMalformedInput indicates an input document is not well-formed or unreadable.
	ErrMalformedInput = errors.New("malformed input")

	// ErrMissingPropertyList indicates no match properties were available.
	ErrMissingPropertyList = errors.New("missing property list")

	// ErrOutputWrite indicates the merged document could not be written.
	ErrOutputWrite = errors.New("output write error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// MalformedInputError represents a failure to load an input document.
// This covers XML syntax errors, well-formedness violations (mismatched
// tags, missing or repeated root element) and unreadable paths.
type MalformedInputError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *MalformedInputError) Error() string {
	msg := "malformed input"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *MalformedInputError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// MissingPropertyListError is returned when a merge has no match properties.
// Callers normally never see it because an empty list falls back to the
// default "id" property; it surfaces when a caller disables that fallback.
type MissingPropertyListError struct {
	// Source names where the empty list came from (e.g. a config file path)
	Source string
}

// Error returns a human-readable error message.
func (e *MissingPropertyListError) Error() string {
	msg := "missing property list"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	return msg + ": at least one match property is required"
}

// Is reports whether target matches this error type.
func (e *MissingPropertyListError) Is(target error) bool {
	return target == ErrMissingPropertyList
}

// OutputWriteError represents a failure to write the merged document.
type OutputWriteError struct {
	// Path is the output path that could not be written
	Path string
	// Op is the step that failed: "create", "write", "sync", "rename" or "marshal"
	Op string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *OutputWriteError) Error() string {
	msg := "output write error"
	if e.Op != "" {
		msg += " (" + e.Op + ")"
	}
	if e.Path != "" {
		msg += " for " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *OutputWriteError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *OutputWriteError) Is(target error) bool {
	return target == ErrOutputWrite
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, bad property expressions and unreadable
// configuration files.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Valid lists accepted values, when the option is an enumeration
	Valid []string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if len(e.Valid) > 0 {
		msg += " (valid: " + strings.Join(e.Valid, ", ") + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
