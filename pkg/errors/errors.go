// Package errors provides custom error types for the divrec system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the reconciliation pipeline.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the divrec system
var (
	// ErrUnreadableSource indicates that a source table could not be decoded
	// with any supported separator/encoding combination
	ErrUnreadableSource = errors.New("unreadable source")

	// ErrNormalization indicates that a raw value could not be parsed under
	// its declared type's grammar
	ErrNormalization = errors.New("normalization failed")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")
)

// UnreadableSourceError is the fatal error raised when every
// separator/encoding combination has been exhausted for an input file.
type UnreadableSourceError struct {
	Path     string
	Attempts []string
}

// Error implements the error interface
func (e *UnreadableSourceError) Error() string {
	if len(e.Attempts) > 0 {
		return fmt.Sprintf("could not read %s: tried %s", e.Path, strings.Join(e.Attempts, ", "))
	}
	return fmt.Sprintf("could not read %s", e.Path)
}

// Is implements errors.Is support
func (e *UnreadableSourceError) Is(target error) bool {
	return target == ErrUnreadableSource
}

// NewUnreadableSourceError creates a new UnreadableSourceError
func NewUnreadableSourceError(path string, attempts []string) *UnreadableSourceError {
	return &UnreadableSourceError{Path: path, Attempts: attempts}
}

// NormalizationError represents a single field's value failing to parse.
// It is recovered locally: the field becomes null, a provenance note is
// recorded, and row processing continues.
type NormalizationError struct {
	Field   string
	Value   string
	Message string
}

// Error implements the error interface
func (e *NormalizationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("cannot normalize %s value %q: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("cannot normalize value %q: %s", e.Value, e.Message)
}

// Is implements errors.Is support
func (e *NormalizationError) Is(target error) bool {
	return target == ErrNormalization
}

// NewNormalizationError creates a new NormalizationError
func NewNormalizationError(field, value, message string) *NormalizationError {
	return &NormalizationError{Field: field, Value: value, Message: message}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "csv", etc.
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s file %s line %d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{Operation: operation, Path: path, Message: message, Err: err}
}

// Helper functions for error checking

// IsUnreadableSource checks if an error is an unreadable source error
func IsUnreadableSource(err error) bool {
	return errors.Is(err, ErrUnreadableSource)
}

// IsNormalization checks if an error is a normalization error
func IsNormalization(err error) bool {
	return errors.Is(err, ErrNormalization)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}
