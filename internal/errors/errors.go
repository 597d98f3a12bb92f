// Package errors holds the error taxonomy shared by the reconciliation stages.
// Stage failures are classified so that callers can decide between
// degrading (file access) and aborting (parse) without inspecting messages.
package errors

import (
	"errors"
	"fmt"
)

// New is the standard library errors.New.
var New = errors.New

var (
	// ErrFileAccess indicates an input file is missing or unreadable.
	ErrFileAccess = errors.New("file access")

	// ErrParse indicates a required field could not be parsed.
	ErrParse = errors.New("parse")

	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a value failed validation.
	ErrInvalidInput = errors.New("invalid input")
)

// FileAccessError reports a file that could not be opened, read or written.
type FileAccessError struct {
	Op   string // "open", "read", "write", "create"
	Path string
	Err  error
}

// Error implements the error interface
func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *FileAccessError) Is(target error) bool {
	return target == ErrFileAccess
}

// NewFileAccessError creates a new FileAccessError
func NewFileAccessError(op, path string, err error) *FileAccessError {
	return &FileAccessError{Op: op, Path: path, Err: err}
}

// ParseError reports a malformed value in a required field.
type ParseError struct {
	Path   string
	Line   int
	Column string
	Value  string
	Err    error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Path != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s line %d column %q: invalid value %q", e.Path, e.Line, e.Column, e.Value)
	}
	return fmt.Sprintf("parse error in column %q: invalid value %q", e.Column, e.Value)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new ParseError
func NewParseError(path string, line int, column, value string, err error) *ParseError {
	return &ParseError{Path: path, Line: line, Column: column, Value: value, Err: err}
}

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
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

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// IsFileAccess checks if an error is a file access error
func IsFileAccess(err error) bool {
	return errors.Is(err, ErrFileAccess)
}

// IsParse checks if an error is a parse error
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
