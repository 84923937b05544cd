// Package errors provides structured error types for the wodoo toolkit.
//
// Every error surfaced by the manifest model and the resolver carries a
// machine-readable [Code] so the CLI and tests can branch on the kind of
// failure without matching message text:
//
//	err := errors.New(errors.ErrCodeModuleNotFound, "module %s not found", name)
//	if errors.Is(err, errors.ErrCodeModuleNotFound) {
//	    // ...
//	}
//
//	// Wrap a lower level error while keeping its chain intact
//	err := errors.Wrap(errors.ErrCodeManifestParse, origErr, "parse %s", path)
//
// These are developer-facing configuration and data errors. Nothing in this
// module retries them.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the manifest model and resolver.
const (
	// Manifest model
	ErrCodeNotAModule     Code = "NOT_A_MODULE"
	ErrCodeModuleNotFound Code = "MODULE_NOT_FOUND"
	ErrCodeManifestParse  Code = "MANIFEST_PARSE"
	ErrCodeInvalidRange   Code = "INVALID_RANGE"

	// Resolver
	ErrCodeDependencyNotFound    Code = "DEPENDENCY_NOT_FOUND"
	ErrCodeCyclicDependency      Code = "CYCLIC_DEPENDENCY"
	ErrCodeConflictingDependency Code = "CONFLICTING_DEPENDENCY"

	// Input validation
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeAlreadyExists Code = "ALREADY_EXISTS"

	// Collaborators
	ErrCodeDatabase Code = "DATABASE"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coder is implemented by the typed errors that carry their own code.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error, or a typed error such as
// *ConflictError, with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no coded error is found in the chain.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// ConflictError reports two external requirements that normalize to the same
// package name. Both entries are kept verbatim for the operator.
type ConflictError struct {
	Name   string // normalized package name
	First  string // first requirement, as declared
	Second string // conflicting requirement, as declared
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: not unique dependency %q:\n%s\n%s",
		ErrCodeConflictingDependency, e.Name, e.First, e.Second)
}

// Code returns the error code for this error type.
func (e *ConflictError) Code() Code {
	return ErrCodeConflictingDependency
}

// IsConflict reports whether err is, or wraps, a *ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// CycleError reports a dependency cycle. Path starts and ends with the same
// module name.
type CycleError struct {
	Path []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCodeCyclicDependency, strings.Join(e.Path, " -> "))
}

// Code returns the error code for this error type.
func (e *CycleError) Code() Code {
	return ErrCodeCyclicDependency
}
