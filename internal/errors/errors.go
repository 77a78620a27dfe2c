package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
)

// Error types for different categories of failures
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeComputation   ErrorType = "computation"
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeIndex         ErrorType = "index"
)

// StructuredError provides rich error context
type StructuredError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
	Context   map[string]interface{}
	Stack     []uintptr
}

// Error implements the error interface
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Operation, e.Message)
}

// Unwrap returns the underlying cause
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new structured error
func New(errType ErrorType, operation, message string) *StructuredError {
	return &StructuredError{
		Type:      errType,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, operation, message string) *StructuredError {
	if err == nil {
		return nil
	}

	return &StructuredError{
		Type:      errType,
		Operation: operation,
		Message:   message,
		Cause:     err,
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
	}
}

// WithContext adds context information to an error
func (e *StructuredError) WithContext(key string, value interface{}) *StructuredError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// IsType reports whether err (or any error it wraps) is a StructuredError
// of the given type.
func IsType(err error, errType ErrorType) bool {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Type == errType
	}
	return false
}

// captureStack captures the current stack trace
func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(2, pcs[:]) // Skip this function and caller
	return pcs[:n]
}

// Common error constructors for frequent use cases

// NewValidationError creates a validation error
func NewValidationError(operation, message string) *StructuredError {
	return New(ErrorTypeValidation, operation, message)
}

// NewComputationError creates a computation error
func NewComputationError(operation, message string) *StructuredError {
	return New(ErrorTypeComputation, operation, message)
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(operation, message string) *StructuredError {
	return New(ErrorTypeConfiguration, operation, message)
}

// NewIndexError creates an index error
func NewIndexError(operation, message string) *StructuredError {
	return New(ErrorTypeIndex, operation, message)
}

// WrapValidationError wraps an error as a validation error
func WrapValidationError(err error, operation, message string) *StructuredError {
	return Wrap(err, ErrorTypeValidation, operation, message)
}

// WrapComputationError wraps an error as a computation error
func WrapComputationError(err error, operation, message string) *StructuredError {
	return Wrap(err, ErrorTypeComputation, operation, message)
}

// WrapConfigurationError wraps an error as a configuration error
func WrapConfigurationError(err error, operation, message string) *StructuredError {
	return Wrap(err, ErrorTypeConfiguration, operation, message)
}

// WrapIndexError wraps an error as an index error
func WrapIndexError(err error, operation, message string) *StructuredError {
	return Wrap(err, ErrorTypeIndex, operation, message)
}
