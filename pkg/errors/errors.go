// Package errors provides the categorised error taxonomy used at the
// service boundaries.
//
// The matching pipeline itself is total and never produces errors; this
// package serves the layers around it: input loading, configuration, and
// the CLI. Errors carry a category, a stable code, an optional suggestion
// for the user, free-form context, and a captured stack trace.
package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFile           ErrorCategory = "file"
	CategoryParse          ErrorCategory = "parse"
	CategoryValidation     ErrorCategory = "validation"
	CategoryConfiguration  ErrorCategory = "configuration"
	CategoryReconciliation ErrorCategory = "reconciliation"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFilePermission ErrorCode = "file_permission"

	// Parse errors
	CodeInvalidFormat ErrorCode = "invalid_format"
	CodeInvalidData   ErrorCode = "invalid_data"

	// Validation errors
	CodeMissingField ErrorCode = "missing_field"
	CodeOutOfRange   ErrorCode = "out_of_range"
	CodeDuplicateID  ErrorCode = "duplicate_id"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// Reconciliation errors
	CodeProcessingError ErrorCode = "processing_error"
)

// ReconcilerError is the base error type for all application errors
type ReconcilerError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *ReconcilerError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *ReconcilerError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate exit code for the error
func (e *ReconcilerError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryReconciliation:
		return 5
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *ReconcilerError) WithContext(key string, value interface{}) *ReconcilerError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *ReconcilerError) WithSuggestion(suggestion string) *ReconcilerError {
	e.Suggestion = suggestion
	return e
}

// newError creates a ReconcilerError with a captured stack trace
func newError(category ErrorCategory, code ErrorCode, message string, cause error) *ReconcilerError {
	err := &ReconcilerError{
		Category: category,
		Code:     code,
		Message:  message,
		Cause:    cause,
	}

	if tracer, ok := errors.WithStack(err).(interface{ StackTrace() errors.StackTrace }); ok {
		err.StackTrace = tracer.StackTrace()
	}

	return err
}

// FileError creates a file-category error for the given path
func FileError(code ErrorCode, path string, cause error) *ReconcilerError {
	message := fmt.Sprintf("file operation failed: %s", path)
	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied: %s", path)
	}

	return newError(CategoryFile, code, message, cause).WithContext("path", path)
}

// ParseError creates a parse-category error for the given input
func ParseError(code ErrorCode, source string, cause error) *ReconcilerError {
	message := fmt.Sprintf("failed to parse %s", source)
	if cause != nil {
		message = fmt.Sprintf("failed to parse %s: %v", source, cause)
	}

	return newError(CategoryParse, code, message, cause).WithContext("source", source)
}

// ValidationError creates a validation-category error for the given field
func ValidationError(code ErrorCode, field string, value interface{}, cause error) *ReconcilerError {
	message := fmt.Sprintf("validation failed for %s", field)
	if cause != nil {
		message = fmt.Sprintf("validation failed for %s: %v", field, cause)
	}

	err := newError(CategoryValidation, code, message, cause).WithContext("field", field)
	if value != nil {
		err.WithContext("value", value)
	}
	return err
}

// ConfigurationError creates a configuration-category error
func ConfigurationError(code ErrorCode, detail string, cause error) *ReconcilerError {
	message := fmt.Sprintf("configuration error: %s", detail)
	return newError(CategoryConfiguration, code, message, cause)
}

// ReconciliationError creates a reconciliation-category error for a
// processing step
func ReconciliationError(code ErrorCode, step string, cause error) *ReconcilerError {
	message := fmt.Sprintf("reconciliation failed during %s", step)
	if cause != nil {
		message = fmt.Sprintf("reconciliation failed during %s: %v", step, cause)
	}

	return newError(CategoryReconciliation, code, message, cause).WithContext("step", step)
}

// AsReconcilerError extracts a ReconcilerError from an error chain
func AsReconcilerError(err error) (*ReconcilerError, bool) {
	for err != nil {
		if re, ok := err.(*ReconcilerError); ok {
			return re, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}

// IsCategory reports whether the error chain contains a ReconcilerError of
// the given category
func IsCategory(err error, category ErrorCategory) bool {
	if re, ok := AsReconcilerError(err); ok {
		return re.Category == category
	}
	return false
}

// FormatStackTrace renders a captured stack trace for verbose output
func FormatStackTrace(err *ReconcilerError) string {
	if err.StackTrace == nil {
		return ""
	}

	var sb strings.Builder
	for _, frame := range err.StackTrace {
		sb.WriteString(fmt.Sprintf("%+v\n", frame))
	}
	return sb.String()
}
