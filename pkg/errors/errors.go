// Package errors provides structured error handling for the demo generator.
// It defines AppError type with error codes so failure handling decisions
// (retry, model fallback, exit status) are made on codes, not message text.
package errors

import (
	"errors"
	"fmt"
)

// Error codes organized by category
const (
	CodeSuccess = 0
	CodeUnknown = 1000

	// Configuration errors (1100-1199)
	CodeMissingCredential = 1100
	CodeModelNotAllowed   = 1101
	CodeBadConfig         = 1102

	// Synthesis errors (1200-1299)
	CodeAPITransient  = 1200 // retriable HTTP status or transport error, retries exhausted
	CodeModelNotFound = 1201 // endpoint rejected the requested model
	CodeRequestFailed = 1202 // non-retriable API rejection (bad voice, auth, etc.)

	// Output errors (1300-1399)
	CodeFileWriteError = 1300
)

// AppError represents a structured application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code int, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Is checks if the target error is an AppError with the specified code
func Is(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts error code from error, returns CodeUnknown if not AppError
func GetCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetMessage extracts message from error
func GetMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// Predefined common errors
var (
	ErrMissingCredential = New(CodeMissingCredential, "OPENAI_API_KEY not set")
)
