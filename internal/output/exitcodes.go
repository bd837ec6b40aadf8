// Package output provides structured output and error handling for the rex CLI.
package output

import (
	"errors"
	"strings"
)

// Exit codes:
// 0 = Success
// 1 = User error (bad args, missing config keys, prompt not found)
// 2 = System error (I/O error, persistence failure)
// 3 = State error (resolver queried before load)
const (
	ExitSuccess     = 0
	ExitUserError   = 1
	ExitSystemError = 2
	ExitStateError  = 3
)

// ExitError is an error that carries an exit code for the CLI.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

// Sentinel kinds for errors.Is checks. Constructors below attach one of
// these in the cause chain so callers can branch on the kind without
// string matching.
var (
	// ErrNotLoaded marks resolver operations attempted before a successful load.
	ErrNotLoaded = errors.New("configuration not loaded")

	// ErrValidation marks missing required configuration keys.
	ErrValidation = errors.New("configuration validation failed")

	// ErrFilesystem marks persistence failures (write, mkdir).
	ErrFilesystem = errors.New("filesystem operation failed")
)

// NewUserError creates an error for user-caused issues (exit code 1).
// Use for: bad arguments, unknown prompts, unknown targets.
func NewUserError(message string) *ExitError {
	return &ExitError{
		Code:    ExitUserError,
		Message: message,
	}
}

// NewSystemError creates an error for system failures (exit code 2).
// Use for: I/O errors, unexpected internal failures.
func NewSystemError(message string) *ExitError {
	return &ExitError{
		Code:    ExitSystemError,
		Message: message,
	}
}

// NewSystemErrorWithCause creates a system error wrapping an underlying cause.
func NewSystemErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitSystemError,
		Message: message,
		Cause:   cause,
	}
}

// NewNotLoadedError creates an error for resolver use before load (exit code 3).
// Always recoverable by calling load first; errors.Is(err, ErrNotLoaded) holds.
func NewNotLoadedError(operation string) *ExitError {
	return &ExitError{
		Code:    ExitStateError,
		Message: "configuration not loaded: call load before " + operation,
		Cause:   ErrNotLoaded,
	}
}

// NewValidationError creates an error enumerating every missing required
// key path, not just the first. errors.Is(err, ErrValidation) holds.
func NewValidationError(missingPaths []string) *ExitError {
	return &ExitError{
		Code:    ExitUserError,
		Message: "missing required configuration: " + strings.Join(missingPaths, ", "),
		Cause:   ErrValidation,
	}
}

// NewFilesystemError creates an error for a failed persistence operation,
// wrapping the underlying cause. Both errors.Is(err, ErrFilesystem) and
// errors.Is(err, cause) hold.
func NewFilesystemError(operation, path string, cause error) *ExitError {
	msg := operation + " " + path
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return &ExitError{
		Code:    ExitSystemError,
		Message: msg,
		Cause:   &wrappedCause{kind: ErrFilesystem, cause: cause},
	}
}

// wrappedCause chains a sentinel kind and an underlying cause so both
// remain reachable through errors.Is.
type wrappedCause struct {
	kind  error
	cause error
}

func (w *wrappedCause) Error() string {
	if w.cause == nil {
		return w.kind.Error()
	}
	return w.kind.Error() + ": " + w.cause.Error()
}

func (w *wrappedCause) Is(target error) bool {
	return errors.Is(w.kind, target)
}

func (w *wrappedCause) Unwrap() error {
	return w.cause
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil, ExitUserError for non-ExitError errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	// Default to user error for untyped errors
	return ExitUserError
}
