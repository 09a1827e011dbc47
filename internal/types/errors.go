package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for Dronify engine errors.
type ErrorCode string

// Action vocabulary error codes
const (
	ACTION_UNKNOWN        ErrorCode = "ACTION_UNKNOWN"
	ACTION_INVALID_PARAMS ErrorCode = "ACTION_INVALID_PARAMS"
)

// Command interpretation error codes
const (
	CLASSIFY_NO_MATCH     ErrorCode = "CLASSIFY_NO_MATCH"
	INFERENCE_UNAVAILABLE ErrorCode = "INFERENCE_UNAVAILABLE"
)

// Vehicle control error codes
const (
	VEHICLE_OP_FAILED   ErrorCode = "VEHICLE_OP_FAILED"
	VEHICLE_UNREACHABLE ErrorCode = "VEHICLE_UNREACHABLE"
	VEHICLE_NOT_ARMED   ErrorCode = "VEHICLE_NOT_ARMED"
)

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// EngineError represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type EngineError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is an EngineError with the same Code.
func (e *EngineError) Is(target error) bool {
	var engineErr *EngineError
	if errors.As(target, &engineErr) {
		return e.Code == engineErr.Code
	}
	return false
}

// NewError creates a new non-retryable EngineError with the given code and message.
func NewError(code ErrorCode, message string) *EngineError {
	return &EngineError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     nil,
	}
}

// NewRetryableError creates a new retryable EngineError with the given code and message.
// Use this for transient errors that may succeed on retry (e.g., a lagging simulator).
func NewRetryableError(code ErrorCode, message string) *EngineError {
	return &EngineError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     nil,
	}
}

// WrapError creates a new non-retryable EngineError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *EngineError {
	return &EngineError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     cause,
	}
}

// CodeOf extracts the ErrorCode from an error chain.
// Returns the empty string if the chain contains no EngineError.
func CodeOf(err error) ErrorCode {
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr.Code
	}
	return ""
}
