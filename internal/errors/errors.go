package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// User-facing messages. Store faults never leak driver details to the caller.
const (
	ServerErrorMessage   = "Some error occurred! We are working on fixing this, sorry for the inconvenience!"
	DuplicateNameMessage = "Task name must be unique. The task name is already in use"
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Code:    "DATABASE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    "INVALID_INPUT",
		Context: map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// NewConflictError reports a uniqueness violation on the given field.
func NewConflictError(field string, value string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: fmt.Sprintf("duplicate %s: %s", field, value),
		Code:    "DUPLICATE_KEY",
		Cause:   cause,
		Context: map[string]interface{}{
			"field": field,
			"value": value,
		},
	}
}

// NewDuplicateNameError is the conflict raised when a task name is already taken.
func NewDuplicateNameError(name string, cause error) *AppError {
	return NewConflictError("name", name, cause)
}

// NewPreconditionError reports use of a resource whose precondition does not hold,
// such as a store that was never connected or has been closed. It is not retryable.
func NewPreconditionError(resource string, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypePrecondition,
		Message: fmt.Sprintf("%s: %s", resource, reason),
		Code:    "PRECONDITION_FAILED",
		Context: map[string]interface{}{
			"resource": resource,
			"reason":   reason,
		},
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// IsConflict reports whether err is a uniqueness conflict.
func IsConflict(err error) bool {
	return IsErrorType(err, ErrorTypeConflict)
}

// IsPrecondition reports whether err is a precondition failure.
func IsPrecondition(err error) bool {
	return IsErrorType(err, ErrorTypePrecondition)
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation:
			return appErr.Message
		case ErrorTypeNotFound:
			return appErr.Message
		case ErrorTypeInvalidInput:
			return appErr.Message
		case ErrorTypeConflict:
			return DuplicateNameMessage
		default:
			return ServerErrorMessage
		}
	}
	return ServerErrorMessage
}

// HTTPStatus maps an error onto the status code the web layer answers with.
func HTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeInvalidInput:
			return http.StatusBadRequest
		case ErrorTypeNotFound:
			return http.StatusNotFound
		case ErrorTypeConflict:
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput, ErrorTypeConflict:
			return false // These are user errors, not system errors
		case ErrorTypeDatabase, ErrorTypePrecondition:
			return true // These are system errors that should be logged
		default:
			return true
		}
	}
	return true // Unknown errors should be logged
}
