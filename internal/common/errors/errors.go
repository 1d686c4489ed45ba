// Package errors provides standardized error handling for the HTTP API.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeDuplicateRecord  ErrorCode = "DUPLICATE_RECORD"

	ErrCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeSessionRequired      ErrorCode = "SESSION_REQUIRED"
	ErrCodeSessionExpired       ErrorCode = "SESSION_EXPIRED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"

	ErrCodeStorageUploadFailed    ErrorCode = "STORAGE_UPLOAD_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeLLMTimeout       ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMRequestFailed ErrorCode = "LLM_REQUEST_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any, to errors.Is and errors.As.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// LogFields renders e for the map-based logger.
func (e *StandardError) LogFields() map[string]interface{} {
	fields := map[string]interface{}{
		"code":      string(e.Code),
		"retryable": e.Retryable,
	}
	if e.Details != "" {
		fields["details"] = e.Details
	}
	return fields
}

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidRequestError is returned when the request body cannot be decoded.
func NewInvalidRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidRequest, "Invalid request body", details, false, nil)
}

// NewValidationError carries a user-facing message, e.g. "Missing required fields".
func NewValidationError(message, details string) *StandardError {
	return newError(ErrCodeValidationFailed, message, details, false, nil)
}

func NewResourceNotFoundError(resource, details string) *StandardError {
	return newError(ErrCodeResourceNotFound, fmt.Sprintf("%s not found", resource), details, false, nil)
}

func NewDuplicateRecordError(message string) *StandardError {
	return newError(ErrCodeDuplicateRecord, message, "", false, nil)
}

func NewAuthenticationError(details string) *StandardError {
	return newError(ErrCodeAuthenticationFailed, "Invalid username or password", details, false, nil)
}

func NewSessionRequiredError() *StandardError {
	return newError(ErrCodeSessionRequired, "Authentication required", "", false, nil)
}

func NewSessionExpiredError(sessionID string) *StandardError {
	return newError(ErrCodeSessionExpired, "Session expired", fmt.Sprintf("sessionId: %s", sessionID), false, nil)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true, err)
}

func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true, err)
}

func NewQueryTimeoutError(operation string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout", fmt.Sprintf("operation: %s", operation), true, nil)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert failed", err.Error(), true, err)
}

func NewStorageUploadFailedError(err error) *StandardError {
	return newError(ErrCodeStorageUploadFailed, "Failed to store uploaded file", err.Error(), true, err)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Failed to send notification",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true, err)
}

func NewLLMTimeoutError() *StandardError {
	return newError(ErrCodeLLMTimeout, "Language model request timed out", "", true, nil)
}

func NewLLMRequestFailedError(err error) *StandardError {
	return newError(ErrCodeLLMRequestFailed, "Language model request failed", err.Error(), true, err)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// ==========================
// 3. HTTP Mapping
// ==========================

var httpStatusMapping = map[ErrorCode]int{
	ErrCodeInvalidRequest:           http.StatusBadRequest,
	ErrCodeValidationFailed:         http.StatusBadRequest,
	ErrCodeResourceNotFound:         http.StatusNotFound,
	ErrCodeDuplicateRecord:          http.StatusConflict,
	ErrCodeAuthenticationFailed:     http.StatusUnauthorized,
	ErrCodeSessionRequired:          http.StatusUnauthorized,
	ErrCodeSessionExpired:           http.StatusGone,
	ErrCodeDatabaseConnectionFailed: http.StatusServiceUnavailable,
	ErrCodeQueryExecutionFailed:     http.StatusInternalServerError,
	ErrCodeQueryTimeout:             http.StatusGatewayTimeout,
	ErrCodeDatabaseInsertFailed:     http.StatusInternalServerError,
	ErrCodeStorageUploadFailed:      http.StatusBadGateway,
	ErrCodeNotificationSendFailed:   http.StatusBadGateway,
	ErrCodeLLMTimeout:               http.StatusGatewayTimeout,
	ErrCodeLLMRequestFailed:         http.StatusBadGateway,
	ErrCodeInternal:                 http.StatusInternalServerError,
}

// HTTPStatus returns the response status for code.
func HTTPStatus(code ErrorCode) int {
	if status, ok := httpStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ==========================
// 4. Helpers
// ==========================

// Normalize returns err as a StandardError, wrapping unknown errors as internal.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// IsCode reports whether err is a StandardError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return errors.As(err, &stdErr) && stdErr.Code == code
}

// IsRetryableErrorCode reports whether code describes a transient failure.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeDatabaseConnectionFailed, ErrCodeQueryExecutionFailed, ErrCodeQueryTimeout,
		ErrCodeDatabaseInsertFailed, ErrCodeStorageUploadFailed, ErrCodeNotificationSendFailed,
		ErrCodeLLMTimeout, ErrCodeLLMRequestFailed:
		return true
	}
	return false
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeInvalidRequest, ErrCodeValidationFailed:
		return "validation"
	case ErrCodeResourceNotFound, ErrCodeDuplicateRecord:
		return "business_rule"
	case ErrCodeAuthenticationFailed, ErrCodeSessionRequired, ErrCodeSessionExpired:
		return "authentication"
	case ErrCodeDatabaseConnectionFailed, ErrCodeQueryExecutionFailed, ErrCodeQueryTimeout, ErrCodeDatabaseInsertFailed:
		return "database"
	case ErrCodeStorageUploadFailed, ErrCodeNotificationSendFailed, ErrCodeLLMTimeout, ErrCodeLLMRequestFailed:
		return "external_service"
	default:
		return "internal"
	}
}
