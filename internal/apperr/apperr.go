// Package apperr standardizes the error responses the API returns. Every
// error surfaced to a client carries a stable code from the taxonomy below;
// nothing propagates uncaught past the handler layer.
package apperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeMissingField = "MISSING_FIELD"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeConflict = "CONFLICT"

	// Persistence errors
	ErrCodePersistenceFailed = "PERSISTENCE_FAILED"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// APIError is the standardized error response body.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func New(code, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

func NewWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{Code: code, Message: message, Details: details}
}

// RespondWithError sends an error response.
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Unauthorized sends a 401 response.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, New(ErrCodeUnauthorized, message))
}

// BadRequest sends a 400 response for validation failures.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, New(ErrCodeInvalidInput, message))
}

// NotFound sends a 404 response.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, New(ErrCodeNotFound, message))
}

// Conflict sends a 409 response.
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, New(ErrCodeConflict, message))
}

// PersistenceFailed sends a 502 response with the per-record failures that
// occurred, so the caller can tell which records went through.
func PersistenceFailed(c *gin.Context, message string, details interface{}) {
	if message == "" {
		message = "Persistence operation failed"
	}
	RespondWithError(c, http.StatusBadGateway, NewWithDetails(ErrCodePersistenceFailed, message, details))
}

// InternalError sends a 500 response.
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, New(ErrCodeInternalError, message))
}
