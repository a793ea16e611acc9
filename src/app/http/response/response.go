// Package response writes the JSON envelopes of the user directory API.
//
// Successful calls answer {"data": ...}; failures answer
// {"error": {"code", "message", "field", "request_id"}} where code is one of
// the Code* constants below.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"recordkeeper/src/core/domain"
)

// Error codes carried in ErrorDetail.Code.
const (
	CodeBadRequest  = "BAD_REQUEST"
	CodeValidation  = "VALIDATION_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodeConflict    = "CONFLICT"
	CodeUnavailable = "UNAVAILABLE"
	CodeInternal    = "INTERNAL_ERROR"
)

// Success wraps a user, a list of users or a health report.
type Success struct {
	Data any `json:"data"`
}

// Error is the body of every non-2xx answer.
type Error struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail names what went wrong. Field is set only for validation
// failures, e.g. "email" or "id".
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Success{Data: data})
}

// Created answers a successful POST /v1/users.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Success{Data: data})
}

// NoContent answers a successful DELETE.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest is used when the body cannot be bound to a request DTO.
func BadRequest(c *gin.Context, message, requestID string) {
	fail(c, http.StatusBadRequest, ErrorDetail{Code: CodeBadRequest, Message: message, RequestID: requestID})
}

// ValidationError reports a rejected attribute of a user.
func ValidationError(c *gin.Context, field, message, requestID string) {
	fail(c, http.StatusBadRequest, ErrorDetail{Code: CodeValidation, Message: message, Field: field, RequestID: requestID})
}

func NotFound(c *gin.Context, message, requestID string) {
	fail(c, http.StatusNotFound, ErrorDetail{Code: CodeNotFound, Message: message, RequestID: requestID})
}

// Conflict reports a duplicate email.
func Conflict(c *gin.Context, message, requestID string) {
	fail(c, http.StatusConflict, ErrorDetail{Code: CodeConflict, Message: message, RequestID: requestID})
}

// ServiceUnavailable reports that no database connection could be acquired.
func ServiceUnavailable(c *gin.Context, message, requestID string) {
	fail(c, http.StatusServiceUnavailable, ErrorDetail{Code: CodeUnavailable, Message: message, RequestID: requestID})
}

// InternalError hides the cause; it is logged by the logging middleware
// through c.Error.
func InternalError(c *gin.Context, requestID string) {
	fail(c, http.StatusInternalServerError, ErrorDetail{
		Code:      CodeInternal,
		Message:   "An unexpected error occurred",
		RequestID: requestID,
	})
}

// FromDomainError picks the status for an error returned by the user service.
func FromDomainError(c *gin.Context, err error, requestID string) {
	switch {
	case domain.IsNotFound(err):
		NotFound(c, err.Error(), requestID)
	case domain.IsValidationError(err):
		var de *domain.DomainError
		if errors.As(err, &de) {
			ValidationError(c, de.Field, de.Message, requestID)
			return
		}
		BadRequest(c, err.Error(), requestID)
	case domain.IsConflict(err):
		Conflict(c, err.Error(), requestID)
	case domain.IsUnavailable(err):
		ServiceUnavailable(c, err.Error(), requestID)
	default:
		InternalError(c, requestID)
	}
}

func fail(c *gin.Context, status int, detail ErrorDetail) {
	c.JSON(status, Error{Error: detail})
}
