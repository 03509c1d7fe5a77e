package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Standard error codes
const (
	CodeValidationError      = "VALIDATION_ERROR"
	CodeNotFound             = "RESOURCE_NOT_FOUND"
	CodeConflict             = "CONFLICT"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeServiceUnavailable   = "SERVICE_UNAVAILABLE"
	CodeIntegrationNotFound  = "INTEGRATION_NOT_FOUND"
	CodeIntegrationInactive  = "INTEGRATION_INACTIVE"
	CodeOrganizationRequired = "ORGANIZATION_REQUIRED"
	CodeSyncInProgress       = "SYNC_IN_PROGRESS"
)

// AppError is an application error carrying a stable code and HTTP status.
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	HTTPStatus int               `json:"-"`
	Err        error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func ErrValidation(message string) *AppError {
	return New(CodeValidationError, message, http.StatusBadRequest)
}

func ErrNotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func ErrConflict(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict)
}

func ErrUnauthorized(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func ErrInternal(message string) *AppError {
	if message == "" {
		message = "an internal error occurred"
	}
	return New(CodeInternalError, message, http.StatusInternalServerError)
}

func ErrServiceUnavailable(service string) *AppError {
	return New(CodeServiceUnavailable, fmt.Sprintf("%s is temporarily unavailable", service), http.StatusServiceUnavailable)
}

func ErrIntegrationNotFound(id string) *AppError {
	return New(CodeIntegrationNotFound, "POS integration not found", http.StatusNotFound).WithDetail("integration_id", id)
}

func ErrIntegrationInactive(id string) *AppError {
	return New(CodeIntegrationInactive, "POS integration is inactive", http.StatusConflict).WithDetail("integration_id", id)
}

func ErrOrganizationRequired() *AppError {
	return New(CodeOrganizationRequired, "organization context is required", http.StatusBadRequest)
}

func ErrSyncInProgress(id string) *AppError {
	return New(CodeSyncInProgress, "a sync is already running for this integration", http.StatusConflict).WithDetail("integration_id", id)
}

// As extracts an *AppError from err, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Respond writes err as a JSON error body. Errors that are not AppErrors are
// reported as 500 without leaking their message.
func Respond(c *gin.Context, err error) {
	appErr, ok := As(err)
	if !ok {
		appErr = ErrInternal("")
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
		"details": appErr.Details,
	})
}
