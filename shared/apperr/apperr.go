// Package apperr defines the typed operation failure shared by all
// services: a human-readable message, an HTTP-style status, an optional
// machine-readable code, and an optional redirect target for auth failures.
package apperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Machine-readable error codes consumed by calling UIs.
const (
	CodeDuplicateRuc    = "LEAD_DUPLICATE_RUC"
	CodeAlreadyResolved = "REASSIGNMENT_ALREADY_RESOLVED"
	CodeFeatureDisabled = "FEATURE_DISABLED"
)

// AppError is a terminal operation failure. A non-empty Redirect marks an
// auth-missing/wrong-place failure (the caller should navigate away); a 403
// without Redirect marks a permission-denied state on a resource that
// exists.
type AppError struct {
	Message  string `json:"error"`
	Status   int    `json:"-"`
	Code     string `json:"code,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

// New builds an AppError with an explicit status.
func New(status int, message string) *AppError {
	return &AppError{Message: message, Status: status}
}

// Validation is a 400 malformed-input failure.
func Validation(message string) *AppError {
	return &AppError{Message: message, Status: http.StatusBadRequest}
}

// Unauthorized is a 401 failure with a safe place to send the caller.
func Unauthorized(message, redirect string) *AppError {
	return &AppError{Message: message, Status: http.StatusUnauthorized, Redirect: redirect}
}

// Forbidden is a 403 failure without a redirect: the resource exists but is
// gated.
func Forbidden(message string) *AppError {
	return &AppError{Message: message, Status: http.StatusForbidden}
}

// NotFound is a 404 failure for a missing or soft-deleted entity.
func NotFound(message string) *AppError {
	return &AppError{Message: message, Status: http.StatusNotFound}
}

// Conflict is a 409 failure with a machine-readable kind.
func Conflict(message, code string) *AppError {
	return &AppError{Message: message, Status: http.StatusConflict, Code: code}
}

// Internal is a 500 failure for storage errors surfacing to the request.
func Internal(message string) *AppError {
	return &AppError{Message: message, Status: http.StatusInternalServerError}
}

// Respond writes err to the Gin context. Unknown error types render as 500
// with a generic message so storage details never leak.
func Respond(c *gin.Context, err error) {
	if appErr, ok := err.(*AppError); ok {
		body := gin.H{"error": appErr.Message}
		if appErr.Code != "" {
			body["code"] = appErr.Code
		}
		if appErr.Redirect != "" {
			body["redirect"] = appErr.Redirect
		}
		c.JSON(appErr.Status, body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
