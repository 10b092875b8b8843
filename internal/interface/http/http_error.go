package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/aerosense/pkg/errors"
)

// HTTPError is an error already resolved to a status and a public code.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error { return e.Err }

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// codeStatus maps domain error codes onto response statuses. Unlisted codes are 500.
var codeStatus = map[string]int{
	apperrors.CodeInvalidInput:  http.StatusBadRequest,
	"invalid_request":           http.StatusBadRequest,
	apperrors.CodeUnauthorized:  http.StatusUnauthorized,
	"invalid_credentials":       http.StatusUnauthorized,
	"invalid_token":             http.StatusUnauthorized,
	apperrors.CodeForbidden:     http.StatusForbidden,
	apperrors.CodeInactive:      http.StatusForbidden,
	apperrors.CodeNotFound:      http.StatusNotFound,
	"user_not_found":            http.StatusNotFound,
	apperrors.CodeEmailExists:   http.StatusConflict,
	apperrors.CodeUsernameTaken: http.StatusConflict,
	"account_linking_disabled":  http.StatusConflict,
	"report_not_ready":          http.StatusConflict,
	apperrors.CodeUpstream:      http.StatusBadGateway,
	"oauth_exchange_failed":     http.StatusBadGateway,
	"auth_not_configured":       http.StatusServiceUnavailable,
}

// asHTTPError resolves any error into a response. AppError messages are public;
// their causes only reach the logs.
func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status, ok := codeStatus[appErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		message := appErr.Message
		if message == "" {
			message = http.StatusText(status)
		}
		return NewHTTPError(status, appErr.Code, message, err)
	}
	return NewHTTPError(http.StatusInternalServerError, apperrors.CodeInternal, "something went wrong", err)
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// respondDomainError maps a service error onto the response.
func respondDomainError(c *gin.Context, err error) {
	abortWithError(c, asHTTPError(err))
}
