package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/bazi/internal/domain/bazi"
	apperrors "github.com/yanqian/bazi/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause.
func (e *HTTPError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return domainError(err, "internal_error")
}

// domainError maps service error codes onto HTTP statuses.
func domainError(err error, fallbackCode string) *HTTPError {
	switch {
	case apperrors.IsCode(err, bazi.CodeInvalidInput):
		return NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err)
	case apperrors.IsCode(err, bazi.CodeCalendarError):
		return NewHTTPError(http.StatusBadGateway, "calendar_unavailable", errMessage(err), err)
	case apperrors.IsCode(err, bazi.CodeCanceled):
		return NewHTTPError(http.StatusServiceUnavailable, "canceled", errMessage(err), err)
	default:
		return NewHTTPError(http.StatusInternalServerError, fallbackCode, "something went wrong", err)
	}
}

func errMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
