package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Client-visible messages for upstream failures. The wording is part of the
// public contract and is shared by every relay.
const (
	MsgUpstreamUnavailable = "An error occurred while fetching news"
	MsgUpstreamParse       = "Failed to parse news data"
)

// ---- Upstream (UPS) ----

// ErrUpstreamUnavailable covers network, DNS and timeout failures talking to
// an upstream. The cause is kept for server-side logging only.
func ErrUpstreamUnavailable(err error) *AppError {
	return Wrap("UPS_001", MsgUpstreamUnavailable, http.StatusInternalServerError, err)
}

// ErrUpstreamParse is returned when an upstream answered with a body that is
// not valid JSON.
func ErrUpstreamParse() *AppError {
	return New("UPS_002", MsgUpstreamParse, http.StatusBadRequest)
}

// ---- Validation (VAL) ----

// Validation returns a 400 for a malformed inbound request.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
