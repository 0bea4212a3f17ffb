package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failure for transport mapping. REST and GraphQL map
// kinds to status codes through the same table so the two surfaces cannot
// diverge.
type ErrorKind string

const (
	KindUnauthenticated ErrorKind = "UNAUTHENTICATED" // missing/invalid/expired identity proof
	KindUnauthorized    ErrorKind = "UNAUTHORIZED"    // valid identity, insufficient permission
	KindBadRequest      ErrorKind = "BAD_REQUEST"     // malformed business request
	KindNotFound        ErrorKind = "NOT_FOUND"       // referenced entity absent
	KindValidation      ErrorKind = "VALIDATION"      // schema-level field violations
	KindInternal        ErrorKind = "INTERNAL"        // storage/email/unexpected failure, sanitized
)

// AppError is the typed error carried across service boundaries. Internal
// causes stay attached for logging but are stripped before serialization.
type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string // populated for KindValidation only
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.cause }

// HTTPStatus maps the error kind to its status code.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindUnauthorized:
		return http.StatusForbidden
	case KindBadRequest, KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Unauthenticated() *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: "Unauthenticated"}
}

func Unauthorized(message string) *AppError {
	if message == "" {
		message = "Unauthorized"
	}
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func BadRequest(message string) *AppError {
	return &AppError{Kind: KindBadRequest, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func Validation(fields map[string]string) *AppError {
	return &AppError{Kind: KindValidation, Message: "Validation failed", Fields: fields}
}

// Internal wraps a collaborator failure. The cause is kept for logging; the
// outward message is always the sanitized one.
func Internal(cause error) *AppError {
	return &AppError{Kind: KindInternal, Message: "Something went wrong", cause: cause}
}

// AsAppError extracts an *AppError from err, or wraps err as Internal so raw
// driver/collaborator text never crosses the boundary.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// ErrorResponse is the wire shape for failed requests.
type ErrorResponse struct {
	Error struct {
		Code      string            `json:"code"`
		Message   string            `json:"message"`
		Details   map[string]string `json:"details,omitempty"`
		RequestID string            `json:"request_id,omitempty"`
	} `json:"error"`
}

// NewErrorResponse builds the outward representation of err.
func NewErrorResponse(err *AppError, requestID string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = string(err.Kind)
	resp.Error.Message = err.Message
	resp.Error.Details = err.Fields
	resp.Error.RequestID = requestID
	return &resp
}
