package errors

import "net/http"

// Kind classifies an engine failure independently of transport.
type Kind string

const (
	KindValidation  Kind = "VALIDATION"
	KindNotFound    Kind = "NOT_FOUND"
	KindNotUnlocked Kind = "NOT_UNLOCKED"
	KindConflict    Kind = "CONFLICT"
	KindTransport   Kind = "TRANSPORT"
	KindForbidden   Kind = "FORBIDDEN"
	KindInternal    Kind = "INTERNAL"
)

// AppError is a custom error type that includes an HTTP status code
type AppError struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is lets errors.Is match AppErrors by Kind, so callers can test against the
// sentinels below regardless of message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewAppError creates a new AppError
func NewAppError(kind Kind, code int, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Sentinels for errors.Is checks
var (
	ErrValidation  = NewAppError(KindValidation, http.StatusBadRequest, "Invalid request parameters")
	ErrNotFound    = NewAppError(KindNotFound, http.StatusNotFound, "Resource not found")
	ErrNotUnlocked = NewAppError(KindNotUnlocked, http.StatusForbidden, "Cosmetic not unlocked")
	ErrConflict    = NewAppError(KindConflict, http.StatusConflict, "Conditional write lost a race")
	ErrTransport   = NewAppError(KindTransport, http.StatusBadGateway, "Backing store unavailable")
	ErrForbidden   = NewAppError(KindForbidden, http.StatusForbidden, "Access denied")
	ErrInternal    = NewAppError(KindInternal, http.StatusInternalServerError, "Internal server error")
)

// Helper functions to create specific errors
func Validation(msg string) *AppError {
	return NewAppError(KindValidation, http.StatusBadRequest, msg)
}

func NotFound(msg string) *AppError {
	return NewAppError(KindNotFound, http.StatusNotFound, msg)
}

func NotUnlocked(msg string) *AppError {
	return NewAppError(KindNotUnlocked, http.StatusForbidden, msg)
}

func Conflict(msg string) *AppError {
	return NewAppError(KindConflict, http.StatusConflict, msg)
}

func Transport(msg string) *AppError {
	return NewAppError(KindTransport, http.StatusBadGateway, msg)
}

func Forbidden(msg string) *AppError {
	return NewAppError(KindForbidden, http.StatusForbidden, msg)
}

func Internal(msg string) *AppError {
	return NewAppError(KindInternal, http.StatusInternalServerError, msg)
}
