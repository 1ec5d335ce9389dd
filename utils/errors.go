package utils

import (
	"errors"
	"net/http"
)

// Kind classifies an application error. Every failure the API reports
// belongs to exactly one kind.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unexpected"
	}
}

// HTTPStatus maps a kind to its response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// AppError is a classified error with a client-facing message.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewError(kind Kind, msg string) *AppError {
	return &AppError{Kind: kind, Message: msg}
}

func Validation(msg string) *AppError   { return NewError(KindValidation, msg) }
func Unauthorized(msg string) *AppError { return NewError(KindUnauthorized, msg) }
func Forbidden(msg string) *AppError    { return NewError(KindForbidden, msg) }
func NotFound(msg string) *AppError     { return NewError(KindNotFound, msg) }
func Conflict(msg string) *AppError     { return NewError(KindConflict, msg) }

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, msg string, err error) *AppError {
	return &AppError{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of the first AppError in err's chain,
// KindUnexpected when there is none.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}
