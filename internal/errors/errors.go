package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for callers. The kind plus Message are safe to
// return to untrusted clients; the wrapped error is for logs only.
type Kind string

const (
	KindValidation         Kind = "validation_error"
	KindVehicleUnavailable Kind = "vehicle_unavailable"
	KindConflict           Kind = "booking_conflict"
	KindNotFound           Kind = "not_found"
	KindTransaction        Kind = "transaction_failure"
	KindInternal           Kind = "internal_error"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func VehicleUnavailable(msg string) *Error {
	return &Error{Kind: KindVehicleUnavailable, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Transaction(msg string, err error) *Error {
	return &Error{Kind: KindTransaction, Message: msg, Err: err}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message of err. Untyped errors get a
// generic message so storage detail never leaks.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// Retryable reports whether the client may retry: conflicts after picking
// new dates, transaction failures as-is.
func Retryable(kind Kind) bool {
	return kind == KindConflict || kind == KindTransaction
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindVehicleUnavailable, KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTransaction:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
