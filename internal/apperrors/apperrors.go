// Package apperrors defines the error taxonomy shared by all services.
// Controllers map these to HTTP status codes in one place.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindForbidden
	KindNotFound
	KindStorage
	KindPersistence
	KindConnectivity
)

type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string {
	return e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}

func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, err: fmt.Errorf(format, args...)}
}

func Forbidden(format string, args ...interface{}) error {
	return &Error{Kind: KindForbidden, err: fmt.Errorf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, err: fmt.Errorf(format, args...)}
}

func Storage(format string, args ...interface{}) error {
	return &Error{Kind: KindStorage, err: fmt.Errorf(format, args...)}
}

func Persistence(format string, args ...interface{}) error {
	return &Error{Kind: KindPersistence, err: fmt.Errorf(format, args...)}
}

func Connectivity(format string, args ...interface{}) error {
	return &Error{Kind: KindConnectivity, err: fmt.Errorf(format, args...)}
}

// KindOf returns the taxonomy kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a NotFound taxonomy error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// HTTPStatus maps an error to the status code the API responds with.
// Unknown errors fall through to 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
