// Package apperr carries the error taxonomy every operation boundary reports
// through: callers branch on Kind, transports map Kind to a status code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindConstraint   Kind = "CONSTRAINT"
	KindIO           Kind = "IO"
	KindConnectivity Kind = "CONNECTIVITY"
	KindInternal     Kind = "INTERNAL"
)

type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// HTTPStatus maps the kind to the status the dispatch layer responds with.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConstraint:
		return http.StatusUnprocessableEntity
	case KindConnectivity:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(resource string, id int64) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %d not found", resource, id)}
}

func Constraint(message string) *Error {
	return &Error{Kind: KindConstraint, Message: message}
}

func IO(message string) *Error {
	return &Error{Kind: KindIO, Message: message}
}

func Connectivity(message string) *Error {
	return &Error{Kind: KindConnectivity, Message: message}
}

func Internal(message string) *Error {
	return &Error{Kind: KindInternal, Message: message}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }
