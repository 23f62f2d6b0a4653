package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Result is the outcome of a single backend call. Exactly one of Value or Err
// is meaningful: when Err is nil the call succeeded and Value holds the
// decoded payload.
type Result[T any] struct {
	Value T
	// Message is the backend's optional human-readable message on success
	// (for example the subscribe confirmation text).
	Message string
	Err     error
}

// Empty is the payload of calls whose response carries no entity.
type Empty struct{}

func okResult[T any](v T, msg string) Result[T] {
	return Result[T]{Value: v, Message: msg}
}

func errResult[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// Unwrap returns the payload and error as a conventional Go pair.
func (r Result[T]) Unwrap() (T, error) { return r.Value, r.Err }

// ErrUnsuccessful is wrapped by errors for 2xx responses with success=false.
var ErrUnsuccessful = errors.New("api: unsuccessful response")

// Error is the failure of a backend call.
type Error struct {
	// Op names the operation, e.g. "admin.team.list".
	Op string
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	// Message is the backend's "message" field when it sent one.
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": request failed"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// MessageOr returns the backend's message carried by err, or fallback when
// the error has none.
func MessageOr(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
