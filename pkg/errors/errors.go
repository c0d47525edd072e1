// Package errors defines the coded errors shared by the CLI and the HTTP
// API. A Code names the failure for machines; the message is for people.
//
//	err := errors.New(errors.ErrCodeUnknownAlgorithm, "unknown algorithm %q", name)
//	if errors.Is(err, errors.ErrCodeUnknownAlgorithm) {
//	    // list the registered demos
//	}
//
//	err = errors.Wrap(errors.ErrCodeInternal, cause, "load session %s", id)
//
// Every code maps to the HTTP status the API answers with, see [Code.Status].
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidView      Code = "INVALID_VIEW"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeUnknownAlgorithm Code = "UNKNOWN_ALGORITHM"

	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
	ErrCodeSessionExpired  Code = "SESSION_EXPIRED"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidFormat:    http.StatusBadRequest,
	ErrCodeInvalidView:      http.StatusBadRequest,
	ErrCodeInvalidConfig:    http.StatusBadRequest,
	ErrCodeUnknownAlgorithm: http.StatusNotFound,
	ErrCodeSessionNotFound:  http.StatusNotFound,
	ErrCodeSessionExpired:   http.StatusGone,
	ErrCodeInternal:         http.StatusInternalServerError,
}

// Status returns the HTTP status for c; unknown codes are 500.
func (c Code) Status() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error carries a Code, a message for people and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is makes errors.Is(err, &Error{Code: c}) match any *Error with code c.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Cause == nil && t.Code == e.Code
}

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return code != "" && GetCode(err) == code
}

// UserMessage drops the code prefix: "parse input: bad digit" rather than
// "INVALID_INPUT: parse input: bad digit".
func UserMessage(err error) string {
	e, ok := asError(err)
	if !ok {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

// HTTPStatus maps err to a response status. Errors without a code are 500.
func HTTPStatus(err error) int {
	return GetCode(err).Status()
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
