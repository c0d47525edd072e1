package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", New(ErrCodeInvalidInput, "invalid integer %q", "x"), `INVALID_INPUT: invalid integer "x"`},
		{"wrapped", Wrap(ErrCodeInternal, errors.New("disk full"), "save session %s", "abc"), "INTERNAL_ERROR: save session abc: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapChain(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("render: %w", Wrap(ErrCodeInternal, cause, "load session"))

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
	if !errors.Is(err, &Error{Code: ErrCodeInternal}) {
		t.Error("errors.Is should match a bare *Error by code")
	}
	if errors.Is(err, &Error{Code: ErrCodeSessionNotFound}) {
		t.Error("errors.Is should not match another code")
	}
	if errors.Is(err, New(ErrCodeInternal, "load session")) {
		t.Error("a target with a message is compared by identity")
	}
}

func TestIsAndGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching", New(ErrCodeInvalidInput, "x"), ErrCodeInvalidInput, true},
		{"other code", New(ErrCodeInvalidInput, "x"), ErrCodeSessionNotFound, false},
		{"outermost wins", Wrap(ErrCodeInternal, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeInternal, true},
		{"through fmt", fmt.Errorf("ctx: %w", New(ErrCodeSessionExpired, "x")), ErrCodeSessionExpired, true},
		{"plain", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
		{"empty code", errors.New("plain"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
			if tt.want && GetCode(tt.err) != tt.code {
				t.Errorf("GetCode() = %q, want %q", GetCode(tt.err), tt.code)
			}
		})
	}
	if GetCode(nil) != "" {
		t.Error("GetCode(nil) should be empty")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{Wrap(ErrCodeInvalidInput, errors.New("bad digit"), "parse input"), "parse input: bad digit"},
		{fmt.Errorf("outer: %w", New(ErrCodeInvalidView, "unknown view")), "unknown view"},
		{errors.New("plain error"), "plain error"},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{New(ErrCodeInvalidView, "x"), http.StatusBadRequest},
		{New(ErrCodeInvalidConfig, "x"), http.StatusBadRequest},
		{New(ErrCodeUnknownAlgorithm, "x"), http.StatusNotFound},
		{New(ErrCodeSessionNotFound, "x"), http.StatusNotFound},
		{New(ErrCodeSessionExpired, "x"), http.StatusGone},
		{fmt.Errorf("wrapped: %w", New(ErrCodeInvalidFormat, "x")), http.StatusBadRequest},
		{New(Code("TEAPOT"), "x"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
