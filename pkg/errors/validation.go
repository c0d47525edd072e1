package errors

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Limits applied to user-supplied input.
const (
	MaxInputLength = 1024
	MaxTextLength  = 512
)

// ValidateInput checks a demo input sequence. Empty and single-element
// inputs are valid; they produce an already finished run.
func ValidateInput(values []int) error {
	if len(values) > MaxInputLength {
		return New(ErrCodeInvalidInput, "input too long (%d values, max %d)", len(values), MaxInputLength)
	}
	return nil
}

// ValidateText checks a string passed to the edit distance commands.
// It rejects control characters other than tab and strings longer than
// MaxTextLength runes.
func ValidateText(s string) error {
	n := 0
	for _, r := range s {
		n++
		if unicode.IsControl(r) && r != '\t' {
			return New(ErrCodeInvalidInput, "text contains control characters")
		}
	}
	if n > MaxTextLength {
		return New(ErrCodeInvalidInput, "text too long (%d characters, max %d)", n, MaxTextLength)
	}
	return nil
}

// ValidateSessionID checks that id is a UUID. Session IDs end up in
// storage keys and file names, so anything else is rejected early.
func ValidateSessionID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "session id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return New(ErrCodeSessionNotFound, "session %q not found", id)
	}
	return nil
}
