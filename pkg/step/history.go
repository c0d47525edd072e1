package step

// History is a push-down stack of past states with copy-on-push semantics.
// The zero value is not usable; create one with NewHistory.
type History[S any] struct {
	entries []S
	clone   func(S) S
}

// NewHistory creates an empty history. clone is applied to every pushed
// state so that later mutations of the caller's value cannot leak into the
// stack; a nil clone stores states as given.
func NewHistory[S any](clone func(S) S) *History[S] {
	return &History[S]{clone: clone}
}

// Push stores a copy of s as the most recent entry.
func (h *History[S]) Push(s S) {
	if h.clone != nil {
		s = h.clone(s)
	}
	h.entries = append(h.entries, s)
}

// Pop removes and returns the most recent entry. The caller owns the
// returned value. It reports false when the history is empty.
func (h *History[S]) Pop() (S, bool) {
	if len(h.entries) == 0 {
		var zero S
		return zero, false
	}
	last := len(h.entries) - 1
	s := h.entries[last]
	var zero S
	h.entries[last] = zero
	h.entries = h.entries[:last]
	return s, true
}

// Peek returns a copy of the most recent entry without removing it.
func (h *History[S]) Peek() (S, bool) {
	if len(h.entries) == 0 {
		var zero S
		return zero, false
	}
	s := h.entries[len(h.entries)-1]
	if h.clone != nil {
		s = h.clone(s)
	}
	return s, true
}

// Len returns the number of stored entries.
func (h *History[S]) Len() int { return len(h.entries) }

// Clear drops every entry.
func (h *History[S]) Clear() {
	clear(h.entries)
	h.entries = h.entries[:0]
}
