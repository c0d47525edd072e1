package step

import (
	"cmp"
	"fmt"
)

// Frame is an immutable view of a controller's current state, ready for a
// renderer.
type Frame[T cmp.Ordered] struct {
	Algorithm string  `json:"algorithm"`
	Values    []T     `json:"values"`
	Highlight []int   `json:"highlight"`
	Pivot     int     `json:"pivot"`
	Runs      []Range `json:"runs,omitempty"`
	Active    int     `json:"active"`
	Depth     int     `json:"depth"`
	Done      bool    `json:"done"`
}

// Stepper is the host-facing contract of a step-through controller.
type Stepper[T cmp.Ordered] interface {
	// Name returns the algorithm name.
	Name() string
	// Frame returns the current frame without changing state.
	Frame() Frame[T]
	// Next performs one unit of work; a no-op once done.
	Next() Frame[T]
	// Prev undoes the most recent Next; a no-op with empty history.
	Prev() Frame[T]
	// Reset restores the original input and clears history.
	Reset() Frame[T]
	// Done reports whether the algorithm has finished.
	Done() bool
	// Depth returns the number of steps that can be undone.
	Depth() int
}

// Skipper is implemented by steppers that can advance without recording
// undo snapshots.
type Skipper interface {
	// Skip performs up to n steps and returns how many it performed.
	Skip(n int) int
}

// State is a (snapshot, cursor) pair.
type State[T cmp.Ordered, C any] struct {
	Data   []T
	Cursor C
}

// Controller is a step-through state machine parametrized by a Strategy.
// It is not safe for concurrent use.
type Controller[T cmp.Ordered, C any] struct {
	strategy Strategy[T, C]
	original []T
	current  State[T, C]
	history  *History[State[T, C]]
	skipped  int // steps below history with no snapshot
	touched  []int
	advanced bool
}

// New creates a controller over a private copy of input. It fails with
// ErrInvalidInput when the strategy is incomplete or an element is not
// comparable to itself (NaN).
func New[T cmp.Ordered, C any](s Strategy[T, C], input []T) (*Controller[T, C], error) {
	if !s.complete() {
		return nil, fmt.Errorf("%w: strategy %q is incomplete", ErrInvalidInput, s.Name)
	}
	for i, v := range input {
		if v != v {
			return nil, fmt.Errorf("%w: element %d is not comparable", ErrInvalidInput, i)
		}
	}
	c := &Controller[T, C]{
		strategy: s,
		original: cloneValues(input),
	}
	c.history = NewHistory(c.cloneState)
	c.Reset()
	return c, nil
}

// Name returns the strategy name.
func (c *Controller[T, C]) Name() string { return c.strategy.Name }

// Reset restores a copy of the original input and the initial cursor, and
// clears the history.
func (c *Controller[T, C]) Reset() Frame[T] {
	data := cloneValues(c.original)
	c.current = State[T, C]{Data: data, Cursor: c.strategy.Init(data)}
	c.history.Clear()
	c.skipped = 0
	c.touched = nil
	c.advanced = false
	return c.Frame()
}

// Skip performs up to n steps without recording snapshots and returns how
// many it performed. Skipped steps count toward Depth and can still be
// undone; undoing one replays the input up to the step before it.
func (c *Controller[T, C]) Skip(n int) int {
	c.skipped += c.history.Len()
	c.history.Clear()

	taken := 0
	for ; taken < n && !c.Done(); taken++ {
		cur, touched := c.strategy.Step(c.current.Data, c.current.Cursor)
		c.current.Cursor = cur
		c.touched = touched
		c.advanced = true
	}
	c.skipped += taken
	return taken
}

// Next records the current state and performs one unit of work. It is a
// no-op once the algorithm is done.
func (c *Controller[T, C]) Next() Frame[T] {
	if c.Done() {
		return c.Frame()
	}
	c.history.Push(c.current)
	cur, touched := c.strategy.Step(c.current.Data, c.current.Cursor)
	c.current.Cursor = cur
	c.touched = touched
	c.advanced = true
	return c.Frame()
}

// Undo restores the state before the most recent Next, or returns
// ErrEmptyHistory.
func (c *Controller[T, C]) Undo() error {
	prev, ok := c.history.Pop()
	if !ok {
		if c.skipped == 0 {
			return ErrEmptyHistory
		}
		target := c.skipped - 1
		c.Reset()
		c.Skip(target)
		c.touched = nil
		c.advanced = false
		return nil
	}
	c.current = prev
	c.touched = nil
	c.advanced = false
	return nil
}

// Prev is Undo without the error: with nothing to undo nothing changes.
func (c *Controller[T, C]) Prev() Frame[T] {
	_ = c.Undo()
	return c.Frame()
}

// Done reports whether the strategy has terminated.
func (c *Controller[T, C]) Done() bool {
	return c.strategy.Done(c.current.Data, c.current.Cursor)
}

// Depth returns the number of steps taken since Reset.
func (c *Controller[T, C]) Depth() int { return c.skipped + c.history.Len() }

// State returns a copy of the current snapshot and cursor.
func (c *Controller[T, C]) State() State[T, C] {
	return c.cloneState(c.current)
}

// Frame returns the current frame. After Next the highlight set is the
// indices touched by that step; otherwise it is the cursor focus.
func (c *Controller[T, C]) Frame() Frame[T] {
	marks := Mark()
	if c.strategy.Focus != nil {
		marks = c.strategy.Focus(c.current.Data, c.current.Cursor)
	}
	highlight := marks.Focus
	if c.advanced {
		highlight = c.touched
	}
	active := marks.Active
	if active < 0 {
		active = len(c.current.Data)
	}
	return Frame[T]{
		Algorithm: c.strategy.Name,
		Values:    cloneValues(c.current.Data),
		Highlight: append([]int{}, highlight...),
		Pivot:     marks.Pivot,
		Runs:      append([]Range(nil), marks.Runs...),
		Active:    active,
		Depth:     c.Depth(),
		Done:      c.Done(),
	}
}

func (c *Controller[T, C]) cloneState(s State[T, C]) State[T, C] {
	cur := s.Cursor
	if c.strategy.Copy != nil {
		cur = c.strategy.Copy(cur)
	}
	return State[T, C]{Data: cloneValues(s.Data), Cursor: cur}
}

func cloneValues[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// RunToEnd calls Next until s is done and returns the final frame and the
// number of steps taken. It gives up with ErrStepLimit after maxSteps.
func RunToEnd[T cmp.Ordered](s Stepper[T], maxSteps int) (Frame[T], int, error) {
	steps := 0
	for !s.Done() {
		if steps >= maxSteps {
			return s.Frame(), steps, fmt.Errorf("%w: %s after %d steps", ErrStepLimit, s.Name(), steps)
		}
		s.Next()
		steps++
	}
	return s.Frame(), steps, nil
}

var (
	_ Stepper[int] = (*Controller[int, int])(nil)
	_ Skipper      = (*Controller[int, int])(nil)
)
