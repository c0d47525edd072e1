package step

import "cmp"

// Range is an inclusive index range [Start, End].
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of indices in the range, or 0 when End < Start.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Marks annotate a state for rendering. Build them with [Mark] so that the
// "absent" values of Pivot and Active are set correctly.
type Marks struct {
	// Focus lists the indices the cursor points at.
	Focus []int
	// Pivot is the index of a pivot value, or -1.
	Pivot int
	// Runs partitions the values into sorted runs (mergesort), if any.
	Runs []Range
	// Active is the length of the region still being worked on (heap size
	// during heapsort), or -1 for the whole slice.
	Active int
}

// Mark returns Marks focused on the given indices with no pivot, no runs and
// the whole slice active.
func Mark(focus ...int) Marks {
	return Marks{Focus: focus, Pivot: -1, Active: -1}
}

// Strategy describes how one algorithm advances. T is the element type and
// C the cursor type.
type Strategy[T cmp.Ordered, C any] struct {
	// Name identifies the algorithm in frames.
	Name string

	// Init returns the initial cursor for freshly reset data.
	Init func(data []T) C

	// Step performs one unit of work on data in place and returns the next
	// cursor together with the indices it touched. It is only called when
	// Done reports false.
	Step func(data []T, cur C) (C, []int)

	// Done reports whether the algorithm has finished.
	Done func(data []T, cur C) bool

	// Focus annotates a state; nil means Mark() with no focus.
	Focus func(data []T, cur C) Marks

	// Copy deep-copies a cursor; nil means plain assignment is a copy.
	Copy func(C) C
}

func (s Strategy[T, C]) complete() bool {
	return s.Init != nil && s.Step != nil && s.Done != nil
}
