package demo

import (
	"cmp"
	"slices"

	"github.com/matzehuels/stepwise/pkg/algo/sorting"
	"github.com/matzehuels/stepwise/pkg/step"
)

// Mergesort merges runs bottom-up. The cursor is the current run width;
// every Next merges all adjacent pairs of runs and doubles it.
func Mergesort[T cmp.Ordered]() step.Strategy[T, int] {
	return step.Strategy[T, int]{
		Name: NameMergesort,
		Init: func([]T) int { return 1 },
		Step: func(data []T, width int) (int, []int) {
			var touched []int
			for _, lo := range sorting.MergePass(data, width) {
				for i := lo; i < min(lo+2*width, len(data)); i++ {
					touched = append(touched, i)
				}
			}
			return width * 2, touched
		},
		Done: func(data []T, width int) bool { return width >= len(data) },
		Focus: func(data []T, width int) step.Marks {
			m := step.Mark()
			m.Runs = runs(len(data), width)
			return m
		},
	}
}

// runs splits n indices into consecutive ranges of the given width.
func runs(n, width int) []step.Range {
	var out []step.Range
	for lo := 0; lo < n; lo += width {
		out = append(out, step.Range{Start: lo, End: min(lo+width, n) - 1})
	}
	return out
}

// Quicksort partitions one pending range per Next. The cursor is a LIFO
// stack of ranges still to partition; the left sub-range is handled before
// the right one.
func Quicksort[T cmp.Ordered]() step.Strategy[T, []step.Range] {
	return step.Strategy[T, []step.Range]{
		Name: NameQuicksort,
		Init: func(data []T) []step.Range {
			if len(data) < 2 {
				return nil
			}
			return []step.Range{{Start: 0, End: len(data) - 1}}
		},
		Step: func(data []T, pending []step.Range) ([]step.Range, []int) {
			r := pending[len(pending)-1]
			pending = pending[:len(pending)-1]
			p := sorting.Partition(data, r.Start, r.End)

			right := step.Range{Start: p + 1, End: r.End}
			left := step.Range{Start: r.Start, End: p - 1}
			if right.Len() >= 2 {
				pending = append(pending, right)
			}
			if left.Len() >= 2 {
				pending = append(pending, left)
			}
			return pending, span(r)
		},
		Done: func(_ []T, pending []step.Range) bool { return len(pending) == 0 },
		Focus: func(_ []T, pending []step.Range) step.Marks {
			if len(pending) == 0 {
				return step.Mark()
			}
			r := pending[len(pending)-1]
			m := step.Mark(span(r)...)
			m.Pivot = r.Start
			return m
		},
		Copy: func(p []step.Range) []step.Range { return slices.Clone(p) },
	}
}

// Phase is the state of the partition scan.
type Phase int

const (
	// PhaseScan advances both cursors to their next stop.
	PhaseScan Phase = iota
	// PhaseSwap swaps the stopped values, or places the pivot once the
	// cursors crossed.
	PhaseSwap
	// PhasePlaced means the pivot is in its final position.
	PhasePlaced
)

func (p Phase) String() string {
	switch p {
	case PhaseScan:
		return "scan"
	case PhaseSwap:
		return "swap"
	case PhasePlaced:
		return "placed"
	}
	return "unknown"
}

// PartitionCursor tracks one Hoare-style partition of the whole slice
// around data[0].
type PartitionCursor struct {
	First int   `json:"first"`
	Last  int   `json:"last"`
	Phase Phase `json:"phase"`
}

// Partition steps through sorting.Partition on the whole slice: one Next
// scans both cursors, the following one swaps them or places the pivot.
func Partition[T cmp.Ordered]() step.Strategy[T, PartitionCursor] {
	return step.Strategy[T, PartitionCursor]{
		Name: NamePartition,
		Init: func(data []T) PartitionCursor {
			if len(data) < 2 {
				return PartitionCursor{Phase: PhasePlaced}
			}
			return PartitionCursor{First: 1, Last: len(data) - 1, Phase: PhaseScan}
		},
		Step: func(data []T, c PartitionCursor) (PartitionCursor, []int) {
			pivot := data[0]
			switch c.Phase {
			case PhaseScan:
				for c.First <= c.Last && data[c.First] <= pivot {
					c.First++
				}
				for c.Last >= c.First && data[c.Last] > pivot {
					c.Last--
				}
				c.Phase = PhaseSwap
				return c, inside(len(data), c.First, c.Last)
			default:
				if c.First < c.Last {
					data[c.First], data[c.Last] = data[c.Last], data[c.First]
					c.Phase = PhaseScan
					return c, []int{c.First, c.Last}
				}
				data[0], data[c.Last] = data[c.Last], data[0]
				c.Phase = PhasePlaced
				return c, []int{0, c.Last}
			}
		},
		Done: func(_ []T, c PartitionCursor) bool { return c.Phase == PhasePlaced },
		Focus: func(data []T, c PartitionCursor) step.Marks {
			if len(data) < 2 {
				return step.Mark()
			}
			if c.Phase == PhasePlaced {
				m := step.Mark(c.Last)
				m.Pivot = c.Last
				return m
			}
			m := step.Mark(inside(len(data), c.First, c.Last)...)
			m.Pivot = 0
			return m
		},
	}
}

func span(r step.Range) []int {
	out := make([]int, 0, r.Len())
	for i := r.Start; i <= r.End; i++ {
		out = append(out, i)
	}
	return out
}

// inside filters idx down to valid indices of an n-element slice.
func inside(n int, idx ...int) []int {
	out := make([]int, 0, len(idx))
	for _, i := range idx {
		if i >= 0 && i < n && !slices.Contains(out, i) {
			out = append(out, i)
		}
	}
	return out
}
