package demo

import (
	"cmp"

	"github.com/matzehuels/stepwise/pkg/algo/heap"
	"github.com/matzehuels/stepwise/pkg/step"
)

// PercolateUp moves the last element toward the root. The cursor is the
// index of the moving value.
func PercolateUp[T cmp.Ordered]() step.Strategy[T, int] {
	return step.Strategy[T, int]{
		Name: NamePercolateUp,
		Init: func(data []T) int { return len(data) - 1 },
		Step: func(data []T, i int) (int, []int) {
			next, _ := heap.PercolateUpStep(data, i)
			return next, []int{i, next}
		},
		Done: func(data []T, i int) bool {
			return i <= 0 || data[heap.Parent(i)] >= data[i]
		},
		Focus: func(data []T, i int) step.Marks {
			switch {
			case i < 0:
				return step.Mark()
			case i == 0:
				return step.Mark(0)
			}
			return step.Mark(i, heap.Parent(i))
		},
	}
}

// PercolateDown moves the root toward the leaves. The cursor is the index
// of the moving value.
func PercolateDown[T cmp.Ordered]() step.Strategy[T, int] {
	return step.Strategy[T, int]{
		Name: NamePercolateDown,
		Init: func([]T) int { return 0 },
		Step: func(data []T, i int) (int, []int) {
			next, _ := heap.PercolateDownStep(data, i, len(data))
			return next, []int{i, next}
		},
		Done: func(data []T, i int) bool {
			return i >= len(data) || heap.Larger(data, i, len(data)) == i
		},
		Focus: func(data []T, i int) step.Marks {
			return step.Mark(family(i, len(data))...)
		},
	}
}

// BuildHeap percolates down every non-leaf node from the last one to the
// root. The cursor counts down the node to percolate next.
func BuildHeap[T cmp.Ordered]() step.Strategy[T, int] {
	return step.Strategy[T, int]{
		Name: NameBuildHeap,
		Init: func(data []T) int { return heap.LastNonLeaf(len(data)) },
		Step: func(data []T, i int) (int, []int) {
			return i - 1, percolate(data, i, len(data))
		},
		Done: func(_ []T, i int) bool { return i < 0 },
		Focus: func(data []T, i int) step.Marks {
			return step.Mark(family(i, len(data))...)
		},
	}
}

// HeapCursor is the heapsort cursor: Build counts down the next node to
// percolate while building the heap, Boundary is the last index of the heap
// region while sorting.
type HeapCursor struct {
	Build    int `json:"build"`
	Boundary int `json:"boundary"`
}

// Heapsort builds a max-heap and then repeatedly moves the root behind a
// shrinking boundary.
func Heapsort[T cmp.Ordered]() step.Strategy[T, HeapCursor] {
	return step.Strategy[T, HeapCursor]{
		Name: NameHeapsort,
		Init: func(data []T) HeapCursor {
			return HeapCursor{Build: heap.LastNonLeaf(len(data)), Boundary: len(data) - 1}
		},
		Step: func(data []T, c HeapCursor) (HeapCursor, []int) {
			if c.Build >= 0 {
				touched := percolate(data, c.Build, len(data))
				c.Build--
				return c, touched
			}
			end := c.Boundary
			data[0], data[end] = data[end], data[0]
			touched := append([]int{0, end}, heap.PercolateDown(data, 0, end)...)
			c.Boundary--
			return c, dedupe(touched)
		},
		Done: func(_ []T, c HeapCursor) bool {
			return c.Build < 0 && c.Boundary <= 0
		},
		Focus: func(data []T, c HeapCursor) step.Marks {
			if c.Build >= 0 {
				return step.Mark(family(c.Build, len(data))...)
			}
			m := step.Mark()
			m.Active = 0
			if c.Boundary > 0 {
				m.Focus = []int{0, c.Boundary}
				m.Active = c.Boundary + 1
			}
			return m
		},
	}
}

// percolate runs a full percolate-down and reports the touched indices,
// or just i when the node was already in place.
func percolate[T cmp.Ordered](data []T, i, size int) []int {
	if touched := heap.PercolateDown(data, i, size); len(touched) > 0 {
		return touched
	}
	return []int{i}
}

// family returns i and its children inside size.
func family(i, size int) []int {
	if i < 0 || i >= size {
		return nil
	}
	out := []int{i}
	if l := heap.Left(i); l < size {
		out = append(out, l)
	}
	if r := heap.Right(i); r < size {
		out = append(out, r)
	}
	return out
}

func dedupe(idx []int) []int {
	seen := make(map[int]bool, len(idx))
	out := idx[:0]
	for _, i := range idx {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	return out
}
