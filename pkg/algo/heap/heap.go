// Package heap implements an array-backed binary max-heap.
//
// The heap is stored in a plain slice with the root at index 0. For a node
// at index i:
//
//	Parent(i) = (i-1)/2
//	Left(i)   = 2i+1
//	Right(i)  = 2i+2
//
// All functions operate in place and work for any [cmp.Ordered] element
// type. A max-heap satisfies h[i] >= h[Left(i)] and h[i] >= h[Right(i)]
// whenever the children are inside the heap region.
package heap

import "cmp"

// Parent returns the index of the parent of node i. The root has no parent;
// Parent(0) returns 0.
func Parent(i int) int {
	if i <= 0 {
		return 0
	}
	return (i - 1) / 2
}

// Left returns the index of the left child of node i.
func Left(i int) int { return 2*i + 1 }

// Right returns the index of the right child of node i.
func Right(i int) int { return 2*i + 2 }

// IsLeaf reports whether node i has no children inside a heap of the given size.
func IsLeaf(i, size int) bool { return Left(i) >= size }

// LastNonLeaf returns the index of the last node with at least one child,
// or -1 when a heap of the given size has no such node.
func LastNonLeaf(size int) int { return size/2 - 1 }

// Larger returns the index among i and its children (within size) that holds
// the largest value. Ties keep the parent in place and prefer the left child.
func Larger[T cmp.Ordered](h []T, i, size int) int {
	largest := i
	if l := Left(i); l < size && h[l] > h[largest] {
		largest = l
	}
	if r := Right(i); r < size && h[r] > h[largest] {
		largest = r
	}
	return largest
}

// PercolateUpStep performs one comparison of node i with its parent and
// swaps them when the child is larger. It returns the index the value moved
// to and whether a swap happened.
func PercolateUpStep[T cmp.Ordered](h []T, i int) (int, bool) {
	if i <= 0 || i >= len(h) {
		return i, false
	}
	p := Parent(i)
	if h[p] >= h[i] {
		return i, false
	}
	h[p], h[i] = h[i], h[p]
	return p, true
}

// PercolateUp moves the value at pos toward the root until its parent is at
// least as large, never going above start.
func PercolateUp[T cmp.Ordered](h []T, start, pos int) {
	for pos > start {
		next, swapped := PercolateUpStep(h, pos)
		if !swapped {
			return
		}
		pos = next
	}
}

// PercolateDownStep performs one comparison of node i with both children in
// a heap of the given size and swaps it with the larger child when that
// child is larger. It returns the child index and whether a swap happened.
func PercolateDownStep[T cmp.Ordered](h []T, i, size int) (int, bool) {
	if i < 0 || i >= size {
		return i, false
	}
	largest := Larger(h, i, size)
	if largest == i {
		return i, false
	}
	h[i], h[largest] = h[largest], h[i]
	return largest, true
}

// PercolateDown sifts the value at i down a heap of the given size until
// both children are no larger. It returns the indices whose values changed,
// in the order they were swapped.
func PercolateDown[T cmp.Ordered](h []T, i, size int) []int {
	var touched []int
	for {
		next, swapped := PercolateDownStep(h, i, size)
		if !swapped {
			return touched
		}
		if len(touched) == 0 {
			touched = append(touched, i)
		}
		touched = append(touched, next)
		i = next
	}
}

// Build rearranges h into a max-heap by percolating down every non-leaf
// node, from the last non-leaf to the root.
func Build[T cmp.Ordered](h []T) {
	for i := LastNonLeaf(len(h)); i >= 0; i-- {
		PercolateDown(h, i, len(h))
	}
}

// Insert appends v and restores the heap property.
func Insert[T cmp.Ordered](h []T, v T) []T {
	h = append(h, v)
	PercolateUp(h, 0, len(h)-1)
	return h
}

// Pop removes and returns the largest value. It reports false when h is
// empty.
func Pop[T cmp.Ordered](h []T) ([]T, T, bool) {
	var zero T
	if len(h) == 0 {
		return h, zero, false
	}
	last := len(h) - 1
	h[0], h[last] = h[last], h[0]
	top := h[last]
	h = h[:last]
	PercolateDown(h, 0, len(h))
	return h, top, true
}

// Sort sorts s in ascending order with heapsort.
func Sort[T cmp.Ordered](s []T) {
	Build(s)
	for end := len(s) - 1; end > 0; end-- {
		s[0], s[end] = s[end], s[0]
		PercolateDown(s, 0, end)
	}
}

// IsHeap reports whether the first size elements of h form a max-heap.
func IsHeap[T cmp.Ordered](h []T, size int) bool {
	for i := 0; i <= LastNonLeaf(size); i++ {
		if l := Left(i); l < size && h[l] > h[i] {
			return false
		}
		if r := Right(i); r < size && h[r] > h[i] {
			return false
		}
	}
	return true
}
