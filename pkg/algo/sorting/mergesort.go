package sorting

import "cmp"

// Merge merges two ascending runs into a new ascending slice. When the
// heads compare equal the right run's element is taken first.
func Merge[T cmp.Ordered](left, right []T) []T {
	out := make([]T, 0, len(left)+len(right))
	i, j := 0, 0
	for i < len(left) || j < len(right) {
		switch {
		case i >= len(left):
			out = append(out, right[j])
			j++
		case j >= len(right):
			out = append(out, left[i])
			i++
		case left[i] < right[j]:
			out = append(out, left[i])
			i++
		default:
			out = append(out, right[j])
			j++
		}
	}
	return out
}

// MergePass merges every adjacent pair of runs of the given width in place.
// A trailing run without a partner is left as is. It returns the start
// index of every merged run.
func MergePass[T cmp.Ordered](s []T, width int) []int {
	if width < 1 {
		width = 1
	}
	var merged []int
	for lo := 0; lo+width < len(s); lo += 2 * width {
		mid := lo + width
		hi := min(lo+2*width, len(s))
		copy(s[lo:hi], Merge(s[lo:mid], s[mid:hi]))
		merged = append(merged, lo)
	}
	return merged
}

// MergeSort sorts s in ascending order with bottom-up mergesort.
func MergeSort[T cmp.Ordered](s []T) {
	for width := 1; width < len(s); width *= 2 {
		MergePass(s, width)
	}
}
