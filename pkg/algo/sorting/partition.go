package sorting

import "cmp"

// Partition rearranges s[start..end] (inclusive) around the pivot s[start]
// and returns the pivot's final index p. Afterwards s[i] <= pivot for
// start <= i < p and s[i] >= pivot for p < i <= end.
func Partition[T cmp.Ordered](s []T, start, end int) int {
	pivot := s[start]
	first, last := start+1, end
	for first <= last {
		for first <= last && s[first] <= pivot {
			first++
		}
		for last >= first && s[last] > pivot {
			last--
		}
		if first < last {
			s[first], s[last] = s[last], s[first]
		}
	}
	s[start], s[last] = s[last], s[start]
	return last
}

// Quicksort sorts s in ascending order.
func Quicksort[T cmp.Ordered](s []T) {
	quicksort(s, 0, len(s)-1)
}

func quicksort[T cmp.Ordered](s []T, start, end int) {
	if end-start < 1 {
		return
	}
	p := Partition(s, start, end)
	quicksort(s, start, p-1)
	quicksort(s, p+1, end)
}
