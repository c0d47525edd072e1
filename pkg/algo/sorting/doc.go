// Package sorting implements the comparison sorts stepwise animates.
//
// # Partition
//
// [Partition] is the two-cursor scheme with the pivot taken from the first
// element of the range. The left cursor advances past values <= pivot and
// the right cursor retreats past values > pivot; out-of-place pairs are
// swapped until the cursors cross, then the pivot is swapped into its final
// slot. Equal values may move, so the sorts here are not stable.
//
// # Quicksort
//
// [Quicksort] repeatedly partitions pending ranges. Every sub-range with at
// least two elements is partitioned again.
//
// # Mergesort
//
// [MergeSort] is the bottom-up, level-by-level variant: pass w merges each
// adjacent pair of runs of width w into one run of width 2w, so after
// ceil(log2(n)) passes a single run spans the slice.
package sorting
