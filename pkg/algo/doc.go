// Package algo groups the textbook algorithms that stepwise animates.
//
// Each subpackage is a direct, non-interactive implementation:
//
//   - [heap]: binary max-heap index arithmetic, percolation, build, sort
//   - [sorting]: partition, quicksort, iterative mergesort
//   - [dp]: edit distance tables with path reconstruction, knapsack
//   - [kmeans]: Lloyd's algorithm with squared-Euclidean distance
//
// The step-through controllers in [github.com/matzehuels/stepwise/pkg/demo]
// are built on these primitives and tested against them as reference
// implementations.
package algo
