// Package demo provides step-through strategies for the textbook
// algorithms in [github.com/matzehuels/stepwise/pkg/algo] and a registry
// that creates controllers by name.
//
// Every strategy performs exactly the work of its reference algorithm, one
// unit per Next, so running a demo to completion yields the same slice as
// the non-interactive function:
//
//	c, _ := demo.New("build-heap", []int{4, 10, 3, 5, 1})
//	f, _, _ := step.RunToEnd(c, 100)
//	fmt.Println(f.Values) // [10 5 3 4 1]
//
// Units of work:
//
//	percolate-up    one comparison of a node with its parent, plus swap
//	percolate-down  one comparison with both children, plus swap
//	build-heap      one full percolate-down at the next non-leaf node
//	heapsort        one build-heap step, then one root extraction per step
//	mergesort       one pass merging every adjacent pair of runs
//	quicksort       one full partition of the next pending range
//	partition       one scan of both cursors, or one swap
package demo
