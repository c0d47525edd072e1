package sorting_test

import (
	"fmt"

	"github.com/matzehuels/stepwise/pkg/algo/sorting"
)

func ExamplePartition() {
	s := []int{8, 3, 1, 5, 9, 2}
	p := sorting.Partition(s, 0, len(s)-1)
	fmt.Println(p, s)
	// Output:
	// 4 [2 3 1 5 8 9]
}

func ExampleMergePass() {
	s := []int{5, 2, 4, 6}
	sorting.MergePass(s, 1)
	fmt.Println(s)
	sorting.MergePass(s, 2)
	fmt.Println(s)
	// Output:
	// [2 5 4 6]
	// [2 4 5 6]
}
