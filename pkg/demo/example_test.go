package demo_test

import (
	"fmt"

	"github.com/matzehuels/stepwise/pkg/demo"
	"github.com/matzehuels/stepwise/pkg/step"
)

func ExampleNew() {
	c, err := demo.New(demo.NameBuildHeap, []int{4, 10, 3, 5, 1})
	if err != nil {
		panic(err)
	}
	for !c.Done() {
		f := c.Next()
		fmt.Println(f.Values, f.Highlight)
	}
	fmt.Println(c.Prev().Values)
	// Output:
	// [4 10 3 5 1] [1]
	// [10 5 3 4 1] [0 1 3]
	// [4 10 3 5 1]
}

func ExampleParseInput() {
	input, _ := demo.ParseInput("8, 3, 1, 5, 9, 2")
	c, _ := demo.New(demo.NamePartition, input)
	f, steps, _ := step.RunToEnd(c, 100)
	fmt.Println(f.Values, f.Pivot, steps)
	// Output: [2 3 1 5 8 9] 4 4
}
