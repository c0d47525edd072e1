package demo

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/stepwise/pkg/errors"
	"github.com/matzehuels/stepwise/pkg/step"
)

// Demo names.
const (
	NamePercolateUp   = "percolate-up"
	NamePercolateDown = "percolate-down"
	NameBuildHeap     = "build-heap"
	NameHeapsort      = "heapsort"
	NameMergesort     = "mergesort"
	NameQuicksort     = "quicksort"
	NamePartition     = "partition"
)

// Info describes a registered demo.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	// Sample is an input that shows the demo off.
	Sample []int `json:"sample"`
}

type entry struct {
	Info
	build func(input []int) (step.Stepper[int], error)
}

func register[C any](info Info, s step.Strategy[int, C]) entry {
	return entry{
		Info: info,
		build: func(input []int) (step.Stepper[int], error) {
			c, err := step.New(s, input)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	}
}

var registry = []entry{
	register(Info{
		Name:        NamePercolateUp,
		Description: "Restore a max-heap after appending a value at the end",
		Unit:        "compare node with parent, swap",
		Sample:      []int{10, 5, 3, 4, 1, 11},
	}, PercolateUp[int]()),
	register(Info{
		Name:        NamePercolateDown,
		Description: "Restore a max-heap after replacing the root",
		Unit:        "compare node with both children, swap with larger",
		Sample:      []int{1, 10, 5, 3, 4},
	}, PercolateDown[int]()),
	register(Info{
		Name:        NameBuildHeap,
		Description: "Turn an array into a max-heap bottom-up",
		Unit:        "percolate down one non-leaf node",
		Sample:      []int{4, 10, 3, 5, 1},
	}, BuildHeap[int]()),
	register(Info{
		Name:        NameHeapsort,
		Description: "Build a max-heap, then move the root behind a shrinking boundary",
		Unit:        "one build step or one root extraction",
		Sample:      []int{4, 10, 3, 5, 1, 8, 2},
	}, Heapsort[int]()),
	register(Info{
		Name:        NameMergesort,
		Description: "Bottom-up mergesort over runs of doubling width",
		Unit:        "merge every adjacent pair of runs",
		Sample:      []int{38, 27, 43, 3, 9, 82, 10},
	}, Mergesort[int]()),
	register(Info{
		Name:        NameQuicksort,
		Description: "Quicksort with first-element pivots",
		Unit:        "partition one pending range",
		Sample:      []int{8, 3, 1, 5, 9, 2, 7, 4},
	}, Quicksort[int]()),
	register(Info{
		Name:        NamePartition,
		Description: "Partition around the first element with two converging cursors",
		Unit:        "scan both cursors, or swap",
		Sample:      []int{8, 3, 1, 5, 9, 2},
	}, Partition[int]()),
}

// Names returns the registered demo names in display order.
func Names() []string {
	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.Name
	}
	return names
}

// List returns information about every registered demo.
func List() []Info {
	out := make([]Info, len(registry))
	for i, e := range registry {
		out[i] = e.Info
		out[i].Sample = slices.Clone(e.Sample)
	}
	return out
}

// Lookup returns information about one demo.
func Lookup(name string) (Info, error) {
	for _, e := range registry {
		if e.Name == name {
			info := e.Info
			info.Sample = slices.Clone(e.Sample)
			return info, nil
		}
	}
	return Info{}, errors.New(errors.ErrCodeUnknownAlgorithm,
		"unknown algorithm %q (available: %s)", name, strings.Join(Names(), ", "))
}

// New creates a controller for the named demo over a copy of input.
func New(name string, input []int) (step.Stepper[int], error) {
	if err := errors.ValidateInput(input); err != nil {
		return nil, err
	}
	for _, e := range registry {
		if e.Name == name {
			s, err := e.build(input)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", name)
			}
			return s, nil
		}
	}
	_, err := Lookup(name)
	return nil, err
}

// ParseInput parses a comma or whitespace separated list of integers such
// as "4,10,3" or "4 10 3". An empty string yields an empty input.
func ParseInput(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '[' || r == ']'
	})
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid integer %q", f)
		}
		out = append(out, v)
	}
	if err := errors.ValidateInput(out); err != nil {
		return nil, err
	}
	return out, nil
}

// FormatInput is the inverse of ParseInput.
func FormatInput(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
