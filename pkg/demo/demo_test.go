package demo

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stepwise/pkg/algo/heap"
	"github.com/matzehuels/stepwise/pkg/algo/sorting"
	"github.com/matzehuels/stepwise/pkg/errors"
	"github.com/matzehuels/stepwise/pkg/step"
)

const maxSteps = 10_000

// reference is the non-interactive result each demo must reproduce.
var reference = map[string]func([]int){
	NamePercolateUp:   func(s []int) { heap.PercolateUp(s, 0, len(s)-1) },
	NamePercolateDown: func(s []int) { heap.PercolateDown(s, 0, len(s)) },
	NameBuildHeap:     heap.Build[int],
	NameHeapsort:      heap.Sort[int],
	NameMergesort:     sorting.MergeSort[int],
	NameQuicksort:     sorting.Quicksort[int],
	NamePartition: func(s []int) {
		if len(s) > 1 {
			sorting.Partition(s, 0, len(s)-1)
		}
	},
}

func randomInput(r *rand.Rand, n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = r.IntN(20) - 5
	}
	return s
}

func newDemo(t *testing.T, name string, input []int) step.Stepper[int] {
	t.Helper()
	s, err := New(name, input)
	require.NoError(t, err)
	return s
}

func TestRegistry_CoversReference(t *testing.T) {
	names := Names()
	assert.Len(t, names, len(reference))
	for _, name := range names {
		assert.Contains(t, reference, name)
	}
}

func TestDemos_MatchReference(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			for trial := 0; trial < 50; trial++ {
				input := randomInput(r, r.IntN(12))
				want := slices.Clone(input)
				reference[name](want)

				f, _, err := step.RunToEnd(newDemo(t, name, input), maxSteps)
				require.NoError(t, err)
				assert.True(t, f.Done)
				assert.Equal(t, want, f.Values, "input %v", input)
			}
		})
	}
}

func TestDemos_SamplesMatchReference(t *testing.T) {
	for _, info := range List() {
		t.Run(info.Name, func(t *testing.T) {
			want := slices.Clone(info.Sample)
			reference[info.Name](want)
			f, steps, err := step.RunToEnd(newDemo(t, info.Name, info.Sample), maxSteps)
			require.NoError(t, err)
			assert.Equal(t, want, f.Values)
			assert.Positive(t, steps, "sample should take at least one step")
		})
	}
}

func TestDemos_PrevUndoesNext(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s := newDemo(t, name, randomInput(r, 9))
			for !s.Done() {
				before := s.Frame()
				s.Next()
				after := s.Prev()
				assert.Equal(t, before.Values, after.Values)
				assert.Equal(t, before.Depth, after.Depth)
				assert.Equal(t, before.Pivot, after.Pivot)
				assert.Equal(t, before.Runs, after.Runs)
				assert.Equal(t, before.Active, after.Active)
				s.Next()
			}
		})
	}
}

func TestDemos_ResetRestoresInput(t *testing.T) {
	input := []int{5, 9, -1, 3, 3, 8, 0}
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s := newDemo(t, name, input)
			start := s.Frame()
			_, _, err := step.RunToEnd(s, maxSteps)
			require.NoError(t, err)

			first := s.Reset()
			assert.Equal(t, input, first.Values)
			assert.Equal(t, start, first)
			assert.Equal(t, first, s.Reset(), "reset is idempotent")
			assert.Zero(t, s.Depth())
		})
	}
}

func TestDemos_Degenerate(t *testing.T) {
	for _, name := range Names() {
		for _, input := range [][]int{nil, {7}} {
			s := newDemo(t, name, input)
			assert.True(t, s.Done(), "%s %v", name, input)
			f := s.Next()
			assert.Zero(t, f.Depth, "%s %v: no step executed", name, input)
			assert.Equal(t, len(input), len(f.Values))
		}
	}
}

func TestBuildHeap_Scenario(t *testing.T) {
	s := newDemo(t, NameBuildHeap, []int{4, 10, 3, 5, 1})
	assert.Equal(t, []int{1, 3, 4}, s.Frame().Highlight, "focus on node 1 and its children")

	f := s.Next()
	assert.Equal(t, []int{4, 10, 3, 5, 1}, f.Values, "10 already dominates its children")
	assert.Equal(t, []int{1}, f.Highlight)

	f = s.Next()
	assert.Equal(t, []int{10, 5, 3, 4, 1}, f.Values)
	assert.Equal(t, []int{0, 1, 3}, f.Highlight)
	assert.True(t, f.Done)
}

func TestBuildHeap_InvariantAfterEachStep(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	input := randomInput(r, 15)
	s := newDemo(t, NameBuildHeap, input)
	last := heap.LastNonLeaf(len(input))
	for k := 0; !s.Done(); k++ {
		f := s.Next()
		// every subtree rooted at or after the processed node is a heap
		for root := last - k; root <= last; root++ {
			assert.True(t, subtreeIsHeap(f.Values, root), "step %d root %d: %v", k, root, f.Values)
		}
	}
	assert.True(t, heap.IsHeap(s.Frame().Values, len(input)))
}

func subtreeIsHeap(h []int, i int) bool {
	if i >= len(h) {
		return true
	}
	for _, c := range []int{heap.Left(i), heap.Right(i)} {
		if c < len(h) && (h[c] > h[i] || !subtreeIsHeap(h, c)) {
			return false
		}
	}
	return true
}

func TestPartition_Scenario(t *testing.T) {
	s := newDemo(t, NamePartition, []int{8, 3, 1, 5, 9, 2})
	assert.Equal(t, 0, s.Frame().Pivot)

	f := s.Next()
	assert.Equal(t, []int{4, 5}, f.Highlight, "first stops at 9, last at 2")
	f = s.Next()
	assert.Equal(t, []int{8, 3, 1, 5, 2, 9}, f.Values)
	s.Next()
	f = s.Next()
	assert.Equal(t, []int{2, 3, 1, 5, 8, 9}, f.Values)
	assert.Equal(t, 4, f.Pivot)
	assert.True(t, f.Done)
	assert.Equal(t, 4, f.Depth)
}

func TestPartition_Invariant(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	for trial := 0; trial < 100; trial++ {
		input := randomInput(r, 2+r.IntN(10))
		f, _, err := step.RunToEnd(newDemo(t, NamePartition, input), maxSteps)
		require.NoError(t, err)
		p := f.Pivot
		for i, v := range f.Values {
			switch {
			case i < p:
				assert.LessOrEqual(t, v, f.Values[p])
			case i > p:
				assert.GreaterOrEqual(t, v, f.Values[p])
			}
		}
	}
}

func TestHeapsort_Boundary(t *testing.T) {
	s := newDemo(t, NameHeapsort, []int{4, 10, 3, 5, 1, 8, 2})
	assert.Equal(t, 7, s.Frame().Active)

	f, steps, err := step.RunToEnd(s, maxSteps)
	require.NoError(t, err)
	assert.Equal(t, 9, steps, "3 build steps and 6 extractions")
	assert.Equal(t, []int{1, 2, 3, 4, 5, 8, 10}, f.Values)
	assert.Zero(t, f.Active)

	s.Reset()
	for range 4 {
		s.Next()
	}
	f = s.Frame()
	assert.Equal(t, 6, f.Active, "first extraction shrinks the heap")
	assert.Equal(t, 10, f.Values[6])
	assert.True(t, heap.IsHeap(f.Values, f.Active))
}

func TestMergesort_Runs(t *testing.T) {
	s := newDemo(t, NameMergesort, []int{38, 27, 43, 3, 9, 82, 10})
	assert.Len(t, s.Frame().Runs, 7)

	f := s.Next()
	assert.Equal(t, []int{27, 38, 3, 43, 9, 82, 10}, f.Values)
	assert.Equal(t, []step.Range{{Start: 0, End: 1}, {Start: 2, End: 3}, {Start: 4, End: 5}, {Start: 6, End: 6}}, f.Runs)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, f.Highlight, "the unpaired last run is untouched")

	f = s.Next()
	assert.Equal(t, []int{3, 27, 38, 43, 9, 10, 82}, f.Values)
	f = s.Next()
	assert.Equal(t, []int{3, 9, 10, 27, 38, 43, 82}, f.Values)
	assert.True(t, f.Done)
}

func TestQuicksort_PendingRanges(t *testing.T) {
	s := newDemo(t, NameQuicksort, []int{8, 3, 1, 5, 9, 2, 7, 4})
	f := s.Frame()
	assert.Equal(t, 0, f.Pivot)
	assert.Len(t, f.Highlight, 8)

	f = s.Next()
	assert.Equal(t, []int{7, 3, 1, 5, 4, 2, 8, 9}, f.Values)

	f, steps, err := step.RunToEnd(s, maxSteps)
	require.NoError(t, err)
	assert.Equal(t, 4, steps)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 7, 8, 9}, f.Values)
}

func TestPercolate_Scenarios(t *testing.T) {
	f, steps, err := step.RunToEnd(newDemo(t, NamePercolateUp, []int{10, 5, 3, 4, 1, 11}), maxSteps)
	require.NoError(t, err)
	assert.Equal(t, 2, steps)
	assert.Equal(t, []int{11, 5, 10, 4, 1, 3}, f.Values)

	f, steps, err = step.RunToEnd(newDemo(t, NamePercolateDown, []int{1, 10, 5, 3, 4}), maxSteps)
	require.NoError(t, err)
	assert.Equal(t, 2, steps)
	assert.Equal(t, []int{10, 4, 5, 3, 1}, f.Values)
}

func TestNew_UnknownAlgorithm(t *testing.T) {
	_, err := New("bogosort", []int{1, 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownAlgorithm))
	assert.Contains(t, err.Error(), "heapsort")
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"4,10,3", []int{4, 10, 3}, false},
		{"4 10  3", []int{4, 10, 3}, false},
		{"[4, -10, 3]", []int{4, -10, 3}, false},
		{"", []int{}, false},
		{"4,x,3", nil, true},
		{"1.5", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseInput(tt.in)
		if tt.wantErr {
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "%q", tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.in == "", FormatInput(got) == "")
	}
}
