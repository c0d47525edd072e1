package step_test

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stepwise/pkg/step"
)

// selection moves the minimum of data[i:] to i, one position per step.
func selection() step.Strategy[int, int] {
	return step.Strategy[int, int]{
		Name: "selection",
		Init: func(data []int) int { return 0 },
		Step: func(data []int, i int) (int, []int) {
			m := i
			for j := i + 1; j < len(data); j++ {
				if data[j] < data[m] {
					m = j
				}
			}
			data[i], data[m] = data[m], data[i]
			return i + 1, []int{i, m}
		},
		Done:  func(data []int, i int) bool { return i >= len(data)-1 },
		Focus: func(data []int, i int) step.Marks { return step.Mark(i) },
	}
}

// doubler pops indices from a pending stack and doubles the value there.
func doubler() step.Strategy[int, []int] {
	return step.Strategy[int, []int]{
		Name: "doubler",
		Init: func(data []int) []int {
			pending := make([]int, len(data))
			for i := range pending {
				pending[i] = i
			}
			return pending
		},
		Step: func(data []int, pending []int) ([]int, []int) {
			last := len(pending) - 1
			i := pending[last]
			data[i] *= 2
			pending[last] = -1 // scribble to expose aliasing
			return pending[:last], []int{i}
		},
		Done: func(data []int, pending []int) bool { return len(pending) == 0 },
		Copy: func(p []int) []int { return slices.Clone(p) },
	}
}

func TestNew_CopiesInput(t *testing.T) {
	input := []int{3, 1, 2}
	c, err := step.New(selection(), input)
	require.NoError(t, err)

	c.Next()
	assert.Equal(t, []int{3, 1, 2}, input, "input must not be mutated")
	input[0] = 99
	assert.Equal(t, []int{3, 1, 2}, c.Reset().Values, "controller keeps its own copy")
}

func TestNew_RejectsInvalid(t *testing.T) {
	_, err := step.New(step.Strategy[int, int]{Name: "broken"}, []int{1})
	assert.ErrorIs(t, err, step.ErrInvalidInput)

	nan := step.Strategy[float64, int]{
		Name: "nan",
		Init: func([]float64) int { return 0 },
		Step: func(d []float64, c int) (int, []int) { return c, nil },
		Done: func([]float64, int) bool { return true },
	}
	_, err = step.New(nan, []float64{1, math.NaN()})
	assert.ErrorIs(t, err, step.ErrInvalidInput)
}

func TestDegenerateInputIsDone(t *testing.T) {
	for _, input := range [][]int{nil, {}, {5}} {
		c, err := step.New(selection(), input)
		require.NoError(t, err)
		assert.True(t, c.Done(), "input %v", input)

		f := c.Next()
		assert.True(t, f.Done)
		assert.Equal(t, 0, f.Depth, "no step recorded for %v", input)
		assert.Equal(t, len(input), len(f.Values))
	}
}

func TestNextPrevRoundTrip(t *testing.T) {
	c, err := step.New(selection(), []int{5, 4, 3, 2, 1})
	require.NoError(t, err)

	for !c.Done() {
		before := c.State()
		depth := c.Depth()
		c.Next()
		assert.Equal(t, depth+1, c.Depth())
		c.Prev()
		assert.Equal(t, before, c.State(), "prev(next(s)) == s")
		assert.Equal(t, depth, c.Depth())
		c.Next()
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, c.Frame().Values)
}

func TestRoundTrip_SliceCursor(t *testing.T) {
	c, err := step.New(doubler(), []int{1, 2, 3})
	require.NoError(t, err)

	c.Next()
	saved := c.State()
	c.Next()
	c.Next()
	require.True(t, c.Done())
	c.Prev()
	c.Prev()
	assert.Equal(t, saved, c.State())
	assert.Equal(t, []int{0, 1}, saved.Cursor)
}

func TestPrevOnEmptyHistory(t *testing.T) {
	c, err := step.New(selection(), []int{2, 1})
	require.NoError(t, err)

	before := c.State()
	f := c.Prev()
	assert.Equal(t, before, c.State())
	assert.Equal(t, 0, f.Depth)
	assert.ErrorIs(t, c.Undo(), step.ErrEmptyHistory)
}

func TestReset(t *testing.T) {
	c, err := step.New(selection(), []int{4, 2, 3, 1})
	require.NoError(t, err)

	c.Next()
	c.Next()
	c.Prev()
	c.Next()

	first := c.Reset()
	assert.Equal(t, []int{4, 2, 3, 1}, first.Values)
	assert.Equal(t, 0, first.Depth)
	assert.Equal(t, first, c.Reset(), "reset is idempotent")
	assert.ErrorIs(t, c.Undo(), step.ErrEmptyHistory)
}

func TestNextWhenDoneIsNoop(t *testing.T) {
	c, err := step.New(selection(), []int{2, 1})
	require.NoError(t, err)

	c.Next()
	require.True(t, c.Done())
	before := c.State()
	f := c.Next()
	assert.Equal(t, before, c.State())
	assert.Equal(t, 1, f.Depth)
}

func TestFrameHighlight(t *testing.T) {
	c, err := step.New(selection(), []int{3, 1, 2})
	require.NoError(t, err)

	assert.Equal(t, []int{0}, c.Frame().Highlight, "focus before any step")
	assert.Equal(t, []int{0, 1}, c.Next().Highlight, "touched indices after next")
	assert.Equal(t, []int{0}, c.Prev().Highlight, "focus after prev")
	assert.Equal(t, -1, c.Frame().Pivot)
	assert.Equal(t, 3, c.Frame().Active)
	assert.Equal(t, "selection", c.Frame().Algorithm)
}

func TestFrameIsACopy(t *testing.T) {
	c, err := step.New(selection(), []int{3, 1, 2})
	require.NoError(t, err)

	f := c.Frame()
	f.Values[0] = 100
	assert.Equal(t, []int{3, 1, 2}, c.Frame().Values)
}

func TestRunToEnd(t *testing.T) {
	c, err := step.New(selection(), []int{3, 1, 2, 0})
	require.NoError(t, err)

	f, steps, err := step.RunToEnd[int](c, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, steps)
	assert.Equal(t, []int{0, 1, 2, 3}, f.Values)
	assert.True(t, f.Done)

	c.Reset()
	_, steps, err = step.RunToEnd[int](c, 1)
	assert.ErrorIs(t, err, step.ErrStepLimit)
	assert.Equal(t, 1, steps)
}

func TestRangeLen(t *testing.T) {
	assert.Equal(t, 1, step.Range{Start: 2, End: 2}.Len())
	assert.Equal(t, 4, step.Range{Start: 0, End: 3}.Len())
	assert.Equal(t, 0, step.Range{Start: 3, End: 2}.Len())
}

func TestSkip_MatchesNext(t *testing.T) {
	input := []int{5, 4, 3, 2, 1}
	live, err := step.New(selection(), input)
	require.NoError(t, err)
	skipped, err := step.New(selection(), input)
	require.NoError(t, err)

	live.Next()
	live.Next()
	assert.Equal(t, 2, skipped.Skip(2))
	assert.Equal(t, live.Frame(), skipped.Frame())
	assert.Equal(t, live.State(), skipped.State())

	assert.Equal(t, 2, skipped.Skip(10), "skip stops when done")
	assert.True(t, skipped.Done())
	assert.Equal(t, 4, skipped.Depth())
}

func TestSkip_PrevWalksBackToInput(t *testing.T) {
	input := []int{1, 2, 3, 4}
	live, err := step.New(doubler(), input)
	require.NoError(t, err)
	c, err := step.New(doubler(), input)
	require.NoError(t, err)

	for !live.Done() {
		live.Next()
	}
	c.Skip(2)
	c.Next()
	c.Skip(1)
	require.Equal(t, live.State(), c.State())

	for live.Depth() > 0 {
		live.Prev()
		c.Prev()
		assert.Equal(t, live.State(), c.State())
		assert.Equal(t, live.Depth(), c.Depth())
		assert.Empty(t, c.Frame().Highlight, "an undone step has no touched set")
	}
	assert.ErrorIs(t, c.Undo(), step.ErrEmptyHistory)
	assert.Equal(t, input, c.Frame().Values)
}

func TestSkip_ResetClearsSkipped(t *testing.T) {
	c, err := step.New(selection(), []int{3, 2, 1})
	require.NoError(t, err)
	c.Skip(2)
	f := c.Reset()
	assert.Equal(t, 0, f.Depth)
	assert.Equal(t, []int{3, 2, 1}, f.Values)
}
