package render

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/matzehuels/stepwise/pkg/cache"
	"github.com/matzehuels/stepwise/pkg/step"
)

// Scene is the element-type independent form of a frame that every
// renderer consumes.
type Scene struct {
	Algorithm string       `json:"algorithm"`
	Labels    []string     `json:"labels"`
	Highlight []int        `json:"highlight"`
	Pivot     int          `json:"pivot"`
	Runs      []step.Range `json:"runs,omitempty"`
	Active    int          `json:"active"`
	Depth     int          `json:"depth"`
	Done      bool         `json:"done"`
}

// SceneOf converts a frame into a Scene, formatting values with fmt.Sprint.
func SceneOf[T cmp.Ordered](f step.Frame[T]) Scene {
	labels := make([]string, len(f.Values))
	for i, v := range f.Values {
		labels[i] = fmt.Sprint(v)
	}
	return Scene{
		Algorithm: f.Algorithm,
		Labels:    labels,
		Highlight: slices.Clone(f.Highlight),
		Pivot:     f.Pivot,
		Runs:      slices.Clone(f.Runs),
		Active:    f.Active,
		Depth:     f.Depth,
		Done:      f.Done,
	}
}

// Len returns the number of elements.
func (s Scene) Len() int { return len(s.Labels) }

// Highlighted reports whether index i is highlighted.
func (s Scene) Highlighted(i int) bool { return slices.Contains(s.Highlight, i) }

// Inactive reports whether index i lies outside the region still being
// worked on, such as the sorted tail during heapsort.
func (s Scene) Inactive(i int) bool { return i >= s.Active }

// RunOf returns the index of the run containing i, or -1.
func (s Scene) RunOf(i int) int {
	for k, r := range s.Runs {
		if i >= r.Start && i <= r.End {
			return k
		}
	}
	return -1
}

// Title is the caption shown above rendered scenes.
func (s Scene) Title() string {
	title := fmt.Sprintf("%s  step %d", s.Algorithm, s.Depth)
	if s.Done {
		title += "  (done)"
	}
	return title
}

// Hash identifies the scene content for caching.
func (s Scene) Hash() string {
	data, _ := json.Marshal(s)
	return cache.Hash(data)
}
