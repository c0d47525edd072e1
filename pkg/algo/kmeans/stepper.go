package kmeans

import (
	"slices"

	"github.com/matzehuels/stepwise/pkg/step"
)

// Snapshot is the state of a stepped clustering run.
type Snapshot struct {
	Iteration int         `json:"iteration"`
	Centroids [][]float64 `json:"centroids"`
	Labels    []int       `json:"labels"`
	Error     float64     `json:"error"`
	Shift     float64     `json:"shift"`
}

func (s Snapshot) clone() Snapshot {
	s.Centroids = clonePoints(s.Centroids)
	s.Labels = slices.Clone(s.Labels)
	return s
}

// Stepper runs one assign+update iteration per Next and can undo them.
type Stepper struct {
	cfg     Config
	current Snapshot
	history *step.History[Snapshot]
}

// NewStepper validates cfg and returns a stepper at iteration 0.
func NewStepper(cfg Config) (*Stepper, error) {
	cfg, err := Prepare(cfg)
	if err != nil {
		return nil, err
	}
	s := &Stepper{
		cfg:     cfg,
		history: step.NewHistory(Snapshot.clone),
	}
	s.Reset()
	return s, nil
}

// Points returns a copy of the clustered points.
func (s *Stepper) Points() [][]float64 { return clonePoints(s.cfg.Points) }

// Reset returns to the initial centroids and clears history.
func (s *Stepper) Reset() Snapshot {
	centroids := clonePoints(s.cfg.Centroids)
	labels := Assign(s.cfg.Points, centroids)
	s.current = Snapshot{
		Centroids: centroids,
		Labels:    labels,
		Error:     Error(s.cfg.Points, centroids, labels),
		Shift:     -1,
	}
	s.history.Clear()
	return s.Snapshot()
}

// Done reports whether the run converged or hit MaxIterations.
func (s *Stepper) Done() bool {
	if s.current.Iteration >= s.cfg.MaxIterations {
		return true
	}
	return s.current.Shift >= 0 && s.current.Shift <= s.cfg.Tolerance
}

// Next performs one iteration; a no-op once done.
func (s *Stepper) Next() Snapshot {
	if s.Done() {
		return s.Snapshot()
	}
	s.history.Push(s.current)

	next := Update(s.cfg.Points, s.current.Centroids, s.current.Labels)
	shift := MaxShift(s.current.Centroids, next)
	labels := Assign(s.cfg.Points, next)
	s.current = Snapshot{
		Iteration: s.current.Iteration + 1,
		Centroids: next,
		Labels:    labels,
		Error:     Error(s.cfg.Points, next, labels),
		Shift:     shift,
	}
	return s.Snapshot()
}

// Prev undoes the last iteration; a no-op with empty history.
func (s *Stepper) Prev() Snapshot {
	if prev, ok := s.history.Pop(); ok {
		s.current = prev
	}
	return s.Snapshot()
}

// Depth returns the number of iterations that can be undone.
func (s *Stepper) Depth() int { return s.history.Len() }

// Snapshot returns a copy of the current state.
func (s *Stepper) Snapshot() Snapshot { return s.current.clone() }
