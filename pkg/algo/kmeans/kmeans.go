// Package kmeans implements Lloyd's k-means clustering.
//
// Distances are squared Euclidean. Each iteration assigns every point to its
// nearest centroid (ties go to the lowest centroid index) and moves every
// centroid to the per-dimension mean of its assigned points. A centroid with
// no assigned points keeps its previous position.
//
// All state is passed explicitly through [Config]; [Run] never touches
// package-level variables.
package kmeans

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// Defaults applied by Config.withDefaults.
const (
	DefaultK             = 3
	DefaultMaxIterations = 10
	DefaultSeed          = uint64(42)
)

// Sentinel errors for configuration problems.
var (
	ErrNoPoints       = errors.New("no points")
	ErrDimension      = errors.New("dimension mismatch")
	ErrInvalidValue   = errors.New("point value is NaN or infinite")
	ErrTooManyCluster = errors.New("k exceeds number of points")
	ErrTolerance      = errors.New("tolerance must be a non-negative number")
)

// Config describes one clustering run.
type Config struct {
	// Points are the observations, all of the same dimension.
	Points [][]float64 `toml:"points" json:"points"`

	// Centroids are the initial centroids. When empty, K distinct points are
	// chosen with a generator seeded by Seed.
	Centroids [][]float64 `toml:"centroids" json:"centroids,omitempty"`

	// K is the number of clusters when Centroids is empty.
	K int `toml:"k" json:"k,omitempty"`

	// Seed seeds centroid selection and Random point generation.
	Seed uint64 `toml:"seed" json:"seed,omitempty"`

	// MaxIterations bounds the number of assign/update iterations.
	MaxIterations int `toml:"max_iterations" json:"max_iterations,omitempty"`

	// Tolerance stops early once no centroid moves more than this distance.
	// Zero means stop only when centroids do not move at all.
	Tolerance float64 `toml:"tolerance" json:"tolerance,omitempty"`

	// Random generates points when Points is empty.
	Random *RandomConfig `toml:"random" json:"random,omitempty"`
}

// RandomConfig describes uniformly random points in the unit hypercube.
type RandomConfig struct {
	Count     int `toml:"count" json:"count"`
	Dimension int `toml:"dimension" json:"dimension"`
}

// Result is the outcome of Run.
type Result struct {
	// Centroids are the final centroids.
	Centroids [][]float64 `json:"centroids"`
	// Labels assigns every point to its nearest final centroid.
	Labels []int `json:"labels"`
	// Errors holds the within-cluster sum of squared distances of each
	// iteration's assignment, measured before that iteration's update.
	Errors []float64 `json:"errors"`
	// Iterations is the number of assign/update iterations performed.
	Iterations int `json:"iterations"`
	// Converged reports whether the run stopped because centroids settled.
	Converged bool `json:"converged"`
}

// Random returns count uniformly random points of the given dimension.
// Non-positive sizes yield no points.
func Random(count, dim int, seed uint64) [][]float64 {
	if count <= 0 || dim <= 0 {
		return nil
	}
	r := rand.New(rand.NewPCG(seed, seed))
	points := make([][]float64, count)
	for i := range points {
		p := make([]float64, dim)
		for d := range p {
			p[d] = r.Float64()
		}
		points[i] = p
	}
	return points
}

// Prepare validates cfg and returns a copy with defaults applied, generated
// points, and initial centroids filled in.
func Prepare(cfg Config) (Config, error) {
	if cfg.Tolerance < 0 || math.IsNaN(cfg.Tolerance) {
		return cfg, fmt.Errorf("%w: got %v", ErrTolerance, cfg.Tolerance)
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.Seed == 0 {
		cfg.Seed = DefaultSeed
	}
	if len(cfg.Points) == 0 && cfg.Random != nil {
		cfg.Points = Random(cfg.Random.Count, cfg.Random.Dimension, cfg.Seed)
	}
	if len(cfg.Points) == 0 {
		return cfg, ErrNoPoints
	}
	cfg.Points = clonePoints(cfg.Points)

	dim := len(cfg.Points[0])
	if dim == 0 {
		return cfg, fmt.Errorf("%w: points have no coordinates", ErrDimension)
	}
	if err := validate(cfg.Points, dim, "point"); err != nil {
		return cfg, err
	}

	if len(cfg.Centroids) == 0 {
		k := cfg.K
		if k <= 0 {
			k = DefaultK
		}
		if k > len(cfg.Points) {
			return cfg, fmt.Errorf("%w: k=%d, points=%d", ErrTooManyCluster, k, len(cfg.Points))
		}
		cfg.Centroids = choose(cfg.Points, k, cfg.Seed)
	} else {
		cfg.Centroids = clonePoints(cfg.Centroids)
		if err := validate(cfg.Centroids, dim, "centroid"); err != nil {
			return cfg, err
		}
	}
	cfg.K = len(cfg.Centroids)
	return cfg, nil
}

func validate(points [][]float64, dim int, kind string) error {
	for i, p := range points {
		if len(p) != dim {
			return fmt.Errorf("%w: %s %d has %d coordinates, want %d", ErrDimension, kind, i, len(p), dim)
		}
		for _, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s %d", ErrInvalidValue, kind, i)
			}
		}
	}
	return nil
}

// choose picks k distinct points as initial centroids.
func choose(points [][]float64, k int, seed uint64) [][]float64 {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	perm := r.Perm(len(points))
	out := make([][]float64, k)
	for i := range out {
		out[i] = append([]float64(nil), points[perm[i]]...)
	}
	return out
}

// Run clusters cfg.Points.
func Run(cfg Config) (*Result, error) {
	cfg, err := Prepare(cfg)
	if err != nil {
		return nil, err
	}

	centroids := cfg.Centroids
	res := &Result{}
	for res.Iterations < cfg.MaxIterations {
		labels := Assign(cfg.Points, centroids)
		res.Errors = append(res.Errors, Error(cfg.Points, centroids, labels))
		next := Update(cfg.Points, centroids, labels)
		res.Iterations++

		shift := MaxShift(centroids, next)
		centroids = next
		if shift <= cfg.Tolerance {
			res.Converged = true
			break
		}
	}
	res.Centroids = centroids
	res.Labels = Assign(cfg.Points, centroids)
	return res, nil
}

// SquaredDistance returns the squared Euclidean distance between a and b.
func SquaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Nearest returns the index of the centroid closest to p.
func Nearest(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := SquaredDistance(p, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Assign labels every point with its nearest centroid.
func Assign(points, centroids [][]float64) []int {
	labels := make([]int, len(points))
	for i, p := range points {
		labels[i] = Nearest(p, centroids)
	}
	return labels
}

// Update returns new centroids: the mean of each cluster's points, or the
// previous centroid for an empty cluster.
func Update(points, centroids [][]float64, labels []int) [][]float64 {
	dim := len(centroids[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, p := range points {
		c := labels[i]
		counts[c]++
		for d, v := range p {
			sums[c][d] += v
		}
	}

	next := make([][]float64, len(centroids))
	for c := range next {
		if counts[c] == 0 {
			next[c] = append([]float64(nil), centroids[c]...)
			continue
		}
		for d := range sums[c] {
			sums[c][d] /= float64(counts[c])
		}
		next[c] = sums[c]
	}
	return next
}

// Error returns the sum over all points of the squared distance to their
// assigned centroid.
func Error(points, centroids [][]float64, labels []int) float64 {
	var total float64
	for i, p := range points {
		total += SquaredDistance(p, centroids[labels[i]])
	}
	return total
}

// MaxShift returns the largest Euclidean distance any centroid moved.
func MaxShift(before, after [][]float64) float64 {
	var shift float64
	for c := range before {
		shift = max(shift, math.Sqrt(SquaredDistance(before[c], after[c])))
	}
	return shift
}

func clonePoints(points [][]float64) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = append([]float64(nil), p...)
	}
	return out
}
