package attention

import (
	"math"
	"time"

	"github.com/23skdu/longbow-recurve/lorentz"
)

// OpMetrics counts the geometric work done by a single attention pass.
type OpMetrics struct {
	DistanceOps    int64
	AggregationOps int64
	Elapsed        time.Duration
}

// Add folds another pass's counters into this one. Elapsed durations sum.
func (m *OpMetrics) Add(other OpMetrics) {
	m.DistanceOps += other.DistanceOps
	m.AggregationOps += other.AggregationOps
	m.Elapsed += other.Elapsed
}

// Result is the output of one attention pass. All slices are freshly
// allocated per call and owned by the caller.
type Result struct {
	// Point is the aggregated output on the hyperboloid.
	Point lorentz.Point
	// Projected is the Euclidean (space-only) view of Point.
	Projected []float64
	// Weights holds the softmax attention weights, one contiguous block of
	// len(keys) entries per head.
	Weights []float64
	// CurvaturesUsed lists the curvature of every level that contributed,
	// outermost first.
	CurvaturesUsed []float64
	Metrics        OpMetrics
}

// softmaxInPlace turns raw scores into a probability distribution, shifting
// by the maximum first so large negative scores cannot underflow to an
// all-zero row.
func softmaxInPlace(scores []float64) {
	if len(scores) == 0 {
		return
	}
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	var sum float64
	for i, s := range scores {
		e := math.Exp(s - max)
		scores[i] = e
		sum += e
	}
	if sum == 0 {
		uniform := 1.0 / float64(len(scores))
		for i := range scores {
			scores[i] = uniform
		}
		return
	}
	inv := 1.0 / sum
	for i := range scores {
		scores[i] *= inv
	}
}
