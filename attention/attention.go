// Package attention implements multi-head geodesic-distance attention over
// hyperboloid embeddings with closed-form centroid aggregation.
package attention

import (
	"time"

	"github.com/23skdu/longbow-recurve/internal/errors"
	"github.com/23skdu/longbow-recurve/internal/metrics"
	"github.com/23skdu/longbow-recurve/internal/pool"
	"github.com/23skdu/longbow-recurve/lorentz"
)

// Attention is a single-curvature multi-head attention engine. Immutable
// after construction; concurrent Compute calls against one instance are safe.
type Attention struct {
	dim         int
	curvature   float64
	numHeads    int
	headDim     int
	temperature float64
	dropout     float64
	epsilon     float64
	scratch     *pool.ScratchPool
}

// New builds an attention engine with the default numerical epsilon.
// Dropout is carried as validated configuration for schedule compatibility;
// the closed-form path never applies it.
func New(dim int, curvature float64, numHeads int, temperature, dropout float64) (*Attention, error) {
	return NewWithEpsilon(dim, curvature, numHeads, temperature, dropout, lorentz.DefaultEpsilon)
}

// NewWithEpsilon builds an attention engine with an explicit numerical
// epsilon, letting engines with different tolerances coexist.
func NewWithEpsilon(dim int, curvature float64, numHeads int, temperature, dropout, epsilon float64) (*Attention, error) {
	if dim <= 0 {
		return nil, errors.NewConfigurationError("attention", "dimension must be positive").
			WithContext("dim", dim)
	}
	if numHeads <= 0 || dim%numHeads != 0 {
		return nil, errors.NewConfigurationError("attention", "dimension not divisible by head count").
			WithContext("dim", dim).
			WithContext("numHeads", numHeads)
	}
	if curvature >= 0 {
		return nil, errors.NewConfigurationError("attention", "curvature must be negative").
			WithContext("curvature", curvature)
	}
	if temperature <= 0 {
		return nil, errors.NewConfigurationError("attention", "temperature must be positive").
			WithContext("temperature", temperature)
	}
	if dropout < 0 || dropout >= 1 {
		return nil, errors.NewConfigurationError("attention", "dropout must be in [0,1)").
			WithContext("dropout", dropout)
	}
	if epsilon <= 0 {
		return nil, errors.NewConfigurationError("attention", "epsilon must be positive").
			WithContext("epsilon", epsilon)
	}

	return &Attention{
		dim:         dim,
		curvature:   curvature,
		numHeads:    numHeads,
		headDim:     dim / numHeads,
		temperature: temperature,
		dropout:     dropout,
		epsilon:     epsilon,
		scratch:     pool.NewScratchPool(),
	}, nil
}

// Dim returns the configured embedding dimensionality.
func (a *Attention) Dim() int { return a.dim }

// Curvature returns the configured curvature.
func (a *Attention) Curvature() float64 { return a.curvature }

// NumHeads returns the configured head count.
func (a *Attention) NumHeads() int { return a.numHeads }

// Temperature returns the configured softmax temperature.
func (a *Attention) Temperature() float64 { return a.temperature }

// Epsilon returns the configured numerical epsilon.
func (a *Attention) Epsilon() float64 { return a.epsilon }

func (a *Attention) validateInputs(query []float64, keys, values [][]float64) error {
	if len(query) != a.dim {
		return errors.NewValidationError("attention", "query dimension mismatch").
			WithContext("want", a.dim).
			WithContext("got", len(query))
	}
	if len(keys) != len(values) {
		return errors.NewValidationError("attention", "keys and values length mismatch").
			WithContext("keys", len(keys)).
			WithContext("values", len(values))
	}
	for i := range keys {
		if len(keys[i]) != a.dim || len(values[i]) != a.dim {
			return errors.NewValidationError("attention", "key or value dimension mismatch").
				WithContext("index", i)
		}
	}
	return nil
}

// Compute runs one multi-head attention pass on the hyperboloid. Each head
// owns a contiguous slice of the space dimensions while sharing the full
// time coordinate; head outputs are concatenated and the final time is the
// arithmetic mean of per-head times. That composition is an approximation
// carried over deliberately: the concatenated point is not guaranteed to sit
// exactly on a single shared hyperboloid.
func (a *Attention) Compute(query []float64, keys, values [][]float64) (*Result, error) {
	start := time.Now()
	if err := a.validateInputs(query, keys, values); err != nil {
		return nil, err
	}
	n := len(keys)

	queryPoint := lorentz.ToHyperboloid(query, a.curvature)
	keyPoints := lorentz.ToHyperboloidBatch(keys, a.curvature)
	valPoints := lorentz.ToHyperboloidBatch(values, a.curvature)

	distBuf := a.scratch.Get(n)
	defer a.scratch.Put(distBuf)

	headKeys := make([]lorentz.Point, n)
	headVals := make([]lorentz.Point, n)
	weights := make([]float64, a.numHeads*n)
	outSpace := make([]float64, a.dim)

	var distanceOps, aggregationOps int64
	var timeSum float64

	for h := 0; h < a.numHeads; h++ {
		lo, hi := h*a.headDim, (h+1)*a.headDim

		headQuery := lorentz.Point{Time: queryPoint.Time, Space: queryPoint.Space[lo:hi]}
		for i := 0; i < n; i++ {
			headKeys[i] = lorentz.Point{Time: keyPoints[i].Time, Space: keyPoints[i].Space[lo:hi]}
			headVals[i] = lorentz.Point{Time: valPoints[i].Time, Space: valPoints[i].Space[lo:hi]}
		}

		dists := lorentz.DistanceBatch(headQuery, headKeys, a.curvature, a.epsilon, *distBuf)
		distanceOps += int64(n)

		headWeights := weights[h*n : (h+1)*n]
		for i, d := range dists {
			headWeights[i] = -(d * d) / a.temperature
		}
		softmaxInPlace(headWeights)

		headOut, err := lorentz.Centroid(headVals, headWeights, a.curvature, a.epsilon)
		if err != nil {
			return nil, err
		}
		aggregationOps++

		copy(outSpace[lo:hi], headOut.Space)
		timeSum += headOut.Time
	}

	metrics.DistanceOpsTotal.Add(float64(distanceOps))
	metrics.AggregationOpsTotal.Add(float64(aggregationOps))
	elapsed := time.Since(start)
	metrics.AttentionDurationSeconds.WithLabelValues("hyperboloid").Observe(elapsed.Seconds())

	return &Result{
		Point:          lorentz.Point{Time: timeSum / float64(a.numHeads), Space: outSpace},
		Projected:      append([]float64(nil), outSpace...),
		Weights:        weights,
		CurvaturesUsed: []float64{a.curvature},
		Metrics: OpMetrics{
			DistanceOps:    distanceOps,
			AggregationOps: aggregationOps,
			Elapsed:        elapsed,
		},
	}, nil
}
