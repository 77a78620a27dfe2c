package attention

import (
	"time"

	"github.com/23skdu/longbow-recurve/internal/errors"
	"github.com/23skdu/longbow-recurve/internal/metrics"
	"github.com/23skdu/longbow-recurve/internal/simd"
	"github.com/23skdu/longbow-recurve/lorentz"
)

// ComputeTangent runs a single full-dimension attention pass in the tangent
// space at the query. Keys and values are pulled through the logarithmic map,
// scored by the Euclidean self-product of the key tangents, averaged linearly,
// and the blend is mapped back through the exponential map. Heads are not
// sliced on this path.
func (a *Attention) ComputeTangent(query []float64, keys, values [][]float64) (*Result, error) {
	start := time.Now()
	if err := a.validateInputs(query, keys, values); err != nil {
		return nil, err
	}
	n := len(keys)
	if n == 0 {
		return nil, errors.NewValidationError("attention", "empty key list")
	}

	queryPoint := lorentz.ToHyperboloid(query, a.curvature)
	keyPoints := lorentz.ToHyperboloidBatch(keys, a.curvature)
	valPoints := lorentz.ToHyperboloidBatch(values, a.curvature)

	keyTangents := make([]lorentz.Point, n)
	valTangents := make([]lorentz.Point, n)
	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		keyTangents[i] = lorentz.LogMap(queryPoint, keyPoints[i], a.curvature, a.epsilon)
		valTangents[i] = lorentz.LogMap(queryPoint, valPoints[i], a.curvature, a.epsilon)

		t := keyTangents[i]
		selfDot := simd.SquaredNorm(t.Space) + t.Time*t.Time
		weights[i] = -selfDot / a.temperature
	}
	distanceOps := int64(2 * n)
	softmaxInPlace(weights)

	blend := lorentz.ZeroTangent(a.dim)
	for i := 0; i < n; i++ {
		blend.Time += weights[i] * valTangents[i].Time
		simd.Axpy(weights[i], valTangents[i].Space, blend.Space)
	}
	// Clone so the zero-tangent path cannot hand back a view of the query.
	out := lorentz.ExpMap(queryPoint, blend, a.curvature, a.epsilon).Clone()
	aggregationOps := int64(1)

	metrics.DistanceOpsTotal.Add(float64(distanceOps))
	metrics.AggregationOpsTotal.Add(float64(aggregationOps))
	elapsed := time.Since(start)
	metrics.AttentionDurationSeconds.WithLabelValues("tangent").Observe(elapsed.Seconds())

	return &Result{
		Point:          out,
		Projected:      append([]float64(nil), out.Space...),
		Weights:        weights,
		CurvaturesUsed: []float64{a.curvature},
		Metrics: OpMetrics{
			DistanceOps:    distanceOps,
			AggregationOps: aggregationOps,
			Elapsed:        elapsed,
		},
	}, nil
}
