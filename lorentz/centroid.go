package lorentz

import (
	"math"

	"github.com/23skdu/longbow-recurve/internal/errors"
	"github.com/23skdu/longbow-recurve/internal/simd"
)

// Centroid computes the weighted hyperbolic centroid (Einstein midpoint) of
// a set of hyperboloid points in closed form:
//
//	S = sum_i w_i * p_i  (time and space accumulated independently)
//	out = S / sqrt(max(-<S,S>_L, eps))
//
// Weights are normalized to sum to 1; nil weights mean uniform. A single
// point is returned unchanged with no computation. The Minkowski squared
// norm of S is negative whenever the inputs sit on the hyperboloid, so the
// max() floor only engages under extreme cancellation.
//
// One pass over the points, O(n*dim). The iterative Frechet-mean procedure
// this replaces costs O(n*dim*iterations); internal/benchmark holds the
// comparison honest.
func Centroid(points []Point, weights []float64, curvature, eps float64) (Point, error) {
	if len(points) == 0 {
		return Point{}, errors.NewValidationError("centroid", "empty point list")
	}
	if weights != nil && len(weights) != len(points) {
		return Point{}, errors.NewValidationError("centroid", "weights length does not match points").
			WithContext("points", len(points)).
			WithContext("weights", len(weights))
	}
	if len(points) == 1 {
		return points[0], nil
	}

	invTotal := 1.0 / float64(len(points))
	if weights != nil {
		var total float64
		for _, w := range weights {
			total += w
		}
		if total > 0 {
			invTotal = 1.0 / total
		} else {
			// Degenerate weight mass falls back to uniform.
			weights = nil
		}
	}

	dim := points[0].Dim()
	var sumTime float64
	sumSpace := make([]float64, dim)
	for i := range points {
		w := invTotal
		if weights != nil {
			w = weights[i] * invTotal
		}
		sumTime += w * points[i].Time
		simd.Axpy(w, points[i].Space, sumSpace)
	}

	normSq := simd.SquaredNorm(sumSpace) - sumTime*sumTime
	inv := 1.0 / math.Sqrt(math.Max(-normSq, eps))
	simd.Scale(inv, sumSpace, sumSpace)

	return Point{Time: sumTime * inv, Space: sumSpace}, nil
}
