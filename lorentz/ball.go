package lorentz

import (
	"math"

	"github.com/23skdu/longbow-recurve/internal/simd"
)

// Poincare ball conversions. These exist to feed the benchmark comparison
// against the ball-model baseline and are not part of the attention path.

// ToPoincare maps a hyperboloid point into the Poincare ball of the same
// curvature (radius 1/sqrt(|c|)) by stereographic projection.
func ToPoincare(p Point, curvature float64) []float64 {
	s := 1 / math.Sqrt(-curvature)
	out := make([]float64, len(p.Space))
	simd.Scale(s/(s+p.Time), p.Space, out)
	return out
}

// FromPoincare maps a Poincare-ball point back onto the hyperboloid. Points
// on or outside the ball boundary are pulled just inside via the eps floor.
func FromPoincare(ball []float64, curvature, eps float64) Point {
	s := 1 / math.Sqrt(-curvature)
	q := simd.SquaredNorm(ball)
	denom := math.Max(s*s-q, eps)

	out := make([]float64, len(ball))
	simd.Scale(2*s*s/denom, ball, out)
	return Point{
		Time:  s * (s*s + q) / denom,
		Space: out,
	}
}
