// Package lorentz implements hyperbolic geometry on the Lorentz (hyperboloid) model.
package lorentz

import (
	"math"

	"github.com/23skdu/longbow-recurve/internal/simd"
)

// DefaultEpsilon is the numerical-stability floor used when callers have no
// engine-level epsilon configured.
const DefaultEpsilon = 1e-9

// Point is a point on the upper sheet of a hyperboloid of negative curvature c,
// satisfying -Time^2 + ||Space||^2 = -1/|c| with Time > 0. The same struct
// carries tangent vectors, which live in the ambient Minkowski space and do
// not satisfy the sheet equation.
type Point struct {
	Time  float64
	Space []float64
}

// Dim returns the spatial dimensionality of the point.
func (p Point) Dim() int {
	return len(p.Space)
}

// Clone returns a deep copy of the point.
func (p Point) Clone() Point {
	return Point{
		Time:  p.Time,
		Space: append([]float64(nil), p.Space...),
	}
}

// ZeroTangent returns the zero tangent vector of the given dimension.
func ZeroTangent(dim int) Point {
	return Point{Space: make([]float64, dim)}
}

// ToHyperboloid lifts a Euclidean vector onto the hyperboloid of the given
// curvature by solving the sheet equation for the time coordinate. The
// returned point shares the caller's backing slice.
func ToHyperboloid(v []float64, curvature float64) Point {
	return Point{
		Time:  math.Sqrt(1/math.Abs(curvature) + simd.SquaredNorm(v)),
		Space: v,
	}
}

// ToEuclidean projects a hyperboloid point back to its Euclidean
// representation by dropping the time coordinate. The returned slice aliases
// the point's space components.
func ToEuclidean(p Point) []float64 {
	return p.Space
}

// MinkowskiInner computes the Minkowski bilinear form
// -a.Time*b.Time + dot(a.Space, b.Space). Every other operation in this
// package is built on it.
func MinkowskiInner(a, b Point) float64 {
	return simd.Dot(a.Space, b.Space) - a.Time*b.Time
}

// ProjectToHyperboloid recomputes the time coordinate from the space
// components, correcting accumulated numerical drift. The closed forms in
// this package keep points close to the sheet, so this is rarely needed.
func ProjectToHyperboloid(p Point, curvature float64) Point {
	return Point{
		Time:  math.Sqrt(1/math.Abs(curvature) + simd.SquaredNorm(p.Space)),
		Space: p.Space,
	}
}
