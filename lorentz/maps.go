package lorentz

import (
	"math"

	"github.com/23skdu/longbow-recurve/internal/simd"
)

// ExpMap maps a tangent vector at base onto the hyperboloid:
//
//	out = cosh(||t||_L)*base + sinh(||t||_L)/||t||_L * sqrt(|c|) * t
//
// where ||t||_L is the Minkowski norm of the tangent. A near-zero tangent
// returns base unchanged; that is the documented degenerate-case policy,
// not an error.
func ExpMap(base, tangent Point, curvature, eps float64) Point {
	normSq := MinkowskiInner(tangent, tangent)
	if normSq <= eps {
		return base
	}
	norm := math.Sqrt(normSq)
	coshN := math.Cosh(norm)
	scale := math.Sinh(norm) / norm * math.Sqrt(-curvature)

	out := make([]float64, len(base.Space))
	simd.Scale(coshN, base.Space, out)
	simd.Axpy(scale, tangent.Space, out)
	return Point{
		Time:  coshN*base.Time + scale*tangent.Time,
		Space: out,
	}
}

// LogMap maps a hyperboloid point into the tangent space at base, producing
// a tangent vector whose Minkowski norm equals the geodesic distance:
//
//	diff = point + <base,point>_L * base
//	out  = distance(base, point) / ||diff||_L * diff
//
// Returns the zero tangent when base and point coincide (||diff||_L ~ 0).
func LogMap(base, point Point, curvature, eps float64) Point {
	inner := MinkowskiInner(base, point)

	diff := make([]float64, len(point.Space))
	copy(diff, point.Space)
	simd.Axpy(inner, base.Space, diff)
	diffTime := point.Time + inner*base.Time

	diffNormSq := simd.SquaredNorm(diff) - diffTime*diffTime
	if diffNormSq <= eps {
		return ZeroTangent(len(point.Space))
	}
	scale := Distance(base, point, curvature, eps) / math.Sqrt(diffNormSq)
	simd.Scale(scale, diff, diff)
	return Point{
		Time:  scale * diffTime,
		Space: diff,
	}
}

// ParallelTransport carries a tangent vector from one point's tangent space
// to another's along the connecting geodesic:
//
//	coeff = <v, logMap(from,to)>_L / (1 + <from,to>_L)
//	out   = v + coeff * (from + to)
//
// When from and to coincide the transport is the identity; the denominator
// check doubles as the division-by-zero guard.
func ParallelTransport(vector, from, to Point, curvature, eps float64) Point {
	denom := 1 + MinkowskiInner(from, to)
	if math.Abs(denom) <= eps {
		return vector
	}
	lg := LogMap(from, to, curvature, eps)
	coeff := MinkowskiInner(vector, lg) / denom

	out := make([]float64, len(vector.Space))
	copy(out, vector.Space)
	simd.Axpy(coeff, from.Space, out)
	simd.Axpy(coeff, to.Space, out)
	return Point{
		Time:  vector.Time + coeff*(from.Time+to.Time),
		Space: out,
	}
}
