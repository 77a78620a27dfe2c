package lorentz

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogMap_SamePointIsZeroTangent(t *testing.T) {
	p := ToHyperboloid([]float64{0.6, -0.8, 0.3}, -1.0)

	tangent := LogMap(p, p, -1.0, DefaultEpsilon)
	assert.Zero(t, tangent.Time)
	for _, s := range tangent.Space {
		assert.Zero(t, s)
	}
}

func TestExpMap_ZeroTangentReturnsBase(t *testing.T) {
	base := ToHyperboloid([]float64{1.2, 0.4}, -1.0)

	got := ExpMap(base, ZeroTangent(2), -1.0, DefaultEpsilon)
	assert.Equal(t, base, got)
}

func TestExpLogRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	base := ToHyperboloid([]float64{0.2, -0.1, 0.5, 0.3}, -1.0)

	for i := 0; i < 20; i++ {
		v := make([]float64, 4)
		for j := range v {
			v[j] = rng.NormFloat64()
		}
		point := ToHyperboloid(v, -1.0)

		tangent := LogMap(base, point, -1.0, DefaultEpsilon)
		back := ExpMap(base, tangent, -1.0, DefaultEpsilon)

		assert.InDelta(t, point.Time, back.Time, 1e-4)
		for j := range point.Space {
			assert.InDelta(t, point.Space[j], back.Space[j], 1e-4)
		}
	}
}

func TestLogMap_NormMatchesDistance(t *testing.T) {
	base := ToHyperboloid([]float64{0, 0, 0}, -1.0)
	point := ToHyperboloid([]float64{1, -2, 0.5}, -1.0)

	tangent := LogMap(base, point, -1.0, DefaultEpsilon)
	normL := math.Sqrt(MinkowskiInner(tangent, tangent))
	want := Distance(base, point, -1.0, DefaultEpsilon)

	assert.InDelta(t, want, normL, 1e-9)
}

func TestLogMap_TangentOrthogonalToBase(t *testing.T) {
	// Tangent vectors at base satisfy <tangent, base>_L = 0 on the unit sheet.
	base := ToHyperboloid([]float64{0.3, 0.3, -0.6}, -1.0)
	point := ToHyperboloid([]float64{-1, 0.2, 0.4}, -1.0)

	tangent := LogMap(base, point, -1.0, DefaultEpsilon)
	assert.InDelta(t, 0, MinkowskiInner(tangent, base), 1e-9)
}

func TestExpMap_LandsOnSheet(t *testing.T) {
	base := ToHyperboloid([]float64{0.1, 0.9}, -1.0)
	point := ToHyperboloid([]float64{-0.7, 0.2}, -1.0)
	tangent := LogMap(base, point, -1.0, DefaultEpsilon)

	out := ExpMap(base, tangent, -1.0, DefaultEpsilon)
	assert.InDelta(t, 0, sheetResidual(out, -1.0), 1e-8)
}

func TestParallelTransport_IdenticalEndpoints(t *testing.T) {
	p := ToHyperboloid([]float64{0.5, 0.5, 0.5}, -1.0)
	base := ToHyperboloid([]float64{1, 0, -1}, -1.0)
	vec := LogMap(base, p, -1.0, DefaultEpsilon)

	// On the unit sheet 1 + <base,base>_L hits the zero-divide guard.
	got := ParallelTransport(vec, base, base, -1.0, DefaultEpsilon)
	assert.Equal(t, vec, got)
}

func TestParallelTransport_Formula(t *testing.T) {
	from := ToHyperboloid([]float64{0.2, 0.1, 0}, -1.0)
	to := ToHyperboloid([]float64{-0.4, 0.8, 0.3}, -1.0)
	target := ToHyperboloid([]float64{1, 1, -1}, -1.0)
	vec := LogMap(from, target, -1.0, DefaultEpsilon)

	got := ParallelTransport(vec, from, to, -1.0, DefaultEpsilon)

	lg := LogMap(from, to, -1.0, DefaultEpsilon)
	coeff := MinkowskiInner(vec, lg) / (1 + MinkowskiInner(from, to))
	require.False(t, math.IsNaN(coeff))

	assert.InDelta(t, vec.Time+coeff*(from.Time+to.Time), got.Time, 1e-12)
	for i := range vec.Space {
		want := vec.Space[i] + coeff*(from.Space[i]+to.Space[i])
		assert.InDelta(t, want, got.Space[i], 1e-12)
	}
}

func TestPoincareRoundTrip(t *testing.T) {
	for _, c := range []float64{-0.5, -1.0, -2.0} {
		p := ToHyperboloid([]float64{0.4, -0.6, 1.0}, c)

		ball := ToPoincare(p, c)
		back := FromPoincare(ball, c, DefaultEpsilon)

		assert.InDelta(t, p.Time, back.Time, 1e-8, "curvature %v", c)
		for i := range p.Space {
			assert.InDelta(t, p.Space[i], back.Space[i], 1e-8, "curvature %v", c)
		}
	}
}

func TestFromPoincare_BoundaryClamped(t *testing.T) {
	// A point on the unit ball boundary would divide by zero without the
	// eps floor.
	p := FromPoincare([]float64{1, 0}, -1.0, DefaultEpsilon)
	assert.False(t, math.IsNaN(p.Time))
	assert.False(t, math.IsInf(p.Time, 0))
}
