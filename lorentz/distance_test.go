package lorentz

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPoints(n, dim int, curvature float64, rng *rand.Rand) []Point {
	points := make([]Point, n)
	for i := range points {
		v := make([]float64, dim)
		for j := range v {
			v[j] = rng.NormFloat64()
		}
		points[i] = ToHyperboloid(v, curvature)
	}
	return points
}

func TestDistance_SelfApproxZero(t *testing.T) {
	p := ToHyperboloid([]float64{0.3, -0.4, 0.8, 0.1}, -1.0)
	d := Distance(p, p, -1.0, DefaultEpsilon)

	// The 1+eps clamp leaves a residual of about sqrt(2*eps).
	assert.GreaterOrEqual(t, d, 0.0)
	assert.Less(t, d, 1e-4)
}

func TestDistance_Symmetric(t *testing.T) {
	a := ToHyperboloid([]float64{1, 2, 3}, -1.0)
	b := ToHyperboloid([]float64{-0.5, 0.7, 0.1}, -1.0)

	assert.Equal(t, Distance(a, b, -1.0, DefaultEpsilon), Distance(b, a, -1.0, DefaultEpsilon))
}

func TestDistance_KnownValue(t *testing.T) {
	// From the origin of the unit hyperboloid, distance equals asinh(||v||).
	origin := ToHyperboloid([]float64{0, 0, 0}, -1.0)
	p := ToHyperboloid([]float64{1, 0, 0}, -1.0)

	want := math.Asinh(1) // ln(1+sqrt(2))
	assert.InDelta(t, want, Distance(origin, p, -1.0, DefaultEpsilon), 1e-9)
}

func TestDistance_OppositePoints(t *testing.T) {
	// The acceptance pair: [1,0,0,0] versus [-1,0,0,0] at curvature -1.
	a := ToHyperboloid([]float64{1, 0, 0, 0}, -1.0)
	b := ToHyperboloid([]float64{-1, 0, 0, 0}, -1.0)

	d := Distance(a, b, -1.0, DefaultEpsilon)
	assert.InDelta(t, math.Acosh(3), d, 1e-9)
	assert.Greater(t, d, 1.0)
}

func TestDistance_CurvatureScaling(t *testing.T) {
	// Stronger curvature shortens the same geodesic through the 1/sqrt(|c|)
	// factor; both distances stay positive.
	a4 := ToHyperboloid([]float64{2, 0}, -4.0)
	b4 := ToHyperboloid([]float64{-2, 0}, -4.0)
	a1 := ToHyperboloid([]float64{2, 0}, -1.0)
	b1 := ToHyperboloid([]float64{-2, 0}, -1.0)

	d4 := Distance(a4, b4, -4.0, DefaultEpsilon)
	d1 := Distance(a1, b1, -1.0, DefaultEpsilon)
	assert.Greater(t, d4, 0.0)
	assert.Less(t, d4, d1)
}

func TestDistance_ClampPreventsNaN(t *testing.T) {
	// Identical points can push the acosh argument below 1 via rounding;
	// the clamp keeps the result finite.
	p := ToHyperboloid([]float64{1e-8, 0, 0}, -1.0)
	d := Distance(p, p, -1.0, DefaultEpsilon)
	assert.False(t, math.IsNaN(d))
}

func TestDistanceBatch_MatchesPointwise(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	query := ToHyperboloid([]float64{0.1, 0.2, 0.3, 0.4}, -1.0)
	points := randomPoints(17, 4, -1.0, rng)

	results := DistanceBatch(query, points, -1.0, DefaultEpsilon, nil)
	require.Len(t, results, len(points))
	for i := range points {
		assert.Equal(t, Distance(query, points[i], -1.0, DefaultEpsilon), results[i])
	}
}

func TestDistanceBatch_ReusesBuffer(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	query := ToHyperboloid([]float64{1, 1}, -1.0)
	points := randomPoints(8, 2, -1.0, rng)

	buf := make([]float64, 0, 32)
	results := DistanceBatch(query, points, -1.0, DefaultEpsilon, buf)
	assert.Equal(t, 32, cap(results))
}

func TestDistanceBatchParallel_MatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	query := ToHyperboloid([]float64{0.5, -0.5, 0.25}, -1.0)
	points := randomPoints(1500, 3, -1.0, rng)

	seq := DistanceBatch(query, points, -1.0, DefaultEpsilon, nil)
	par := DistanceBatchParallel(query, points, -1.0, DefaultEpsilon, nil)

	require.Len(t, par, len(seq))
	for i := range seq {
		assert.Equal(t, seq[i], par[i])
	}
}

func TestToHyperboloidBatch(t *testing.T) {
	vs := [][]float64{{1, 0}, {0, 1}, {0.5, 0.5}}
	points := ToHyperboloidBatch(vs, -0.5)

	require.Len(t, points, 3)
	for i, p := range points {
		assert.Equal(t, vs[i], p.Space)
		assert.InDelta(t, 0, sheetResidual(p, -0.5), 1e-10)
	}
}

func TestToHyperboloidBatchParallel_MatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	vs := make([][]float64, 1200)
	for i := range vs {
		vs[i] = []float64{rng.NormFloat64(), rng.NormFloat64()}
	}

	seq := ToHyperboloidBatch(vs, -1.0)
	par := ToHyperboloidBatchParallel(vs, -1.0)

	require.Len(t, par, len(seq))
	for i := range seq {
		assert.Equal(t, seq[i].Time, par[i].Time)
		assert.Equal(t, seq[i].Space, par[i].Space)
	}
}

func BenchmarkDistance_Dim64(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	points := randomPoints(2, 64, -1.0, rng)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Distance(points[0], points[1], -1.0, DefaultEpsilon)
	}
}

func BenchmarkDistanceBatch_1000x64(b *testing.B) {
	rng := rand.New(rand.NewSource(2))
	query := randomPoints(1, 64, -1.0, rng)[0]
	points := randomPoints(1000, 64, -1.0, rng)
	results := make([]float64, len(points))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DistanceBatch(query, points, -1.0, DefaultEpsilon, results)
	}
}
