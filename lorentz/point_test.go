package lorentz

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sheetResidual measures how far a point drifts off the hyperboloid of the
// given curvature: -t^2 + ||s||^2 should equal -1/|c|.
func sheetResidual(p Point, curvature float64) float64 {
	var sq float64
	for _, s := range p.Space {
		sq += s * s
	}
	return math.Abs(-p.Time*p.Time + sq + 1/math.Abs(curvature))
}

func TestToHyperboloid_SheetConstraint(t *testing.T) {
	curvatures := []float64{-0.25, -0.5, -1.0, -2.0}
	vectors := [][]float64{
		{0, 0, 0, 0},
		{1, 0, 0, 0},
		{0.3, -0.7, 1.2, 0.05},
		{10, -10, 5, 2},
	}

	for _, c := range curvatures {
		for _, v := range vectors {
			p := ToHyperboloid(v, c)
			assert.Greater(t, p.Time, 0.0)
			assert.InDelta(t, 0, sheetResidual(p, c), 1e-5,
				"curvature %v vector %v", c, v)
		}
	}
}

func TestToEuclidean_ReturnsSpace(t *testing.T) {
	v := []float64{0.1, 0.2, 0.3}
	p := ToHyperboloid(v, -1.0)
	assert.Equal(t, v, ToEuclidean(p))
}

func TestMinkowskiInner(t *testing.T) {
	a := Point{Time: 2, Space: []float64{1, 0, 1}}
	b := Point{Time: 3, Space: []float64{0, 1, 2}}

	// dot = 2, time product = 6
	assert.InDelta(t, -4.0, MinkowskiInner(a, b), 1e-12)
}

func TestMinkowskiInner_SelfOnSheet(t *testing.T) {
	for _, c := range []float64{-0.5, -1.0, -2.0} {
		p := ToHyperboloid([]float64{0.4, -0.9, 0.2}, c)
		assert.InDelta(t, -1/math.Abs(c), MinkowskiInner(p, p), 1e-10)
	}
}

func TestProjectToHyperboloid_CorrectsDrift(t *testing.T) {
	p := ToHyperboloid([]float64{0.5, -1.5, 2.0}, -1.0)
	drifted := Point{Time: p.Time + 0.37, Space: p.Space}
	require.Greater(t, sheetResidual(drifted, -1.0), 1e-2)

	fixed := ProjectToHyperboloid(drifted, -1.0)
	assert.InDelta(t, 0, sheetResidual(fixed, -1.0), 1e-10)
	assert.Equal(t, p.Space, fixed.Space)
}

func TestClone_Isolated(t *testing.T) {
	p := ToHyperboloid([]float64{1, 2, 3}, -1.0)
	q := p.Clone()
	q.Space[0] = 99

	assert.Equal(t, 1.0, p.Space[0])
	assert.Equal(t, p.Time, q.Time)
}

func TestZeroTangent(t *testing.T) {
	z := ZeroTangent(5)
	assert.Equal(t, 0.0, z.Time)
	assert.Equal(t, 5, z.Dim())
	for _, s := range z.Space {
		assert.Zero(t, s)
	}
}
