// Package benchmark compares the closed-form hyperboloid operations against
// an iterative Poincare-ball baseline on identical inputs.
package benchmark

import "math"

const ballEpsilon = 1e-10

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// BallDistance is the Poincare-ball geodesic distance for curvature < 0:
//
//	d(x,y) = acosh(1 + 2c*||x-y||^2 / ((1-c*||x||^2)(1-c*||y||^2))) / sqrt(c)
//
// with c = -curvature. Matches the hyperboloid geodesic under ToPoincare.
func BallDistance(x, y []float64, curvature float64) float64 {
	c := -curvature

	var diffSq float64
	for i := range x {
		d := x[i] - y[i]
		diffSq += d * d
	}

	denomX := 1 - c*dot(x, x)
	denomY := 1 - c*dot(y, y)
	if denomX <= 0 {
		denomX = ballEpsilon
	}
	if denomY <= 0 {
		denomY = ballEpsilon
	}

	arg := 1 + 2*c*diffSq/(denomX*denomY)
	if arg < 1 {
		arg = 1
	}
	return math.Acosh(arg) / math.Sqrt(c)
}

// ProjectToBall pulls a vector inside the ball boundary, leaving interior
// points untouched.
func ProjectToBall(v []float64, curvature float64) []float64 {
	c := -curvature
	maxNorm := 0.99 / math.Sqrt(c)

	norm := math.Sqrt(dot(v, v))
	out := append([]float64(nil), v...)
	if norm > maxNorm {
		scale := maxNorm / norm
		for i := range out {
			out[i] *= scale
		}
	}
	return out
}

// mobiusAdd is Mobius addition on the ball; c is the positive curvature
// magnitude.
func mobiusAdd(x, y []float64, c float64) []float64 {
	xy := dot(x, y)
	xx := dot(x, x)
	yy := dot(y, y)

	num1 := 1 + 2*c*xy + c*yy
	num2 := 1 - c*xx
	den := 1 + 2*c*xy + c*c*xx*yy
	if math.Abs(den) < ballEpsilon {
		den = ballEpsilon
	}

	out := make([]float64, len(x))
	for i := range out {
		out[i] = (num1*x[i] + num2*y[i]) / den
	}
	return out
}

func conformalFactor(x []float64, c float64) float64 {
	f := 1 - c*dot(x, x)
	if f < ballEpsilon {
		f = ballEpsilon
	}
	return 2 / f
}

func expMapBall(x, v []float64, c float64) []float64 {
	n := math.Sqrt(dot(v, v))
	if n < ballEpsilon {
		return append([]float64(nil), x...)
	}
	sqrtC := math.Sqrt(c)
	t := math.Tanh(sqrtC * conformalFactor(x, c) * n / 2)

	u := make([]float64, len(v))
	scale := t / (sqrtC * n)
	for i := range u {
		u[i] = scale * v[i]
	}
	return mobiusAdd(x, u, c)
}

func logMapBall(x, y []float64, c float64) []float64 {
	negX := make([]float64, len(x))
	for i := range x {
		negX[i] = -x[i]
	}
	w := mobiusAdd(negX, y, c)

	n := math.Sqrt(dot(w, w))
	out := make([]float64, len(x))
	if n < ballEpsilon {
		return out
	}

	sqrtC := math.Sqrt(c)
	z := sqrtC * n
	if z > 1-1e-12 {
		z = 1 - 1e-12
	}
	factor := 2 / (sqrtC * conformalFactor(x, c)) * math.Atanh(z) / n
	for i := range out {
		out[i] = factor * w[i]
	}
	return out
}

// FrechetMean approximates the weighted Frechet mean on the ball by Karcher
// iteration: average the log maps at the running estimate, step through the
// exp map, repeat. Runs exactly iterations rounds. Nil weights mean uniform.
// This is the O(n*dim*iterations) procedure the closed-form centroid
// replaces.
func FrechetMean(points [][]float64, weights []float64, curvature float64, iterations int) []float64 {
	if len(points) == 0 {
		return nil
	}
	c := -curvature
	dim := len(points[0])

	var total float64
	if weights != nil {
		for _, w := range weights {
			total += w
		}
	}
	if weights == nil || total <= 0 {
		weights = nil
		total = float64(len(points))
	}

	mean := make([]float64, dim)
	for i, p := range points {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		for j := range mean {
			mean[j] += w * p[j] / total
		}
	}
	mean = ProjectToBall(mean, curvature)

	tangent := make([]float64, dim)
	for iter := 0; iter < iterations; iter++ {
		for j := range tangent {
			tangent[j] = 0
		}
		for i, p := range points {
			w := 1.0
			if weights != nil {
				w = weights[i]
			}
			lg := logMapBall(mean, p, c)
			for j := range tangent {
				tangent[j] += w * lg[j] / total
			}
		}
		mean = expMapBall(mean, tangent, c)
	}
	return mean
}
