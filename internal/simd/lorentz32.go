package simd

import (
	"errors"

	"github.com/chewxy/math32"
)

// Float32 kernels for the approximate-search path. Vectors carry
// hyperboloid coordinates in a single slice laid out as [time, space...];
// the float64 package API stays the reference implementation.

const clampEps32 float32 = 1e-7

// Dot32 calculates the dot product of two float32 vectors
func Dot32(a, b []float32) float32 {
	if len(a) != len(b) {
		panic("simd: vector length mismatch")
	}
	if len(a) == 0 {
		return 0
	}

	switch implementation {
	case "avx512", "avx2", "neon":
		return dot32Unrolled4x(a, b)
	default:
		var sum float32
		for i := 0; i < len(a); i++ {
			sum += a[i] * b[i]
		}
		return sum
	}
}

func dot32Unrolled4x(a, b []float32) float32 {
	var sum0, sum1, sum2, sum3 float32
	n := len(a)
	i := 0
	for ; i <= n-4; i += 4 {
		sum0 += a[i] * b[i]
		sum1 += a[i+1] * b[i+1]
		sum2 += a[i+2] * b[i+2]
		sum3 += a[i+3] * b[i+3]
	}
	for ; i < n; i++ {
		sum0 += a[i] * b[i]
	}
	return sum0 + sum1 + sum2 + sum3
}

// MinkowskiInner32 computes -a[0]*b[0] + dot(a[1:], b[1:]) over packed
// [time, space...] coordinates.
func MinkowskiInner32(a, b []float32) float32 {
	if len(a) != len(b) {
		panic("simd: vector length mismatch")
	}
	if len(a) == 0 {
		return 0
	}
	return Dot32(a[1:], b[1:]) - a[0]*b[0]
}

// LorentzDistance32 computes the geodesic distance between two packed
// hyperboloid vectors at the given negative curvature. The acosh argument
// is clamped to stay >= 1 so drift never produces NaN.
func LorentzDistance32(a, b []float32, curvature float32) float32 {
	inner := MinkowskiInner32(a, b)
	arg := curvature * inner // curvature < 0, inner < 0 near the sheet
	if arg < 1+clampEps32 {
		arg = 1 + clampEps32
	}
	return math32.Acosh(arg) / math32.Sqrt(-curvature)
}

// LorentzDistance32Batch computes distances between one packed query and
// multiple packed vectors.
func LorentzDistance32Batch(query []float32, vectors [][]float32, curvature float32, results []float32) error {
	if len(vectors) != len(results) {
		return errors.New("simd: vectors and results length mismatch")
	}
	for i, v := range vectors {
		if len(v) != len(query) {
			results[i] = math32.MaxFloat32
			continue
		}
		results[i] = LorentzDistance32(query, v, curvature)
	}
	return nil
}
