package simd

// =============================================================================
// Float64 Kernels (Unrolled 4x)
// Four independent accumulators break the dependency chain so superscalar
// and vector-capable CPUs can retire multiple FMAs per cycle.
// =============================================================================

func dotUnrolled4x(a, b []float64) float64 {
	var sum0, sum1, sum2, sum3 float64
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

func squaredNormUnrolled4x(a []float64) float64 {
	var sum0, sum1, sum2, sum3 float64
	n := len(a)
	i := 0
	for ; i <= n-4; i += 4 {
		sum0 += a[i] * a[i]
		sum1 += a[i+1] * a[i+1]
		sum2 += a[i+2] * a[i+2]
		sum3 += a[i+3] * a[i+3]
	}
	for ; i < n; i++ {
		sum0 += a[i] * a[i]
	}
	return sum0 + sum1 + sum2 + sum3
}

func axpyUnrolled4x(alpha float64, x, y []float64) {
	n := len(x)
	i := 0
	for ; i <= n-4; i += 4 {
		y[i] += alpha * x[i]
		y[i+1] += alpha * x[i+1]
		y[i+2] += alpha * x[i+2]
		y[i+3] += alpha * x[i+3]
	}
	for ; i < n; i++ {
		y[i] += alpha * x[i]
	}
}
