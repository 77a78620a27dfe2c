package simd

import (
	"github.com/klauspost/cpuid/v2"
)

// CPUFeatures contains detected CPU SIMD capabilities
type CPUFeatures struct {
	Vendor    string
	HasAVX2   bool
	HasAVX512 bool
	HasNEON   bool
}

var (
	features       CPUFeatures
	implementation string
)

func init() {
	detectCPU()
}

func detectCPU() {
	features = CPUFeatures{
		Vendor:    cpuid.CPU.VendorString,
		HasAVX2:   cpuid.CPU.Supports(cpuid.AVX2),
		HasAVX512: cpuid.CPU.Supports(cpuid.AVX512F) && cpuid.CPU.Supports(cpuid.AVX512DQ),
		HasNEON:   cpuid.CPU.Supports(cpuid.ASIMD), // ARM NEON
	}

	// Select best implementation. The unrolled kernels keep four
	// independent accumulators in flight, which the compiler maps onto
	// vector units when the CPU has them.
	switch {
	case features.HasAVX512:
		implementation = "avx512"
	case features.HasAVX2:
		implementation = "avx2"
	case features.HasNEON:
		implementation = "neon"
	default:
		implementation = "generic"
	}
}

// GetCPUFeatures returns detected CPU SIMD capabilities
func GetCPUFeatures() CPUFeatures {
	return features
}

// GetImplementation returns the selected SIMD implementation name
func GetImplementation() string {
	return implementation
}

// Dot calculates the dot product of two float64 vectors
func Dot(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("simd: vector length mismatch")
	}
	if len(a) == 0 {
		return 0
	}

	switch implementation {
	case "avx512", "avx2", "neon":
		return dotUnrolled4x(a, b)
	default:
		return dotGeneric(a, b)
	}
}

// SquaredNorm calculates the squared Euclidean norm of a vector
func SquaredNorm(a []float64) float64 {
	if len(a) == 0 {
		return 0
	}

	switch implementation {
	case "avx512", "avx2", "neon":
		return squaredNormUnrolled4x(a)
	default:
		return dotGeneric(a, a)
	}
}

// Axpy computes y[i] += alpha * x[i] in place
func Axpy(alpha float64, x, y []float64) {
	if len(x) != len(y) {
		panic("simd: vector length mismatch")
	}

	switch implementation {
	case "avx512", "avx2", "neon":
		axpyUnrolled4x(alpha, x, y)
	default:
		for i := 0; i < len(x); i++ {
			y[i] += alpha * x[i]
		}
	}
}

// Scale computes dst[i] = alpha * x[i]
func Scale(alpha float64, x, dst []float64) {
	if len(x) != len(dst) {
		panic("simd: vector length mismatch")
	}
	for i := 0; i < len(x); i++ {
		dst[i] = alpha * x[i]
	}
}

// Generic implementations (fallback)

func dotGeneric(a, b []float64) float64 {
	var sum float64
	for i := 0; i < len(a); i++ {
		sum += a[i] * b[i]
	}
	return sum
}
