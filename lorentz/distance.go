package lorentz

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Distance computes the geodesic distance between two points on the
// hyperboloid of the given negative curvature:
//
//	d = acosh(-|c| * <a,b>_L) / sqrt(|c|)
//
// The acosh argument is clamped to >= 1+eps. The clamp is load-bearing:
// floating-point drift routinely pushes the argument a hair below 1 for
// near-identical points, and acosh would return NaN.
func Distance(a, b Point, curvature, eps float64) float64 {
	arg := curvature * MinkowskiInner(a, b) // c < 0, so c*inner == -|c|*inner
	if arg < 1+eps {
		arg = 1 + eps
	}
	return math.Acosh(arg) / math.Sqrt(-curvature)
}

// DistanceBatch computes distances from one query to every point in the
// batch. The results buffer is reused when it has sufficient capacity and
// allocated otherwise; the filled slice is returned either way.
func DistanceBatch(query Point, points []Point, curvature, eps float64, results []float64) []float64 {
	if cap(results) >= len(points) {
		results = results[:len(points)]
	} else {
		results = make([]float64, len(points))
	}
	for i := range points {
		results[i] = Distance(query, points[i], curvature, eps)
	}
	return results
}

// ToHyperboloidBatch lifts a batch of Euclidean vectors onto the hyperboloid.
func ToHyperboloidBatch(vs [][]float64, curvature float64) []Point {
	points := make([]Point, len(vs))
	for i, v := range vs {
		points[i] = ToHyperboloid(v, curvature)
	}
	return points
}

// minParallelChunk keeps goroutine overhead amortized over enough work.
const minParallelChunk = 256

// DistanceBatchParallel is DistanceBatch fanned out over worker goroutines.
// Elements are independent, so the batch is split into contiguous chunks
// with one worker per chunk.
func DistanceBatchParallel(query Point, points []Point, curvature, eps float64, results []float64) []float64 {
	n := len(points)
	if n < minParallelChunk*2 {
		return DistanceBatch(query, points, curvature, eps, results)
	}
	if cap(results) >= n {
		results = results[:n]
	} else {
		results = make([]float64, n)
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	chunkSize := (n + runtime.NumCPU() - 1) / runtime.NumCPU()
	if chunkSize < minParallelChunk {
		chunkSize = minParallelChunk
	}

	for i := 0; i < n; i += chunkSize {
		end := i + chunkSize
		if end > n {
			end = n
		}
		offset := i
		g.Go(func() error {
			for j := offset; j < end; j++ {
				results[j] = Distance(query, points[j], curvature, eps)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	return results
}

// ToHyperboloidBatchParallel is ToHyperboloidBatch fanned out over worker
// goroutines, chunked the same way as DistanceBatchParallel.
func ToHyperboloidBatchParallel(vs [][]float64, curvature float64) []Point {
	n := len(vs)
	if n < minParallelChunk*2 {
		return ToHyperboloidBatch(vs, curvature)
	}
	points := make([]Point, n)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	chunkSize := (n + runtime.NumCPU() - 1) / runtime.NumCPU()
	if chunkSize < minParallelChunk {
		chunkSize = minParallelChunk
	}

	for i := 0; i < n; i += chunkSize {
		end := i + chunkSize
		if end > n {
			end = n
		}
		offset := i
		g.Go(func() error {
			for j := offset; j < end; j++ {
				points[j] = ToHyperboloid(vs[j], curvature)
			}
			return nil
		})
	}
	_ = g.Wait()

	return points
}
