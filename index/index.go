// Package index maintains an approximate-nearest-neighbor candidate index
// over hyperboloid embeddings: a coarse HNSW stage over float32 geodesic
// distances, then an exact closed-form rerank in float64.
package index

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/coder/hnsw"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/23skdu/longbow-recurve/internal/cache"
	"github.com/23skdu/longbow-recurve/internal/errors"
	"github.com/23skdu/longbow-recurve/internal/metrics"
	"github.com/23skdu/longbow-recurve/internal/simd"
	"github.com/23skdu/longbow-recurve/internal/tracing"
	"github.com/23skdu/longbow-recurve/lorentz"
)

const (
	defaultM        = 16
	defaultEfSearch = 32
	defaultCacheTTL = time.Minute
	// coarseFactor over-queries the graph stage so the exact rerank has
	// slack to repair float32 ordering errors.
	coarseFactor = 4
)

// Config controls index construction.
type Config struct {
	Dim       int
	Curvature float64
	// Epsilon defaults to lorentz.DefaultEpsilon when zero.
	Epsilon float64
	// M and EfSearch tune the HNSW graph; zero picks the defaults.
	M        int
	EfSearch int
	// CacheSize > 0 enables the search result cache.
	CacheSize int
	CacheTTL  time.Duration
	Logger    *zap.Logger
}

// Candidate is one reranked search hit.
type Candidate struct {
	ID       uint32
	Distance float64
	Depth    int
}

// Index is safe for concurrent use; adds take the write lock, searches the
// read lock.
type Index struct {
	dim       int
	curvature float64
	epsilon   float64

	mu     sync.RWMutex
	graph  *hnsw.Graph[uint32]
	points []lorentz.Point
	depths []int

	cache *cache.ResultCache[[]Candidate]
	log   *zap.Logger
}

// New builds an empty index over the given geometry.
func New(cfg Config) (*Index, error) {
	if cfg.Dim <= 0 {
		return nil, errors.NewConfigurationError("index", "dimension must be positive").
			WithContext("dim", cfg.Dim)
	}
	if cfg.Curvature >= 0 {
		return nil, errors.NewConfigurationError("index", "curvature must be negative").
			WithContext("curvature", cfg.Curvature)
	}
	eps := cfg.Epsilon
	if eps == 0 {
		eps = lorentz.DefaultEpsilon
	}
	if eps < 0 {
		return nil, errors.NewConfigurationError("index", "epsilon must be positive").
			WithContext("epsilon", cfg.Epsilon)
	}

	g := hnsw.NewGraph[uint32]()
	if cfg.M > 0 {
		g.M = cfg.M
	} else {
		g.M = defaultM
	}
	if cfg.EfSearch > 0 {
		g.EfSearch = cfg.EfSearch
	} else {
		g.EfSearch = defaultEfSearch
	}
	c32 := float32(cfg.Curvature)
	g.Distance = func(a, b []float32) float32 {
		return simd.LorentzDistance32(a, b, c32)
	}

	idx := &Index{
		dim:       cfg.Dim,
		curvature: cfg.Curvature,
		epsilon:   eps,
		graph:     g,
		log:       cfg.Logger,
	}
	if idx.log == nil {
		idx.log = zap.NewNop()
	}
	if cfg.CacheSize > 0 {
		ttl := cfg.CacheTTL
		if ttl == 0 {
			ttl = defaultCacheTTL
		}
		idx.cache = cache.NewResultCache[[]Candidate](cfg.CacheSize, ttl)
	}
	return idx, nil
}

// Len returns the number of indexed vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.points)
}

// packPoint lays a hyperboloid point out as [time, space...] float32 for the
// graph stage.
func packPoint(p lorentz.Point) []float32 {
	packed := make([]float32, 1+len(p.Space))
	packed[0] = float32(p.Time)
	for i, v := range p.Space {
		packed[i+1] = float32(v)
	}
	return packed
}

// Add lifts Euclidean embeddings onto the hyperboloid and indexes them.
// Depths carries one hierarchy depth per vector; nil means depth zero
// everywhere. IDs are assigned sequentially in insertion order.
func (idx *Index) Add(vectors [][]float64, depths []int) error {
	if depths != nil && len(depths) != len(vectors) {
		return errors.NewValidationError("index", "depths length does not match vectors").
			WithContext("vectors", len(vectors)).
			WithContext("depths", len(depths))
	}
	for i, v := range vectors {
		if len(v) != idx.dim {
			return errors.NewValidationError("index", "vector dimension mismatch").
				WithContext("index", i).
				WithContext("want", idx.dim).
				WithContext("got", len(v))
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	for i, v := range vectors {
		p := lorentz.ToHyperboloid(v, idx.curvature)
		id := uint32(len(idx.points))
		idx.points = append(idx.points, p)
		if depths != nil {
			idx.depths = append(idx.depths, depths[i])
		} else {
			idx.depths = append(idx.depths, 0)
		}
		idx.graph.Add(hnsw.MakeNode(id, packPoint(p)))
	}
	if idx.cache != nil {
		idx.cache.Clear()
	}
	metrics.IndexSize.Set(float64(len(idx.points)))
	idx.log.Debug("vectors indexed",
		zap.Int("added", len(vectors)),
		zap.Int("total", len(idx.points)))
	return nil
}

// Search returns the k nearest indexed vectors by exact geodesic distance,
// nearest first. The graph stage over-queries by a constant factor and the
// rerank recomputes distances in float64, so float32 rounding in the graph
// cannot reorder the final result.
func (idx *Index) Search(ctx context.Context, query []float64, k int) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapIndexError(err, "search", "search cancelled")
	}
	if len(query) != idx.dim {
		return nil, errors.NewValidationError("search", "query dimension mismatch").
			WithContext("want", idx.dim).
			WithContext("got", len(query))
	}
	if k <= 0 {
		return nil, errors.NewValidationError("search", "k must be positive").
			WithContext("k", k)
	}

	_, span := tracing.CreateSpan(ctx, "index.search",
		attribute.Int("k", k))
	defer span.End()

	var cacheKey uint64
	if idx.cache != nil {
		cacheKey = cache.HashSearchKey(query, k, idx.curvature)
		if hit, ok := idx.cache.Get(cacheKey); ok {
			out := make([]Candidate, len(hit))
			copy(out, hit)
			return out, nil
		}
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if len(idx.points) == 0 {
		return nil, errors.NewIndexError("search", "index is empty")
	}

	queryPoint := lorentz.ToHyperboloid(query, idx.curvature)

	coarseStart := time.Now()
	coarseK := k * coarseFactor
	if coarseK > len(idx.points) {
		coarseK = len(idx.points)
	}
	nodes := idx.graph.Search(packPoint(queryPoint), coarseK)
	metrics.IndexSearchDurationSeconds.WithLabelValues("coarse").Observe(time.Since(coarseStart).Seconds())

	rerankStart := time.Now()
	candidatePoints := make([]lorentz.Point, len(nodes))
	for i, n := range nodes {
		candidatePoints[i] = idx.points[n.Key]
	}
	dists := lorentz.DistanceBatch(queryPoint, candidatePoints, idx.curvature, idx.epsilon, nil)

	candidates := make([]Candidate, len(nodes))
	for i, n := range nodes {
		candidates[i] = Candidate{
			ID:       n.Key,
			Distance: dists[i],
			Depth:    idx.depths[n.Key],
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Distance < candidates[j].Distance
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	metrics.IndexSearchDurationSeconds.WithLabelValues("rerank").Observe(time.Since(rerankStart).Seconds())

	if idx.cache != nil {
		stored := make([]Candidate, len(candidates))
		copy(stored, candidates)
		idx.cache.Put(cacheKey, stored)
	}

	span.SetAttributes(attribute.Int("candidates", len(candidates)))
	idx.log.Debug("search complete",
		zap.Int("k", k),
		zap.Int("coarse", len(nodes)),
		zap.Int("returned", len(candidates)))
	return candidates, nil
}

// Summarize aggregates a set of indexed points into their weighted centroid.
// Nil weights mean uniform.
func (idx *Index) Summarize(ids []uint32, weights []float64) (lorentz.Point, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	points := make([]lorentz.Point, len(ids))
	for i, id := range ids {
		if int(id) >= len(idx.points) {
			return lorentz.Point{}, errors.NewIndexError("summarize", "unknown vector id").
				WithContext("id", id)
		}
		points[i] = idx.points[id]
	}
	return lorentz.Centroid(points, weights, idx.curvature, idx.epsilon)
}
