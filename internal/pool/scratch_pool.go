package pool

import (
	"sync"
	"sync/atomic"

	"github.com/23skdu/longbow-recurve/internal/metrics"
)

// ScratchPool manages reusable float64 slices keyed by dimension to reduce
// allocation churn on the per-call attention scratch buffers.
type ScratchPool struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex

	// Metrics
	hits   atomic.Int64 // Pool hits (reused buffers)
	misses atomic.Int64 // Pool misses (new allocations)
	puts   atomic.Int64 // Buffers returned to pool
}

// NewScratchPool creates a new scratch pool
func NewScratchPool() *ScratchPool {
	return &ScratchPool{
		pools: make(map[int]*sync.Pool),
	}
}

// Get retrieves a zeroed buffer of the specified size from the pool
func (sp *ScratchPool) Get(size int) *[]float64 {
	sp.mu.RLock()
	pool, exists := sp.pools[size]
	sp.mu.RUnlock()

	if !exists {
		sp.mu.Lock()
		// Double-check after acquiring write lock
		pool, exists = sp.pools[size]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					sp.misses.Add(1)
					metrics.ScratchPoolMissesTotal.Inc()
					slice := make([]float64, size)
					return &slice
				},
			}
			sp.pools[size] = pool
		}
		sp.mu.Unlock()
	}

	buf := pool.Get().(*[]float64)
	if len(*buf) != size {
		sp.misses.Add(1)
		metrics.ScratchPoolMissesTotal.Inc()
		slice := make([]float64, size)
		buf = &slice
	} else {
		sp.hits.Add(1)
	}
	return buf
}

// Put returns a buffer to the pool for reuse, zeroing it first so the next
// Get starts clean.
func (sp *ScratchPool) Put(buf *[]float64) {
	if buf == nil || len(*buf) == 0 {
		return
	}

	size := len(*buf)
	sp.mu.RLock()
	pool, exists := sp.pools[size]
	sp.mu.RUnlock()

	if exists {
		slice := *buf
		for i := range slice {
			slice[i] = 0
		}
		sp.puts.Add(1)
		pool.Put(buf)
	}
}

// Stats returns pool statistics
func (sp *ScratchPool) Stats() (hits, misses, puts int64) {
	return sp.hits.Load(), sp.misses.Load(), sp.puts.Load()
}
