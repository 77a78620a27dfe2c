package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/23skdu/longbow-recurve/internal/metrics"
)

type cacheItem[T any] struct {
	key       uint64
	value     T
	expiresAt time.Time
}

// ResultCache is an LRU cache with per-entry TTL, keyed by query hash.
// Reads never reorder the LRU list; recency is only updated on writes, and
// expired entries are dropped lazily on eviction or overwrite.
type ResultCache[T any] struct {
	mu       sync.RWMutex
	capacity int
	ttl      time.Duration
	items    map[uint64]*list.Element
	lru      *list.List
}

func NewResultCache[T any](capacity int, ttl time.Duration) *ResultCache[T] {
	return &ResultCache[T]{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[uint64]*list.Element),
		lru:      list.New(),
	}
}

func (c *ResultCache[T]) Get(key uint64) (T, bool) {
	c.mu.RLock()
	elem, ok := c.items[key]
	if !ok {
		c.mu.RUnlock()
		metrics.IndexCacheMissesTotal.Inc()
		var zero T
		return zero, false
	}

	item := elem.Value.(*cacheItem[T])
	if time.Now().After(item.expiresAt) {
		c.mu.RUnlock()
		metrics.IndexCacheMissesTotal.Inc()
		var zero T
		return zero, false
	}

	metrics.IndexCacheHitsTotal.Inc()
	c.mu.RUnlock()
	return item.value, true
}

func (c *ResultCache[T]) Put(key uint64, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.lru.MoveToFront(elem)
		item := elem.Value.(*cacheItem[T])
		item.value = value
		item.expiresAt = time.Now().Add(c.ttl)
		return
	}

	item := &cacheItem[T]{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
	elem := c.lru.PushFront(item)
	c.items[key] = elem

	metrics.IndexCacheSize.Set(float64(c.lru.Len()))

	if c.lru.Len() > c.capacity {
		c.evictOldest()
	}
}

func (c *ResultCache[T]) evictOldest() {
	elem := c.lru.Back()
	if elem != nil {
		c.lru.Remove(elem)
		item := elem.Value.(*cacheItem[T])
		delete(c.items, item.key)
		metrics.IndexCacheEvictionsTotal.Inc()
		metrics.IndexCacheSize.Set(float64(c.lru.Len()))
	}
}

// Len reports the number of live entries, expired or not.
func (c *ResultCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.Len()
}

// Clear purges the cache
func (c *ResultCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Init()
	c.items = make(map[uint64]*list.Element)
	metrics.IndexCacheSize.Set(0)
}
