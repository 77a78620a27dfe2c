package cache

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// HashSearchKey computes a 64-bit FNV-1a hash over everything that affects a
// search result: the query vector bits, the requested neighbor count, and
// the curvature the index was built with.
func HashSearchKey(vector []float64, k int, curvature float64) uint64 {
	h := fnv.New64a()

	for _, v := range vector {
		binary.Write(h, binary.LittleEndian, math.Float64bits(v))
	}
	binary.Write(h, binary.LittleEndian, int64(k))
	binary.Write(h, binary.LittleEndian, math.Float64bits(curvature))

	return h.Sum64()
}
