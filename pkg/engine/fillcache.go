package engine

import (
	"sync"

	"github.com/yourusername/trailbot/internal/board"
)

// DefaultCacheSize is the default number of fill-cache entries.
const DefaultCacheSize = 1 << 16

// fillEntry stores one cached flood-fill result.
type fillEntry struct {
	key   uint64
	area  int32
	valid bool
}

// fillNode holds primary and secondary entries for two-way association.
type fillNode struct {
	primary   fillEntry
	secondary fillEntry
}

// fillCache is a thread-safe cache of flood-fill areas keyed by a mixed
// hash of the start cell and the occupied set. The occupied-set hash is
// order-independent (XOR of per-cell hashes), so the same set always maps
// to the same key regardless of iteration order.
type fillCache struct {
	entries  []fillNode
	hashMask uint64

	lookups uint64
	hits    uint64

	mu sync.RWMutex
}

// newFillCache creates a cache with the given size, rounded up to a power
// of two. Size 0 selects the default.
func newFillCache(size uint32) *fillCache {
	if size == 0 {
		size = DefaultCacheSize
	}
	p := uint32(1)
	for p < size {
		p <<= 1
	}
	return &fillCache{
		entries:  make([]fillNode, p/2),
		hashMask: uint64(p/2) - 1,
	}
}

// mix64 is a Murmur-style finalizer used for cell and key mixing.
func mix64(v uint64) uint64 {
	v ^= v >> 33
	v *= 0xff51afd7ed558ccd
	v ^= v >> 33
	v *= 0xc4ceb9fe1a85ec53
	v ^= v >> 33
	return v
}

func cellHash(p board.Position) uint64 {
	return mix64(uint64(uint32(p.X))<<32 | uint64(uint32(p.Y)))
}

// fillKey combines start cell, board dimensions and the occupied set into
// one key. XOR keeps the set contribution order-independent.
func fillKey(width, height int, start board.Position, occupied map[board.Position]bool) uint64 {
	h := mix64(uint64(width)<<32 | uint64(height))
	h ^= mix64(cellHash(start) + 0x9e3779b97f4a7c15)
	for p := range occupied {
		h ^= cellHash(p)
	}
	return mix64(h)
}

func (c *fillCache) lookup(key uint64) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookups++
	node := &c.entries[key&c.hashMask]
	if node.primary.valid && node.primary.key == key {
		c.hits++
		return int(node.primary.area), true
	}
	if node.secondary.valid && node.secondary.key == key {
		c.hits++
		return int(node.secondary.area), true
	}
	return 0, false
}

func (c *fillCache) add(key uint64, area int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	node := &c.entries[key&c.hashMask]
	if node.primary.valid && node.primary.key != key {
		node.secondary = node.primary
	}
	node.primary = fillEntry{key: key, area: int32(area), valid: true}
}

// area returns the flood-fill area for start over occupied, consulting the
// cache first. A nil cache computes directly.
func (c *fillCache) area(width, height int, start board.Position, occupied map[board.Position]bool) int {
	if c == nil {
		return FloodArea(width, height, start, occupied)
	}
	key := fillKey(width, height, start, occupied)
	if v, ok := c.lookup(key); ok {
		return v
	}
	v := FloodArea(width, height, start, occupied)
	c.add(key, v)
	return v
}

// CacheStats reports fill-cache effectiveness.
type CacheStats struct {
	Lookups uint64 `json:"lookups"`
	Hits    uint64 `json:"hits"`
	Entries int    `json:"entries"`
}

func (c *fillCache) stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{Lookups: c.lookups, Hits: c.hits, Entries: len(c.entries) * 2}
}
