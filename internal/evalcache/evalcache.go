// Package evalcache memoizes internal/evaluator keep-value lookups.
//
// It is a direct adaptation of the teacher's pkg/engine/cache.go two-way
// associative, MurmurHash3-indexed position cache: the same primary/
// secondary eviction scheme and hash mixing, keyed here on
// (upper_sum, used_mask, dice pattern, rolls_left) instead of a
// backgammon position. Since internal/evaluator is purely functional,
// this cache can never change a recommendation -- only how many times
// the expensive DP-backed computation is repeated for it.
package evalcache

import (
	"sync"

	"github.com/yourusername/yachtcore/internal/dice"
)

// Key identifies one memoized keep-value computation.
type Key struct {
	Data [2]uint32
}

// MakeKey packs (upperSum, usedMask, rollsLeft, keep) into a Key.
// upperSum needs 6 bits, usedMask 12, rollsLeft 2 -- all fit word 0; the
// keep multiset's six face counts (each 0..5) fit 3 bits apiece in word 1.
func MakeKey(upperSum, usedMask, rollsLeft int, keep dice.Multiset) Key {
	w0 := uint32(upperSum&0x3F) | uint32(usedMask&0xFFF)<<6 | uint32(rollsLeft&0x3)<<18
	var w1 uint32
	for f := 0; f < 6; f++ {
		w1 |= uint32(keep[f]&0x7) << uint(f*3)
	}
	return Key{Data: [2]uint32{w0, w1}}
}

// invalidKey never collides with a real MakeKey output (rollsLeft is
// masked to 2 bits so a real key's high bits above bit 19 are always
// zero; setting them here makes this key unreachable).
var invalidKey = Key{Data: [2]uint32{^uint32(0), ^uint32(0)}}

// entry stores one cached value.
type entry struct {
	key   Key
	value float32
}

// node holds the primary and secondary entries for one hash slot.
type node struct {
	primary   entry
	secondary entry
}

// Cache is a thread-safe, two-way associative memoization table.
type Cache struct {
	entries  []node
	hashMask uint32

	mu      sync.RWMutex
	lookups uint64
	hits    uint64
	adds    uint64
}

// New creates a Cache sized to the nearest power of two >= size entries
// (each entry occupies two slots, primary and secondary, exactly as in
// the teacher's EvalCache).
func New(size uint32) *Cache {
	if size < 2 {
		size = 2
	}
	p := uint32(1)
	for p < size {
		p <<= 1
	}

	c := &Cache{
		entries:  make([]node, p/2),
		hashMask: (p / 2) - 1,
	}
	c.Flush()
	return c
}

// Flush clears every entry.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.entries {
		c.entries[i].primary.key = invalidKey
		c.entries[i].secondary.key = invalidKey
	}
	c.lookups, c.hits, c.adds = 0, 0, 0
}

// hash computes a MurmurHash3-style mixed hash of key, masked to the
// table's slot count.
func (c *Cache) hash(key Key) uint32 {
	const c1 = 0xcc9e2d51
	const c2 = 0x1b873593

	h := uint32(0)
	for _, k := range key.Data {
		k *= c1
		k = (k << 15) | (k >> 17)
		k *= c2

		h ^= k
		h = (h << 13) | (h >> 19)
		h = h*5 + 0xe6546b64
	}

	h ^= 8 // key is 2 uint32s = 8 bytes
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return h & c.hashMask
}

// Lookup returns (value, true) on a cache hit, or (0, false) on a miss.
func (c *Cache) Lookup(key Key) (float32, bool) {
	slot := c.hash(key)

	// Lookup updates the hit counters, so it takes the write lock.
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookups++

	n := &c.entries[slot]
	if n.primary.key == key {
		c.hits++
		return n.primary.value, true
	}
	if n.secondary.key == key {
		c.hits++
		return n.secondary.value, true
	}
	return 0, false
}

// Add stores value under key, evicting the slot's current primary entry
// to secondary (and the current secondary entry outright).
func (c *Cache) Add(key Key, value float32) {
	slot := c.hash(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	n := &c.entries[slot]
	n.secondary = n.primary
	n.primary = entry{key: key, value: value}
	c.adds++
}

// Stats returns lookup/hit/add counters.
func (c *Cache) Stats() (lookups, hits, adds uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookups, c.hits, c.adds
}

// HitRate returns the cache hit rate as a percentage.
func (c *Cache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.lookups == 0 {
		return 0
	}
	return float64(c.hits) / float64(c.lookups) * 100
}
