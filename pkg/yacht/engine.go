package yacht

import (
	"fmt"

	"github.com/yourusername/yachtcore/internal/dptable"
	"github.com/yourusername/yachtcore/internal/evalcache"
)

// DefaultCacheSize is used when EngineOptions.CacheSize is zero. Unlike
// the teacher's 1M-entry position cache, a single evaluator call here
// touches at most a few dozen distinct (upper_sum, used_mask, keep,
// rolls_left) keys, so a much smaller table already gets a high hit
// rate across repeated calls from the same turn.
const DefaultCacheSize = 1 << 16

// PlayerState is the minimal state the DP table is indexed by: the
// capped upper-section sum and the bitmask of used categories. It does
// not carry raw per-category scores or the running total -- those live
// in the caller's own scoreboard, out of this package's scope (spec.md
// §1), and are supplied back in where an operation needs them (see
// TopKCategories' currentTotal parameter).
type PlayerState struct {
	UpperSum int
	UsedMask int
}

// normalize clamps UpperSum to [0,63] and UsedMask to [0,0xFFF], the same
// silent-clamp policy dptable.Table.Expected already applies, made
// explicit here so every Engine method sees a well-formed state.
func (s PlayerState) normalize() PlayerState {
	u := s.UpperSum
	if u < 0 {
		u = 0
	}
	if u > dptable.UpperSumCount-1 {
		u = dptable.UpperSumCount - 1
	}
	m := s.UsedMask
	if m < 0 {
		m = 0
	}
	if m > dptable.AllUsedMask {
		m = dptable.AllUsedMask
	}
	return PlayerState{UpperSum: u, UsedMask: m}
}

// EngineOptions configures an Engine, mirroring the teacher's
// pkg/engine.EngineOptions: asset paths plus a cache size where 0 means
// "use the default" and a negative value disables the cache entirely.
type EngineOptions struct {
	TablePath string
	CacheSize int
}

// Engine is the stateless decision API. All of its methods are safe for
// concurrent use once constructed.
type Engine struct {
	table *dptable.Table
	cache *evalcache.Cache
}

// NewEngine loads the DP table from opts.TablePath and builds the eval
// cache. A missing or malformed table is AssetMissing (spec.md §7):
// fatal at startup, returned here as a plain error for the caller (a
// CLI or HTTP server bootstrap) to log and exit on.
func NewEngine(opts EngineOptions) (*Engine, error) {
	if opts.TablePath == "" {
		return nil, fmt.Errorf("yacht: TablePath is required")
	}
	table, err := dptable.Load(opts.TablePath)
	if err != nil {
		return nil, fmt.Errorf("yacht: failed to load dp table: %w", err)
	}

	e := &Engine{table: table}
	if opts.CacheSize >= 0 {
		size := opts.CacheSize
		if size == 0 {
			size = DefaultCacheSize
		}
		e.cache = evalcache.New(uint32(size))
	}
	return e, nil
}

// NewEngineFromTable builds an Engine around an already-loaded table,
// used by tests and by pkg/api's build-stream handler, which serves the
// table it just rebuilt without a round trip through disk.
func NewEngineFromTable(table *dptable.Table, cacheSize int) *Engine {
	e := &Engine{table: table}
	if cacheSize >= 0 {
		size := cacheSize
		if size == 0 {
			size = DefaultCacheSize
		}
		e.cache = evalcache.New(uint32(size))
	}
	return e
}

// ExpectedScoreFromState returns the expected additional score from
// state under optimal play (the DP table value directly, spec.md §4.3).
func (e *Engine) ExpectedScoreFromState(state PlayerState) float32 {
	s := state.normalize()
	return e.table.Expected(s.UpperSum, s.UsedMask)
}

// CacheStats exposes the underlying eval cache's lookup/hit/add counters,
// or (0,0,0) if the cache is disabled.
func (e *Engine) CacheStats() (lookups, hits, adds uint64) {
	if e.cache == nil {
		return 0, 0, 0
	}
	return e.cache.Stats()
}
