// Package dpbuild computes the DP table offline by backwards induction:
// used_mask states are filled in decreasing order of population count,
// since a state's value always depends only on states with strictly
// more categories used (terminal at all twelve used, value zero).
//
// This mirrors, at the table level, how the teacher's bearoff databases
// are generated outside the request path and then just loaded -- the
// expensive one-time computation lives here, behind cmd/buildtable, and
// the runtime-facing internal/dptable only ever reads the result.
package dpbuild

import (
	"math"
	"math/bits"
	"sort"

	"github.com/yourusername/yachtcore/internal/dice"
	"github.com/yourusername/yachtcore/internal/dptable"
	"github.com/yourusername/yachtcore/internal/evaluator"
)

// BuildTable is a mutable, in-progress accumulator with the same shape
// and indexing as dptable.Table, used only while the table is being
// computed. It satisfies dptable.Reader, so internal/evaluator and
// internal/catvalue run unmodified against it mid-build.
type BuildTable struct {
	data []float32 // UpperSumCount*UsedMaskCount, row-major
}

// NewBuildTable allocates a zeroed accumulator. Every entry starts at
// zero, which is also the correct terminal value at used_mask ==
// AllUsedMask, so no explicit initialization pass is needed for the
// terminal states.
func NewBuildTable() *BuildTable {
	return &BuildTable{data: make([]float32, dptable.UpperSumCount*dptable.UsedMaskCount)}
}

func (b *BuildTable) index(upperSum, usedMask int) int {
	if upperSum < 0 {
		upperSum = 0
	}
	if upperSum > dptable.UpperSumCount-1 {
		upperSum = dptable.UpperSumCount - 1
	}
	usedMask &= dptable.AllUsedMask
	return upperSum*dptable.UsedMaskCount + usedMask
}

// Expected implements dptable.Reader.
func (b *BuildTable) Expected(upperSum, usedMask int) float32 {
	return b.data[b.index(upperSum, usedMask)]
}

// Set stores v at (upperSum, usedMask).
func (b *BuildTable) Set(upperSum, usedMask int, v float32) {
	b.data[b.index(upperSum, usedMask)] = v
}

// ToBytes serializes the accumulator into the same flat little-endian
// float32 layout internal/dptable.FromBytes expects.
func (b *BuildTable) ToBytes() []byte {
	out := make([]byte, dptable.Size)
	for i, v := range b.data {
		bits := math.Float32bits(v)
		off := i * 4
		out[off] = byte(bits)
		out[off+1] = byte(bits >> 8)
		out[off+2] = byte(bits >> 16)
		out[off+3] = byte(bits >> 24)
	}
	return out
}

// ToTable finalizes the accumulator into an immutable dptable.Table.
func (b *BuildTable) ToTable() (*dptable.Table, error) {
	return dptable.FromBytes(b.ToBytes())
}

// EvaluateEntry computes E[upperSum, usedMask]: the expectation, over
// every outcome of the turn's initial five-die roll, of the best
// reachable two-reroll keep value. b supplies every continuation lookup
// this needs (catvalue.ChooseValue via evaluator.V2/V1/BestCatValue),
// so every mask with strictly more bits set than usedMask must already
// be filled in b before calling this for usedMask.
func EvaluateEntry(b dptable.Reader, upperSum, usedMask int) float32 {
	total := 0.0
	for _, pp := range dice.Patterns(5) {
		best := math.Inf(-1)
		for _, keep := range dice.KeepPatterns(pp.Pattern) {
			if v := float64(evaluator.V2(b, upperSum, usedMask, keep)); v > best {
				best = v
			}
		}
		total += pp.Prob * best
	}
	return float32(total)
}

// masksByDecreasingPopcount returns every 12-bit mask in [0, AllUsedMask]
// ordered so that AllUsedMask comes first and 0 comes last, grouped by
// population count. Masks sharing a population count never depend on
// each other (every transition sets exactly one additional bit), so
// the order within a group doesn't matter -- only the group order does.
func masksByDecreasingPopcount() []int {
	masks := make([]int, dptable.UsedMaskCount)
	for m := range masks {
		masks[m] = m
	}
	sort.Slice(masks, func(i, j int) bool {
		return bits.OnesCount(uint(masks[i])) > bits.OnesCount(uint(masks[j]))
	})
	return masks
}

// Progress reports (done, total) entries filled so far, for a long-
// running build to surface on a CLI or SSE stream (pkg/api's
// /api/v1/build/stream). May be nil.
type Progress func(done, total int)

// Build runs the full backwards induction and returns the completed
// accumulator. AllUsedMask rows are left at their zero-initialized
// value (the terminal state) and never recomputed.
func Build(progress Progress) *BuildTable {
	b := NewBuildTable()
	masks := masksByDecreasingPopcount()
	total := len(masks) * dptable.UpperSumCount
	done := 0

	for _, m := range masks {
		if m == dptable.AllUsedMask {
			done += dptable.UpperSumCount
			if progress != nil {
				progress(done, total)
			}
			continue
		}
		for u := 0; u < dptable.UpperSumCount; u++ {
			b.Set(u, m, EvaluateEntry(b, u, m))
			done++
			if progress != nil {
				progress(done, total)
			}
		}
	}
	return b
}

// BuildMasks fills only the given subset of masks into b, in the
// caller-supplied order. It does not sort or validate dependency order;
// callers (tests exercising a truncated corner of the recurrence, or a
// resumable build) are responsible for supplying masks whose
// dependencies are already present in b.
func BuildMasks(b *BuildTable, masks []int) {
	for _, m := range masks {
		if m == dptable.AllUsedMask {
			continue
		}
		for u := 0; u < dptable.UpperSumCount; u++ {
			b.Set(u, m, EvaluateEntry(b, u, m))
		}
	}
}
