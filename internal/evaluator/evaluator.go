// Package evaluator implements the turn-level evaluator: keep-pattern and
// reroll-outcome enumeration against the DP table, producing the
// recommended hold and the recommended category for a live turn.
//
// The two-reroll branch fans its outer and inner enumeration out across
// worker goroutines, grounded on the teacher's pkg/engine/rollout.go
// parallel-workers rollout loop -- the one-reroll branch and category
// selection stay sequential and allocation-light, matching the teacher's
// choice to parallelize only the expensive path.
package evaluator

import (
	"math"
	"runtime"
	"sync"

	"github.com/yourusername/yachtcore/internal/catvalue"
	"github.com/yourusername/yachtcore/internal/dice"
	"github.com/yourusername/yachtcore/internal/dptable"
	"github.com/yourusername/yachtcore/internal/score"
)

// CategoryValue pairs a scoring category with its total expected value
// (immediate + bonus-if-crossed + continuation), used by both
// BestCatValue and the top-k ranking helpers in pkg/yacht.
type CategoryValue struct {
	Category score.Category
	Score    uint8
	Value    float32
}

// BestCatValue returns the best available category for dice given the
// player's current (upperSum, usedMask), maximizing catvalue.ChooseValue
// over categories not yet used. Ok is false iff every category is used
// (spec.md §7 AllCategoriesUsed).
func BestCatValue(t dptable.Reader, upperSum, usedMask int, d dice.Multiset) (best CategoryValue, ok bool) {
	bestVal := float32(math.Inf(-1))
	found := false
	for c := score.Category(0); c < score.NumCategories; c++ {
		if usedMask&(1<<uint(c)) != 0 {
			continue
		}
		s := score.Score(d, c)
		v := catvalue.ChooseValue(t, upperSum, usedMask, c, s)
		if !found || v > bestVal {
			bestVal = v
			best = CategoryValue{Category: c, Score: s, Value: v}
			found = true
		}
	}
	return best, found
}

// AllCategoryValues returns the value of every unused category for dice,
// in category order, for ranking by pkg/yacht.TopKCategories.
func AllCategoryValues(t dptable.Reader, upperSum, usedMask int, d dice.Multiset) []CategoryValue {
	out := make([]CategoryValue, 0, score.NumCategories)
	for c := score.Category(0); c < score.NumCategories; c++ {
		if usedMask&(1<<uint(c)) != 0 {
			continue
		}
		s := score.Score(d, c)
		v := catvalue.ChooseValue(t, upperSum, usedMask, c, s)
		out = append(out, CategoryValue{Category: c, Score: s, Value: v})
	}
	return out
}

// V1 is the one-reroll-remaining keep value: the expectation, over every
// outcome of rerolling the dice not in keep, of the best category value
// reachable from the resulting five dice.
func V1(t dptable.Reader, upperSum, usedMask int, keep dice.Multiset) float32 {
	n := 5 - keep.Sum()
	if n == 0 {
		best, _ := BestCatValue(t, upperSum, usedMask, keep)
		return best.Value
	}

	total := 0.0
	for _, pp := range dice.Patterns(n) {
		combined := dice.Add(keep, pp.Pattern)
		best, _ := BestCatValue(t, upperSum, usedMask, combined)
		total += pp.Prob * float64(best.Value)
	}
	return float32(total)
}

// V2 is the two-reroll-remaining keep value: the expectation, over every
// outcome of the first reroll, of the best achievable V1 over every
// keep-pattern of the resulting dice. The outer expectation's per-outcome
// inner maximization is parallelized across GOMAXPROCS workers.
func V2(t dptable.Reader, upperSum, usedMask int, keep dice.Multiset) float32 {
	n := 5 - keep.Sum()
	if n == 0 {
		best, _ := BestCatValue(t, upperSum, usedMask, keep)
		return best.Value
	}

	patterns := dice.Patterns(n)
	results := make([]float64, len(patterns))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(patterns) {
		workers = len(patterns)
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	jobs := make(chan int, len(patterns))
	for i := range patterns {
		jobs <- i
	}
	close(jobs)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				combined := dice.Add(keep, patterns[i].Pattern)
				bestInner := math.Inf(-1)
				for _, k2 := range dice.KeepPatterns(combined) {
					v := float64(V1(t, upperSum, usedMask, k2))
					if v > bestInner {
						bestInner = v
					}
				}
				results[i] = bestInner
			}
		}()
	}
	wg.Wait()

	total := 0.0
	for i, pp := range patterns {
		total += pp.Prob * results[i]
	}
	return float32(total)
}

// KeepValue dispatches to V1 or V2 by rollsLeft (1 or 2 respectively).
// rollsLeft values outside {1,2} are a caller bug; callers at the
// pkg/yacht boundary must reject InvalidPhase before reaching here.
func KeepValue(t dptable.Reader, upperSum, usedMask, rollsLeft int, keep dice.Multiset) float32 {
	if rollsLeft == 2 {
		return V2(t, upperSum, usedMask, keep)
	}
	return V1(t, upperSum, usedMask, keep)
}

// HoldCandidate is a candidate keep-pattern together with its keep value,
// used by RecommendHold and pkg/yacht.TopKHolds.
type HoldCandidate struct {
	Keep  dice.Multiset
	Value float32
}

// CandidateHolds enumerates every keep-pattern of currentDice that does
// not release a locked die (lockedCounts[f] dice showing face f+1 are
// locked and must remain held in any candidate), together with its keep
// value. This is the gate RecommendHold uses to satisfy "never unhold a
// locked die" (spec.md §8 invariant 11); pkg/yacht's RecommendHold and
// TopKHolds apply the same rule through FilterLockRespecting. Keeps that
// can't respect the locks are dropped before any keep value is computed.
func CandidateHolds(t dptable.Reader, upperSum, usedMask, rollsLeft int, currentDice dice.Multiset, lockedCounts dice.Multiset) []HoldCandidate {
	keeps := dice.KeepPatterns(currentDice)
	out := make([]HoldCandidate, 0, len(keeps))
	for _, keep := range keeps {
		if !dominates(keep, lockedCounts) {
			continue
		}
		out = append(out, HoldCandidate{
			Keep:  keep,
			Value: KeepValue(t, upperSum, usedMask, rollsLeft, keep),
		})
	}
	return out
}

// dominates reports whether keep[f] >= locked[f] for every face.
func dominates(keep, locked dice.Multiset) bool {
	for f := 0; f < 6; f++ {
		if keep[f] < locked[f] {
			return false
		}
	}
	return true
}

// FilterLockRespecting returns the subset of keeps that dominate
// lockedCounts, preserving order. Exported so pkg/yacht can reuse the
// same exclusion rule when it needs to enumerate candidates itself (for
// example to interpose a cache between enumeration and valuation).
func FilterLockRespecting(keeps []dice.Multiset, lockedCounts dice.Multiset) []dice.Multiset {
	out := make([]dice.Multiset, 0, len(keeps))
	for _, k := range keeps {
		if dominates(k, lockedCounts) {
			out = append(out, k)
		}
	}
	return out
}

// RecommendHold enumerates every lock-respecting keep pattern of
// currentDice, evaluates its keep value, and returns the argmax. Ties
// are broken by first-encountered in enumeration order (DFS over faces
// 0..5 increasing, per dice.KeepPatterns), which is stable and
// implementation-independent given that fixed order.
func RecommendHold(t dptable.Reader, upperSum, usedMask, rollsLeft int, currentDice dice.Multiset, lockedCounts dice.Multiset) (HoldCandidate, bool) {
	candidates := CandidateHolds(t, upperSum, usedMask, rollsLeft, currentDice, lockedCounts)
	if len(candidates) == 0 {
		return HoldCandidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Value > best.Value {
			best = c
		}
	}
	return best, true
}

// ReconstructHoldMask turns a chosen keep-multiset into a physical
// hold bitmask over the five dice positions: for each face in order,
// scan positions left-to-right, preferring already-locked positions
// before non-locked ones, until keep[f] positions of that face are held
// (spec.md §4.5, §9 "Holds bitmask ambiguity with duplicates"). Because
// RecommendHold/CandidateHolds only ever produce keeps that dominate the
// locked counts, every locked position is always covered by this scan.
func ReconstructHoldMask(diceValues [5]int, locked [5]bool, keep dice.Multiset) [5]bool {
	var held [5]bool
	remaining := keep
	for f := 0; f < 6; f++ {
		face := f + 1
		for i := 0; i < 5 && remaining[f] > 0; i++ {
			if diceValues[i] == face && locked[i] && !held[i] {
				held[i] = true
				remaining[f]--
			}
		}
		for i := 0; i < 5 && remaining[f] > 0; i++ {
			if diceValues[i] == face && !locked[i] && !held[i] {
				held[i] = true
				remaining[f]--
			}
		}
	}
	return held
}

// LockedCounts tallies the locked positions of diceValues into a
// Multiset, for use as the lockedCounts argument of RecommendHold /
// CandidateHolds.
func LockedCounts(diceValues [5]int, locked [5]bool) dice.Multiset {
	var p dice.Multiset
	for i := 0; i < 5; i++ {
		if locked[i] && diceValues[i] >= 1 && diceValues[i] <= 6 {
			p[diceValues[i]-1]++
		}
	}
	return p
}
