package yacht

import (
	"sort"

	"github.com/yourusername/yachtcore/internal/dice"
	"github.com/yourusername/yachtcore/internal/dptable"
	"github.com/yourusername/yachtcore/internal/evalcache"
	"github.com/yourusername/yachtcore/internal/evaluator"
	"github.com/yourusername/yachtcore/internal/score"
)

// cachedKeepValue looks up (or computes and stores) the keep value for
// one (upperSum, usedMask, rollsLeft, keep) key. Since internal/evaluator
// is pure, a miss and a hit always agree -- the cache can only change how
// many times the DP-backed recurrence is recomputed, never the answer
// (spec.md §9, mirrored in the evalcache package doc).
func (e *Engine) cachedKeepValue(upperSum, usedMask, rollsLeft int, keep dice.Multiset) float32 {
	if e.cache == nil {
		return evaluator.KeepValue(e.table, upperSum, usedMask, rollsLeft, keep)
	}
	key := evalcache.MakeKey(upperSum, usedMask, rollsLeft, keep)
	if v, ok := e.cache.Lookup(key); ok {
		return v
	}
	v := evaluator.KeepValue(e.table, upperSum, usedMask, rollsLeft, keep)
	e.cache.Add(key, v)
	return v
}

// RecommendHold returns the physical hold mask and its expected value for
// the given live dice, honoring any already-locked positions. rollsLeft
// must be 1 or 2 (the number of rerolls still available this turn);
// anything else is ErrInvalidPhase.
func (e *Engine) RecommendHold(state PlayerState, diceValues [5]int, locked [5]bool, rollsLeft int) ([5]bool, float32, error) {
	if rollsLeft != 1 && rollsLeft != 2 {
		return [5]bool{}, 0, ErrInvalidPhase
	}
	s := state.normalize()

	current := dice.FromFaces(diceValues[:])
	lockedCounts := evaluator.LockedCounts(diceValues, locked)
	keeps := evaluator.FilterLockRespecting(dice.KeepPatterns(current), lockedCounts)

	bestKeep := keeps[0]
	bestValue := e.cachedKeepValue(s.UpperSum, s.UsedMask, rollsLeft, bestKeep)
	for _, k := range keeps[1:] {
		if v := e.cachedKeepValue(s.UpperSum, s.UsedMask, rollsLeft, k); v > bestValue {
			bestValue, bestKeep = v, k
		}
	}

	return evaluator.ReconstructHoldMask(diceValues, locked, bestKeep), bestValue, nil
}

// HoldResult is one ranked hold candidate, as returned by TopKHolds.
// ExpectedFinalTotal folds in the caller-supplied current_total, the same
// way CategoryResult.ExpectedFinalTotal does, since both rank by the
// expected final total under optimal play (spec.md §6).
type HoldResult struct {
	Hold               [5]bool
	Keep               dice.Multiset
	ExpectedFinalTotal float32
}

// TopKHolds ranks every lock-respecting hold of diceValues by
// ExpectedFinalTotal (currentTotal + its keep value), descending,
// returning at most k (or all of them, if k <= 0). Ties keep
// dice.KeepPatterns' enumeration order, which is fixed and reproducible
// (spec.md §9).
func (e *Engine) TopKHolds(state PlayerState, diceValues [5]int, locked [5]bool, rollsLeft int, currentTotal int, k int) ([]HoldResult, error) {
	if rollsLeft != 1 && rollsLeft != 2 {
		return nil, ErrInvalidPhase
	}
	s := state.normalize()

	current := dice.FromFaces(diceValues[:])
	lockedCounts := evaluator.LockedCounts(diceValues, locked)
	keeps := evaluator.FilterLockRespecting(dice.KeepPatterns(current), lockedCounts)

	results := make([]HoldResult, len(keeps))
	for i, keep := range keeps {
		v := e.cachedKeepValue(s.UpperSum, s.UsedMask, rollsLeft, keep)
		results[i] = HoldResult{
			Hold:               evaluator.ReconstructHoldMask(diceValues, locked, keep),
			Keep:               keep,
			ExpectedFinalTotal: float32(currentTotal) + v,
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].ExpectedFinalTotal > results[j].ExpectedFinalTotal })
	if k > 0 && k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// RecommendCategory returns the best available category to fill with
// diceValues, its point value, and its total expected value. rollsLeft
// distinguishes "at least one roll has happened this turn" (0, 1, or 2)
// from "no roll yet" (3): choosing a category before rolling is
// ErrInvalidPhase.
func (e *Engine) RecommendCategory(state PlayerState, diceValues [5]int, rollsLeft int) (score.Category, uint8, float32, error) {
	if rollsLeft < 0 || rollsLeft > 2 {
		return 0, 0, 0, ErrInvalidPhase
	}
	s := state.normalize()
	if s.UsedMask == dptable.AllUsedMask {
		return 0, 0, 0, ErrAllCategoriesUsed
	}

	d := dice.FromFaces(diceValues[:])
	best, ok := evaluator.BestCatValue(e.table, s.UpperSum, s.UsedMask, d)
	if !ok {
		return 0, 0, 0, ErrAllCategoriesUsed
	}
	return best.Category, best.Score, best.Value, nil
}

// CategoryResult is one ranked category choice, as returned by
// TopKCategories. ExpectedFinalTotal folds in the caller-supplied
// current_total, since the Engine itself never tracks a running score
// (spec.md §1 places the scoreboard out of core scope).
type CategoryResult struct {
	Category           score.Category
	Score              uint8
	Value              float32
	ExpectedFinalTotal float32
}

// TopKCategories ranks every unused category by ExpectedFinalTotal
// (currentTotal + its choose-value), descending, returning at most k (or
// all of them, if k <= 0).
func (e *Engine) TopKCategories(state PlayerState, diceValues [5]int, rollsLeft int, currentTotal int, k int) ([]CategoryResult, error) {
	if rollsLeft < 0 || rollsLeft >= 3 {
		return nil, ErrInvalidPhase
	}
	s := state.normalize()
	if s.UsedMask == dptable.AllUsedMask {
		return nil, ErrAllCategoriesUsed
	}

	d := dice.FromFaces(diceValues[:])
	values := evaluator.AllCategoryValues(e.table, s.UpperSum, s.UsedMask, d)

	results := make([]CategoryResult, len(values))
	for i, cv := range values {
		results[i] = CategoryResult{
			Category:           cv.Category,
			Score:              cv.Score,
			Value:              cv.Value,
			ExpectedFinalTotal: float32(currentTotal) + cv.Value,
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Value > results[j].Value })
	if k > 0 && k < len(results) {
		results = results[:k]
	}
	return results, nil
}
