package yacht

import (
	"math"
	"testing"

	"github.com/yourusername/yachtcore/internal/dptable"
	"github.com/yourusername/yachtcore/internal/score"
)

func flatTable(t *testing.T, f func(u, m int) float32) *dptable.Table {
	t.Helper()
	buf := make([]byte, dptable.Size)
	for u := 0; u < dptable.UpperSumCount; u++ {
		for m := 0; m < dptable.UsedMaskCount; m++ {
			idx := (u*dptable.UsedMaskCount + m) * 4
			bits := math.Float32bits(f(u, m))
			buf[idx] = byte(bits)
			buf[idx+1] = byte(bits >> 8)
			buf[idx+2] = byte(bits >> 16)
			buf[idx+3] = byte(bits >> 24)
		}
	}
	tbl, err := dptable.FromBytes(buf)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	return tbl
}

func zeroEngine(t *testing.T) *Engine {
	tbl := flatTable(t, func(u, m int) float32 { return 0 })
	return NewEngineFromTable(tbl, DefaultCacheSize)
}

func TestRecommendHoldRejectsBadRollsLeft(t *testing.T) {
	e := zeroEngine(t)
	_, _, err := e.RecommendHold(PlayerState{}, [5]int{1, 2, 3, 4, 5}, [5]bool{}, 0)
	if err != ErrInvalidPhase {
		t.Errorf("err = %v, want ErrInvalidPhase", err)
	}
	_, _, err = e.RecommendHold(PlayerState{}, [5]int{1, 2, 3, 4, 5}, [5]bool{}, 3)
	if err != ErrInvalidPhase {
		t.Errorf("err = %v, want ErrInvalidPhase", err)
	}
}

func TestRecommendHoldNeverUnholdsLocked(t *testing.T) {
	e := zeroEngine(t)
	diceValues := [5]int{6, 6, 2, 3, 4}
	locked := [5]bool{true, false, false, false, false}

	mask, _, err := e.RecommendHold(PlayerState{}, diceValues, locked, 2)
	if err != nil {
		t.Fatalf("RecommendHold: %v", err)
	}
	if !mask[0] {
		t.Error("locked die at position 0 must remain held")
	}
}

func TestRecommendCategoryRejectsUnrolledTurn(t *testing.T) {
	e := zeroEngine(t)
	_, _, _, err := e.RecommendCategory(PlayerState{}, [5]int{1, 2, 3, 4, 5}, 3)
	if err != ErrInvalidPhase {
		t.Errorf("err = %v, want ErrInvalidPhase", err)
	}
}

func TestRecommendCategoryAllUsed(t *testing.T) {
	e := zeroEngine(t)
	state := PlayerState{UpperSum: 0, UsedMask: dptable.AllUsedMask}
	_, _, _, err := e.RecommendCategory(state, [5]int{1, 2, 3, 4, 5}, 0)
	if err != ErrAllCategoriesUsed {
		t.Errorf("err = %v, want ErrAllCategoriesUsed", err)
	}
}

func TestRecommendCategoryPicksYacht(t *testing.T) {
	e := zeroEngine(t)
	cat, sc, _, err := e.RecommendCategory(PlayerState{}, [5]int{6, 6, 6, 6, 6}, 0)
	if err != nil {
		t.Fatalf("RecommendCategory: %v", err)
	}
	if cat != score.Yacht || sc != 50 {
		t.Errorf("got (%v,%v), want (Yacht,50)", cat, sc)
	}
}

func TestTopKCategoriesRanksDescendingAndFoldsCurrentTotal(t *testing.T) {
	e := zeroEngine(t)
	results, err := e.TopKCategories(PlayerState{}, [5]int{6, 6, 6, 6, 6}, 0, 100, 3)
	if err != nil {
		t.Fatalf("TopKCategories: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Value > results[i-1].Value {
			t.Errorf("results not sorted descending at %d: %v > %v", i, results[i].Value, results[i-1].Value)
		}
	}
	if results[0].ExpectedFinalTotal != 100+results[0].Value {
		t.Errorf("ExpectedFinalTotal = %v, want %v", results[0].ExpectedFinalTotal, 100+results[0].Value)
	}
}

func TestTopKCategoriesAllUsed(t *testing.T) {
	e := zeroEngine(t)
	state := PlayerState{UsedMask: dptable.AllUsedMask}
	_, err := e.TopKCategories(state, [5]int{1, 2, 3, 4, 5}, 0, 0, 3)
	if err != ErrAllCategoriesUsed {
		t.Errorf("err = %v, want ErrAllCategoriesUsed", err)
	}
}

func TestTopKHoldsExcludesLockViolationsAndSortsDescending(t *testing.T) {
	e := zeroEngine(t)
	diceValues := [5]int{5, 5, 1, 1, 1}
	locked := [5]bool{true, true, false, false, false}

	results, err := e.TopKHolds(PlayerState{}, diceValues, locked, 1, 0, 0)
	if err != nil {
		t.Fatalf("TopKHolds: %v", err)
	}
	for _, r := range results {
		if !r.Hold[0] || !r.Hold[1] {
			t.Errorf("result %v drops a locked die", r)
		}
	}
	for i := 1; i < len(results); i++ {
		if results[i].ExpectedFinalTotal > results[i-1].ExpectedFinalTotal {
			t.Errorf("results not sorted descending at %d", i)
		}
	}
}

func TestExpectedScoreFromStateClampsOutOfRange(t *testing.T) {
	e := zeroEngine(t)
	got := e.ExpectedScoreFromState(PlayerState{UpperSum: 1000, UsedMask: -1})
	want := e.table.Expected(dptable.UpperSumCount-1, 0)
	if got != want {
		t.Errorf("ExpectedScoreFromState = %v, want %v", got, want)
	}
}

func TestCacheDoesNotChangeRecommendation(t *testing.T) {
	tbl := flatTable(t, func(u, m int) float32 { return float32(u) + float32(m)*0.0001 })
	cached := NewEngineFromTable(tbl, DefaultCacheSize)
	uncached := NewEngineFromTable(tbl, -1)

	diceValues := [5]int{2, 3, 4, 5, 6}
	locked := [5]bool{}
	state := PlayerState{UpperSum: 10, UsedMask: 0b101}

	maskA, valueA, errA := cached.RecommendHold(state, diceValues, locked, 2)
	maskB, valueB, errB := uncached.RecommendHold(state, diceValues, locked, 2)
	if errA != nil || errB != nil {
		t.Fatalf("errors: %v, %v", errA, errB)
	}
	if maskA != maskB || valueA != valueB {
		t.Errorf("cached=(%v,%v) uncached=(%v,%v): cache changed recommendation", maskA, valueA, maskB, valueB)
	}

	// Re-run cached once more; the second pass should be served from
	// the cache and still agree exactly.
	maskA2, valueA2, _ := cached.RecommendHold(state, diceValues, locked, 2)
	if maskA2 != maskA || valueA2 != valueA {
		t.Errorf("repeated cached call diverged: (%v,%v) vs (%v,%v)", maskA2, valueA2, maskA, valueA)
	}
}
