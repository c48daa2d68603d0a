package score

import (
	"testing"

	"github.com/yourusername/yachtcore/internal/dice"
)

func TestYacht(t *testing.T) {
	p := dice.FromFaces([]int{6, 6, 6, 6, 6})
	if got := Score(p, Yacht); got != 50 {
		t.Errorf("Yacht score = %d, want 50", got)
	}
	if got := Score(p, FourOfAKind); got != 30 {
		t.Errorf("FourOfAKind score on yacht = %d, want 30", got)
	}
	if got := Score(p, Choice); got != 30 {
		t.Errorf("Choice score on yacht = %d, want 30", got)
	}
}

func TestFullHouse(t *testing.T) {
	p := dice.FromFaces([]int{2, 2, 3, 3, 3})
	if got := Score(p, FullHouse); got != 13 {
		t.Errorf("FullHouse score = %d, want 13", got)
	}
}

func TestStraights(t *testing.T) {
	// 1-2-3-4-5 covers both a LittleStraight run (1-2-3-4) and the low
	// BigStraight run, so both categories score.
	little := dice.FromFaces([]int{1, 2, 3, 4, 5})
	if got := Score(little, LittleStraight); got != 15 {
		t.Errorf("LittleStraight score = %d, want 15", got)
	}
	if got := Score(little, BigStraight); got != 30 {
		t.Errorf("BigStraight score on 1-2-3-4-5 = %d, want 30", got)
	}

	big := dice.FromFaces([]int{2, 3, 4, 5, 6})
	if got := Score(big, BigStraight); got != 30 {
		t.Errorf("BigStraight score = %d, want 30", got)
	}
}

func TestFourOfAKindTotalPips(t *testing.T) {
	p := dice.FromFaces([]int{4, 4, 4, 4, 2})
	if got := Score(p, FourOfAKind); got != 18 {
		t.Errorf("FourOfAKind score = %d, want 18", got)
	}
}

func TestChoiceIsPips(t *testing.T) {
	p := dice.FromFaces([]int{1, 2, 3, 4, 6})
	if got := Score(p, Choice); int(got) != Pips(p) {
		t.Errorf("Choice score = %d, want Pips() = %d", got, Pips(p))
	}
}

func TestScoreBounds(t *testing.T) {
	for f0 := 0; f0 < 6; f0++ {
		for _, c := range []Category{Ones, Twos, Threes, Fours, Fives, Sixes,
			FullHouse, FourOfAKind, LittleStraight, BigStraight, Choice, Yacht} {
			p := dice.FromFaces([]int{f0 + 1, f0 + 1, f0 + 1, f0 + 1, f0 + 1})
			s := Score(p, c)
			if s > 50 {
				t.Errorf("score(%v, %v) = %d exceeds 50", p, c, s)
			}
		}
	}
}

func TestBigStraightBothRuns(t *testing.T) {
	low := dice.FromFaces([]int{1, 2, 3, 4, 5})
	high := dice.FromFaces([]int{2, 3, 4, 5, 6})
	if Score(low, BigStraight) != 30 {
		t.Error("expected 1-2-3-4-5 to score BigStraight 30")
	}
	if Score(high, BigStraight) != 30 {
		t.Error("expected 2-3-4-5-6 to score BigStraight 30")
	}
}

func TestLittleStraightThreeRuns(t *testing.T) {
	runs := [][]int{{1, 2, 3, 4, 1}, {2, 3, 4, 5, 2}, {3, 4, 5, 6, 3}}
	for _, r := range runs {
		p := dice.FromFaces(r)
		if got := Score(p, LittleStraight); got != 15 {
			t.Errorf("LittleStraight(%v) = %d, want 15", r, got)
		}
	}
}

func TestNoFullHouseOnFourOfAKind(t *testing.T) {
	p := dice.FromFaces([]int{2, 2, 2, 2, 3})
	if got := Score(p, FullHouse); got != 0 {
		t.Errorf("FullHouse on four-of-a-kind = %d, want 0 (distinct faces required)", got)
	}
}

func TestCategoryIsUpper(t *testing.T) {
	for c := Ones; c <= Sixes; c++ {
		if !c.IsUpper() {
			t.Errorf("%v should be upper", c)
		}
	}
	for c := FullHouse; c <= Yacht; c++ {
		if c.IsUpper() {
			t.Errorf("%v should be lower", c)
		}
	}
}
