package dice

import (
	"math"
	"sort"
	"testing"
)

func TestPatternCountsMatchCombinatorics(t *testing.T) {
	want := []int{1, 6, 21, 56, 126, 252}
	for n := 0; n <= 5; n++ {
		got := Patterns(n)
		if len(got) != want[n] {
			t.Errorf("Patterns(%d): got %d entries, want %d", n, len(got), want[n])
		}
		if NumPatterns(n) != want[n] {
			t.Errorf("NumPatterns(%d) = %d, want %d", n, NumPatterns(n), want[n])
		}
	}
}

func TestPatternProbabilitiesSumToOne(t *testing.T) {
	for n := 0; n <= 5; n++ {
		sum := 0.0
		for _, pp := range Patterns(n) {
			sum += pp.Prob
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("Patterns(%d) probabilities sum to %v, want 1.0", n, sum)
		}
	}
}

func TestPatternsSumInvariant(t *testing.T) {
	for n := 0; n <= 5; n++ {
		for _, pp := range Patterns(n) {
			if got := pp.Pattern.Sum(); got != n {
				t.Errorf("pattern %v has Sum()=%d, want %d", pp.Pattern, got, n)
			}
		}
	}
}

func TestKeepPatternsCount(t *testing.T) {
	p := FromFaces([]int{3, 3, 5, 5, 5})
	kp := KeepPatterns(p)
	want := 1
	for f := 0; f < 6; f++ {
		want *= p[f] + 1
	}
	if len(kp) != want {
		t.Errorf("KeepPatterns count = %d, want %d", len(kp), want)
	}
	// every keep pattern must be a sub-multiset of p
	for _, q := range kp {
		for f := 0; f < 6; f++ {
			if q[f] < 0 || q[f] > p[f] {
				t.Errorf("keep pattern %v not a sub-multiset of %v", q, p)
			}
		}
	}
}

func TestKeepPatternsFullKeepIncluded(t *testing.T) {
	p := FromFaces([]int{1, 2, 3, 4, 5})
	kp := KeepPatterns(p)
	found := false
	for _, q := range kp {
		if q == p {
			found = true
		}
	}
	if !found {
		t.Error("KeepPatterns did not include the full keep (all five dice)")
	}
}

func TestFromFacesToFacesRoundTrip(t *testing.T) {
	p := FromFaces([]int{6, 6, 1, 1, 1})
	faces := p.ToFaces()
	sort.Ints(faces)
	got := FromFaces(faces)
	if got != p {
		t.Errorf("round trip mismatch: got %v, want %v", got, p)
	}
}

func TestFromFacesIgnoresOutOfRange(t *testing.T) {
	p := FromFaces([]int{0, 7, -1, 3})
	want := Multiset{}
	want[2] = 1 // face 3
	if p != want {
		t.Errorf("FromFaces with invalid faces = %v, want %v", p, want)
	}
}

func TestScoreIndependentOfOrder(t *testing.T) {
	a := FromFaces([]int{2, 3, 3, 3, 5})
	b := FromFaces([]int{5, 3, 2, 3, 3})
	if a != b {
		t.Errorf("permutation changed multiset: %v vs %v", a, b)
	}
}

func TestAdd(t *testing.T) {
	a := FromFaces([]int{1, 2})
	b := FromFaces([]int{2, 3})
	got := Add(a, b)
	want := FromFaces([]int{1, 2, 2, 3})
	if got != want {
		t.Errorf("Add = %v, want %v", got, want)
	}
}
