// Package dice implements dice-multiset combinatorics for the Yacht
// evaluator: canonical multiset representation, exact reroll-outcome
// probabilities, and keep-pattern (sub-multiset) enumeration.
//
// Enumeration always proceeds depth-first over faces 0..5 in increasing
// order; every exported generator documents this because callers (in
// particular internal/evaluator) rely on a fixed, reproducible order for
// tie-breaking.
package dice

import (
	"sync"

	"gonum.org/v1/gonum/stat/combin"
)

// Multiset is a face-count vector: Multiset[f] is the number of dice
// showing face f+1. The invariant sum(Multiset) <= 5 holds for every
// value produced by this package.
type Multiset [6]int

// Sum returns sum(p[f]), the number of dice represented by p.
func (p Multiset) Sum() int {
	n := 0
	for _, c := range p {
		n += c
	}
	return n
}

// Add returns the elementwise sum of a and b.
func Add(a, b Multiset) Multiset {
	var out Multiset
	for f := 0; f < 6; f++ {
		out[f] = a[f] + b[f]
	}
	return out
}

// FromFaces tallies an ordered sequence of face values (1-6) into a
// Multiset. Faces outside [1,6] are ignored (spec's InvalidInput policy:
// silently drop at the data-conversion layer).
func FromFaces(faces []int) Multiset {
	var p Multiset
	for _, v := range faces {
		if v >= 1 && v <= 6 {
			p[v-1]++
		}
	}
	return p
}

// ToFaces expands p back into a sorted ascending sequence of face values,
// the canonical inverse of FromFaces for any Multiset this package
// produces (dice_to_multiset(multiset_to_sorted_dice(p)) == p).
func (p Multiset) ToFaces() []int {
	faces := make([]int, 0, p.Sum())
	for f := 0; f < 6; f++ {
		for i := 0; i < p[f]; i++ {
			faces = append(faces, f+1)
		}
	}
	return faces
}

// PatternProbability pairs a reroll outcome with its exact probability
// multinomial(p) / 6^n, n = p.Sum().
type PatternProbability struct {
	Pattern Multiset
	Prob    float64
}

// patternSizes holds |patterns(n)| for n in 0..5, i.e. C(n+5,5).
var patternSizes = [6]int{1, 6, 21, 56, 126, 252}

var (
	patternTables [6][]PatternProbability
	patternOnce   [6]sync.Once
)

// Patterns returns every dice multiset of size n together with its exact
// roll probability, for n in [0,5]. The slice is computed once per n by
// depth-first enumeration over faces 0..5 and cached for the life of the
// process (spec's "immutable, computed at first use" lifecycle).
func Patterns(n int) []PatternProbability {
	if n < 0 || n > 5 {
		return nil
	}
	patternOnce[n].Do(func() {
		table := make([]PatternProbability, 0, patternSizes[n])
		var p Multiset
		denom := pow6(n)
		var walk func(face, remaining int)
		walk = func(face, remaining int) {
			if face == 5 {
				p[5] = remaining
				mult := multinomial(p)
				table = append(table, PatternProbability{
					Pattern: p,
					Prob:    float64(mult) / float64(denom),
				})
				p[5] = 0
				return
			}
			for c := 0; c <= remaining; c++ {
				p[face] = c
				walk(face+1, remaining-c)
			}
			p[face] = 0
		}
		walk(0, n)
		patternTables[n] = table
	})
	return patternTables[n]
}

// NumPatterns returns |patterns(n)| = C(n+5,5), cross-checked against
// gonum's binomial coefficient rather than hand-maintaining a second
// combination table (the teacher keeps its own combination table for
// bearoff indices; here the pack's gonum dependency already covers it).
func NumPatterns(n int) int {
	if n < 0 || n > 5 {
		return 0
	}
	want := patternSizes[n]
	if got := int(combin.Binomial(n+5, 5)); got != want {
		panic("dice: pattern-count mismatch with combin.Binomial")
	}
	return want
}

// pow6 returns 6^n for small n without a floating point round trip.
func pow6(n int) int64 {
	r := int64(1)
	for i := 0; i < n; i++ {
		r *= 6
	}
	return r
}

// factorial table for n in 0..5, the only range multinomial() ever needs.
var factorials = [6]int64{1, 1, 2, 6, 24, 120}

// multinomial computes n! / prod(p[f]!) for n = p.Sum(). There is no
// ecosystem library in the retrieved pack offering multinomial (as
// opposed to binomial) coefficients, so this is direct arithmetic over a
// fixed 0..5 range of tiny factorials.
func multinomial(p Multiset) int64 {
	n := p.Sum()
	num := factorials[n]
	for f := 0; f < 6; f++ {
		num /= factorials[p[f]]
	}
	return num
}

// KeepPatterns enumerates every sub-multiset q of p (0 <= q[f] <= p[f] for
// every face), depth-first over faces 0..5 increasing. Count is
// prod(p[f]+1).
func KeepPatterns(p Multiset) []Multiset {
	count := 1
	for f := 0; f < 6; f++ {
		count *= p[f] + 1
	}
	out := make([]Multiset, 0, count)
	var q Multiset
	var walk func(face int)
	walk = func(face int) {
		if face == 6 {
			out = append(out, q)
			return
		}
		for c := 0; c <= p[face]; c++ {
			q[face] = c
			walk(face + 1)
		}
		q[face] = 0
	}
	walk(0)
	return out
}
