// Package catvalue implements category-choice valuation: the immediate
// score plus the upper-section bonus (if newly crossed) plus the expected
// continuation value from the DP table.
//
// Semantics are a direct port of the reference evaluate_category_choice
// recurrence (spec.md §4.4).
package catvalue

import (
	"github.com/yourusername/yachtcore/internal/dptable"
	"github.com/yourusername/yachtcore/internal/score"
)

// UpperBonusThreshold is the upper-sum a player must reach to earn the bonus.
const UpperBonusThreshold = 63

// UpperBonusPoints is the one-time bonus awarded for crossing the threshold.
const UpperBonusPoints = 35

// ChooseValue returns the total expected value of filling category c with
// immediateScore, given the player currently has the supplied upper_sum
// and used_mask. The caller must ensure bit c is clear in usedMask.
func ChooseValue(t dptable.Reader, upperSum, usedMask int, c score.Category, immediateScore uint8) float32 {
	newMask := usedMask | (1 << uint(c))

	if c.IsUpper() {
		newUpperSum := upperSum + int(immediateScore)
		if newUpperSum > UpperBonusThreshold {
			newUpperSum = UpperBonusThreshold
		}
		bonus := float32(0)
		if upperSum < UpperBonusThreshold && newUpperSum >= UpperBonusThreshold {
			bonus = UpperBonusPoints
		}
		return float32(immediateScore) + bonus + t.Expected(newUpperSum, newMask)
	}

	return float32(immediateScore) + t.Expected(upperSum, newMask)
}
