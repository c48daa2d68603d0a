// Package yacht is the public decision API: a stateless Engine wrapping
// the DP table, pattern tables, and eval cache, exposing the five
// operations a caller needs to play optimally -- recommend a hold,
// recommend a category, rank either, or look up the expected value of a
// bare state.
//
// Engine carries no game state of its own, mirroring the teacher's
// pkg/engine.Engine: every call takes the caller's current state and
// dice as arguments and returns a decision, never mutating anything.
package yacht

import "errors"

// Sentinel errors returned by Engine methods, named after spec.md §7's
// error taxonomy so an HTTP facade can map them to status codes without
// string-matching.
var (
	// ErrInvalidPhase is returned when an operation is called with
	// rolls_left (or roll state) inconsistent with the operation --
	// recommending a hold with no rerolls left, or recommending a
	// category before the first roll of the turn.
	ErrInvalidPhase = errors.New("yacht: invalid phase for this operation")

	// ErrAllCategoriesUsed is returned by the category-choice operations
	// when used_mask already has all twelve bits set: there is nothing
	// left to recommend.
	ErrAllCategoriesUsed = errors.New("yacht: all categories already used")
)
