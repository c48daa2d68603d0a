// Package api exposes pkg/yacht's decision engine over HTTP/JSON, a
// WebSocket feed for the same five operations, and an operator-gated
// SSE endpoint for rebuilding the DP table live.
package api

import "github.com/yourusername/yachtcore/internal/dptable"

// ============================================================================
// Request Types
// ============================================================================

// StateRequest is the common (upper_sum, used_mask) pair every operation
// needs, embedded in the request types below.
type StateRequest struct {
	UpperSum int `json:"upper_sum"`
	UsedMask int `json:"used_mask"`
}

// HoldRequest is the request body for POST /api/v1/hold and
// POST /api/v1/top-holds.
type HoldRequest struct {
	StateRequest
	Dice         [5]int  `json:"dice"`
	Locked       [5]bool `json:"locked,omitempty"`
	RollsLeft    int     `json:"rolls_left"`
	CurrentTotal int     `json:"current_total,omitempty"` // top-holds only
	K            int     `json:"k,omitempty"`              // top-holds only; 0 = all
}

// CategoryRequest is the request body for POST /api/v1/category and
// POST /api/v1/top-categories.
type CategoryRequest struct {
	StateRequest
	Dice         [5]int `json:"dice"`
	RollsLeft    int    `json:"rolls_left"`
	CurrentTotal int    `json:"current_total,omitempty"` // top-categories only
	K            int    `json:"k,omitempty"`              // top-categories only; 0 = all
}

// ============================================================================
// Response Types
// ============================================================================

// HoldResponse is the response for POST /api/v1/hold.
type HoldResponse struct {
	Hold  [5]bool `json:"hold"`
	Value float32 `json:"value"`
}

// HoldResultResponse is one ranked entry in a top-holds response. Holds
// is 0/1 per position (not bool) and Expected is the final total
// including current_total, matching spec.md's top_k_holds wire format.
type HoldResultResponse struct {
	Holds    [5]int  `json:"holds"`
	Expected float32 `json:"expected"`
}

// TopHoldsResponse is the response for POST /api/v1/top-holds.
type TopHoldsResponse struct {
	Results []HoldResultResponse `json:"results"`
}

// CategoryResponse is the response for POST /api/v1/category. Category
// is the category's integer index, matching spec.md's wire format.
type CategoryResponse struct {
	Category int     `json:"category"`
	Score    uint8   `json:"score"`
	Value    float32 `json:"value"`
}

// CategoryResultResponse is one ranked entry in a top-categories
// response, matching spec.md's top_k_categories wire format.
type CategoryResultResponse struct {
	Category int     `json:"category"`
	Score    uint8   `json:"score"`
	Value    float32 `json:"value"`
	Expected float32 `json:"expected"`
}

// TopCategoriesResponse is the response for POST /api/v1/top-categories.
type TopCategoriesResponse struct {
	Results []CategoryResultResponse `json:"results"`
}

// ExpectedResponse is the response for GET /api/v1/expected.
type ExpectedResponse struct {
	UpperSum      int     `json:"upper_sum"`
	UsedMask      int     `json:"used_mask"`
	ExpectedScore float32 `json:"expected_score"`
}

// ErrorResponse is returned when a request fails.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string     `json:"status"`
	Version string     `json:"version"`
	Ready   bool       `json:"ready"`
	Pool    *PoolStats `json:"pool,omitempty"`
}

// clampState applies the same silent-clamp policy dptable.Table.Expected
// uses, so a response's echoed upper_sum/used_mask always matches what
// was actually looked up.
func clampState(s StateRequest) StateRequest {
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
	return StateRequest{UpperSum: u, UsedMask: m}
}
