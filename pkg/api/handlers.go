package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/yourusername/yachtcore/pkg/yacht"
)

// EngineHolder lets the build-stream handler hot-swap the engine a
// freshly rebuilt table backs, without the rest of Handlers needing to
// know the table was ever replaced. Every other handler calls Load()
// once per request.
type EngineHolder struct {
	v atomic.Pointer[yacht.Engine]
}

// NewEngineHolder wraps an already-constructed engine.
func NewEngineHolder(e *yacht.Engine) *EngineHolder {
	h := &EngineHolder{}
	h.v.Store(e)
	return h
}

// Load returns the current engine.
func (h *EngineHolder) Load() *yacht.Engine {
	return h.v.Load()
}

// Store replaces the current engine.
func (h *EngineHolder) Store(e *yacht.Engine) {
	h.v.Store(e)
}

// Handlers holds the HTTP handlers and engine reference.
type Handlers struct {
	engine  *EngineHolder
	version string
	pool    *WorkerPool

	// allowRebuild gates access to the GET build-stream endpoint
	// (spec.md's Non-goal on runtime re-derivation applies to the
	// decision API itself, not to this explicit, operator-only route).
	allowRebuild bool
}

// NewHandlers creates a new Handlers instance without a worker pool.
func NewHandlers(e *yacht.Engine, version string) *Handlers {
	return &Handlers{engine: NewEngineHolder(e), version: version}
}

// NewHandlersWithPool creates a new Handlers instance with a worker pool.
func NewHandlersWithPool(e *yacht.Engine, version string, pool *WorkerPool, allowRebuild bool) *Handlers {
	return &Handlers{
		engine:       NewEngineHolder(e),
		version:      version,
		pool:         pool,
		allowRebuild: allowRebuild,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}

// writeEngineError maps a pkg/yacht error to the HTTP response
// spec.md §7 assigns it: InvalidPhase is a 409 conflict, AllCategoriesUsed
// is a 200 with a null result (there's no error in asking, just nothing
// left to recommend), anything else is a malformed-request 400.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, yacht.ErrInvalidPhase):
		writeError(w, http.StatusConflict, err.Error(), "INVALID_PHASE")
	case errors.Is(err, yacht.ErrAllCategoriesUsed):
		writeJSON(w, http.StatusOK, struct {
			Result interface{} `json:"result"`
		}{nil})
	default:
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_INPUT")
	}
}

func stateOf(r StateRequest) yacht.PlayerState {
	return yacht.PlayerState{UpperSum: r.UpperSum, UsedMask: r.UsedMask}
}

// Health handles GET /api/v1/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
		Ready:   h.engine.Load() != nil,
	}
	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}
	writeJSON(w, http.StatusOK, resp)
}

// Hold handles POST /api/v1/hold.
func (h *Handlers) Hold(w http.ResponseWriter, r *http.Request) {
	var req HoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	if err := h.acquire(r, req.RollsLeft); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
		return
	}
	defer h.release(req.RollsLeft)

	mask, value, err := h.engine.Load().RecommendHold(stateOf(req.StateRequest), req.Dice, req.Locked, req.RollsLeft)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, HoldResponse{Hold: mask, Value: value})
}

// TopHolds handles POST /api/v1/top-holds.
func (h *Handlers) TopHolds(w http.ResponseWriter, r *http.Request) {
	var req HoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	if err := h.acquire(r, req.RollsLeft); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
		return
	}
	defer h.release(req.RollsLeft)

	results, err := h.engine.Load().TopKHolds(stateOf(req.StateRequest), req.Dice, req.Locked, req.RollsLeft, req.CurrentTotal, req.K)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	out := make([]HoldResultResponse, len(results))
	for i, res := range results {
		out[i] = HoldResultResponse{Holds: holdMaskToInts(res.Hold), Expected: res.ExpectedFinalTotal}
	}
	writeJSON(w, http.StatusOK, TopHoldsResponse{Results: out})
}

// holdMaskToInts renders a hold bitmask as 0/1 per position, spec.md's
// wire encoding for top_k_holds.
func holdMaskToInts(mask [5]bool) [5]int {
	var out [5]int
	for i, held := range mask {
		if held {
			out[i] = 1
		}
	}
	return out
}

// Category handles POST /api/v1/category.
func (h *Handlers) Category(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	if err := h.acquireFast(r); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
		return
	}
	defer h.releaseFast()

	cat, sc, value, err := h.engine.Load().RecommendCategory(stateOf(req.StateRequest), req.Dice, req.RollsLeft)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CategoryResponse{Category: int(cat), Score: sc, Value: value})
}

// TopCategories handles POST /api/v1/top-categories.
func (h *Handlers) TopCategories(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	if err := h.acquireFast(r); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
		return
	}
	defer h.releaseFast()

	results, err := h.engine.Load().TopKCategories(stateOf(req.StateRequest), req.Dice, req.RollsLeft, req.CurrentTotal, req.K)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	out := make([]CategoryResultResponse, len(results))
	for i, res := range results {
		out[i] = CategoryResultResponse{
			Category: int(res.Category),
			Score:    res.Score,
			Value:    res.Value,
			Expected: res.ExpectedFinalTotal,
		}
	}
	writeJSON(w, http.StatusOK, TopCategoriesResponse{Results: out})
}

// Expected handles GET /api/v1/expected?upper_sum=&used_mask=.
func (h *Handlers) Expected(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	upperSum, _ := strconv.Atoi(query.Get("upper_sum"))
	usedMask, _ := strconv.Atoi(query.Get("used_mask"))

	if err := h.acquireFast(r); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
		return
	}
	defer h.releaseFast()

	state := clampState(StateRequest{UpperSum: upperSum, UsedMask: usedMask})
	score := h.engine.Load().ExpectedScoreFromState(yacht.PlayerState{UpperSum: state.UpperSum, UsedMask: state.UsedMask})
	writeJSON(w, http.StatusOK, ExpectedResponse{
		UpperSum:      state.UpperSum,
		UsedMask:      state.UsedMask,
		ExpectedScore: score,
	})
}

// acquire picks the fast or slow pool by rollsLeft: two rerolls left
// means the request will run V2's internal worker fan-out, so it's
// routed through the more tightly bounded slow pool.
func (h *Handlers) acquire(r *http.Request, rollsLeft int) error {
	if h.pool == nil {
		return nil
	}
	if rollsLeft == 2 {
		return h.pool.AcquireSlow(r.Context())
	}
	return h.pool.AcquireFast(r.Context())
}

func (h *Handlers) release(rollsLeft int) {
	if h.pool == nil {
		return
	}
	if rollsLeft == 2 {
		h.pool.ReleaseSlow()
		return
	}
	h.pool.ReleaseFast()
}

func (h *Handlers) acquireFast(r *http.Request) error {
	if h.pool == nil {
		return nil
	}
	return h.pool.AcquireFast(r.Context())
}

func (h *Handlers) releaseFast() {
	if h.pool == nil {
		return
	}
	h.pool.ReleaseFast()
}
