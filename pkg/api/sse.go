package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/yourusername/yachtcore/internal/dpbuild"
	"github.com/yourusername/yachtcore/pkg/yacht"
)

// SSEEvent represents a Server-Sent Event.
type SSEEvent struct {
	Event string      `json:"event"` // Event type: "progress", "result", "done", "error"
	Data  interface{} `json:"data"`  // Event data
}

// BuildProgressEvent is the "progress" payload streamed while the table
// is being recomputed.
type BuildProgressEvent struct {
	Done    int     `json:"done"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// BuildResultEvent is the "result" payload sent once induction finishes.
type BuildResultEvent struct {
	InitialExpectedScore float32 `json:"initial_expected_score"`
}

// BuildStream handles Server-Sent Events for streaming a live rebuild of
// the expected-score table. Gated by allowRebuild -- this recomputes the
// whole table in-process and hot-swaps it into the running engine, so
// it's an operator action, not a client-facing decision endpoint.
// GET /api/v1/build/stream
func (h *Handlers) BuildStream(w http.ResponseWriter, r *http.Request) {
	if !h.allowRebuild {
		writeSSEError(w, "rebuild endpoint disabled")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeSSEError(w, "streaming not supported")
		return
	}

	callback := func(done, total int) {
		writeSSEEvent(w, "progress", BuildProgressEvent{
			Done:    done,
			Total:   total,
			Percent: 100 * float64(done) / float64(total),
		})
		flusher.Flush()
	}

	built := dpbuild.Build(callback)
	table, err := built.ToTable()
	if err != nil {
		writeSSEError(w, "failed to finalize table: "+err.Error())
		return
	}

	newEngine := yacht.NewEngineFromTable(table, yacht.DefaultCacheSize)
	h.engine.Store(newEngine)

	writeSSEEvent(w, "result", BuildResultEvent{InitialExpectedScore: table.Expected(0, 0)})
	flusher.Flush()

	writeSSEEvent(w, "done", nil)
	flusher.Flush()
}

// writeSSEEvent writes a Server-Sent Event to the response.
func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", jsonData)
	}
	fmt.Fprintf(w, "\n")
}

// writeSSEError writes an error event and closes the stream.
func writeSSEError(w http.ResponseWriter, message string) {
	writeSSEEvent(w, "error", map[string]string{"error": message})
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}
