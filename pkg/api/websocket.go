package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins - configure properly in production
	},
}

// WSMessage is a generic WebSocket message.
type WSMessage struct {
	Type    string          `json:"type"`    // Message type: "hold", "top_holds", "category", "top_categories", "expected", "ping"
	ID      string          `json:"id"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload"` // Type-specific payload
}

// WSResponse is a generic WebSocket response.
type WSResponse struct {
	Type    string      `json:"type"`              // Response type: "result", "error", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
}

// WSClient represents a connected WebSocket client.
type WSClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	sendChan chan WSResponse
	mu       sync.Mutex
}

// WebSocket handles WebSocket connections for real-time hold/category analysis.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	client := &WSClient{conn: conn, handlers: h, sendChan: make(chan WSResponse, 256)}
	go client.writePump()
	client.readPump()
}

func (c *WSClient) writePump() {
	defer c.conn.Close()
	for msg := range c.sendChan {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (c *WSClient) readPump() {
	defer func() { close(c.sendChan); c.conn.Close() }()
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.handleMessage(msg)
	}
}

func (c *WSClient) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "hold":
		c.handleHold(msg)
	case "top_holds":
		c.handleTopHolds(msg)
	case "category":
		c.handleCategory(msg)
	case "top_categories":
		c.handleTopCategories(msg)
	case "expected":
		c.handleExpected(msg)
	case "ping":
		c.sendChan <- WSResponse{Type: "pong", ID: msg.ID}
	default:
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type"}
	}
}

func (c *WSClient) handleHold(msg WSMessage) {
	var req HoldRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
		return
	}
	mask, value, err := c.handlers.engine.Load().RecommendHold(stateOf(req.StateRequest), req.Dice, req.Locked, req.RollsLeft)
	if err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error()}
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: HoldResponse{Hold: mask, Value: value}}
}

func (c *WSClient) handleTopHolds(msg WSMessage) {
	var req HoldRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
		return
	}
	results, err := c.handlers.engine.Load().TopKHolds(stateOf(req.StateRequest), req.Dice, req.Locked, req.RollsLeft, req.CurrentTotal, req.K)
	if err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error()}
		return
	}
	out := make([]HoldResultResponse, len(results))
	for i, res := range results {
		out[i] = HoldResultResponse{Holds: holdMaskToInts(res.Hold), Expected: res.ExpectedFinalTotal}
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: TopHoldsResponse{Results: out}}
}

func (c *WSClient) handleCategory(msg WSMessage) {
	var req CategoryRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
		return
	}
	cat, sc, value, err := c.handlers.engine.Load().RecommendCategory(stateOf(req.StateRequest), req.Dice, req.RollsLeft)
	if err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error()}
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: CategoryResponse{Category: int(cat), Score: sc, Value: value}}
}

func (c *WSClient) handleTopCategories(msg WSMessage) {
	var req CategoryRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
		return
	}
	results, err := c.handlers.engine.Load().TopKCategories(stateOf(req.StateRequest), req.Dice, req.RollsLeft, req.CurrentTotal, req.K)
	if err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error()}
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
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: TopCategoriesResponse{Results: out}}
}

func (c *WSClient) handleExpected(msg WSMessage) {
	var req StateRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
		return
	}
	state := clampState(req)
	score := c.handlers.engine.Load().ExpectedScoreFromState(stateOf(state))
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: ExpectedResponse{
		UpperSum:      state.UpperSum,
		UsedMask:      state.UsedMask,
		ExpectedScore: score,
	}}
}
