package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-kit/log/level"
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
	Type    string          `json:"type"`    // Message type: "state", "move", "analyze", "ping"
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
}

// WebSocket handles WebSocket connections. It carries the same operations as
// the HTTP surface over a single connection, which keeps per-turn latency
// down when a game master drives hundreds of turns per match.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		level.Error(h.logger).Log("msg", "websocket upgrade failed", "err", err)
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
	case "state":
		c.handleState(msg)
	case "move":
		c.handleMove(msg)
	case "analyze":
		c.handleAnalyze(msg)
	case "ping":
		c.sendChan <- WSResponse{Type: "pong", ID: msg.ID}
	default:
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type"}
	}
}

func (c *WSClient) handleState(msg WSMessage) {
	var req StateSyncRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
		return
	}
	if req.Empty() {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "state payload carries no fields"}
		return
	}
	if c.handlers.pool != nil {
		if !c.handlers.pool.TryAcquireMove() {
			c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "server busy"}
			return
		}
		defer c.handlers.pool.ReleaseMove()
	}
	c.handlers.engine.SyncState(req.MatchID, req.ToUpdate())
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: StatusResponse{Status: "ok"}}
}

func (c *WSClient) handleMove(msg WSMessage) {
	req := MoveQueryRequest{PlayerNumber: 1}
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
			return
		}
	}
	if req.PlayerNumber == 0 {
		req.PlayerNumber = 1
	}
	if req.PlayerNumber != 1 && req.PlayerNumber != 2 {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "player_number must be 1 or 2"}
		return
	}
	// The read loop serves one message at a time, so a full pool answers
	// busy immediately instead of stalling the connection.
	if c.handlers.pool != nil {
		if !c.handlers.pool.TryAcquireMove() {
			c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "server busy"}
			return
		}
		defer c.handlers.pool.ReleaseMove()
	}
	d := c.handlers.engine.Decide(req.MatchID, req.PlayerNumber)
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: DecisionToResponse(d)}
}

func (c *WSClient) handleAnalyze(msg WSMessage) {
	req := AnalyzeRequest{PlayerNumber: 1}
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
			return
		}
	}
	if req.PlayerNumber == 0 {
		req.PlayerNumber = 1
	}
	if req.PlayerNumber != 1 && req.PlayerNumber != 2 {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "player_number must be 1 or 2"}
		return
	}
	if c.handlers.pool != nil {
		if !c.handlers.pool.TryAcquireAnalysis() {
			c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "server busy"}
			return
		}
		defer c.handlers.pool.ReleaseAnalysis()
	}
	a := c.handlers.engine.Analyze(req.MatchID, req.PlayerNumber)
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: a}
}
