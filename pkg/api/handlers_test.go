package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yourusername/trailbot/pkg/engine"
)

func getTestEngine() *engine.Engine {
	return engine.New(engine.Options{})
}

func validMove(move string) bool {
	dir, _, _ := strings.Cut(move, ":")
	switch dir {
	case "UP", "DOWN", "LEFT", "RIGHT":
		return true
	}
	return false
}

// TestHealthHandler tests the health endpoint.
func TestHealthHandler(t *testing.T) {
	h := NewHandlers(nil, "test-version")

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	h.Health(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Health status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	if health.Status != "ok" {
		t.Errorf("Status = %q, want %q", health.Status, "ok")
	}
	if health.Version != "test-version" {
		t.Errorf("Version = %q, want %q", health.Version, "test-version")
	}
	if health.Ready {
		t.Error("Expected ready = false without an engine")
	}
}

func TestHealthHandlerReady(t *testing.T) {
	eng := getTestEngine()
	pool := NewWorkerPool(DefaultPoolConfig())
	h := NewHandlersWithPool(eng, "1.0.0", pool)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	h.Health(w, req)

	var health HealthResponse
	json.NewDecoder(w.Result().Body).Decode(&health)

	if !health.Ready {
		t.Error("Expected ready = true when engine is set")
	}
	if health.Pool == nil {
		t.Fatal("Expected pool stats in response")
	}
	if health.Pool.MaxMove != 100 {
		t.Errorf("MaxMove = %d, want 100", health.Pool.MaxMove)
	}
	if health.Cache == nil {
		t.Error("Expected cache stats in response")
	}
}

func TestInfoHandler(t *testing.T) {
	h := NewHandlers(getTestEngine(), "1.0.0")
	h.SetIdentity("team-rocket", "meowth")

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	h.Info(w, req)

	var info InfoResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&info); err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if info.Participant != "team-rocket" {
		t.Errorf("Participant = %q, want %q", info.Participant, "team-rocket")
	}
	if info.AgentName != "meowth" {
		t.Errorf("AgentName = %q, want %q", info.AgentName, "meowth")
	}
}

func TestStateHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{
			name:       "valid sync",
			body:       StateSyncRequest{Agent1Trail: [][2]int{{4, 4}, {5, 4}}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "empty body",
			body:       nil,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "content-free body",
			body:       "{}",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "match id only",
			body:       `{"match_id":"m1"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "dimensions only",
			body:       `{"width":10,"height":10}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid json",
			body:       "not json",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandlers(getTestEngine(), "1.0.0")

			var body []byte
			switch b := tc.body.(type) {
			case nil:
			case string:
				body = []byte(b)
			default:
				body, _ = json.Marshal(b)
			}
			req := httptest.NewRequest("POST", "/api/state", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			h.State(w, req)

			resp := w.Result()
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("Status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}
		})
	}
}

func TestMoveHandler(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"default player", "", http.StatusOK},
		{"player one", "?player_number=1", http.StatusOK},
		{"player two", "?player_number=2", http.StatusOK},
		{"bad player value", "?player_number=abc", http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandlers(getTestEngine(), "1.0.0")

			req := httptest.NewRequest("GET", "/api/move"+tc.query, nil)
			w := httptest.NewRecorder()

			h.Move(w, req)

			resp := w.Result()
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("Status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}

			if tc.wantStatus == http.StatusOK {
				var move MoveResponse
				if err := json.NewDecoder(resp.Body).Decode(&move); err != nil {
					t.Fatalf("Decode error: %v", err)
				}
				if !validMove(move.Move) {
					t.Errorf("Move = %q, want a direction name", move.Move)
				}
				if move.Phase != "open_play" {
					t.Errorf("Phase = %q, want %q", move.Phase, "open_play")
				}
			}
		})
	}
}

func TestMoveHandlerSyncThenMove(t *testing.T) {
	h := NewHandlers(getTestEngine(), "1.0.0")

	// Hem agent 1 into the left edge with agent 2's trail so the only open
	// direction with space is toward the board interior.
	sync := StateSyncRequest{
		Agent1Trail: [][2]int{{3, 8}, {2, 8}},
		Agent2Trail: [][2]int{{1, 6}, {1, 7}, {1, 8}, {1, 9}, {1, 10}},
	}
	body, _ := json.Marshal(sync)
	w := httptest.NewRecorder()
	h.State(w, httptest.NewRequest("POST", "/api/state", bytes.NewReader(body)))
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("State status = %d", w.Result().StatusCode)
	}

	w = httptest.NewRecorder()
	h.Move(w, httptest.NewRequest("GET", "/api/move?player_number=1", nil))

	var move MoveResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&move); err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if move.Move == "RIGHT" || strings.HasPrefix(move.Move, "RIGHT:") {
		t.Errorf("Move = %q, reversal is never legal", move.Move)
	}
	if move.Space <= 0 {
		t.Errorf("Space = %d, want positive", move.Space)
	}
}

func TestEndHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{"empty body", nil, http.StatusOK},
		{"with final snapshot", EndRequest{Final: &StateSyncRequest{Agent1Alive: boolPtr(false)}}, http.StatusOK},
		{"invalid json", "not json", http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandlers(getTestEngine(), "1.0.0")

			var body []byte
			switch b := tc.body.(type) {
			case nil:
			case string:
				body = []byte(b)
			default:
				body, _ = json.Marshal(b)
			}
			w := httptest.NewRecorder()
			h.End(w, httptest.NewRequest("POST", "/api/end", bytes.NewReader(body)))

			resp := w.Result()
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("Status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}
			if tc.wantStatus == http.StatusOK {
				var status StatusResponse
				if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
					t.Fatalf("Decode error: %v", err)
				}
				if status.Status != "ok" {
					t.Errorf("Status = %q, want %q", status.Status, "ok")
				}
			}
		})
	}
}

func boolPtr(b bool) *bool { return &b }

func TestAnalyzeHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{"default player", AnalyzeRequest{}, http.StatusOK},
		{"player two", AnalyzeRequest{PlayerNumber: 2}, http.StatusOK},
		{"invalid player", AnalyzeRequest{PlayerNumber: 3}, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandlers(getTestEngine(), "1.0.0")

			body, _ := json.Marshal(tc.body)
			w := httptest.NewRecorder()
			h.Analyze(w, httptest.NewRequest("POST", "/api/analyze", bytes.NewReader(body)))

			resp := w.Result()
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("Status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}

			if tc.wantStatus == http.StatusOK {
				var a engine.Analysis
				if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
					t.Fatalf("Decode error: %v", err)
				}
				if len(a.Scores) == 0 {
					t.Error("Expected direction scores in analysis")
				}
			}
		})
	}
}

// ============================================================================
// Route Tests
// ============================================================================

func TestRoutesAndAliases(t *testing.T) {
	srv := NewServer(getTestEngine(), DefaultConfig(), "1.0.0", nil)
	server := httptest.NewServer(srv.setupRoutes())
	defer server.Close()

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"GET", "/", "", http.StatusOK},
		{"GET", "/api/health", "", http.StatusOK},
		{"POST", "/api/state", `{"turn_count":3}`, http.StatusOK},
		{"POST", "/send-state", `{"turn_count":4}`, http.StatusOK},
		{"GET", "/api/move?player_number=1", "", http.StatusOK},
		{"GET", "/send-move?player_number=2", "", http.StatusOK},
		{"POST", "/api/end", "", http.StatusOK},
		{"POST", "/end", "", http.StatusOK},
		{"POST", "/api/analyze", `{"player_number":1}`, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var body *bytes.Reader
			if tc.body != "" {
				body = bytes.NewReader([]byte(tc.body))
			} else {
				body = bytes.NewReader(nil)
			}
			req, _ := http.NewRequest(tc.method, server.URL+tc.path, body)
			req.Header.Set("Content-Type", "application/json")
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("Status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := NewServer(getTestEngine(), DefaultConfig(), "1.0.0", nil)
	server := httptest.NewServer(srv.setupRoutes())
	defer server.Close()

	req, _ := http.NewRequest("OPTIONS", server.URL+"/api/move", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want %q", got, "*")
	}
}

// ============================================================================
// SSE Tests
// ============================================================================

func TestDecisionSSE(t *testing.T) {
	eng := getTestEngine()
	h := NewHandlers(eng, "1.0.0")

	server := httptest.NewServer(http.HandlerFunc(h.DecisionSSE))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/decisions/stream")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("Content-Type = %q, want %q", got, "text/event-stream")
	}

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !strings.HasPrefix(line, "event: ready") {
		t.Fatalf("First event = %q, want ready", strings.TrimSpace(line))
	}

	// A decision made after subscribing should stream through.
	go eng.Decide("", 1)

	deadline := time.After(2 * time.Second)
	found := make(chan string, 1)
	go func() {
		for {
			l, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			if strings.HasPrefix(l, "event: decision") {
				found <- strings.TrimSpace(l)
				return
			}
		}
	}()

	select {
	case <-found:
	case <-deadline:
		t.Fatal("Timed out waiting for decision event")
	}
}

// TestDecisionSSESurvivesWriteTimeout runs the stream under a server whose
// write timeout is far shorter than the subscription and checks that events
// still arrive after the deadline would have cut the connection.
func TestDecisionSSESurvivesWriteTimeout(t *testing.T) {
	eng := getTestEngine()
	h := NewHandlers(eng, "1.0.0")

	server := httptest.NewUnstartedServer(http.HandlerFunc(h.DecisionSSE))
	server.Config.WriteTimeout = 50 * time.Millisecond
	server.Start()
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/decisions/stream")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !strings.HasPrefix(line, "event: ready") {
		t.Fatalf("First event = %q, want ready", strings.TrimSpace(line))
	}

	// Outlive the write timeout, then expect the stream to still deliver.
	time.Sleep(150 * time.Millisecond)
	go eng.Decide("", 1)

	deadline := time.After(2 * time.Second)
	found := make(chan struct{}, 1)
	go func() {
		for {
			l, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			if strings.HasPrefix(l, "event: decision") {
				found <- struct{}{}
				return
			}
		}
	}()

	select {
	case <-found:
	case <-deadline:
		t.Fatal("Stream died before delivering a decision past the write timeout")
	}
}

// ============================================================================
// WebSocket Tests
// ============================================================================

func dialTestWS(t *testing.T, h *Handlers) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(h.WebSocket))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("WebSocket dial failed: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func TestWebSocketPing(t *testing.T) {
	ws := dialTestWS(t, NewHandlers(getTestEngine(), "1.0.0"))

	msg := WSMessage{Type: "ping", ID: "test-ping-1"}
	if err := ws.WriteJSON(msg); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp WSResponse
	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if resp.Type != "pong" {
		t.Errorf("Response type = %q, want %q", resp.Type, "pong")
	}
	if resp.ID != "test-ping-1" {
		t.Errorf("Response ID = %q, want %q", resp.ID, "test-ping-1")
	}
}

func TestWebSocketStateAndMove(t *testing.T) {
	ws := dialTestWS(t, NewHandlers(getTestEngine(), "1.0.0"))

	payload, _ := json.Marshal(StateSyncRequest{TurnCount: intPtr(7)})
	if err := ws.WriteJSON(WSMessage{Type: "state", ID: "state-1", Payload: payload}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp WSResponse
	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if resp.Type != "result" || resp.ID != "state-1" {
		t.Fatalf("Response = %+v, want state-1 result", resp)
	}

	payload, _ = json.Marshal(MoveQueryRequest{PlayerNumber: 1})
	if err := ws.WriteJSON(WSMessage{Type: "move", ID: "move-1", Payload: payload}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if resp.Type != "result" || resp.ID != "move-1" {
		t.Fatalf("Response = %+v, want move-1 result", resp)
	}

	raw, _ := json.Marshal(resp.Payload)
	var move MoveResponse
	if err := json.Unmarshal(raw, &move); err != nil {
		t.Fatalf("Unmarshal move: %v", err)
	}
	if !validMove(move.Move) {
		t.Errorf("Move = %q, want a direction name", move.Move)
	}
}

func intPtr(n int) *int { return &n }

func TestWebSocketAnalyze(t *testing.T) {
	ws := dialTestWS(t, NewHandlers(getTestEngine(), "1.0.0"))

	payload, _ := json.Marshal(AnalyzeRequest{PlayerNumber: 2})
	if err := ws.WriteJSON(WSMessage{Type: "analyze", ID: "an-1", Payload: payload}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp WSResponse
	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if resp.Type != "result" {
		t.Errorf("Response type = %q, want %q", resp.Type, "result")
	}
	if resp.Error != "" {
		t.Errorf("Unexpected error: %s", resp.Error)
	}
}

func TestWebSocketBusyPool(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{MaxMoveWorkers: 1, MaxAnalysisWorkers: 1})
	h := NewHandlersWithPool(getTestEngine(), "1.0.0", pool)
	ws := dialTestWS(t, h)

	// Hold the only move slot: the query must fail fast, not stall the
	// connection's read loop.
	if err := pool.AcquireMove(context.Background()); err != nil {
		t.Fatalf("AcquireMove failed: %v", err)
	}

	payload, _ := json.Marshal(MoveQueryRequest{PlayerNumber: 1})
	if err := ws.WriteJSON(WSMessage{Type: "move", ID: "busy-1", Payload: payload}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp WSResponse
	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if resp.Type != "error" || !strings.Contains(resp.Error, "busy") {
		t.Fatalf("Response = %+v, want busy error", resp)
	}

	pool.ReleaseMove()

	if err := ws.WriteJSON(WSMessage{Type: "move", ID: "busy-2", Payload: payload}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if resp.Type != "result" || resp.ID != "busy-2" {
		t.Fatalf("Response = %+v, want busy-2 result after release", resp)
	}
}

func TestWebSocketErrors(t *testing.T) {
	ws := dialTestWS(t, NewHandlers(getTestEngine(), "1.0.0"))

	tests := []struct {
		name    string
		msgType string
		payload interface{}
		wantErr string
	}{
		{"unknown type", "unknown", nil, "unknown message type"},
		{"bad player", "move", MoveQueryRequest{PlayerNumber: 5}, "player_number"},
		{"content-free state", "state", StateSyncRequest{}, "no fields"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var payload json.RawMessage
			if tc.payload != nil {
				payload, _ = json.Marshal(tc.payload)
			}
			msg := WSMessage{Type: tc.msgType, ID: tc.name, Payload: payload}
			if err := ws.WriteJSON(msg); err != nil {
				t.Fatalf("Write failed: %v", err)
			}

			ws.SetReadDeadline(time.Now().Add(2 * time.Second))
			var resp WSResponse
			if err := ws.ReadJSON(&resp); err != nil {
				t.Fatalf("Read failed: %v", err)
			}

			if resp.Type != "error" {
				t.Errorf("Response type = %q, want %q", resp.Type, "error")
			}
			if !strings.Contains(resp.Error, tc.wantErr) {
				t.Errorf("Error = %q, want containing %q", resp.Error, tc.wantErr)
			}
		})
	}
}
