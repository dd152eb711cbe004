// Package api provides the HTTP/JSON transport for the trailbot decision
// engine: state-sync ingestion, move queries, match resets, analysis, and
// real-time channels (WebSocket, SSE).
package api

import (
	"github.com/yourusername/trailbot/internal/board"
	"github.com/yourusername/trailbot/pkg/engine"
)

// ============================================================================
// Request Types
// ============================================================================

// StateSyncRequest is the game master's snapshot push. Every field is
// optional; absent fields leave the engine's current values untouched.
type StateSyncRequest struct {
	MatchID string `json:"match_id,omitempty"` // session selector, "" = default

	Width  *int    `json:"width,omitempty"`  // board dimensions, default 20x18
	Height *int    `json:"height,omitempty"`
	Board  [][]int `json:"board,omitempty"` // row-major cell states

	Agent1Trail [][2]int `json:"agent1_trail,omitempty"` // ordered [x, y] pairs
	Agent2Trail [][2]int `json:"agent2_trail,omitempty"`

	Agent1Length *int  `json:"agent1_length,omitempty"`
	Agent2Length *int  `json:"agent2_length,omitempty"`
	Agent1Alive  *bool `json:"agent1_alive,omitempty"`
	Agent2Alive  *bool `json:"agent2_alive,omitempty"`
	Agent1Boosts *int  `json:"agent1_boosts,omitempty"`
	Agent2Boosts *int  `json:"agent2_boosts,omitempty"`

	TurnCount *int `json:"turn_count,omitempty"`
}

// Empty reports whether the sync carries no state at all.
func (r *StateSyncRequest) Empty() bool {
	return r.Width == nil && r.Height == nil &&
		r.Board == nil &&
		r.Agent1Trail == nil && r.Agent2Trail == nil &&
		r.Agent1Length == nil && r.Agent2Length == nil &&
		r.Agent1Alive == nil && r.Agent2Alive == nil &&
		r.Agent1Boosts == nil && r.Agent2Boosts == nil &&
		r.TurnCount == nil
}

// ToUpdate converts the wire payload into an engine state update.
func (r *StateSyncRequest) ToUpdate() engine.StateUpdate {
	return engine.StateUpdate{
		Width:        r.Width,
		Height:       r.Height,
		Board:        r.Board,
		Agent1Trail:  pairsToPositions(r.Agent1Trail),
		Agent2Trail:  pairsToPositions(r.Agent2Trail),
		Agent1Length: r.Agent1Length,
		Agent2Length: r.Agent2Length,
		Agent1Alive:  r.Agent1Alive,
		Agent2Alive:  r.Agent2Alive,
		Agent1Boosts: r.Agent1Boosts,
		Agent2Boosts: r.Agent2Boosts,
		TurnCount:    r.TurnCount,
	}
}

func pairsToPositions(pairs [][2]int) []board.Position {
	if pairs == nil {
		return nil
	}
	out := make([]board.Position, len(pairs))
	for i, p := range pairs {
		out[i] = board.Position{X: p[0], Y: p[1]}
	}
	return out
}

// MoveQueryRequest mirrors the move query parameters when the request
// arrives over the WebSocket channel instead of HTTP.
type MoveQueryRequest struct {
	MatchID      string `json:"match_id,omitempty"`
	PlayerNumber int    `json:"player_number"`
}

// AnalyzeRequest asks for a position analysis for one player.
type AnalyzeRequest struct {
	MatchID      string `json:"match_id,omitempty"`
	PlayerNumber int    `json:"player_number"`
}

// EndRequest closes out a match, optionally carrying the final snapshot.
type EndRequest struct {
	MatchID string            `json:"match_id,omitempty"`
	Final   *StateSyncRequest `json:"final,omitempty"`
}

// ============================================================================
// Response Types
// ============================================================================

// InfoResponse identifies the bot to the game master.
type InfoResponse struct {
	Participant string `json:"participant"`
	AgentName   string `json:"agent_name"`
}

// MoveResponse answers a move query. Move is a direction name, optionally
// suffixed with ":BOOST".
type MoveResponse struct {
	Move  string `json:"move"`
	Phase string `json:"phase,omitempty"`
	Space int    `json:"space,omitempty"`
	Turn  int    `json:"turn,omitempty"`
}

// StatusResponse acknowledges a state sync or match end.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is returned when an error occurs.
type ErrorResponse struct {
	Error string `json:"error"`          // Error message
	Code  string `json:"code,omitempty"` // Error code
}

// HealthResponse is the response for health checks.
type HealthResponse struct {
	Status  string             `json:"status"`          // "ok" or "error"
	Version string             `json:"version"`         // Engine version
	Ready   bool               `json:"ready"`           // Whether engine is serving
	Pool    *PoolStats         `json:"pool,omitempty"`  // Worker pool statistics
	Cache   *engine.CacheStats `json:"cache,omitempty"` // Flood-fill cache statistics
}

// ============================================================================
// Helper Functions
// ============================================================================

// DecisionToResponse converts an engine decision to an API response.
func DecisionToResponse(d engine.Decision) *MoveResponse {
	return &MoveResponse{
		Move:  d.Move(),
		Phase: d.Phase.String(),
		Space: d.Space,
		Turn:  d.Turn,
	}
}
