package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/trailbot/internal/board"
)

// Deterministic initial layout used until the first state sync arrives.
var (
	defaultStart1   = board.Position{X: 2, Y: 8}
	defaultStart2   = board.Position{X: 17, Y: 9}
	defaultHeading1 = board.Right
	defaultHeading2 = board.Left
)

// Session holds all mutable state for one match: the board, both agents,
// and each player's strategic policy state. A single mutex serializes
// state syncs, decisions, and resets; decision work is pure CPU and runs
// inside the critical section.
type Session struct {
	ID string

	mu     sync.Mutex
	board  *board.Board
	agents [2]*board.Agent
	policy [2]*policyState
	turn   int

	log []DecisionRecord
}

// DecisionRecord is one decision's telemetry entry.
type DecisionRecord struct {
	Session string    `json:"session"`
	Turn    int       `json:"turn"`
	Player  int       `json:"player"`
	Move    string    `json:"move"`
	Boost   bool      `json:"boost"`
	Phase   string    `json:"phase"`
	Space   int       `json:"space"`
	At      time.Time `json:"at"`
}

// NewSession builds a session with the deterministic initial layout. The
// session is fully constructed here; no field waits for a first call to
// initialize it.
func NewSession() *Session {
	b := board.New(board.DefaultWidth, board.DefaultHeight)
	return &Session{
		ID:    uuid.NewString(),
		board: b,
		agents: [2]*board.Agent{
			board.NewAgent(1, defaultStart1, defaultHeading1, b),
			board.NewAgent(2, defaultStart2, defaultHeading2, b),
		},
		policy: [2]*policyState{newPolicyState(), newPolicyState()},
	}
}

// forPlayer resolves a 1-based player number into (own agent, opponent,
// own policy state). Out-of-range numbers resolve to player 1.
func (s *Session) forPlayer(player int) (me, opp *board.Agent, ps *policyState) {
	if player == 2 {
		return s.agents[1], s.agents[0], s.policy[1]
	}
	return s.agents[0], s.agents[1], s.policy[0]
}

// occupiedSet returns the transient union of both trails, recomputed per
// decision and never persisted.
func (s *Session) occupiedSet() map[board.Position]bool {
	occ := make(map[board.Position]bool, len(s.agents[0].Trail)+len(s.agents[1].Trail))
	for _, a := range s.agents {
		for p := range a.TrailSet {
			occ[p] = true
		}
	}
	return occ
}

// reset clears both players' strategic state for a new match. Board and
// agent snapshots are left to the next state sync.
func (s *Session) reset() {
	s.policy[0] = newPolicyState()
	s.policy[1] = newPolicyState()
}

// Snapshot returns a read-consistent copy of the decision log.
func (s *Session) Snapshot() []DecisionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DecisionRecord, len(s.log))
	copy(out, s.log)
	return out
}
