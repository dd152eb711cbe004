// Package engine implements the move-decision core for a toroidal-grid
// trail contest: reachable-space estimation, collision checking, the
// strategic phase machine, and the selection policy tying them together.
package engine

import (
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/yourusername/trailbot/internal/board"
)

// Tuning defaults.
const (
	// DefaultPanicDistance is the horizontal head separation at or below
	// which open play gives way to the escape routine.
	DefaultPanicDistance = 1
	// DefaultBoostThreshold is the space score a chosen move must exceed
	// before a boost is spent on it.
	DefaultBoostThreshold = 10
)

// Options configures an Engine. The zero value is usable.
type Options struct {
	Logger         log.Logger // nil = discard
	CacheSize      uint32     // flood-fill cache entries, 0 = default
	PanicDistance  int        // 0 = default
	BoostThreshold int        // 0 = default
}

// Engine answers move queries from session state. One engine serves any
// number of concurrent matches, each isolated in its own Session.
type Engine struct {
	logger         log.Logger
	cache          *fillCache
	panicDistance  int
	boostThreshold int

	mu       sync.Mutex
	sessions map[string]*Session
	subs     map[string][]chan DecisionRecord
}

// New creates an engine with a ready default session.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	panicDistance := opts.PanicDistance
	if panicDistance <= 0 {
		panicDistance = DefaultPanicDistance
	}
	boostThreshold := opts.BoostThreshold
	if boostThreshold <= 0 {
		boostThreshold = DefaultBoostThreshold
	}
	e := &Engine{
		logger:         logger,
		cache:          newFillCache(opts.CacheSize),
		panicDistance:  panicDistance,
		boostThreshold: boostThreshold,
		sessions:       make(map[string]*Session),
		subs:           make(map[string][]chan DecisionRecord),
	}
	e.sessions[""] = NewSession()
	return e
}

// Session returns the session for the given ID, creating it on first use.
// The empty ID selects the default session.
func (e *Engine) Session(id string) *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[id]
	if !ok {
		s = NewSession()
		e.sessions[id] = s
		level.Debug(e.logger).Log("msg", "session created", "session", s.ID)
	}
	return s
}

// SyncState merges an authoritative snapshot into the session. Empty
// updates are expected to be rejected at the transport boundary; they are
// a no-op here.
func (e *Engine) SyncState(sessionID string, u StateUpdate) {
	if u.Empty() {
		return
	}
	s := e.Session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(u)
}

// Reset ends the current match in the session: an optional final snapshot
// is applied, then both players' phase and escape bias return to their
// initial values.
func (e *Engine) Reset(sessionID string, final *StateUpdate) {
	s := e.Session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if final != nil && !final.Empty() {
		s.apply(*final)
	}
	s.reset()
	level.Info(e.logger).Log("msg", "match reset", "session", s.ID)
}

// Decision is the engine's answer to a move query.
type Decision struct {
	Dir    board.Direction
	Boost  bool
	Phase  Phase
	Space  int
	Turn   int
	Player int
}

// Move renders the decision in wire form ("LEFT" or "LEFT:BOOST").
func (d Decision) Move() string {
	if d.Boost {
		return d.Dir.Name() + ":BOOST"
	}
	return d.Dir.Name()
}

// Decide produces the next move for the given player (1 or 2). It always
// returns a direction: before any sync it plays from the deterministic
// initial layout, and with no safe move it answers with the least-bad one.
func (e *Engine) Decide(sessionID string, player int) Decision {
	s := e.Session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	me, opp, ps := s.forPlayer(player)
	b := s.board
	head := me.Head()

	oppAlive := opp.Alive && len(opp.Trail) > 0
	var oppHead board.Position
	if oppAlive {
		oppHead = opp.Head()
	}

	corridorY := corridorRow(me.Origin(), b.Height)
	exitX := me.Origin().X
	reserved := corridorCells(b.Width, b.Height, corridorY)
	occupied := s.occupiedSet()

	candidates := generateCandidates(b, me, occupied, reserved, e.cache)
	if len(candidates) == 0 {
		// Nothing to offer: keep the current heading rather than fail.
		return e.record(s, Decision{Dir: me.Heading, Phase: ps.phase, Turn: s.turn, Player: player})
	}

	ps.observeProximity(head, oppHead, oppAlive, e.panicDistance)
	ps.observeCorridor(head, oppHead, oppAlive, corridorY, exitX)

	var chosen Candidate
	switch ps.phase {
	case PhasePanic:
		tentative, arrived := ps.escapeStep(head, corridorY, exitX)
		if arrived {
			ps.phase = PhaseCorridorFill
			chosen, _ = chooseNonSuicidal(b, occupied, candidates)
		} else if !IsFatal(b, b.Step(head, tentative), occupied) {
			chosen = candidateFor(candidates, tentative, b, head)
		} else {
			chosen, _ = chooseNonSuicidal(b, occupied, candidates)
		}
	case PhaseCorridorFill:
		chosen = e.fillChoice(b, occupied, head, ps, candidates)
	default:
		chosen, _ = chooseNonSuicidal(b, occupied, candidates)
	}

	boost := false
	if ps.phase == PhaseOpenPlay && me.BoostsRemaining > 0 && chosen.Space > e.boostThreshold {
		boost = true
	}

	return e.record(s, Decision{
		Dir:    chosen.Dir,
		Boost:  boost,
		Phase:  ps.phase,
		Space:  chosen.Space,
		Turn:   s.turn,
		Player: player,
	})
}

// fillChoice applies the corridor-fill policy with generic selection as
// the fallback.
func (e *Engine) fillChoice(b *board.Board, occupied map[board.Position]bool, head board.Position, ps *policyState, candidates []Candidate) Candidate {
	preferred := ps.escapeDX
	if preferred == 0 {
		preferred = 1
	}
	if dir, ok := fillStep(b, occupied, head, preferred); ok {
		if !IsFatal(b, b.Step(head, dir), occupied) {
			return candidateFor(candidates, dir, b, head)
		}
	}
	chosen, _ := chooseNonSuicidal(b, occupied, candidates)
	return chosen
}

// candidateFor matches a direction back to its scored candidate; planner
// moves outside the candidate list (a reversal, say) still come back with
// their target cell and a zero score.
func candidateFor(candidates []Candidate, dir board.Direction, b *board.Board, head board.Position) Candidate {
	for _, c := range candidates {
		if c.Dir == dir {
			return c
		}
	}
	return Candidate{Dir: dir, Target: b.Step(head, dir)}
}

// record appends the decision to the session log and fans it out to
// telemetry subscribers. Called with the session lock held.
func (e *Engine) record(s *Session, d Decision) Decision {
	rec := DecisionRecord{
		Session: s.ID,
		Turn:    d.Turn,
		Player:  d.Player,
		Move:    d.Move(),
		Boost:   d.Boost,
		Phase:   d.Phase.String(),
		Space:   d.Space,
		At:      time.Now(),
	}
	s.log = append(s.log, rec)
	e.publish(rec)
	level.Debug(e.logger).Log("msg", "decision",
		"session", s.ID, "turn", d.Turn, "player", d.Player,
		"move", rec.Move, "phase", rec.Phase, "space", d.Space)
	return d
}

// CacheStats reports flood-fill cache effectiveness.
func (e *Engine) CacheStats() CacheStats {
	return e.cache.stats()
}
