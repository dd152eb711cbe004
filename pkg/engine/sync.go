package engine

import "github.com/yourusername/trailbot/internal/board"

// StateUpdate carries one authoritative snapshot push from the game
// master. Every field is optional: nil fields leave the corresponding
// session value untouched (partial-update semantics, never a field-by-field
// patch with validation).
type StateUpdate struct {
	Width  *int
	Height *int

	Board [][]int

	Agent1Trail []board.Position
	Agent2Trail []board.Position

	Agent1Length *int
	Agent2Length *int
	Agent1Alive  *bool
	Agent2Alive  *bool
	Agent1Boosts *int
	Agent2Boosts *int

	TurnCount *int
}

// Empty reports whether the update carries nothing at all.
func (u StateUpdate) Empty() bool {
	return u.Width == nil && u.Height == nil &&
		u.Board == nil &&
		u.Agent1Trail == nil && u.Agent2Trail == nil &&
		u.Agent1Length == nil && u.Agent2Length == nil &&
		u.Agent1Alive == nil && u.Agent2Alive == nil &&
		u.Agent1Boosts == nil && u.Agent2Boosts == nil &&
		u.TurnCount == nil
}

// apply merges the update into the session. A dimension change rebuilds
// the board first so trails and the grid land on the new torus. Trails are
// replaced wholesale before the grid loads so the grid's fail-closed
// mapping can lean on the freshest trail sets.
func (s *Session) apply(u StateUpdate) {
	if u.Width != nil || u.Height != nil {
		w, h := s.board.Width, s.board.Height
		if u.Width != nil {
			w = *u.Width
		}
		if u.Height != nil {
			h = *u.Height
		}
		if w > 0 && h > 0 && (w != s.board.Width || h != s.board.Height) {
			s.board = board.New(w, h)
		}
	}

	if u.Agent1Trail != nil {
		s.agents[0].SetTrail(u.Agent1Trail, s.board)
	}
	if u.Agent2Trail != nil {
		s.agents[1].SetTrail(u.Agent2Trail, s.board)
	}

	if u.Board != nil {
		confirmed := s.occupiedSet()
		s.board.Load(u.Board, confirmed)
	}

	if u.Agent1Length != nil {
		s.agents[0].Length = *u.Agent1Length
	}
	if u.Agent2Length != nil {
		s.agents[1].Length = *u.Agent2Length
	}
	if u.Agent1Alive != nil {
		s.agents[0].Alive = *u.Agent1Alive
	}
	if u.Agent2Alive != nil {
		s.agents[1].Alive = *u.Agent2Alive
	}
	if u.Agent1Boosts != nil {
		s.agents[0].BoostsRemaining = *u.Agent1Boosts
	}
	if u.Agent2Boosts != nil {
		s.agents[1].BoostsRemaining = *u.Agent2Boosts
	}
	if u.TurnCount != nil {
		s.turn = *u.TurnCount
	}
}
