package engine

import "github.com/yourusername/trailbot/internal/board"

// Phase is the strategic mode governing move selection. Transitions are
// one-directional within a match: OpenPlay -> Panic -> CorridorFill. Only
// a match reset returns to OpenPlay.
type Phase int

const (
	// PhaseOpenPlay is exploratory space-maximizing play.
	PhaseOpenPlay Phase = iota
	// PhasePanic runs the corridor escape routine after the opponent
	// closes to the proximity threshold.
	PhasePanic
	// PhaseCorridorFill is the terminal space-filling mode entered when
	// the escape completes or the corridor is infiltrated.
	PhaseCorridorFill
)

func (p Phase) String() string {
	switch p {
	case PhaseOpenPlay:
		return "open_play"
	case PhasePanic:
		return "panic"
	case PhaseCorridorFill:
		return "corridor_fill"
	}
	return "unknown"
}

// policyState is one player's strategic state within a session. It
// survives across turns and is recreated only on match reset.
type policyState struct {
	phase    Phase
	escapeDX int
}

func newPolicyState() *policyState {
	return &policyState{phase: PhaseOpenPlay, escapeDX: 0}
}

// observeProximity applies the OpenPlay -> Panic trigger: the opponent's
// head closing to within the horizontal proximity threshold.
func (ps *policyState) observeProximity(head, oppHead board.Position, oppAlive bool, threshold int) {
	if ps.phase != PhaseOpenPlay || !oppAlive {
		return
	}
	sep := head.X - oppHead.X
	if sep < 0 {
		sep = -sep
	}
	if sep <= threshold {
		ps.phase = PhasePanic
	}
}

// corridorInfiltrated reports whether the opponent sits on the corridor
// row between our column and the exit column while we are still off the
// row. The opponent exactly on the exit column counts as infiltrated; the
// span past our own column does not.
func corridorInfiltrated(head, oppHead board.Position, corridorY, exitX int) bool {
	if head.Y == corridorY || oppHead.Y != corridorY {
		return false
	}
	if head.X < exitX {
		return head.X < oppHead.X && oppHead.X <= exitX
	}
	if head.X > exitX {
		return exitX <= oppHead.X && oppHead.X < head.X
	}
	return false
}

// observeCorridor applies the Panic -> CorridorFill infiltration trigger.
func (ps *policyState) observeCorridor(head, oppHead board.Position, oppAlive bool, corridorY, exitX int) {
	if ps.phase != PhasePanic || !oppAlive {
		return
	}
	if corridorInfiltrated(head, oppHead, corridorY, exitX) {
		ps.phase = PhaseCorridorFill
	}
}
