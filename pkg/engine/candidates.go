package engine

import "github.com/yourusername/trailbot/internal/board"

// Candidate is one legal heading change with its resulting cell and
// reachable-space score.
type Candidate struct {
	Space  int
	Dir    board.Direction
	Target board.Position
}

// generateCandidates enumerates the headings available to the agent (the
// exact reverse of the current heading is never offered), pairing each
// with its wrapped target cell and a flood-fill score computed over
// occupied plus any reserved cells. A target equal to the current head is
// skipped as degenerate. Output order is not significant.
//
// Candidates are not filtered for safety here; the selector cross-checks
// the authoritative board state.
func generateCandidates(b *board.Board, a *board.Agent, occupied, reserved map[board.Position]bool, cache *fillCache) []Candidate {
	head := a.Head()

	blocked := occupied
	if len(reserved) > 0 {
		blocked = make(map[board.Position]bool, len(occupied)+len(reserved))
		for p := range occupied {
			blocked[p] = true
		}
		for p := range reserved {
			blocked[p] = true
		}
	}

	out := make([]Candidate, 0, 3)
	for _, d := range a.ValidHeadings() {
		target := b.Step(head, d)
		if target == head {
			continue
		}
		space := cache.area(b.Width, b.Height, target, blocked)
		out = append(out, Candidate{Space: space, Dir: d, Target: target})
	}
	return out
}
