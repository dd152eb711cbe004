package engine

import (
	"sort"

	"github.com/yourusername/trailbot/internal/board"
)

// chooseNonSuicidal picks the highest-space candidate whose target is not
// fatal. When every candidate is fatal the highest-space candidate is
// returned anyway: a boxed-in agent still answers with its least-bad move
// rather than refusing. ok is false only for an empty candidate list.
func chooseNonSuicidal(b *board.Board, occupied map[board.Position]bool, candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Space > sorted[j].Space
	})
	for _, c := range sorted {
		if !IsFatal(b, c.Target, occupied) {
			return c, true
		}
	}
	return sorted[0], true
}

// fillStep picks the next move in corridor-fill mode: the preferred
// horizontal direction first, then the verticals, then any safe heading at
// all. ok is false when every neighbor is fatal.
func fillStep(b *board.Board, occupied map[board.Position]bool, head board.Position, preferredDX int) (board.Direction, bool) {
	horizontal := board.Right
	if preferredDX < 0 {
		horizontal = board.Left
	}
	if !IsFatal(b, b.Step(head, horizontal), occupied) {
		return horizontal, true
	}
	for _, d := range []board.Direction{board.Up, board.Down} {
		if !IsFatal(b, b.Step(head, d), occupied) {
			return d, true
		}
	}
	for _, d := range []board.Direction{board.Left, board.Right, board.Up, board.Down} {
		if !IsFatal(b, b.Step(head, d), occupied) {
			return d, true
		}
	}
	return board.Direction{}, false
}
