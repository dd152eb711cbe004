package engine

import "github.com/yourusername/trailbot/internal/board"

// corridorRow returns the escape row for an agent: the row half a board
// away from its trail origin. Stable for the whole match because the
// origin never changes between resets.
func corridorRow(origin board.Position, height int) int {
	return ((origin.Y+height/2)%height + height) % height
}

// corridorCells returns the full escape row as a reserved-cell set, kept
// out of candidate flood fills so open play does not burn the corridor.
func corridorCells(width, height, corridorY int) map[board.Position]bool {
	cells := make(map[board.Position]bool, width)
	for x := 0; x < width; x++ {
		cells[board.Position{X: x, Y: corridorY}] = true
	}
	return cells
}

// escapeStep plans one step of the corridor escape: first close the
// vertical gap to the corridor row, then walk the row toward the exit
// column, recording the horizontal sign as the escape bias. done is true
// once aligned on both axes, at which point the escape is complete and the
// caller switches to fill mode.
func (ps *policyState) escapeStep(head board.Position, corridorY, exitX int) (dir board.Direction, done bool) {
	if head.Y != corridorY {
		if head.Y < corridorY {
			return board.Down, false
		}
		return board.Up, false
	}
	if head.X != exitX {
		if head.X < exitX {
			ps.escapeDX = 1
			return board.Right, false
		}
		ps.escapeDX = -1
		return board.Left, false
	}
	return board.Direction{}, true
}
