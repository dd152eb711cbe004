package engine

import "github.com/yourusername/trailbot/internal/board"

// IsFatal reports whether moving the head onto target kills the agent.
// The board classification is the source of truth; when the board cannot
// answer for a cell the explicit trail set stands in. The trail set is
// additionally consulted even when the board says the cell is clear, so a
// cell is only ever considered safe when both sources agree. The mover's
// pre-move head is never consulted.
func IsFatal(b *board.Board, target board.Position, occupied map[board.Position]bool) bool {
	if b == nil {
		return occupied[target]
	}
	t := b.Wrap(target)

	state := b.CellState(t)
	if state < 0 {
		state = board.Empty
		if occupied[t] {
			state = board.Claimed
		}
	}
	if state != board.Empty {
		return true
	}
	return occupied[t]
}
