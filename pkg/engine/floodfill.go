package engine

import "github.com/yourusername/trailbot/internal/board"

// FloodArea counts the cells reachable from start across the wrapped
// 4-neighborhood without entering occupied cells. Pure and deterministic;
// cost is proportional to the reachable area. Returns 0 when start itself
// is occupied.
func FloodArea(width, height int, start board.Position, occupied map[board.Position]bool) int {
	visited := make(map[board.Position]bool)
	queue := []board.Position{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if visited[p] || occupied[p] {
			continue
		}
		visited[p] = true
		for _, d := range board.All {
			n := board.Position{X: p.X + d.DX, Y: p.Y + d.DY}
			n.X = ((n.X % width) + width) % width
			n.Y = ((n.Y % height) + height) % height
			if !visited[n] && !occupied[n] {
				queue = append(queue, n)
			}
		}
	}
	return len(visited)
}
