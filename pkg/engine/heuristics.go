package engine

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/trailbot/internal/board"
)

// TorusDistance is the Manhattan distance between two cells on the torus,
// taking the shorter way around each axis.
func TorusDistance(a, b board.Position, width, height int) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	if width-dx < dx {
		dx = width - dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if height-dy < dy {
		dy = height - dy
	}
	return dx + dy
}

// territoryCounts splits the open cells of the board by which head is
// strictly closer in torus distance. Equidistant cells are contested and
// counted separately.
func territoryCounts(b *board.Board, head1, head2 board.Position) (mine, theirs, contested int) {
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			p := board.Position{X: x, Y: y}
			if b.CellState(p) == board.Claimed {
				continue
			}
			d1 := TorusDistance(head1, p, b.Width, b.Height)
			d2 := TorusDistance(head2, p, b.Width, b.Height)
			switch {
			case d1 < d2:
				mine++
			case d2 < d1:
				theirs++
			default:
				contested++
			}
		}
	}
	return mine, theirs, contested
}

// scoreSpread summarizes a set of candidate space scores: per-candidate
// normalized shares of the total, the mean, and the standard deviation.
func scoreSpread(spaces []int) (shares []float64, mean, stddev float64) {
	if len(spaces) == 0 {
		return nil, 0, 0
	}
	vals := make([]float64, len(spaces))
	for i, s := range spaces {
		vals[i] = float64(s)
	}
	shares = make([]float64, len(vals))
	if total := floats.Sum(vals); total > 0 {
		for i, v := range vals {
			shares[i] = v / total
		}
	}
	mean = stat.Mean(vals, nil)
	if len(vals) > 1 {
		stddev = stat.StdDev(vals, nil)
	}
	return shares, mean, stddev
}
