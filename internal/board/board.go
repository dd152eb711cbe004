// Package board models the toroidal playing field and the two agents
// that leave trails on it. Both axes wrap; the board has no edges.
package board

// Cell states.
const (
	Empty   = 0
	Claimed = 1
)

// Default match layout.
const (
	DefaultWidth  = 20
	DefaultHeight = 18
)

// Position is a cell coordinate. Y grows downward.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction is a unit step on the grid.
type Direction struct {
	DX int
	DY int
}

var (
	Up    = Direction{DX: 0, DY: -1}
	Down  = Direction{DX: 0, DY: 1}
	Left  = Direction{DX: -1, DY: 0}
	Right = Direction{DX: 1, DY: 0}

	// All lists the four headings in a fixed order.
	All = []Direction{Up, Down, Left, Right}
)

// Name returns the wire name of the direction.
func (d Direction) Name() string {
	switch d {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	}
	return "UNKNOWN"
}

// Opposite returns the exact reverse heading.
func (d Direction) Opposite() Direction {
	return Direction{DX: -d.DX, DY: -d.DY}
}

// Board is the per-match cell classification. It is overwritten wholesale
// by state syncs and read-only to the decision logic.
type Board struct {
	Width  int
	Height int
	grid   [][]int
}

// New returns an empty board of the given dimensions.
func New(width, height int) *Board {
	grid := make([][]int, height)
	for i := range grid {
		grid[i] = make([]int, width)
	}
	return &Board{Width: width, Height: height, grid: grid}
}

// Wrap normalizes a position onto the torus.
func (b *Board) Wrap(p Position) Position {
	x := p.X % b.Width
	y := p.Y % b.Height
	if x < 0 {
		x += b.Width
	}
	if y < 0 {
		y += b.Height
	}
	return Position{X: x, Y: y}
}

// Step returns the wrapped neighbor of p in direction d.
func (b *Board) Step(p Position, d Direction) Position {
	return b.Wrap(Position{X: p.X + d.DX, Y: p.Y + d.DY})
}

// CellState reports the classification at the wrapped position.
// Returns Empty, Claimed, or -1 when the grid row is missing (the caller
// is expected to fall back to its own trail bookkeeping in that case).
func (b *Board) CellState(p Position) int {
	n := b.Wrap(p)
	if n.Y >= len(b.grid) || n.X >= len(b.grid[n.Y]) {
		return -1
	}
	return b.grid[n.Y][n.X]
}

// SetCellState writes the classification at the wrapped position.
func (b *Board) SetCellState(p Position, state int) {
	n := b.Wrap(p)
	if n.Y < len(b.grid) && n.X < len(b.grid[n.Y]) {
		b.grid[n.Y][n.X] = state
	}
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	grid := make([][]int, b.Height)
	for i := range b.grid {
		grid[i] = make([]int, len(b.grid[i]))
		copy(grid[i], b.grid[i])
	}
	return &Board{Width: b.Width, Height: b.Height, grid: grid}
}

// Load replaces the grid from a raw snapshot, failing closed on cells the
// snapshot cannot classify: an unreadable cell counts as Claimed only when
// an explicit trail confirms it, otherwise it stays Empty. confirmed may
// be nil.
func (b *Board) Load(raw [][]int, confirmed map[Position]bool) {
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			p := Position{X: x, Y: y}
			state := -1
			if y < len(raw) && x < len(raw[y]) {
				v := raw[y][x]
				if v == Empty || v == Claimed {
					state = v
				}
			}
			if state < 0 {
				state = Empty
				if confirmed[p] {
					state = Claimed
				}
			}
			b.grid[y][x] = state
		}
	}
}
