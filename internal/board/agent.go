package board

// Agent is one player's trail state. The trail is append-only within a
// match: head is the last element, origin the first.
type Agent struct {
	ID              int
	Trail           []Position
	TrailSet        map[Position]bool
	Heading         Direction
	Alive           bool
	Length          int
	BoostsRemaining int
}

// NewAgent places an agent with a two-cell starting trail and marks both
// cells on the board.
func NewAgent(id int, start Position, heading Direction, b *Board) *Agent {
	second := b.Step(start, heading)
	a := &Agent{
		ID:              id,
		Trail:           []Position{start, second},
		TrailSet:        map[Position]bool{start: true, second: true},
		Heading:         heading,
		Alive:           true,
		Length:          2,
		BoostsRemaining: 3,
	}
	b.SetCellState(start, Claimed)
	b.SetCellState(second, Claimed)
	return a
}

// Head returns the most recent trail cell.
func (a *Agent) Head() Position {
	if len(a.Trail) == 0 {
		return Position{X: -1, Y: -1}
	}
	return a.Trail[len(a.Trail)-1]
}

// Origin returns the first trail cell.
func (a *Agent) Origin() Position {
	if len(a.Trail) == 0 {
		return Position{X: -1, Y: -1}
	}
	return a.Trail[0]
}

// Occupies reports whether p is on the agent's trail.
func (a *Agent) Occupies(p Position) bool {
	return a.TrailSet[p]
}

// IsHead reports whether p is the agent's head cell.
func (a *Agent) IsHead(p Position) bool {
	return len(a.Trail) > 0 && p == a.Head()
}

// ValidHeadings lists the headings available this turn. A trail cannot
// reverse through itself, so the exact opposite of the current heading is
// never offered.
func (a *Agent) ValidHeadings() []Direction {
	if !a.Alive {
		return nil
	}
	valid := make([]Direction, 0, 3)
	for _, d := range All {
		if d == a.Heading.Opposite() {
			continue
		}
		valid = append(valid, d)
	}
	return valid
}

// SetTrail replaces the trail wholesale and rebuilds the membership set.
// The heading is re-derived from the last two cells when they are adjacent
// on the torus; otherwise the prior heading is kept.
func (a *Agent) SetTrail(trail []Position, b *Board) {
	a.Trail = make([]Position, len(trail))
	copy(a.Trail, trail)
	a.TrailSet = make(map[Position]bool, len(trail))
	for _, p := range trail {
		a.TrailSet[b.Wrap(p)] = true
	}
	if len(trail) >= 2 {
		prev, head := trail[len(trail)-2], trail[len(trail)-1]
		for _, d := range All {
			if b.Step(prev, d) == b.Wrap(head) {
				a.Heading = d
				break
			}
		}
	}
}

// Advance moves the agent one step (two with boost) in the given
// direction, extending its trail and marking the board. Stepping onto any
// trail cell is fatal; a head-on meeting kills both agents. Reversal
// requests are ignored for that step. Returns false once the agent dies.
func (a *Agent) Advance(d Direction, other *Agent, useBoost bool, b *Board) bool {
	if !a.Alive {
		return false
	}
	if useBoost && a.BoostsRemaining <= 0 {
		useBoost = false
	}
	steps := 1
	if useBoost {
		steps = 2
		a.BoostsRemaining--
	}
	for i := 0; i < steps; i++ {
		if d == a.Heading.Opposite() {
			continue
		}
		next := b.Step(a.Head(), d)
		a.Heading = d
		if b.CellState(next) == Claimed {
			if a.Occupies(next) {
				a.Alive = false
				return false
			}
			if other != nil && other.Alive && other.Occupies(next) {
				a.Alive = false
				if other.IsHead(next) {
					other.Alive = false
				}
				return false
			}
		}
		a.Trail = append(a.Trail, next)
		a.TrailSet[next] = true
		a.Length++
		b.SetCellState(next, Claimed)
	}
	return true
}
