package engine

import "github.com/yourusername/trailbot/internal/board"

// DirectionScore is one candidate heading's analysis entry.
type DirectionScore struct {
	Direction string         `json:"direction"`
	Target    board.Position `json:"target"`
	Space     int            `json:"space"`
	Share     float64        `json:"share"`
	Fatal     bool           `json:"fatal"`
}

// Analysis is a read-only evaluation of the current position for one
// player: raw reachable-space scores per candidate heading, their spread,
// and a territory split between the two heads.
type Analysis struct {
	Player       int              `json:"player"`
	Turn         int              `json:"turn"`
	Phase        string           `json:"phase"`
	Scores       []DirectionScore `json:"scores"`
	MeanSpace    float64          `json:"mean_space"`
	StdDevSpace  float64          `json:"stddev_space"`
	HeadDistance int              `json:"head_distance"` // -1 once the opponent is gone
	Territory    int              `json:"territory"`
	OppTerritory int              `json:"opp_territory"`
	Contested    int              `json:"contested"`
}

// Analyze evaluates the position for the given player without mutating
// any strategic state. Unlike the decision path, scores here are computed
// without the corridor reservation so they reflect true reachable space.
func (e *Engine) Analyze(sessionID string, player int) Analysis {
	s := e.Session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	me, opp, ps := s.forPlayer(player)
	b := s.board
	occupied := s.occupiedSet()

	candidates := generateCandidates(b, me, occupied, nil, e.cache)

	spaces := make([]int, len(candidates))
	for i, c := range candidates {
		spaces[i] = c.Space
	}
	shares, mean, stddev := scoreSpread(spaces)

	scores := make([]DirectionScore, len(candidates))
	for i, c := range candidates {
		scores[i] = DirectionScore{
			Direction: c.Dir.Name(),
			Target:    c.Target,
			Space:     c.Space,
			Share:     shares[i],
			Fatal:     IsFatal(b, c.Target, occupied),
		}
	}

	a := Analysis{
		Player:       player,
		Turn:         s.turn,
		Phase:        ps.phase.String(),
		Scores:       scores,
		MeanSpace:    mean,
		StdDevSpace:  stddev,
		HeadDistance: -1,
	}
	if opp.Alive && len(opp.Trail) > 0 {
		a.HeadDistance = TorusDistance(me.Head(), opp.Head(), b.Width, b.Height)
		a.Territory, a.OppTerritory, a.Contested = territoryCounts(b, me.Head(), opp.Head())
	}
	return a
}
