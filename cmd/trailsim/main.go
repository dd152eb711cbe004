// Command trailsim plays the decision engine against itself on a local
// board. Useful for eyeballing policy changes without a game master.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/yourusername/trailbot/internal/board"
	"github.com/yourusername/trailbot/pkg/engine"
)

func main() {
	width := flag.Int("width", board.DefaultWidth, "Board width")
	height := flag.Int("height", board.DefaultHeight, "Board height")
	maxTurns := flag.Int("max-turns", 500, "Turn limit before the match is called a draw")
	verbose := flag.Bool("v", false, "Log every decision")
	flag.Parse()

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	if *verbose {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	eng := engine.New(engine.Options{Logger: logger})

	b := board.New(*width, *height)
	a1 := board.NewAgent(1, board.Position{X: 2, Y: *height/2 - 1}, board.Right, b)
	a2 := board.NewAgent(2, board.Position{X: *width - 3, Y: *height / 2}, board.Left, b)

	turn := 0
	for turn = 1; turn <= *maxTurns; turn++ {
		syncMatch(eng, b, a1, a2, turn)

		d1 := eng.Decide("", 1)
		d2 := eng.Decide("", 2)

		a1.Advance(d1.Dir, a2, d1.Boost, b)
		a2.Advance(d2.Dir, a1, d2.Boost, b)

		if !a1.Alive || !a2.Alive {
			break
		}
	}

	switch {
	case !a1.Alive && !a2.Alive:
		fmt.Printf("draw after %d turns (mutual elimination)\n", turn)
	case !a1.Alive:
		fmt.Printf("player 2 wins after %d turns\n", turn)
	case !a2.Alive:
		fmt.Printf("player 1 wins after %d turns\n", turn)
	default:
		fmt.Printf("draw after %d turns (turn limit)\n", turn-1)
	}
	fmt.Printf("trail lengths: player1=%d player2=%d\n", a1.Length, a2.Length)

	cs := eng.CacheStats()
	rate := 0.0
	if cs.Lookups > 0 {
		rate = float64(cs.Hits) / float64(cs.Lookups) * 100
	}
	fmt.Printf("fill cache: %d lookups, %d hits (%.1f%%)\n", cs.Lookups, cs.Hits, rate)
}

// syncMatch pushes the authoritative board into the engine the same way a
// game master would over /api/state.
func syncMatch(eng *engine.Engine, b *board.Board, a1, a2 *board.Agent, turn int) {
	grid := make([][]int, b.Height)
	for y := 0; y < b.Height; y++ {
		row := make([]int, b.Width)
		for x := 0; x < b.Width; x++ {
			row[x] = b.CellState(board.Position{X: x, Y: y})
		}
		grid[y] = row
	}

	u := engine.StateUpdate{
		Width:        &b.Width,
		Height:       &b.Height,
		Board:        grid,
		Agent1Trail:  append([]board.Position(nil), a1.Trail...),
		Agent2Trail:  append([]board.Position(nil), a2.Trail...),
		Agent1Length: &a1.Length,
		Agent2Length: &a2.Length,
		Agent1Alive:  &a1.Alive,
		Agent2Alive:  &a2.Alive,
		Agent1Boosts: &a1.BoostsRemaining,
		Agent2Boosts: &a2.BoostsRemaining,
		TurnCount:    &turn,
	}
	eng.SyncState("", u)
}
