// Package arena runs offline games between agents, for benchmarking
// evaluation functions and for generating self-play training data.
package arena

import (
	"fmt"

	"github.com/dropfour/backend/internal/agent"
	"github.com/dropfour/backend/internal/game"
)

// Record is the trace of one finished game.
type Record struct {
	Outcome game.Outcome
	Moves   []int
	Final   game.State
}

// Play runs a single game, red moving first, and returns its record.
func Play(red, yellow agent.Agent) (Record, error) {
	s := game.NewState()
	var moves []int

	for !s.IsTerminal() {
		var mover agent.Agent
		if s.Turn() == game.Red {
			mover = red
		} else {
			mover = yellow
		}

		col, err := mover.SelectMove(s)
		if err != nil {
			return Record{}, fmt.Errorf("arena: %s: %w", mover.Name(), err)
		}
		next, err := s.Apply(col)
		if err != nil {
			return Record{}, fmt.Errorf("arena: %s played illegal column %d: %w", mover.Name(), col, err)
		}
		moves = append(moves, col)
		s = next
	}

	return Record{Outcome: s.Outcome(), Moves: moves, Final: s}, nil
}

// SeriesResult tallies a multi-game series from red's perspective.
type SeriesResult struct {
	Games  int
	Wins   int
	Draws  int
	Losses int
}

func (r SeriesResult) String() string {
	return fmt.Sprintf("%d games: %d wins / %d draws / %d losses", r.Games, r.Wins, r.Draws, r.Losses)
}

// Series plays n games of red vs yellow and tallies the outcomes. Colours are
// fixed across the series; swap the arguments to measure the other side.
func Series(red, yellow agent.Agent, n int) (SeriesResult, error) {
	var result SeriesResult
	for i := 0; i < n; i++ {
		rec, err := Play(red, yellow)
		if err != nil {
			return result, fmt.Errorf("game %d: %w", i+1, err)
		}
		result.Games++
		switch rec.Outcome {
		case game.RedWin:
			result.Wins++
		case game.YellowWin:
			result.Losses++
		case game.Draw:
			result.Draws++
		}
	}
	return result, nil
}
