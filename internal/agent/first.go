package agent

import (
	"github.com/dropfour/backend/internal/engine"
	"github.com/dropfour/backend/internal/game"
)

// FirstMove always plays the leftmost legal column. Useful as the weakest
// possible baseline in arena runs.
type FirstMove struct{}

func (FirstMove) SelectMove(s game.State) (int, error) {
	moves := s.LegalMoves()
	if len(moves) == 0 {
		return -1, engine.ErrNoLegalMove
	}
	return moves[0], nil
}

func (FirstMove) Name() string {
	return "first"
}
