package agent

import (
	"fmt"

	"github.com/dropfour/backend/internal/engine"
	"github.com/dropfour/backend/internal/game"
)

// Minimax selects moves with a fixed-depth search. Depth and evaluation
// function are the two strength knobs.
type Minimax struct {
	Depth int
	Eval  engine.EvalFunc
	Label string
}

// NewMinimax returns a search agent with the given depth and evaluator.
func NewMinimax(depth int, eval engine.EvalFunc, label string) *Minimax {
	return &Minimax{Depth: depth, Eval: eval, Label: label}
}

func (m *Minimax) SelectMove(s game.State) (int, error) {
	return engine.ChooseMove(s, m.Depth, m.Eval)
}

func (m *Minimax) Name() string {
	return fmt.Sprintf("minimax(d=%d,%s)", m.Depth, m.Label)
}
