package match

import (
	"time"

	"github.com/dropfour/backend/internal/agent"
	"github.com/dropfour/backend/internal/engine"
)

// BotUsername is the display name of the built-in opponent.
const BotUsername = "BOT"

// Search depths for the engine-backed difficulties. Depth is the cost/strength
// knob: each level multiplies the search tree by the branching factor.
const (
	mediumDepth = 2
	hardDepth   = 6
)

// NewBotAgent maps a difficulty label to a move-selection strategy. Easy is a
// random mover with its own seeded generator; medium and hard run the minimax
// engine with the shape evaluator at increasing depth. Unknown labels fall
// back to medium.
func NewBotAgent(difficulty string) agent.Agent {
	switch difficulty {
	case "easy":
		return agent.NewRandom(time.Now().UnixNano())
	case "hard":
		return agent.NewMinimax(hardDepth, engine.ShapeEval, "shape")
	default:
		return agent.NewMinimax(mediumDepth, engine.ShapeEval, "shape")
	}
}
