package agent

import (
	"math/rand"

	"github.com/dropfour/backend/internal/engine"
	"github.com/dropfour/backend/internal/game"
)

// Random plays a uniformly random legal move. The generator is owned by the
// agent and explicitly seeded — never the process-global source — so games
// against it are reproducible and independent of anything else drawing
// random numbers.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a random agent seeded with seed.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) SelectMove(s game.State) (int, error) {
	moves := s.LegalMoves()
	if len(moves) == 0 {
		return -1, engine.ErrNoLegalMove
	}
	return moves[r.rng.Intn(len(moves))], nil
}

func (r *Random) Name() string {
	return "random"
}
