package engine

import (
	"math"

	"github.com/dropfour/backend/internal/game"
)

const (
	// ErrNoLegalMove is returned when the search is asked to move in a
	// finished game.
	ErrNoLegalMove game.Error = "no legal move"
	// ErrInvalidDepth is returned for a negative search depth.
	ErrInvalidDepth game.Error = "search depth must not be negative"
)

// ChooseMove runs a fixed-depth minimax search from s and returns the column
// that maximizes the outcome for the player to move, assuming the opponent
// replies optimally. eval scores the leaves. Depth 0 degrades to picking the
// move whose immediate child position evaluates best.
//
// Alpha-beta pruning is applied as a pure speed optimization: the pruning
// windows are arranged so the chosen move and its score are exactly those of
// an unpruned minimax. Ties break on the leftmost column, which makes the
// result deterministic for identical inputs.
func ChooseMove(s game.State, depth int, eval EvalFunc) (int, error) {
	if depth < 0 {
		return -1, ErrInvalidDepth
	}
	moves := s.LegalMoves()
	if len(moves) == 0 {
		return -1, ErrNoLegalMove
	}

	max := s.Turn()
	best := moves[0]
	bestScore := math.MinInt32
	alpha, beta := math.MinInt32, math.MaxInt32

	for _, col := range moves {
		child, err := s.Apply(col)
		if err != nil {
			return -1, err
		}
		score := search(child, depth-1, alpha, beta, false, max, eval)
		// Strict improvement only: an equal score keeps the earlier
		// (leftmost) column.
		if score > bestScore {
			bestScore = score
			best = col
		}
		if bestScore > alpha {
			alpha = bestScore
		}
	}
	return best, nil
}

// search is a fail-soft alpha-beta minimax. Because callers only ever compare
// returned scores against the current alpha with a strict inequality, the
// bound values produced by a cutoff never change which root move wins, so the
// pruned search selects the same move as plain minimax.
func search(s game.State, depth, alpha, beta int, maximizing bool, max game.Disc, eval EvalFunc) int {
	if s.IsTerminal() || depth <= 0 {
		return eval(s, max)
	}

	if maximizing {
		best := math.MinInt32
		for _, col := range s.LegalMoves() {
			child, _ := s.Apply(col)
			if v := search(child, depth-1, alpha, beta, false, max, eval); v > best {
				best = v
			}
			if best > alpha {
				alpha = best
			}
			if alpha >= beta {
				break
			}
		}
		return best
	}

	best := math.MaxInt32
	for _, col := range s.LegalMoves() {
		child, _ := s.Apply(col)
		if v := search(child, depth-1, alpha, beta, true, max, eval); v < best {
			best = v
		}
		if best < beta {
			beta = best
		}
		if alpha >= beta {
			break
		}
	}
	return best
}
