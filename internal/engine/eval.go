// Package engine contains the adversarial search and the static evaluation
// functions that drive the playing strength of the bot.
package engine

import "github.com/dropfour/backend/internal/game"

// EvalFunc scores a position from the point of view of max: positive is good
// for max, negative is good for the opponent. Every EvalFunc must classify
// terminal positions on its own (±WinScore for a decided game, 0 for a draw)
// so the search can call it uniformly at depth-exhausted and terminal leaves.
type EvalFunc func(s game.State, max game.Disc) int

// WinScore is the sentinel for a decided game. Heuristic scores for live
// positions stay strictly inside (-WinScore, WinScore) so a forced win always
// outranks any merely good position.
const WinScore = 100

// Weights for ShapeEval. Tuned by play-testing, not a correctness contract.
const (
	openThreeWeight = 8
	openTwoWeight   = 2
	centerWeight    = 3
)

// terminalScore resolves the shared terminal contract of all EvalFuncs.
func terminalScore(s game.State, max game.Disc) (int, bool) {
	out := s.Outcome()
	if !out.Terminal() {
		return 0, false
	}
	switch out.Winner() {
	case max:
		return WinScore, true
	case max.Other():
		return -WinScore, true
	}
	return 0, true // draw
}

// ZeroEval scores every live position 0. It gives the search no positional
// knowledge at all, which makes it the baseline for measuring what raw depth
// is worth.
func ZeroEval(s game.State, max game.Disc) int {
	score, _ := terminalScore(s, max)
	return score
}

// OpenThreeEval counts open threes: windows of four cells holding three discs
// of one colour and one playable empty cell. The score is max's count minus
// the opponent's.
func OpenThreeEval(s game.State, max game.Disc) int {
	if score, ok := terminalScore(s, max); ok {
		return score
	}
	mine, theirs := countShape(s, max, 3), countShape(s, max.Other(), 3)
	return clampHeur(mine - theirs)
}

// ShapeEval is the strongest static evaluator: a weighted sum of open threes,
// open twos and center-column occupancy, each counted for both sides. The
// result is clamped below the win sentinel.
func ShapeEval(s game.State, max game.Disc) int {
	if score, ok := terminalScore(s, max); ok {
		return score
	}

	score := openThreeWeight * (countShape(s, max, 3) - countShape(s, max.Other(), 3))
	score += openTwoWeight * (countShape(s, max, 2) - countShape(s, max.Other(), 2))

	center := game.Cols / 2
	for row := 0; row < game.Rows; row++ {
		switch s.At(row, center) {
		case max:
			score += centerWeight
		case max.Other():
			score -= centerWeight
		}
	}

	return clampHeur(score)
}

// countShape counts windows of game.Connect cells containing exactly n discs
// of d, no opposing discs, and at least one playable empty cell. A window
// whose empty cells can never be reached this turn is dead weight and is not
// counted.
func countShape(s game.State, d game.Disc, n int) int {
	dirs := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	count := 0
	for r := 0; r < game.Rows; r++ {
		for c := 0; c < game.Cols; c++ {
			for _, dir := range dirs {
				endR := r + (game.Connect-1)*dir[0]
				endC := c + (game.Connect-1)*dir[1]
				if endR < 0 || endR >= game.Rows || endC < 0 || endC >= game.Cols {
					continue
				}
				own, playableEmpty, blocked := 0, 0, false
				for k := 0; k < game.Connect; k++ {
					row, col := r+k*dir[0], c+k*dir[1]
					switch s.At(row, col) {
					case d:
						own++
					case game.NoDisc:
						if s.Playable(row, col) {
							playableEmpty++
						}
					default:
						blocked = true
					}
				}
				if !blocked && own == n && own+playableEmpty == game.Connect {
					count++
				}
			}
		}
	}
	return count
}

// clampHeur keeps heuristic scores strictly inside the sentinel range.
func clampHeur(score int) int {
	if score >= WinScore {
		return WinScore - 1
	}
	if score <= -WinScore {
		return -WinScore + 1
	}
	return score
}
