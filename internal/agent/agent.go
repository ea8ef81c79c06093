// Package agent defines the move-selection contract shared by every player
// strategy — search-backed bots, baselines and human proxies alike — and the
// built-in implementations.
package agent

import "github.com/dropfour/backend/internal/game"

// Agent picks a move for the side to play in s. Implementations must return
// a column present in s.LegalMoves().
type Agent interface {
	SelectMove(s game.State) (int, error)
	Name() string
}
