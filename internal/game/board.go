package game

import (
	"fmt"
	"strings"
)

// State is an immutable snapshot of a Connect Four position: the grid, whose
// turn it is, and the cached outcome. It is a value type; Apply returns a new
// State and never touches the receiver, so positions explored on one search
// branch cannot leak into a sibling branch.
//
// The grid is indexed [row][col] with row 0 at the top. Discs fall toward
// row Rows-1, so a column is full exactly when its row-0 cell is occupied.
type State struct {
	grid    [Rows][Cols]Disc
	turn    Disc
	outcome Outcome
}

// NewState returns the empty starting position, Red to move.
func NewState() State {
	return State{turn: Red, outcome: Ongoing}
}

// Turn returns the disc of the player to move. Meaningless once the game is
// over, but kept stable so renderers don't have to special-case it.
func (s State) Turn() Disc {
	return s.turn
}

// At returns the disc at the given cell.
func (s State) At(row, col int) Disc {
	return s.grid[row][col]
}

// Outcome returns the cached terminal status of the position.
func (s State) Outcome() Outcome {
	return s.outcome
}

// IsTerminal reports whether the game is over.
func (s State) IsTerminal() bool {
	return s.outcome.Terminal()
}

// CanPlay reports whether dropping a disc into col is legal.
func (s State) CanPlay(col int) bool {
	if s.outcome.Terminal() {
		return false
	}
	if col < 0 || col >= Cols {
		return false
	}
	return s.grid[0][col] == NoDisc
}

// LegalMoves returns the playable column indices, left to right. The slice is
// empty when the position is terminal or the board is full.
func (s State) LegalMoves() []int {
	if s.outcome.Terminal() {
		return nil
	}
	moves := make([]int, 0, Cols)
	for col := 0; col < Cols; col++ {
		if s.grid[0][col] == NoDisc {
			moves = append(moves, col)
		}
	}
	return moves
}

// Apply drops the current player's disc into col and returns the resulting
// position with the turn advanced. The receiver is left unchanged. It returns
// ErrIllegalMove if the column is full or the game is already over.
func (s State) Apply(col int) (State, error) {
	if !s.CanPlay(col) {
		return State{}, ErrIllegalMove
	}

	next := s
	for row := Rows - 1; row >= 0; row-- {
		if next.grid[row][col] == NoDisc {
			next.grid[row][col] = s.turn
			break
		}
	}
	next.turn = s.turn.Other()
	next.outcome = scanOutcome(&next.grid)
	return next, nil
}

// WinningLine returns the four cells of a winning line, or nil if neither
// player has connected four.
func (s State) WinningLine() []Cell {
	_, line := winningLine(&s.grid)
	return line
}

// Grid returns the board as an int matrix (0 empty, 1 red, 2 yellow) for
// serialization over the wire and into the database.
func (s State) Grid() [][]int {
	grid := make([][]int, Rows)
	for r := 0; r < Rows; r++ {
		grid[r] = make([]int, Cols)
		for c := 0; c < Cols; c++ {
			grid[r][c] = int(s.grid[r][c])
		}
	}
	return grid
}

// String renders the board top row first, one rune per cell.
func (s State) String() string {
	var b strings.Builder
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			switch s.grid[r][c] {
			case Red:
				b.WriteByte('x')
			case Yellow:
				b.WriteByte('o')
			default:
				b.WriteByte('.')
			}
			if c < Cols-1 {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Parse builds a State from the String rendering: Rows lines of x/o/. cells,
// spaces optional. The side to move is derived from the disc counts (red
// moves first). Intended for tests and tooling, not for untrusted input.
func Parse(board string) (State, error) {
	var s State
	lines := strings.Fields(strings.ReplaceAll(board, " ", ""))
	if len(lines) != Rows {
		return State{}, fmt.Errorf("parse: got %d rows, want %d", len(lines), Rows)
	}

	reds, yellows := 0, 0
	for r, line := range lines {
		if len(line) != Cols {
			return State{}, fmt.Errorf("parse: row %d has %d cells, want %d", r, len(line), Cols)
		}
		for c := 0; c < Cols; c++ {
			switch line[c] {
			case 'x', 'X':
				s.grid[r][c] = Red
				reds++
			case 'o', 'O':
				s.grid[r][c] = Yellow
				yellows++
			case '.':
			default:
				return State{}, fmt.Errorf("parse: bad cell %q", line[c])
			}
		}
	}

	if reds == yellows {
		s.turn = Red
	} else if reds == yellows+1 {
		s.turn = Yellow
	} else {
		return State{}, fmt.Errorf("parse: impossible disc counts %d red / %d yellow", reds, yellows)
	}
	s.outcome = scanOutcome(&s.grid)
	return s, nil
}
