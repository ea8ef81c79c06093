package engine

import (
	"math"
	"testing"

	"github.com/dropfour/backend/internal/game"
)

// plainChoose is an unpruned reference minimax with the same leftmost
// tie-break, used to verify that alpha-beta pruning never changes the result.
func plainChoose(s game.State, depth int, eval EvalFunc) int {
	moves := s.LegalMoves()
	best := moves[0]
	bestScore := math.MinInt32
	for _, col := range moves {
		child, _ := s.Apply(col)
		if score := plainSearch(child, depth-1, false, s.Turn(), eval); score > bestScore {
			bestScore = score
			best = col
		}
	}
	return best
}

func plainSearch(s game.State, depth int, maximizing bool, max game.Disc, eval EvalFunc) int {
	if s.IsTerminal() || depth <= 0 {
		return eval(s, max)
	}
	best := math.MinInt32
	if !maximizing {
		best = math.MaxInt32
	}
	for _, col := range s.LegalMoves() {
		child, _ := s.Apply(col)
		v := plainSearch(child, depth-1, !maximizing, max, eval)
		if maximizing && v > best || !maximizing && v < best {
			best = v
		}
	}
	return best
}

func mustParse(t *testing.T, board string) game.State {
	t.Helper()
	s, err := game.Parse(board)
	if err != nil {
		t.Fatalf("parse board: %v", err)
	}
	return s
}

func TestChooseMoveEmptyBoardDepthOneZeroEval(t *testing.T) {
	// No terminal position is reachable in one ply, so every column scores 0
	// and the leftmost must win the tie.
	col, err := ChooseMove(game.NewState(), 1, ZeroEval)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if col != 0 {
		t.Fatalf("expected column 0 on all-tied scores, got %d", col)
	}
}

func TestChooseMoveTakesImmediateWin(t *testing.T) {
	s := mustParse(t, `
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . . . . .
		o o o . . . .
		x x x . . . .
	`)
	if s.Turn() != game.Red {
		t.Fatalf("expected red to move, got %v", s.Turn())
	}
	for _, eval := range []EvalFunc{ZeroEval, OpenThreeEval, ShapeEval} {
		for depth := 1; depth <= 4; depth++ {
			col, err := ChooseMove(s, depth, eval)
			if err != nil {
				t.Fatalf("choose: %v", err)
			}
			if col != 3 {
				t.Fatalf("depth %d: expected winning column 3, got %d", depth, col)
			}
		}
	}
}

func TestChooseMoveBlocksImmediateLoss(t *testing.T) {
	// Yellow to move: red threatens to complete columns 0-2 on the bottom
	// row at column 3. Any depth ≥ 2 search must block.
	s := mustParse(t, `
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . o . . . .
		x x x . o . .
	`)
	if s.Turn() != game.Yellow {
		t.Fatalf("expected yellow to move, got %v", s.Turn())
	}
	col, err := ChooseMove(s, 2, ZeroEval)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if col != 3 {
		t.Fatalf("expected blocking column 3, got %d", col)
	}
}

func TestChooseMoveDepthZeroPicksBestImmediateEvaluation(t *testing.T) {
	s := mustParse(t, `
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . . . . .
		o o o . . . .
		x x x . . . .
	`)
	// Depth 0 must equal argmax over eval(apply(s, move)), leftmost tie-break.
	for _, eval := range []EvalFunc{ZeroEval, OpenThreeEval, ShapeEval} {
		want, wantScore := -1, math.MinInt32
		for _, col := range s.LegalMoves() {
			child, _ := s.Apply(col)
			if score := eval(child, s.Turn()); score > wantScore {
				wantScore = score
				want = col
			}
		}
		got, err := ChooseMove(s, 0, eval)
		if err != nil {
			t.Fatalf("choose: %v", err)
		}
		if got != want {
			t.Fatalf("depth 0: got column %d, want %d", got, want)
		}
	}
}

func TestChooseMoveDeterministic(t *testing.T) {
	s := mustParse(t, `
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . x . . .
		. . o o . . .
		. x x o . . .
	`)
	first, err := ChooseMove(s, 3, ShapeEval)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := ChooseMove(s, 3, ShapeEval)
		if err != nil {
			t.Fatalf("choose: %v", err)
		}
		if again != first {
			t.Fatalf("nondeterministic result: %d then %d", first, again)
		}
	}
}

func TestPrunedSearchMatchesPlainMinimax(t *testing.T) {
	boards := []string{
		`
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . . . . .
		`,
		`
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . x . . .
		. . o o . . .
		. x x o . . .
		`,
		`
		. . . . . . .
		. . . . . . .
		. . o . . . .
		. . x o . . .
		. o x x . . .
		o x x o x . .
		`,
		`
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . . . . .
		o o . . . x .
		x x . o . x .
		`,
	}

	for i, board := range boards {
		s := mustParse(t, board)
		for _, eval := range []EvalFunc{ZeroEval, OpenThreeEval, ShapeEval} {
			for depth := 0; depth <= 4; depth++ {
				pruned, err := ChooseMove(s, depth, eval)
				if err != nil {
					t.Fatalf("board %d depth %d: choose: %v", i, depth, err)
				}
				if plain := plainChoose(s, depth, eval); pruned != plain {
					t.Fatalf("board %d depth %d: pruned chose %d, plain minimax chose %d",
						i, depth, pruned, plain)
				}
			}
		}
	}
}

func TestChooseMoveOnTerminalStateFails(t *testing.T) {
	s := mustParse(t, `
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . . . . .
		o o o . . . .
		x x x x . . .
	`)
	if _, err := ChooseMove(s, 3, ZeroEval); err != ErrNoLegalMove {
		t.Fatalf("expected ErrNoLegalMove, got %v", err)
	}
}

func TestChooseMoveNegativeDepthFails(t *testing.T) {
	if _, err := ChooseMove(game.NewState(), -1, ZeroEval); err != ErrInvalidDepth {
		t.Fatalf("expected ErrInvalidDepth, got %v", err)
	}
}

func TestDeeperSearchPrefersForcedWinOverHeuristic(t *testing.T) {
	// Red can win in one; the sentinel must dominate whatever ShapeEval says
	// about the alternatives.
	s := mustParse(t, `
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. x . . . . .
		. x o . . . .
		. x o o . . .
	`)
	if s.Turn() != game.Red {
		t.Fatalf("expected red to move, got %v", s.Turn())
	}
	col, err := ChooseMove(s, 4, ShapeEval)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if col != 1 {
		t.Fatalf("expected winning column 1, got %d", col)
	}
}
