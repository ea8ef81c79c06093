package engine

import (
	"testing"

	"github.com/dropfour/backend/internal/game"
)

func TestTerminalContractSharedByAllEvaluators(t *testing.T) {
	redWin := mustParse(t, `
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . . . . .
		o o o . . . .
		x x x x . . .
	`)
	draw := mustParse(t, `
		x x o o x x o
		o o x x o o x
		x x o o x x o
		o o x x o o x
		x x o o x x o
		o o x x o o x
	`)

	for name, eval := range map[string]EvalFunc{
		"zero":      ZeroEval,
		"openThree": OpenThreeEval,
		"shape":     ShapeEval,
	} {
		if got := eval(redWin, game.Red); got != WinScore {
			t.Fatalf("%s: red win from red's view = %d, want %d", name, got, WinScore)
		}
		if got := eval(redWin, game.Yellow); got != -WinScore {
			t.Fatalf("%s: red win from yellow's view = %d, want %d", name, got, -WinScore)
		}
		if got := eval(draw, game.Red); got != 0 {
			t.Fatalf("%s: draw = %d, want 0", name, got)
		}
	}
}

func TestZeroEvalIsZeroOnLivePositions(t *testing.T) {
	s := mustParse(t, `
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . o . . . .
		. x x . o . .
	`)
	if got := ZeroEval(s, game.Red); got != 0 {
		t.Fatalf("zero eval = %d, want 0", got)
	}
}

func TestOpenThreeEvalCountsPlayableThreats(t *testing.T) {
	// Red has three on the bottom row with both extensions empty and
	// playable: the windows 0-3 and 1-4 both count. Yellow has nothing.
	s := mustParse(t, `
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. o . . . o .
		. x x x . o .
	`)
	if got := OpenThreeEval(s, game.Red); got != 2 {
		t.Fatalf("red open threes = %d, want 2", got)
	}
	if got := OpenThreeEval(s, game.Yellow); got != -2 {
		t.Fatalf("sign must flip with perspective, got %d", got)
	}
}

func TestOpenThreeEvalIgnoresUnplayableWindow(t *testing.T) {
	// Red's three on row 4 extends only into cells with nothing beneath
	// them, so the threat is not immediately playable.
	s := mustParse(t, `
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. x x x . . .
		. o o x . . .
		. o x o . . .
	`)
	if got := OpenThreeEval(s, game.Red); got != 0 {
		t.Fatalf("unplayable window counted: got %d, want 0", got)
	}
}

func TestShapeEvalFavorsCenterControl(t *testing.T) {
	center, _ := game.NewState().Apply(game.Cols / 2)
	edge, _ := game.NewState().Apply(0)

	// Both positions are symmetric in threats; the center disc must be
	// worth more to red than the edge disc.
	if ShapeEval(center, game.Red) <= ShapeEval(edge, game.Red) {
		t.Fatalf("center = %d, edge = %d; center must score higher",
			ShapeEval(center, game.Red), ShapeEval(edge, game.Red))
	}
}

func TestHeuristicsStayInsideSentinelRange(t *testing.T) {
	// A position loaded with overlapping threats must still score strictly
	// inside (-WinScore, WinScore) on live boards.
	s := mustParse(t, `
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . x x o . .
		. x o x o . .
		x x o x o o .
	`)
	if s.IsTerminal() {
		t.Fatalf("test position unexpectedly terminal: %v", s.Outcome())
	}
	for name, eval := range map[string]EvalFunc{
		"openThree": OpenThreeEval,
		"shape":     ShapeEval,
	} {
		got := eval(s, game.Red)
		if got <= -WinScore || got >= WinScore {
			t.Fatalf("%s: live position scored %d, outside sentinel range", name, got)
		}
	}
}
