package game

import "testing"

func TestNewStateIsEmptyRedToMove(t *testing.T) {
	s := NewState()
	if s.Turn() != Red {
		t.Fatalf("expected red to move first, got %v", s.Turn())
	}
	if s.IsTerminal() {
		t.Fatal("empty board must not be terminal")
	}
	moves := s.LegalMoves()
	if len(moves) != Cols {
		t.Fatalf("expected %d legal moves on empty board, got %d", Cols, len(moves))
	}
	for i, col := range moves {
		if col != i {
			t.Fatalf("legal moves must be left-to-right column order, got %v", moves)
		}
	}
}

func TestApplyDropsToLowestEmptyCell(t *testing.T) {
	s := NewState()
	s, err := s.Apply(3)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if s.At(Rows-1, 3) != Red {
		t.Fatalf("disc should land on the bottom row, board:\n%s", s)
	}
	if s.Turn() != Yellow {
		t.Fatalf("turn must alternate, got %v", s.Turn())
	}

	s, err = s.Apply(3)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if s.At(Rows-2, 3) != Yellow {
		t.Fatalf("second disc should stack on the first, board:\n%s", s)
	}
}

func TestApplyDoesNotMutateReceiver(t *testing.T) {
	s := NewState()
	next, err := s.Apply(0)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if s.At(Rows-1, 0) != NoDisc {
		t.Fatal("Apply mutated the input state")
	}
	if next.At(Rows-1, 0) != Red {
		t.Fatal("Apply did not place the disc in the new state")
	}

	// Sibling branches from the same parent must not interfere.
	a, _ := s.Apply(1)
	b, _ := s.Apply(2)
	if a.At(Rows-1, 2) != NoDisc || b.At(Rows-1, 1) != NoDisc {
		t.Fatal("sibling states share storage")
	}
}

func TestApplyFullColumnFails(t *testing.T) {
	s := NewState()
	for i := 0; i < Rows; i++ {
		var err error
		s, err = s.Apply(0)
		if err != nil {
			t.Fatalf("drop %d failed: %v", i, err)
		}
	}
	if s.CanPlay(0) {
		t.Fatal("full column reported playable")
	}
	if _, err := s.Apply(0); err != ErrIllegalMove {
		t.Fatalf("expected ErrIllegalMove on full column, got %v", err)
	}
}

func TestApplyOutOfRangeFails(t *testing.T) {
	s := NewState()
	for _, col := range []int{-1, Cols} {
		if _, err := s.Apply(col); err != ErrIllegalMove {
			t.Fatalf("expected ErrIllegalMove for column %d, got %v", col, err)
		}
	}
}

func TestApplyOnTerminalStateFails(t *testing.T) {
	s := mustParse(t, `
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . . . . .
		o o o . . . .
		x x x x . . .
	`)
	if !s.IsTerminal() {
		t.Fatalf("expected terminal state, outcome %v", s.Outcome())
	}
	if got := s.LegalMoves(); len(got) != 0 {
		t.Fatalf("terminal state must have no legal moves, got %v", got)
	}
	if _, err := s.Apply(4); err != ErrIllegalMove {
		t.Fatalf("expected ErrIllegalMove on terminal state, got %v", err)
	}
}

func TestLegalMovesMatchNonFullColumns(t *testing.T) {
	s := mustParse(t, `
		x . o . x . o
		o . x . o . x
		x . o . x . o
		o . x . o . x
		x . o . x . o
		o . x . o . x
	`)
	want := []int{1, 3, 5}
	got := s.LegalMoves()
	if len(got) != len(want) {
		t.Fatalf("legal moves = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("legal moves = %v, want %v", got, want)
		}
	}
	for _, col := range got {
		if _, err := s.Apply(col); err != nil {
			t.Fatalf("applying returned legal move %d failed: %v", col, err)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	s := NewState()
	for _, col := range []int{3, 3, 2, 4, 1} {
		var err error
		s, err = s.Apply(col)
		if err != nil {
			t.Fatalf("apply %d: %v", col, err)
		}
	}
	parsed, err := Parse(s.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != s {
		t.Fatalf("round trip mismatch:\n%s\nvs\n%s", s, parsed)
	}
}

func TestGridSerialization(t *testing.T) {
	s, _ := NewState().Apply(6)
	grid := s.Grid()
	if len(grid) != Rows || len(grid[0]) != Cols {
		t.Fatalf("grid dimensions %dx%d", len(grid), len(grid[0]))
	}
	if grid[Rows-1][6] != int(Red) {
		t.Fatalf("grid[%d][6] = %d, want %d", Rows-1, grid[Rows-1][6], Red)
	}
}

func mustParse(t *testing.T, board string) State {
	t.Helper()
	s, err := Parse(board)
	if err != nil {
		t.Fatalf("parse board: %v", err)
	}
	return s
}
