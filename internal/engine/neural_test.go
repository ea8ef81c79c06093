package engine

import (
	"path/filepath"
	"testing"

	"github.com/dropfour/backend/internal/game"
)

func TestNetEvalKeepsTerminalContract(t *testing.T) {
	n := NewNet(DefaultNetConfig())
	redWin := mustParse(t, `
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . . . . .
		o o o . . . .
		x x x x . . .
	`)
	if got := n.Eval(redWin, game.Red); got != WinScore {
		t.Fatalf("net eval on red win = %d, want %d", got, WinScore)
	}
	if got := n.Eval(redWin, game.Yellow); got != -WinScore {
		t.Fatalf("net eval on red win from yellow = %d, want %d", got, -WinScore)
	}

	live := game.NewState()
	if got := n.Eval(live, game.Red); got <= -WinScore || got >= WinScore {
		t.Fatalf("net eval on live position = %d, outside heuristic range", got)
	}
}

func TestFeaturesEncodePerspective(t *testing.T) {
	s, _ := game.NewState().Apply(0) // red disc at bottom-left

	fromRed := Features(s, game.Red)
	fromYellow := Features(s, game.Yellow)
	bottomLeft := (game.Rows - 1) * game.Cols

	if fromRed[bottomLeft] != 1 || fromYellow[bottomLeft] != -1 {
		t.Fatalf("disc encoding: red view %v, yellow view %v",
			fromRed[bottomLeft], fromYellow[bottomLeft])
	}
	if fromRed[len(fromRed)-1] != -1 || fromYellow[len(fromYellow)-1] != 1 {
		t.Fatal("side-to-move flag wrong after red's move")
	}
	if len(fromRed) != netInputs {
		t.Fatalf("feature vector length %d, want %d", len(fromRed), netInputs)
	}
}

func TestNetSaveLoadRoundTrip(t *testing.T) {
	n := NewNet(DefaultNetConfig())
	path := filepath.Join(t.TempDir(), "weights.json")
	if err := n.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadNet(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	s := mustParse(t, `
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . x . . .
		. . o o . . .
		. x x o . . .
	`)
	if a, b := n.Eval(s, game.Red), loaded.Eval(s, game.Red); a != b {
		t.Fatalf("loaded net disagrees with saved net: %d vs %d", a, b)
	}
}
