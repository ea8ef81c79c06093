package game

// Board geometry. Fixed for standard Connect Four.
const (
	Rows    = 6
	Cols    = 7
	Connect = 4
)

// Disc is the content of a single board cell.
type Disc uint8

const (
	NoDisc Disc = iota
	Red         // moves first
	Yellow
)

// Other returns the opposing disc colour.
func (d Disc) Other() Disc {
	switch d {
	case Red:
		return Yellow
	case Yellow:
		return Red
	}
	return NoDisc
}

func (d Disc) String() string {
	switch d {
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	}
	return "none"
}

// Outcome is the terminal status of a position.
type Outcome uint8

const (
	Ongoing Outcome = iota
	RedWin
	YellowWin
	Draw
)

// Terminal reports whether the outcome ends the game.
func (o Outcome) Terminal() bool {
	return o != Ongoing
}

// Winner returns the disc that won, or NoDisc for Ongoing and Draw.
func (o Outcome) Winner() Disc {
	switch o {
	case RedWin:
		return Red
	case YellowWin:
		return Yellow
	}
	return NoDisc
}

// WinOutcome maps a winning disc to its outcome.
func WinOutcome(d Disc) Outcome {
	switch d {
	case Red:
		return RedWin
	case Yellow:
		return YellowWin
	}
	return Ongoing
}

func (o Outcome) String() string {
	switch o {
	case RedWin:
		return "red_win"
	case YellowWin:
		return "yellow_win"
	case Draw:
		return "draw"
	}
	return "ongoing"
}

// Error is a sentinel error type for rule violations.
type Error string

func (e Error) Error() string {
	return string(e)
}

// ErrIllegalMove is returned when a move targets a full column, an
// out-of-range column, or a finished game.
const ErrIllegalMove Error = "illegal move"

// Cell addresses a single board position. Row 0 is the top of the board.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}
