package game

// The four line axes: horizontal, vertical, and both diagonals, expressed as
// (row, col) steps. Only forward steps are needed because every line is
// visited from its lowest-index end.
var lineDirs = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal down-right
	{1, -1}, // diagonal down-left
}

func inBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

// winningLine scans the whole grid for a run of Connect identical discs and
// returns the winning disc and its cells, or NoDisc and nil. A full scan is
// cheap at this board size and keeps the contract independent of move order.
func winningLine(grid *[Rows][Cols]Disc) (Disc, []Cell) {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			d := grid[r][c]
			if d == NoDisc {
				continue
			}
			for _, dir := range lineDirs {
				endR := r + (Connect-1)*dir[0]
				endC := c + (Connect-1)*dir[1]
				if !inBounds(endR, endC) {
					continue
				}
				line := make([]Cell, 0, Connect)
				for k := 0; k < Connect; k++ {
					if grid[r+k*dir[0]][c+k*dir[1]] != d {
						line = nil
						break
					}
					line = append(line, Cell{Row: r + k*dir[0], Col: c + k*dir[1]})
				}
				if line != nil {
					return d, line
				}
			}
		}
	}
	return NoDisc, nil
}

func gridFull(grid *[Rows][Cols]Disc) bool {
	for c := 0; c < Cols; c++ {
		if grid[0][c] == NoDisc {
			return false
		}
	}
	return true
}

// scanOutcome classifies a grid: a win for whoever has four in a row, a draw
// when the board is full, otherwise ongoing.
func scanOutcome(grid *[Rows][Cols]Disc) Outcome {
	if d, _ := winningLine(grid); d != NoDisc {
		return WinOutcome(d)
	}
	if gridFull(grid) {
		return Draw
	}
	return Ongoing
}

// Playable reports whether an empty cell can receive a disc on the next drop
// in its column: it is on the bottom row or sits directly on a filled cell.
// Heuristics use this to tell live threats from dead ones.
func (s State) Playable(row, col int) bool {
	if s.grid[row][col] != NoDisc {
		return false
	}
	return row == Rows-1 || s.grid[row+1][col] != NoDisc
}
