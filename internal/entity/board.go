package entity

const (
	BoardSize    = 15
	WinningCount = 5
)

// Cell is one square of the board.
type Cell uint8

const (
	CellEmpty Cell = iota
	CellX
	CellO
)

// Mark - returns the string mark a cell carries, empty for a free cell.
func (that Cell) Mark() string {
	switch that {
	case CellX:
		return PlayerX
	case CellO:
		return PlayerO
	default:
		return EmptyCell
	}
}

// Board is a fixed-size square grid of cells. Size never changes for the
// lifetime of the process.
type Board [BoardSize][BoardSize]Cell

func NewBoard() *Board {
	return &Board{}
}

func (that *Board) InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

func (that *Board) At(row, col int) Cell {
	return that[row][col]
}

// Place - sets a cell to the given mark. The caller is responsible for
// validating bounds and emptiness first; a non-empty cell is never overwritten
// by a validated move.
func (that *Board) Place(row, col int, cell Cell) {
	that[row][col] = cell
}

func (that *Board) Reset() {
	*that = Board{}
}

// IsFull - reports whether no empty cell remains; used as the draw check after
// a non-winning move.
func (that *Board) IsFull() bool {
	for row := range that {
		for col := range that[row] {
			if that[row][col] == CellEmpty {
				return false
			}
		}
	}

	return true
}

// the four line directions through a cell: horizontal, vertical and the two
// diagonals.
var lineDirections = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// CheckWin - scans the four lines through the cell just played and reports
// whether the contiguous run of same-mark cells through it reaches the winning
// count. The run extends outward in both directions until a boundary or a
// differing cell.
func (that *Board) CheckWin(row, col int) bool {
	mark := that[row][col]
	if mark == CellEmpty {
		return false
	}

	for _, dir := range lineDirections {
		run := 1

		for _, sign := range [2]int{1, -1} {
			r, c := row+dir[0]*sign, col+dir[1]*sign
			for that.InBounds(r, c) && that[r][c] == mark {
				run++
				r += dir[0] * sign
				c += dir[1] * sign
			}
		}

		if run >= WinningCount {
			return true
		}
	}

	return false
}
