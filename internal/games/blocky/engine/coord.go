package engine

import "fmt"

// Coord addresses a board cell. Row 0 is the top row, Col 0 the leftmost column.
type Coord struct {
	Row int
	Col int
}

// At is a convenience constructor for Coord.
func At(row, col int) Coord {
	return Coord{Row: row, Col: col}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Neighbors returns the four orthogonal neighbours: up, down, left, right.
// Some of them may be outside the board.
func (c Coord) Neighbors() [4]Coord {
	return [4]Coord{
		{Row: c.Row - 1, Col: c.Col},
		{Row: c.Row + 1, Col: c.Col},
		{Row: c.Row, Col: c.Col - 1},
		{Row: c.Row, Col: c.Col + 1},
	}
}
