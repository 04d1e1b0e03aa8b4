// Package engine implements the grid match rules for Blocky: the board model,
// connected-region matching, gravity, refill and the turn state machine.
// It is UI-agnostic; the platform drives it through Select and a Scheduler.
package engine

import (
	"fmt"
	"strings"
)

// Board is a fixed-size grid of cells.
// Cells are stored in row-major order: index = row*cols + col.
type Board struct {
	rows   int
	cols   int
	colors int // Palette size used by Refill
	cells  []Cell
}

// NewBoard creates an empty board. colors is the number of palette entries
// (taken from the start of AllColors) that Refill may draw from.
// Panics on non-positive dimensions or a palette outside [1, ColorCount].
func NewBoard(rows, cols, colors int) *Board {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("engine: invalid board size %dx%d", rows, cols))
	}
	if colors < 1 || colors > int(ColorCount) {
		panic(fmt.Sprintf("engine: invalid palette size %d", colors))
	}
	return &Board{
		rows:   rows,
		cols:   cols,
		colors: colors,
		cells:  make([]Cell, rows*cols),
	}
}

// NewRandomBoard creates a fully populated board with colours drawn from src.
func NewRandomBoard(rows, cols, colors int, src ColorSource) *Board {
	b := NewBoard(rows, cols, colors)
	Refill(b, src)
	return b
}

// Dimensions returns the row and column counts.
func (b *Board) Dimensions() (rows, cols int) {
	return b.rows, b.cols
}

// Rows returns the number of rows.
func (b *Board) Rows() int {
	return b.rows
}

// Cols returns the number of columns.
func (b *Board) Cols() int {
	return b.cols
}

// Colors returns the palette size.
func (b *Board) Colors() int {
	return b.colors
}

// InBounds returns true if the coordinate is on the board.
func (b *Board) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < b.rows && c.Col >= 0 && c.Col < b.cols
}

// CheckBounds returns an *OutOfBoundsError if c is not on the board.
func (b *Board) CheckBounds(c Coord) error {
	if b.InBounds(c) {
		return nil
	}
	return &OutOfBoundsError{Coord: c, Rows: b.rows, Cols: b.cols}
}

func (b *Board) index(c Coord) int {
	if err := b.CheckBounds(c); err != nil {
		panic(err)
	}
	return c.Row*b.cols + c.Col
}

// Get returns the cell at c. Panics with *OutOfBoundsError if c is off the board.
func (b *Board) Get(c Coord) Cell {
	return b.cells[b.index(c)]
}

// Set overwrites the cell at c. Panics with *OutOfBoundsError if c is off the board.
func (b *Board) Set(c Coord, cell Cell) {
	b.cells[b.index(c)] = cell
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return &Board{
		rows:   b.rows,
		cols:   b.cols,
		colors: b.colors,
		cells:  cells,
	}
}

// Equal returns true if both boards have the same dimensions and contents.
func (b *Board) Equal(other *Board) bool {
	if b.rows != other.rows || b.cols != other.cols {
		return false
	}
	for i, cell := range b.cells {
		if cell != other.cells[i] {
			return false
		}
	}
	return true
}

// FilledCount returns the number of occupied cells.
func (b *Board) FilledCount() int {
	count := 0
	for _, cell := range b.cells {
		if cell.Filled {
			count++
		}
	}
	return count
}

// EmptyCoords returns the coordinates of all empty cells, row by row.
func (b *Board) EmptyCoords() []Coord {
	coords := make([]Coord, 0)
	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			if !b.cells[row*b.cols+col].Filled {
				coords = append(coords, At(row, col))
			}
		}
	}
	return coords
}

// ColorGrid returns the board colours row by row; empty cells read as -1.
func (b *Board) ColorGrid() [][]int {
	out := make([][]int, b.rows)
	for row := range out {
		out[row] = make([]int, b.cols)
		for col := range out[row] {
			cell := b.cells[row*b.cols+col]
			if cell.Filled {
				out[row][col] = int(cell.Color)
			} else {
				out[row][col] = -1
			}
		}
	}
	return out
}

// String renders the board as one line of colour characters per row.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(b.rows * (b.cols + 1))
	for row := 0; row < b.rows; row++ {
		if row > 0 {
			sb.WriteRune('\n')
		}
		for col := 0; col < b.cols; col++ {
			sb.WriteRune(b.cells[row*b.cols+col].Char())
		}
	}
	return sb.String()
}
