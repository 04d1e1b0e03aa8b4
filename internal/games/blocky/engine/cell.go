package engine

// Cell is a single board position: either empty or occupied by a coloured block.
type Cell struct {
	Filled bool  // Whether the cell holds a block
	Color  Color // Valid only when Filled is true
}

// Empty returns an empty cell.
func Empty() Cell {
	return Cell{}
}

// Occupied returns a cell holding a block of the given colour.
func Occupied(c Color) Cell {
	return Cell{Filled: true, Color: c}
}

// Char returns the colour character, or '.' for an empty cell.
func (c Cell) Char() rune {
	if !c.Filled {
		return '.'
	}
	return c.Color.Char()
}
