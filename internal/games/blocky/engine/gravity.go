package engine

// Move records one block falling within a column.
type Move struct {
	FromRow int
	ToRow   int
	Col     int
}

// From returns the source coordinate.
func (m Move) From() Coord {
	return At(m.FromRow, m.Col)
}

// To returns the destination coordinate.
func (m Move) To() Coord {
	return At(m.ToRow, m.Col)
}

// Collapse compacts every column downward so that occupied cells sit
// contiguously at the bottom, preserving their vertical order.
// Returns the moves applied, column by column, bottom-up within a column.
//
// Each empty row takes the nearest occupied cell above it. A write cursor
// tracks the lowest row still to be filled, so each column is a single pass.
func Collapse(b *Board) []Move {
	moves := make([]Move, 0)

	for col := 0; col < b.cols; col++ {
		write := b.rows - 1
		for read := b.rows - 1; read >= 0; read-- {
			src := b.cells[read*b.cols+col]
			if !src.Filled {
				continue
			}
			if read != write {
				b.cells[write*b.cols+col] = src
				b.cells[read*b.cols+col] = Empty()
				moves = append(moves, Move{FromRow: read, ToRow: write, Col: col})
			}
			write--
		}
	}

	return moves
}
