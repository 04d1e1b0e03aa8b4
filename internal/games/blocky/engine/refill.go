package engine

// ColorSource supplies uniform random integers. *rand.Rand satisfies it.
type ColorSource interface {
	Intn(n int) int
}

// Placement records a new block dropped into an empty cell by Refill.
type Placement struct {
	Coord Coord
	Color Color
}

// RandomColor draws one colour uniformly from the first n palette entries.
func RandomColor(src ColorSource, n int) Color {
	return Color(src.Intn(n))
}

// Refill assigns an independent random colour to every empty cell, row by row.
// No empty cells remain afterwards.
func Refill(b *Board, src ColorSource) []Placement {
	placements := make([]Placement, 0)

	for i, cell := range b.cells {
		if cell.Filled {
			continue
		}
		color := RandomColor(src, b.colors)
		b.cells[i] = Occupied(color)
		placements = append(placements, Placement{
			Coord: At(i/b.cols, i%b.cols),
			Color: color,
		})
	}

	return placements
}
