package engine

// Region is the set of orthogonally connected, same-coloured cells reachable
// from a start cell. Coords are in discovery order with the start cell first
// and contain no duplicates.
type Region struct {
	Color  Color
	Coords []Coord
}

// Len returns the number of cells in the region.
func (r Region) Len() int {
	return len(r.Coords)
}

// Contains reports whether c belongs to the region.
func (r Region) Contains(c Coord) bool {
	for _, rc := range r.Coords {
		if rc == c {
			return true
		}
	}
	return false
}

// FindRegion returns the connected region of start's colour containing start.
// It walks a FIFO worklist with a visited set, so every cell is visited at
// most once and the cost is O(rows*cols). The board is not modified.
//
// An empty start cell yields an empty region. Panics if start is off the board.
func FindRegion(b *Board, start Coord) Region {
	origin := b.Get(start)
	if !origin.Filled {
		return Region{}
	}

	visited := make([]bool, b.rows*b.cols)
	visited[b.index(start)] = true

	region := Region{Color: origin.Color, Coords: []Coord{start}}
	for head := 0; head < len(region.Coords); head++ {
		for _, n := range region.Coords[head].Neighbors() {
			if !b.InBounds(n) {
				continue
			}
			idx := b.index(n)
			if visited[idx] {
				continue
			}
			cell := b.cells[idx]
			if !cell.Filled || cell.Color != origin.Color {
				continue
			}
			visited[idx] = true
			region.Coords = append(region.Coords, n)
		}
	}

	return region
}

// HasMatch reports whether any region on the board has at least minMatch
// cells. Each cell is explored once.
func HasMatch(b *Board, minMatch int) bool {
	seen := make([]bool, b.rows*b.cols)
	for idx, cell := range b.cells {
		if seen[idx] || !cell.Filled {
			continue
		}
		region := FindRegion(b, At(idx/b.cols, idx%b.cols))
		if region.Len() >= minMatch {
			return true
		}
		for _, c := range region.Coords {
			seen[b.index(c)] = true
		}
	}
	return false
}
