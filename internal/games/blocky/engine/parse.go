package engine

import (
	"fmt"
	"strings"
)

// ParseBoard builds a board from one string per row, using the characters
// printed by Board.String ('.' for empty, G/P/Y/B/K for colours).
// colors sets the palette size Refill draws from.
func ParseBoard(rows []string, colors int) (*Board, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("engine: parse board: no rows")
	}
	cols := len(strings.TrimSpace(rows[0]))
	if cols == 0 {
		return nil, fmt.Errorf("engine: parse board: empty first row")
	}
	if colors < 1 || colors > int(ColorCount) {
		return nil, fmt.Errorf("engine: parse board: invalid palette size %d", colors)
	}

	b := NewBoard(len(rows), cols, colors)
	for row, line := range rows {
		line = strings.TrimSpace(line)
		if len(line) != cols {
			return nil, fmt.Errorf("engine: parse board: row %d has %d cells, want %d", row, len(line), cols)
		}
		for col, ch := range line {
			if ch == '.' {
				continue
			}
			color, ok := ParseColor(string(ch))
			if !ok {
				return nil, fmt.Errorf("engine: parse board: unknown colour %q at (%d,%d)", ch, row, col)
			}
			b.Set(At(row, col), Occupied(color))
		}
	}

	return b, nil
}

// MustParseBoard is like ParseBoard but panics on error.
func MustParseBoard(colors int, rows ...string) *Board {
	b, err := ParseBoard(rows, colors)
	if err != nil {
		panic(err)
	}
	return b
}
