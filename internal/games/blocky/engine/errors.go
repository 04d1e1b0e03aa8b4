package engine

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is the sentinel wrapped by every out-of-range board access.
var ErrOutOfBounds = errors.New("engine: coordinate out of bounds")

// OutOfBoundsError describes a rejected coordinate access.
type OutOfBoundsError struct {
	Coord Coord
	Rows  int
	Cols  int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("engine: coordinate %v out of bounds for %dx%d board", e.Coord, e.Rows, e.Cols)
}

// Unwrap lets errors.Is match ErrOutOfBounds.
func (e *OutOfBoundsError) Unwrap() error {
	return ErrOutOfBounds
}
