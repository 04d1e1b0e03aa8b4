package engine

import (
	"errors"
	"math/rand"
	"testing"
)

// seqSource returns the given values in order, cycling when exhausted.
type seqSource struct {
	values []int
	next   int
	calls  int
}

func (s *seqSource) Intn(n int) int {
	s.calls++
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}

func TestNewBoardIsEmpty(t *testing.T) {
	b := NewBoard(6, 5, 5)

	rows, cols := b.Dimensions()
	if rows != 6 || cols != 5 {
		t.Fatalf("expected 6x5 board, got %dx%d", rows, cols)
	}
	if got := b.FilledCount(); got != 0 {
		t.Errorf("expected empty board, got %d filled cells", got)
	}
	if got := len(b.EmptyCoords()); got != 30 {
		t.Errorf("expected 30 empty coords, got %d", got)
	}
}

func TestNewBoardPanicsOnInvalidSize(t *testing.T) {
	testCases := []struct {
		name               string
		rows, cols, colors int
	}{
		{"zero rows", 0, 5, 5},
		{"negative cols", 3, -1, 5},
		{"no colours", 3, 3, 0},
		{"too many colours", 3, 3, int(ColorCount) + 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic")
				}
			}()
			NewBoard(tc.rows, tc.cols, tc.colors)
		})
	}
}

func TestNewRandomBoardIsFull(t *testing.T) {
	b := NewRandomBoard(6, 5, 5, rand.New(rand.NewSource(1)))

	if got := b.FilledCount(); got != 30 {
		t.Errorf("expected 30 filled cells, got %d", got)
	}
	for _, row := range b.ColorGrid() {
		for _, c := range row {
			if c < 0 || c >= 5 {
				t.Errorf("colour %d outside palette", c)
			}
		}
	}
}

func TestBoardSetAndGet(t *testing.T) {
	b := NewBoard(3, 4, 5)

	b.Set(At(2, 3), Occupied(ColorPink))
	if got := b.Get(At(2, 3)); got != Occupied(ColorPink) {
		t.Errorf("expected pink block, got %+v", got)
	}

	b.Set(At(2, 3), Empty())
	if got := b.Get(At(2, 3)); got.Filled {
		t.Errorf("expected empty cell after overwrite, got %+v", got)
	}

	// Neighbouring cells are untouched.
	if b.FilledCount() != 0 {
		t.Errorf("expected no filled cells, got %d", b.FilledCount())
	}
}

func TestBoardInBounds(t *testing.T) {
	b := NewBoard(6, 5, 5)

	testCases := []struct {
		coord    Coord
		expected bool
	}{
		{At(0, 0), true},
		{At(5, 4), true},
		{At(3, 2), true},
		{At(-1, 0), false},
		{At(0, -1), false},
		{At(6, 0), false},
		{At(0, 5), false},
		{At(6, 5), false},
	}

	for _, tc := range testCases {
		if got := b.InBounds(tc.coord); got != tc.expected {
			t.Errorf("InBounds(%v): expected %v, got %v", tc.coord, tc.expected, got)
		}
		err := b.CheckBounds(tc.coord)
		if tc.expected && err != nil {
			t.Errorf("CheckBounds(%v): unexpected error %v", tc.coord, err)
		}
		if !tc.expected && !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("CheckBounds(%v): expected ErrOutOfBounds, got %v", tc.coord, err)
		}
	}
}

func TestBoardOutOfBoundsPanics(t *testing.T) {
	b := NewBoard(2, 2, 5)

	accesses := map[string]func(){
		"get row":  func() { b.Get(At(2, 0)) },
		"get col":  func() { b.Get(At(0, -1)) },
		"set row":  func() { b.Set(At(-1, 1), Occupied(ColorGreen)) },
		"set col":  func() { b.Set(At(1, 2), Occupied(ColorGreen)) },
		"find":     func() { FindRegion(b, At(5, 5)) },
		"negative": func() { b.Get(At(-3, -3)) },
	}

	for name, access := range accesses {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok {
					t.Fatalf("expected error panic, got %v", r)
				}
				var oob *OutOfBoundsError
				if !errors.As(err, &oob) {
					t.Fatalf("expected *OutOfBoundsError, got %T", err)
				}
				if !errors.Is(err, ErrOutOfBounds) {
					t.Errorf("expected error to wrap ErrOutOfBounds")
				}
				if oob.Rows != 2 || oob.Cols != 2 {
					t.Errorf("expected 2x2 in error, got %dx%d", oob.Rows, oob.Cols)
				}
			}()
			access()
		})
	}
}

func TestBoardCloneIsIndependent(t *testing.T) {
	b := MustParseBoard(5,
		"GP",
		"YB",
	)
	clone := b.Clone()

	if !clone.Equal(b) {
		t.Fatalf("clone differs from original:\n%s\nvs\n%s", clone, b)
	}

	clone.Set(At(0, 0), Empty())
	if b.Get(At(0, 0)) != Occupied(ColorGreen) {
		t.Errorf("mutating the clone changed the original")
	}
	if clone.Equal(b) {
		t.Errorf("expected boards to differ after mutation")
	}
}

func TestParseBoardRoundTrip(t *testing.T) {
	rows := []string{
		"G.P",
		"YBK",
		"...",
	}
	b, err := ParseBoard(rows, 5)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}

	want := "G.P\nYBK\n..."
	if b.String() != want {
		t.Errorf("expected\n%s\ngot\n%s", want, b.String())
	}
	if b.FilledCount() != 5 {
		t.Errorf("expected 5 filled cells, got %d", b.FilledCount())
	}
}

func TestParseBoardErrors(t *testing.T) {
	testCases := []struct {
		name   string
		rows   []string
		colors int
	}{
		{"no rows", nil, 5},
		{"ragged", []string{"GG", "G"}, 5},
		{"unknown colour", []string{"GX"}, 5},
		{"bad palette", []string{"GG"}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseBoard(tc.rows, tc.colors); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	for _, c := range AllColors() {
		got, ok := ParseColor(c.String())
		if !ok || got != c {
			t.Errorf("ParseColor(%q) = %v, %v", c.String(), got, ok)
		}
		got, ok = ParseColor(string(c.Char()))
		if !ok || got != c {
			t.Errorf("ParseColor(%q) = %v, %v", string(c.Char()), got, ok)
		}
	}
	if _, ok := ParseColor("orange"); ok {
		t.Errorf("expected orange to be rejected")
	}
}
