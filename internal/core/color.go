package core

// Color is a logical terminal colour for a screen cell.
// The platform layer maps it to a concrete lipgloss colour, so games never
// deal with ANSI codes directly.
type Color uint8

const (
	ColorDefault Color = iota // Terminal default
	ColorWhite
	ColorGray
	ColorRed
	ColorCyan

	// Block palette.
	ColorGreen
	ColorPurple
	ColorYellow
	ColorBrown
	ColorPink
)

// Cell is one character of the screen buffer.
type Cell struct {
	Rune rune
	Fg   Color
	Bg   Color
}

// Blank is a space with default colours.
var Blank = Cell{Rune: ' '}
