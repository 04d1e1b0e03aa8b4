package engine

import "strings"

// Color identifies a block colour. Colours only compare for equality.
type Color uint8

const (
	ColorGreen Color = iota
	ColorPurple
	ColorYellow
	ColorBrown
	ColorPink
	ColorCount // Sentinel value for iteration
)

// String returns the lower-case colour name.
func (c Color) String() string {
	switch c {
	case ColorGreen:
		return "green"
	case ColorPurple:
		return "purple"
	case ColorYellow:
		return "yellow"
	case ColorBrown:
		return "brown"
	case ColorPink:
		return "pink"
	default:
		return "unknown"
	}
}

// Char returns a single character for ASCII dumps of the board.
func (c Color) Char() rune {
	switch c {
	case ColorGreen:
		return 'G'
	case ColorPurple:
		return 'P'
	case ColorYellow:
		return 'Y'
	case ColorBrown:
		return 'B'
	case ColorPink:
		return 'K'
	default:
		return '?'
	}
}

// ParseColor converts a colour name or its single-letter form to a Color.
// Returns ColorGreen and false if the string is not recognized.
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(s) {
	case "green", "g":
		return ColorGreen, true
	case "purple", "p":
		return ColorPurple, true
	case "yellow", "y":
		return ColorYellow, true
	case "brown", "b":
		return ColorBrown, true
	case "pink", "k":
		return ColorPink, true
	default:
		return ColorGreen, false
	}
}

// AllColors returns every colour of the palette in declaration order.
func AllColors() []Color {
	return []Color{ColorGreen, ColorPurple, ColorYellow, ColorBrown, ColorPink}
}
