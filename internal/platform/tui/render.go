package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vovakirdan/blocky-arcade/internal/core"
)

// palette maps core.Color to terminal colours.
var palette = map[core.Color]lipgloss.Color{
	core.ColorWhite:  lipgloss.Color("15"),
	core.ColorGray:   lipgloss.Color("245"),
	core.ColorRed:    lipgloss.Color("9"),
	core.ColorCyan:   lipgloss.Color("14"),
	core.ColorGreen:  lipgloss.Color("34"),
	core.ColorPurple: lipgloss.Color("92"),
	core.ColorYellow: lipgloss.Color("220"),
	core.ColorBrown:  lipgloss.Color("130"),
	core.ColorPink:   lipgloss.Color("205"),
}

// cellStyle returns the lipgloss style for a foreground/background pair.
func cellStyle(fg, bg core.Color) lipgloss.Style {
	style := lipgloss.NewStyle()
	if c, ok := palette[fg]; ok {
		style = style.Foreground(c)
	}
	if c, ok := palette[bg]; ok {
		style = style.Background(c)
	}
	return style
}

type colorPair struct {
	fg, bg core.Color
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colours to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	styles := make(map[colorPair]lipgloss.Style)

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same colours
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			start := colorPair{cell.Fg, cell.Bg}

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if (colorPair{cell.Fg, cell.Bg}) != start {
					break
				}
				r := cell.Rune
				if r == 0 {
					r = ' '
				}
				run.WriteRune(r)
				x++
			}

			if start == (colorPair{}) {
				sb.WriteString(run.String())
				continue
			}
			style, ok := styles[start]
			if !ok {
				style = cellStyle(start.fg, start.bg)
				styles[start] = style
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
