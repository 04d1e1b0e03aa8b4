package blocky

import (
	"github.com/vovakirdan/blocky-arcade/internal/core"
	"github.com/vovakirdan/blocky-arcade/internal/games/blocky/engine"
)

const (
	cellWidth    = 4 // 3-wide block plus a gap column
	cellHeight   = 2 // 1-tall block plus a gap row
	hudHeight    = 3
	footerHeight = 2
	minHUDWidth  = 32
)

// layout maps board cells to screen positions and back.
// Hit-testing pointer clicks lives here, not in the engine.
type layout struct {
	frame      core.Rect // Board border
	originX    int       // Screen x of cell (0,0)
	originY    int       // Screen y of cell (0,0)
	rows, cols int
}

// frameSize returns the border size for a board of the given shape.
func frameSize(rows, cols int) (w, h int) {
	return cols*cellWidth + 3, rows*cellHeight + 1
}

// minScreenSize returns the smallest screen that fits the board and HUD.
func minScreenSize(rows, cols int) (w, h int) {
	fw, fh := frameSize(rows, cols)
	return core.Max(fw, minHUDWidth), hudHeight + fh + footerHeight
}

// computeLayout centers the board horizontally below the HUD.
func computeLayout(screenW, screenH, rows, cols int) layout {
	fw, fh := frameSize(rows, cols)
	frame := core.NewRect((screenW-fw)/2, hudHeight, fw, fh)
	return layout{
		frame:   frame,
		originX: frame.X + 2,
		originY: frame.Y + 1,
		rows:    rows,
		cols:    cols,
	}
}

// cellOrigin returns the screen position of the block at c.
func (l layout) cellOrigin(c engine.Coord) (x, y int) {
	return l.originX + c.Col*cellWidth, l.originY + c.Row*cellHeight
}

// cellAt returns the board cell under the screen point (x, y).
// Gaps between blocks belong to the block on their left/top.
func (l layout) cellAt(x, y int) (engine.Coord, bool) {
	area := core.NewRect(l.originX, l.originY, l.cols*cellWidth, l.rows*cellHeight)
	if !area.Contains(x, y) {
		return engine.Coord{}, false
	}
	return engine.At((y-l.originY)/cellHeight, (x-l.originX)/cellWidth), true
}
