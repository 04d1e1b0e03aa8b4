package blocky

import (
	"fmt"

	"github.com/vovakirdan/blocky-arcade/internal/core"
	"github.com/vovakirdan/blocky-arcade/internal/games/blocky/engine"
)

// blockColors maps engine colours to screen colours.
var blockColors = map[engine.Color]core.Color{
	engine.ColorGreen:  core.ColorGreen,
	engine.ColorPurple: core.ColorPurple,
	engine.ColorYellow: core.ColorYellow,
	engine.ColorBrown:  core.ColorBrown,
	engine.ColorPink:   core.ColorPink,
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	board := g.coord.Snapshot()

	g.renderHUD(dst)
	g.renderBoard(dst, board)
	g.renderFooter(dst)
	g.renderOverlays(dst)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	minW, minH := minScreenSize(g.cfg.Board.Rows, g.cfg.Board.Cols)
	y := g.screenH / 2
	dst.DrawTextCentered(y-1, "Window too small", core.ColorRed)
	dst.DrawTextCentered(y, fmt.Sprintf("Need %dx%d, have %dx%d", minW, minH, g.screenW, g.screenH), core.ColorGray)
	dst.DrawTextCentered(y+1, "Please resize terminal", core.ColorGray)
}

// renderHUD draws title, score and remaining moves.
func (g *Game) renderHUD(dst *core.Screen) {
	frame := g.layout.frame
	left := frame.X
	right := frame.Right()
	if right-left < minHUDWidth {
		left = (g.screenW - minHUDWidth) / 2
		right = left + minHUDWidth
	}

	dst.DrawTextCentered(0, g.Title(), core.ColorCyan)

	scoreColor := core.ColorWhite
	if g.hud.scoreFlash > 0 {
		scoreColor = core.ColorYellow
	}
	dst.DrawTextColor(left, 1, fmt.Sprintf("Score: %d", g.hud.score), scoreColor)

	var movesStr string
	if g.moves.Unlimited() {
		movesStr = fmt.Sprintf("Moves: %d", g.moves.Used())
	} else {
		movesStr = fmt.Sprintf("Moves: %d/%d", g.hud.movesLeft, g.moves.Total())
	}
	movesColor := core.ColorWhite
	if !g.moves.Unlimited() && g.hud.movesLeft <= 1 {
		movesColor = core.ColorRed
	}
	dst.DrawTextColor(right-len(movesStr), 1, movesStr, movesColor)

	var status string
	switch {
	case g.coord.State() == engine.StateResolving:
		status = fmt.Sprintf("+%d blocks", g.fx.lastRemoved)
	case g.lastOutcome == engine.OutcomeBelowThreshold:
		status = fmt.Sprintf("Match at least %d", g.coord.MinMatch())
	case g.bestScore > 0:
		status = fmt.Sprintf("Best: %d", g.bestScore)
	}
	if status != "" {
		dst.DrawTextCentered(2, status, core.ColorGray)
	}
}

// renderBoard draws the frame, the blocks and the cursor.
func (g *Game) renderBoard(dst *core.Screen, board *engine.Board) {
	dst.DrawBox(g.layout.frame, core.ColorGray)

	rows, cols := board.Dimensions()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c := engine.At(row, col)
			g.renderCell(dst, c, board.Get(c))
		}
	}

	if !g.gameOver {
		x, y := g.layout.cellOrigin(g.cursor)
		cell := dst.GetCell(x, y)
		dst.SetCell(x-1, y, core.Cell{Rune: '[', Fg: core.ColorWhite})
		dst.SetCell(x+cellWidth-1, y, core.Cell{Rune: ']', Fg: core.ColorWhite})
		if cell.Bg == core.ColorDefault {
			dst.SetCell(x+1, y, core.Cell{Rune: '·', Fg: core.ColorWhite})
		}
	}
}

// renderCell draws one 3x1 block.
func (g *Game) renderCell(dst *core.Screen, c engine.Coord, cell engine.Cell) {
	x, y := g.layout.cellOrigin(c)

	if !cell.Filled {
		if color, ok := g.fx.removed[c]; ok {
			// Ghost of a block removed this turn, until the board settles.
			for i := 0; i < cellWidth-1; i++ {
				dst.SetCell(x+i, y, core.Cell{Rune: '░', Fg: blockColors[color]})
			}
		}
		return
	}

	bg := blockColors[cell.Color]
	mark := ' '
	if _, ok := g.fx.popped[c]; ok {
		mark = '+'
	} else if _, ok := g.fx.dropped[c]; ok {
		mark = '↓'
	}

	dst.SetCell(x, y, core.Cell{Rune: ' ', Bg: bg})
	dst.SetCell(x+1, y, core.Cell{Rune: mark, Fg: core.ColorWhite, Bg: bg})
	dst.SetCell(x+2, y, core.Cell{Rune: ' ', Bg: bg})
}

// renderFooter draws the control hints below the board.
func (g *Game) renderFooter(dst *core.Screen) {
	y := g.layout.frame.Bottom()
	if y >= g.screenH {
		return
	}
	dst.DrawTextCentered(y, "arrows move  space select  click  p pause", core.ColorGray)
}

// renderOverlays draws pause and game over boxes over the board.
func (g *Game) renderOverlays(dst *core.Screen) {
	switch {
	case g.paused:
		g.drawOverlay(dst, "PAUSED", "Press P to resume")
	case g.gameOver:
		lines := []string{"GAME OVER"}
		if g.stuck {
			lines = append(lines, "No matches left")
		}
		lines = append(lines, fmt.Sprintf("Score: %d", g.hud.score))
		if g.bestScore > 0 && g.hud.score > g.bestScore {
			lines = append(lines, "New best!")
		}
		lines = append(lines, "R restart  Esc menu")
		g.drawOverlay(dst, lines...)
	}
}

// drawOverlay draws a boxed, centered block of text on top of the board.
func (g *Game) drawOverlay(dst *core.Screen, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = core.Max(maxLen, len([]rune(line)))
	}

	box := g.layout.frame.Centered(maxLen+4, len(lines)+2)
	dst.FillRect(box, core.Blank)
	dst.DrawBox(box, core.ColorWhite)

	for i, line := range lines {
		x := box.X + (box.W-len([]rune(line)))/2
		fg := core.ColorWhite
		if i == 0 {
			fg = core.ColorCyan
		}
		dst.DrawTextColor(x, box.Y+1+i, line, fg)
	}
}
