package blocky

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/blocky-arcade/internal/core"
	"github.com/vovakirdan/blocky-arcade/internal/games/blocky/engine"
)

const testConfig = `
board:
  rows: 6
  cols: 5
  colors: 5
turn:
  settle_delay: 100ms
  min_match: 1
scoring:
  point_multiplier: 10
moves:
  budget: 3
`

func useConfig(t *testing.T, yaml string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blocky.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigPath(path)
	SetDifficultyPreset("")
	t.Cleanup(func() { SetConfigPath("") })
}

func testRuntime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed}
}

func newTestGame(t *testing.T, endless bool) *Game {
	t.Helper()
	useConfig(t, testConfig)
	g := New()
	if endless {
		g = NewEndless()
	}
	g.Reset(testRuntime(42))
	t.Cleanup(g.Close)
	return g
}

func action(a core.Action) core.InputFrame {
	in := core.NewInputFrame()
	in.Set(a)
	return in
}

// settle steps until the current turn has resolved.
func settle(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if g.coord.State() == engine.StateIdle {
			return
		}
		g.Step(core.NewInputFrame())
	}
	t.Fatalf("turn did not settle")
}

func TestDeterminism(t *testing.T) {
	useConfig(t, testConfig)
	seed := int64(12345)

	g1 := New()
	g1.Reset(testRuntime(seed))
	defer g1.Close()
	g2 := New()
	g2.Reset(testRuntime(seed))
	defer g2.Close()

	inputs := []core.Action{
		core.ActionSelect, core.ActionNone, core.ActionLeft, core.ActionUp,
		core.ActionSelect, core.ActionDown, core.ActionRight, core.ActionSelect,
	}

	for i := 0; i < 400; i++ {
		in := action(inputs[(i/20)%len(inputs)])
		g1.Step(in)
		g2.Step(in)

		s1, s2 := g1.Snapshot(), g2.Snapshot()
		if !reflect.DeepEqual(s1, s2) {
			t.Fatalf("tick %d: games diverged\n%+v\n%+v", i, s1, s2)
		}
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	useConfig(t, testConfig)

	g1 := New()
	g1.Reset(testRuntime(1))
	g2 := New()
	g2.Reset(testRuntime(2))

	if reflect.DeepEqual(g1.Snapshot().Board, g2.Snapshot().Board) {
		t.Errorf("expected different boards for different seeds")
	}
}

func TestSelectRemovesAndScores(t *testing.T) {
	g := newTestGame(t, false)

	before := g.Board()
	region := engine.FindRegion(before, g.cursor)

	g.Step(action(core.ActionSelect))

	snap := g.Snapshot()
	if snap.State != StateResolving {
		t.Fatalf("expected resolving, got %s", snap.State)
	}
	if snap.Score != region.Len()*10 {
		t.Errorf("expected score %d, got %d", region.Len()*10, snap.Score)
	}
	if snap.MovesLeft != 2 || snap.MovesUsed != 1 {
		t.Errorf("expected 2 moves left and 1 used, got %d/%d", snap.MovesLeft, snap.MovesUsed)
	}
	for _, c := range region.Coords {
		if snap.Board[c.Row][c.Col] != -1 {
			t.Errorf("expected %v to be empty during the settle delay", c)
		}
	}

	// Input is locked while resolving.
	g.Step(action(core.ActionSelect))
	if g.Snapshot().MovesUsed != 1 {
		t.Errorf("selection during resolution must be ignored")
	}

	settle(t, g)

	board := g.Board()
	if board.FilledCount() != 30 {
		t.Errorf("expected a full board after settle, got %d filled", board.FilledCount())
	}
	if g.Snapshot().State != StatePlaying {
		t.Errorf("expected playing, got %s", g.Snapshot().State)
	}
}

func TestSettleDelayInTicks(t *testing.T) {
	g := newTestGame(t, false)

	g.Step(action(core.ActionSelect))

	// 100ms at 60 ticks/s is 6 ticks; well before that the turn is pending.
	for i := 0; i < 4; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.coord.State() != engine.StateResolving {
		t.Fatalf("settled too early")
	}
	for i := 0; i < 4; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.coord.State() != engine.StateIdle {
		t.Errorf("expected turn to settle after the delay")
	}
}

func TestGameOverAfterBudget(t *testing.T) {
	g := newTestGame(t, false)

	for i := 0; i < 3; i++ {
		if g.State().GameOver {
			t.Fatalf("game over after %d moves", i)
		}
		g.Step(action(core.ActionSelect))
		if i < 2 {
			settle(t, g)
		}
	}

	// Last move: game over only once the board has settled.
	if g.State().GameOver {
		t.Errorf("game over before the last turn settled")
	}
	settle(t, g)
	g.Step(core.NewInputFrame())

	state := g.State()
	if !state.GameOver {
		t.Fatalf("expected game over after 3 moves")
	}
	if state.MovesUsed != 3 {
		t.Errorf("expected 3 moves used, got %d", state.MovesUsed)
	}

	score := state.Score
	g.Step(action(core.ActionSelect))
	if g.State().Score != score {
		t.Errorf("selection after game over changed the score")
	}
}

func TestEndlessNeverEnds(t *testing.T) {
	g := newTestGame(t, true)

	for i := 0; i < 10; i++ {
		g.Step(action(core.ActionSelect))
		settle(t, g)
	}

	snap := g.Snapshot()
	if g.State().GameOver {
		t.Errorf("endless game should never end")
	}
	if snap.MovesLeft != -1 {
		t.Errorf("expected unlimited moves, got %d", snap.MovesLeft)
	}
	if snap.MovesUsed != 10 || snap.Turns != 10 {
		t.Errorf("expected 10 moves and turns, got %d/%d", snap.MovesUsed, snap.Turns)
	}
	if snap.Mode != "endless" {
		t.Errorf("expected endless mode, got %q", snap.Mode)
	}
}

func TestPauseFreezesSettle(t *testing.T) {
	g := newTestGame(t, false)

	g.Step(action(core.ActionSelect))
	g.Step(action(core.ActionPause))

	for i := 0; i < 100; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.coord.State() != engine.StateResolving {
		t.Fatalf("turn settled while paused")
	}
	if g.Snapshot().State != StatePaused {
		t.Errorf("expected paused state, got %s", g.Snapshot().State)
	}

	g.Step(action(core.ActionPause))
	settle(t, g)
}

func TestCursorMovementClamped(t *testing.T) {
	g := newTestGame(t, false)

	for i := 0; i < 10; i++ {
		g.Step(action(core.ActionUp))
		g.Step(action(core.ActionLeft))
	}
	if g.cursor != engine.At(0, 0) {
		t.Errorf("expected cursor at (0,0), got %v", g.cursor)
	}

	for i := 0; i < 10; i++ {
		g.Step(action(core.ActionDown))
		g.Step(action(core.ActionRight))
	}
	if g.cursor != engine.At(5, 4) {
		t.Errorf("expected cursor at (5,4), got %v", g.cursor)
	}
}

func TestClickSelectsCell(t *testing.T) {
	g := newTestGame(t, false)

	target := engine.At(4, 1)
	region := engine.FindRegion(g.Board(), target)

	x, y := g.layout.cellOrigin(target)
	in := core.NewInputFrame()
	in.AddClick(x+2, y+1) // gap cells belong to the block

	g.Step(in)

	if g.cursor != target {
		t.Errorf("expected cursor to follow the click, got %v", g.cursor)
	}
	if g.State().Score != region.Len()*10 {
		t.Errorf("expected score %d, got %d", region.Len()*10, g.State().Score)
	}
}

func TestClickOutsideBoardIgnored(t *testing.T) {
	g := newTestGame(t, false)

	in := core.NewInputFrame()
	in.AddClick(0, 0)
	in.AddClick(g.layout.frame.Right()+3, g.layout.frame.Y+2)
	g.Step(in)

	if g.State().MovesUsed != 0 {
		t.Errorf("clicks outside the board must not select")
	}
}

func TestResetAbandonsTurn(t *testing.T) {
	g := newTestGame(t, false)

	g.Step(action(core.ActionSelect))
	if g.coord.State() != engine.StateResolving {
		t.Fatalf("expected resolving")
	}

	g.Reset(testRuntime(7))

	if g.coord.State() != engine.StateIdle {
		t.Errorf("expected idle after reset")
	}
	if g.Board().FilledCount() != 30 {
		t.Errorf("expected a full new board")
	}
	state := g.State()
	if state.Score != 0 || state.MovesUsed != 0 || state.GameOver {
		t.Errorf("expected fresh state, got %+v", state)
	}

	// The abandoned continuation must not fire on the new board.
	before := g.Board()
	for i := 0; i < 20; i++ {
		g.Step(core.NewInputFrame())
	}
	if !g.Board().Equal(before) {
		t.Errorf("new board changed without a selection")
	}
}

func TestGameIDs(t *testing.T) {
	if New().ID() != "blocky" {
		t.Errorf("unexpected classic id %q", New().ID())
	}
	if NewEndless().ID() != "blocky_endless" {
		t.Errorf("unexpected endless id %q", NewEndless().ID())
	}
}

func TestTitles(t *testing.T) {
	if New().Title() != "Blocky" || NewEndless().Title() != "Blocky (Endless)" {
		t.Errorf("unexpected titles %q / %q", New().Title(), NewEndless().Title())
	}
}

func TestWindowTooSmall(t *testing.T) {
	useConfig(t, testConfig)
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 20, ScreenH: 10, TickRate: 60, Seed: 1})
	defer g.Close()

	g.Step(action(core.ActionSelect))
	if g.State().MovesUsed != 0 {
		t.Errorf("input must be ignored while the window is too small")
	}
	if g.Snapshot().State != StatePausedSmall {
		t.Errorf("expected paused_small_window, got %s", g.Snapshot().State)
	}

	g.Resize(80, 24)
	g.Step(action(core.ActionSelect))
	if g.State().MovesUsed != 1 {
		t.Errorf("expected play to resume after resize")
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t, false)
	g.SetBestScore(500)
	screen := core.NewScreen(80, 24)

	g.Render(screen)
	out := screen.String()

	for _, want := range []string{"Blocky", "Score: 0", "Moves: 3/3", "Best: 500"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}

	// Every block has a coloured background.
	board := g.Board()
	for row := 0; row < 6; row++ {
		for col := 0; col < 5; col++ {
			c := engine.At(row, col)
			x, y := g.layout.cellOrigin(c)
			want := blockColors[board.Get(c).Color]
			if got := screen.GetCell(x, y).Bg; got != want {
				t.Errorf("cell %v: expected bg %v, got %v", c, want, got)
			}
		}
	}
}

func TestRenderGameOver(t *testing.T) {
	g := newTestGame(t, false)
	for i := 0; i < 3; i++ {
		g.Step(action(core.ActionSelect))
		settle(t, g)
	}
	g.Step(core.NewInputFrame())

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "GAME OVER") {
		t.Errorf("expected game over overlay:\n%s", screen.String())
	}
}

func TestDifficultyPresetApplied(t *testing.T) {
	useConfig(t, testConfig)
	SetDifficultyPreset("easy")
	defer SetDifficultyPreset("")

	g := New()
	g.Reset(testRuntime(3))
	defer g.Close()

	if g.Snapshot().MovesLeft != 8 {
		t.Errorf("expected easy preset budget 8, got %d", g.Snapshot().MovesLeft)
	}
	for _, row := range g.Snapshot().Board {
		for _, c := range row {
			if c >= 4 {
				t.Errorf("easy preset uses 4 colours, found colour %d", c)
			}
		}
	}
}

func TestGameOverWhenNoMatchLeft(t *testing.T) {
	useConfig(t, strings.Replace(testConfig, "min_match: 1", "min_match: 2", 1))

	tests := []struct {
		name     string
		rows     []string
		gameOver bool
	}{
		{
			name:     "checkerboard",
			rows:     []string{"GPGPG", "PGPGP", "GPGPG", "PGPGP", "GPGPG", "PGPGP"},
			gameOver: true,
		},
		{
			name:     "one pair left",
			rows:     []string{"GPGPG", "PGPGP", "GPGPG", "PGPGP", "GPGPG", "PGPGG"},
			gameOver: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			g.Reset(testRuntime(9))
			defer g.Close()
			g.coord.Restart(engine.MustParseBoard(5, tt.rows...))

			g.Step(core.NewInputFrame())

			state := g.State()
			if state.GameOver != tt.gameOver {
				t.Fatalf("expected game over %v, got %+v", tt.gameOver, state)
			}
			if state.MovesUsed != 0 {
				t.Errorf("no move should be used, got %d", state.MovesUsed)
			}

			screen := core.NewScreen(80, 24)
			g.Render(screen)
			if got := strings.Contains(screen.String(), "No matches left"); got != tt.gameOver {
				t.Errorf("no-match message shown = %v:\n%s", got, screen.String())
			}
		})
	}
}

func TestHUDFollowsScoreAndMoves(t *testing.T) {
	g := newTestGame(t, false)

	if g.hud.score != 0 || g.hud.movesLeft != 3 {
		t.Fatalf("expected fresh HUD, got %+v", g.hud)
	}

	region := engine.FindRegion(g.Board(), g.cursor)
	g.Step(action(core.ActionSelect))

	if g.hud.score != region.Len()*10 || g.hud.movesLeft != 2 {
		t.Errorf("expected HUD score %d and 2 moves left, got %+v", region.Len()*10, g.hud)
	}
	if g.hud.scoreFlash == 0 {
		t.Errorf("expected the score to be highlighted after a gain")
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	for _, want := range []string{fmt.Sprintf("Score: %d", g.hud.score), "Moves: 2/3"} {
		if !strings.Contains(screen.String(), want) {
			t.Errorf("render missing %q:\n%s", want, screen.String())
		}
	}

	for i := 0; i < popDuration; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.hud.scoreFlash != 0 {
		t.Errorf("expected highlight to fade, %d ticks left", g.hud.scoreFlash)
	}

	g.Reset(testRuntime(11))
	if g.hud.score != 0 || g.hud.movesLeft != 3 || g.hud.scoreFlash != 0 {
		t.Errorf("expected HUD reset, got %+v", g.hud)
	}
}
