// Package blocky implements Blocky, a tile-matching puzzle: select a block
// and every connected block of the same colour disappears, the rest fall
// down and new blocks refill the board. Points are earned per removed block
// within a limited number of moves.
package blocky

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blocky-arcade/internal/config"
	"github.com/vovakirdan/blocky-arcade/internal/core"
	"github.com/vovakirdan/blocky-arcade/internal/games/blocky/engine"
	"github.com/vovakirdan/blocky-arcade/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeClassic Mode = "classic" // Limited moves, game over when they run out
	ModeEndless Mode = "endless" // Unlimited moves
)

// Package-level settings, applied by the CLI before games are created.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	logger           = log.New(io.Discard)
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown values clear it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParseDifficulty(preset)
	if err != nil {
		p = ""
	}
	difficultyPreset = p
}

// SetLogger sets the logger used by new games.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// Game implements Blocky on top of the grid match engine.
type Game struct {
	mode   Mode
	cfg    config.BlockyConfig
	rng    *rand.Rand
	tick   uint64
	tickDt time.Duration
	logger *log.Logger

	sched  *engine.TickScheduler
	coord  *engine.TurnCoordinator
	scores *ScoreKeeper
	moves  *MoveBudget
	fx     *effects

	cursor      engine.Coord
	lastOutcome engine.SelectOutcome
	bestScore   int
	hud         hud

	// Settled turn the board was last checked for a possible match.
	checkedTurn  uint64
	boardChecked bool

	// Screen
	screenW int
	screenH int
	layout  layout

	// Game state flags
	exhausted bool // Last move used; game over once the turn settles
	stuck     bool // No region large enough to select
	gameOver  bool
	paused    bool
	tooSmall  bool
}

// hud holds the values shown above the board. It follows the score keeper
// and move budget through their change listeners.
type hud struct {
	score      int
	movesLeft  int
	scoreFlash int // Ticks left to highlight the score after a gain
}

// New creates a classic Blocky game.
func New() *Game {
	return &Game{mode: ModeClassic}
}

// NewEndless creates an endless Blocky game.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

func init() {
	registry.Register("blocky", func() registry.Game {
		return New()
	})
	registry.Register("blocky_endless", func() registry.Game {
		return NewEndless()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "blocky_endless"
	}
	return "blocky"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Blocky (Endless)"
	}
	return "Blocky"
}

// loadConfig resolves the game configuration for this mode.
func (g *Game) loadConfig() config.BlockyConfig {
	cfg, err := config.LoadBlocky(configPath)
	if err != nil {
		g.logger.Warn("using default config", "error", err)
		cfg = config.DefaultBlockyConfig()
	}
	if difficultyPreset != "" {
		config.ApplyBlockyPreset(&cfg, difficultyPreset)
	}
	if g.mode == ModeEndless {
		cfg.Moves.Budget = 0
	}
	return cfg
}

// Reset initializes or restarts the game. A turn still resolving on the
// previous board is abandoned.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	if g.logger == nil {
		g.logger = logger.With("game", g.ID())
	}

	cfg := g.loadConfig()

	tickRate := runtime.TickRate
	if tickRate <= 0 {
		tickRate = core.DefaultConfig().TickRate
	}
	g.tickDt = time.Second / time.Duration(tickRate)
	g.rng = rand.New(rand.NewSource(runtime.Seed))
	g.tick = 0

	board := engine.NewRandomBoard(cfg.Board.Rows, cfg.Board.Cols, cfg.Board.Colors, g.rng)

	if g.coord != nil && cfg == g.cfg {
		g.coord.Restart(board)
	} else {
		g.build(cfg, board)
	}
	g.cfg = cfg

	g.scores.Reset()
	g.moves.Reset()
	g.fx.reset()
	g.hud.scoreFlash = 0

	g.cursor = engine.At(cfg.Board.Rows/2, cfg.Board.Cols/2)
	g.lastOutcome = engine.OutcomeStarted
	g.exhausted = false
	g.stuck = false
	g.boardChecked = false
	g.gameOver = false
	g.paused = false

	g.Resize(runtime.ScreenW, runtime.ScreenH)

	g.logger.Debug("game reset", "rows", cfg.Board.Rows, "cols", cfg.Board.Cols,
		"colors", cfg.Board.Colors, "moves", cfg.Moves.Budget, "seed", runtime.Seed)
}

// build wires a fresh coordinator and its collaborators.
func (g *Game) build(cfg config.BlockyConfig, board *engine.Board) {
	if g.coord != nil {
		g.coord.Close()
	}

	g.sched = engine.NewTickScheduler()
	g.scores = NewScoreKeeper(cfg.Scoring.PointMultiplier)
	g.moves = NewMoveBudget(cfg.Moves.Budget)
	g.fx = newEffects()

	g.scores.OnChange(func(score int) {
		if score > g.hud.score {
			g.hud.scoreFlash = popDuration
		}
		g.hud.score = score
	})
	g.moves.OnChange(func(left int) {
		g.hud.movesLeft = left
	})
	g.moves.OnExhausted(func() {
		g.exhausted = true
		g.logger.Debug("move budget exhausted", "score", g.scores.Score())
	})

	g.coord = engine.NewTurnCoordinator(board, engine.Options{
		SettleDelay: cfg.Turn.SettleDelay,
		MinMatch:    cfg.Turn.MinMatch,
		Scorer:      g.scores,
		Mover:       g.moves,
		Presenter:   g.fx,
		Scheduler:   g.sched,
		Colors:      colorFunc(func(n int) int { return g.rng.Intn(n) }),
		Logger:      g.logger,
	})
}

// colorFunc adapts a function to engine.ColorSource. The game RNG is
// replaced on every Reset, so refills always follow the current seed.
type colorFunc func(n int) int

func (f colorFunc) Intn(n int) int {
	return f(n)
}

// Resize adapts the layout to a new screen size without restarting.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.layout = computeLayout(w, h, g.cfg.Board.Rows, g.cfg.Board.Cols)

	minW, minH := minScreenSize(g.cfg.Board.Rows, g.cfg.Board.Cols)
	g.tooSmall = w < minW || h < minH
}

// SetBestScore sets the best stored score shown in the HUD.
func (g *Game) SetBestScore(score int) {
	g.bestScore = score
}

// Close abandons any pending turn.
func (g *Game) Close() {
	if g.coord != nil {
		g.coord.Close()
	}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	// Simulated time only moves while unpaused, so the settle delay
	// pauses with the game.
	g.sched.Advance(g.tickDt)
	g.fx.step()
	if g.hud.scoreFlash > 0 {
		g.hud.scoreFlash--
	}

	if g.gameOver {
		return core.StepResult{State: g.State()}
	}

	g.moveCursor(in)

	if in.Has(core.ActionSelect) {
		g.selectCell(g.cursor)
	}
	for _, click := range in.Clicks {
		if c, ok := g.layout.cellAt(click.X, click.Y); ok {
			g.cursor = c
			g.selectCell(c)
		}
	}

	if g.coord.State() == engine.StateIdle {
		switch {
		case g.exhausted:
			g.gameOver = true
			g.logger.Info("game over", "score", g.scores.Score(), "moves", g.moves.Used())
		case g.noMatchLeft():
			g.stuck = true
			g.gameOver = true
			g.logger.Info("game over, no matches left", "score", g.scores.Score(),
				"moves", g.moves.Used(), "min_match", g.coord.MinMatch())
		}
	}

	return core.StepResult{State: g.State()}
}

// noMatchLeft checks the settled board once per turn for a region the
// player could still select.
func (g *Game) noMatchLeft() bool {
	if g.boardChecked && g.fx.turns == g.checkedTurn {
		return false
	}
	g.boardChecked = true
	g.checkedTurn = g.fx.turns
	return !engine.HasMatch(g.coord.Snapshot(), g.coord.MinMatch())
}

// moveCursor applies directional input, clamped to the board.
func (g *Game) moveCursor(in core.InputFrame) {
	row, col := g.cursor.Row, g.cursor.Col
	switch {
	case in.Has(core.ActionUp):
		row--
	case in.Has(core.ActionDown):
		row++
	case in.Has(core.ActionLeft):
		col--
	case in.Has(core.ActionRight):
		col++
	}
	g.cursor = engine.At(
		core.Clamp(row, 0, g.cfg.Board.Rows-1),
		core.Clamp(col, 0, g.cfg.Board.Cols-1),
	)
}

// selectCell forwards a selection to the engine.
func (g *Game) selectCell(c engine.Coord) {
	if g.exhausted {
		return
	}
	g.lastOutcome = g.coord.TrySelect(c)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	state := core.GameState{
		GameOver: g.gameOver,
		Paused:   g.paused || g.tooSmall,
	}
	if g.scores != nil {
		state.Score = g.scores.Score()
	}
	if g.moves != nil {
		state.MovesUsed = g.moves.Used()
	}
	return state
}

// Board returns a copy of the current board.
func (g *Game) Board() *engine.Board {
	return g.coord.Snapshot()
}
