package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blocky-arcade/internal/core"
	"github.com/vovakirdan/blocky-arcade/internal/registry"
	"github.com/vovakirdan/blocky-arcade/internal/storage"
)

// resizer is implemented by games that can adapt to a new screen size
// without restarting.
type resizer interface {
	Resize(w, h int)
}

// bestScoreSetter is implemented by games that show the stored best score.
type bestScoreSetter interface {
	SetBestScore(score int)
}

// Options configures a GameModel.
type Options struct {
	Player string      // "local" or the SSH user name
	Logger *log.Logger // Defaults to a discarding logger

	// QuitOnBack ends the program when the player leaves the game.
	// Set when the game runs as its own program rather than inside a session.
	QuitOnBack bool
}

// GameModel runs one game: it owns the tick loop, maps input, and records
// the play session and scores.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	logger     *log.Logger
	player     string
	sessionID  string
	loopID     uint64
	quitOnBack bool
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether score has been saved for the current game
}

// NewGameModel creates a game model and opens a play session for it.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	player := opts.Player
	if player == "" {
		player = "local"
	}

	m := GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		logger:     logger.With("game", game.ID(), "player", player),
		player:     player,
		loopID:     newLoopID(),
		quitOnBack: opts.QuitOnBack,
	}

	if store != nil {
		id, err := store.StartSession(game.ID(), player)
		if err != nil {
			m.logger.Warn("could not start session", "error", err)
		} else {
			m.sessionID = id
			m.logger = m.logger.With("session", id)
		}
	}

	return m
}

// Init initializes the model and starts the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.loadBestScore()
	m.logger.Info("game started", "seed", m.config.Seed)

	// Start the tick loop
	return tickCmd(m.config.TickRate, m.loopID)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.keyMapper.MapMouseToFrame(msg, &m.inputFrame)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.ID != m.loopID {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.finish(storage.EndQuit)
		m.quitting = true
		return m, tea.Quit
	}

	if key.Matches(msg, m.keyMapper.Game.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	// Back leaves a finished or paused game; otherwise it pauses.
	if m.inputFrame.Has(core.ActionBack) {
		delete(m.inputFrame.Actions, core.ActionBack)
		if m.gameState.GameOver || m.gameState.Paused {
			m.finish(storage.EndQuit)
			m.backToMenu = true
			if m.quitOnBack {
				return m, tea.Quit
			}
			return m, nil
		}
		m.inputFrame.Set(core.ActionPause)
	}

	return m, nil
}

// handleResize processes window resize events.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(resizer); ok {
		r.Resize(msg.Width, msg.Height)
		return m, nil
	}

	// Games without Resize restart at the new size
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	// Restart is handled by the platform: a new seed and a fresh game.
	// Any turn still resolving on the old board is abandoned by Reset.
	if m.inputFrame.Has(core.ActionRestart) {
		m.saveScore()
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.loadBestScore()
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.inputFrame.Clear()
		m.logger.Info("game restarted", "seed", m.config.Seed)
		return m, tickCmd(m.config.TickRate, m.loopID)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// Save score on game over (once)
	if m.gameState.GameOver && !m.scoreSaved {
		m.logger.Info("game over", "score", m.gameState.Score, "moves", m.gameState.MovesUsed)
		m.saveScore()
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate, m.loopID)
}

// saveScore records the current game once. Unfinished classic games are
// not recorded; endless games are recorded whenever the player leaves.
func (m *GameModel) saveScore() {
	if m.scoreSaved || m.gameState.Score <= 0 {
		return
	}
	if !m.gameState.GameOver && !isEndless(m.game.ID()) {
		return
	}
	m.scoreSaved = true

	if m.store == nil {
		return
	}
	_, err := m.store.SaveScore(storage.ScoreEntry{
		GameID:    m.game.ID(),
		Score:     m.gameState.Score,
		MovesUsed: m.gameState.MovesUsed,
		SessionID: m.sessionID,
	})
	if err != nil {
		m.logger.Warn("could not save score", "error", err)
	}
}

// finish saves any pending score, closes the session and releases the game.
func (m *GameModel) finish(reason string) {
	m.saveScore()
	if m.store != nil && m.sessionID != "" {
		if err := m.store.EndSession(m.sessionID, reason); err != nil {
			m.logger.Warn("could not end session", "error", err)
		}
	}
	registry.Release(m.game)
	m.logger.Info("session ended", "reason", reason)
}

// loadBestScore passes the stored high score to games that display it.
func (m *GameModel) loadBestScore() {
	setter, ok := m.game.(bestScoreSetter)
	if !ok || m.store == nil {
		return
	}
	best, err := m.store.HighScore(m.game.ID())
	if err != nil {
		m.logger.Warn("could not load high score", "error", err)
		return
	}
	setter.SetBestScore(best)
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}
	m.logger.Debug("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the last reported game state.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// SessionID returns the id of the play session, or "" without storage.
func (m GameModel) SessionID() string {
	return m.sessionID
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

func isEndless(gameID string) bool {
	return strings.HasSuffix(gameID, "_endless")
}

// Run starts the Bubble Tea program for a single game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewGameModel(game, store, cfg, Options{Logger: logger, QuitOnBack: true})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Clicks select cells
	)

	_, err := p.Run()
	return err
}
