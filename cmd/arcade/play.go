package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blocky-arcade/internal/config"
	"github.com/vovakirdan/blocky-arcade/internal/core"
	"github.com/vovakirdan/blocky-arcade/internal/games/blocky"
	"github.com/vovakirdan/blocky-arcade/internal/platform/tui"
	"github.com/vovakirdan/blocky-arcade/internal/registry"
	"github.com/vovakirdan/blocky-arcade/internal/storage"
)

var flagMode string

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a game",
	Long: `Start playing the specified game (default: blocky).

Controls:
  Arrows/WASD    - Move the cursor
  Space/Enter    - Select the block under the cursor
  Mouse click    - Select the clicked block
  P              - Pause
  R              - Restart
  Esc            - Pause, or leave when paused or game over
  Ctrl+S         - Save a screenshot to ~/.arcade/screenshots
  Q/Ctrl+C       - Quit

Difficulty options (a selector is shown when omitted):
  easy   - 4 colours, 8 moves
  normal - 5 colours, 5 moves
  hard   - 5 colours, 4 moves, regions of 2 or more only
  fixed  - Use the config file unchanged

Examples:
  arcade play
  arcade play blocky --difficulty easy
  arcade play blocky --mode endless
  arcade play blocky --seed 42
  arcade play blocky --config ./my-blocky.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Game mode: classic or endless")
}

// terminalConfig builds the runtime config from the terminal size and flags.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// resolveGameID applies --mode to a game id.
func resolveGameID(gameID, mode string) (string, error) {
	switch blocky.Mode(mode) {
	case "":
		return gameID, nil
	case blocky.ModeClassic:
		if gameID == "blocky_endless" {
			return "blocky", nil
		}
		return gameID, nil
	case blocky.ModeEndless:
		if gameID == "blocky" {
			return "blocky_endless", nil
		}
		return gameID, nil
	}
	return "", fmt.Errorf("unknown mode %q (want classic or endless)", mode)
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := "blocky"
	if len(args) > 0 {
		gameID = args[0]
	}

	gameID, err := resolveGameID(gameID, flagMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'arcade list' to see available games.")
		os.Exit(1)
	}

	difficulty, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger("blocky", io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cfg := terminalConfig()

	// Show the difficulty selector unless a preset was given
	if difficulty == "" {
		difficulty, err = tui.RunDifficultySelector(registry.Title(gameID), cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		// User pressed back or quit
		if difficulty == "" {
			return
		}
	}

	applyGameSettings(logger, string(difficulty))

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("playing without score storage", "error", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(game, store, cfg, logger)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		closeLog()
		os.Exit(1)
	}
}
