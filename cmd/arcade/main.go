// arcade runs Blocky, a tile-matching puzzle for the terminal.
//
// Usage:
//
//	arcade list              - List available games
//	arcade play <game>       - Play a game
//	arcade menu              - Start menu to pick games interactively
//	arcade serve             - Start SSH server for remote play
//	arcade scores <game>     - Show high scores for a game
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible boards
//	--db <path>           - Set database path (default: ~/.arcade/scores.db)
//	--log-file <path>     - Write logs to a file (play/menu log nowhere by default)
//	--log-level <level>   - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blocky-arcade/internal/games/blocky"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogFile  string
	flagLogLevel string

	// Shared by play and menu
	flagConfig     string
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "Blocky - a tile-matching puzzle in your terminal",
	Long: `Blocky is a tile-matching puzzle for the terminal. Select a block and
every connected block of the same colour disappears; the blocks above fall
down and new blocks fill the gaps. Each removed block scores points, and a
classic game ends when the moves run out.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  serve    - Start SSH server for remote play
  scores   - View high scores

Examples:
  arcade list
  arcade play blocky
  arcade play blocky_endless --seed 42
  arcade menu
  arcade serve --ssh :2222
  arcade scores blocky`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := log.ParseLevel(flagLogLevel); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// newLogger builds the command logger. Interactive commands must not write
// to the terminal they draw on, so without --log-file they get fallback.
// The returned func closes the log file.
func newLogger(prefix string, fallback io.Writer) (*log.Logger, func(), error) {
	w := fallback
	closeFn := func() {}

	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closeFn, nil
}

// applyGameSettings passes CLI settings to games before they are created.
func applyGameSettings(logger *log.Logger, difficulty string) {
	blocky.SetConfigPath(flagConfig)
	blocky.SetDifficultyPreset(difficulty)
	blocky.SetLogger(logger)
}
