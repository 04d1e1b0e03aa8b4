package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blocky-arcade/internal/registry"
	"github.com/vovakirdan/blocky-arcade/internal/storage"
)

var (
	flagScoresLimit int
	flagSessions    bool
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores for a game",
	Long: `Display the top high scores for the specified game (default: blocky).

Examples:
  arcade scores
  arcade scores blocky_endless --limit 20
  arcade scores --sessions
  arcade scores blocky --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagSessions, "sessions", false, "List recent play sessions instead of scores")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores for the game")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := "blocky"
	if len(args) > 0 {
		gameID = args[0]
	}

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'arcade list' to see available games.")
		os.Exit(1)
	}
	title := registry.Title(gameID)

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagSessions:
		err = printSessions(store, flagScoresLimit)
	case flagClear:
		err = store.ClearScores(gameID)
		if err == nil {
			fmt.Printf("Cleared scores for %s\n", title)
		}
	default:
		err = printScores(store, gameID, title, flagScoresLimit)
	}
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printScores(store *storage.Store, gameID, title string, limit int) error {
	scores, err := store.TopScores(gameID, limit)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'arcade play %s' to set the first high score!\n", gameID)
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-5s  %-16s  %s\n", "Rank", "Score", "Moves", "Date", "Session")
	fmt.Printf("  %-4s  %-8s  %-5s  %-16s  %s\n", "----", "-----", "-----", "----", "-------")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		session := entry.SessionID
		if session == "" {
			session = "-"
		}
		fmt.Printf("  %-4d  %-8d  %-5d  %-16s  %s\n", i+1, entry.Score, entry.MovesUsed, dateStr, session)
	}

	stats, err := store.GetGameStats(gameID)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Best: %d  Games: %d  Average: %.1f  Avg moves: %.1f\n",
		stats.HighScore, stats.GamesCount, stats.AvgScore, stats.AvgMoves)
	return nil
}

func printSessions(store *storage.Store, limit int) error {
	sessions, err := store.RecentSessions(limit)
	if err != nil {
		return err
	}

	fmt.Println("Recent Sessions")
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}

	fmt.Printf("  %-36s  %-14s  %-10s  %-16s  %-5s  %-5s  %s\n",
		"Session", "Game", "Player", "Started", "Games", "Best", "End")
	for _, s := range sessions {
		end := s.EndReason
		if end == "" {
			end = "open"
		}
		fmt.Printf("  %-36s  %-14s  %-10s  %-16s  %-5d  %-5d  %s\n",
			s.ID, s.GameID, s.Player, s.StartedAt.Local().Format("2006-01-02 15:04"), s.Games, s.BestScore, end)
	}
	return nil
}
