package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/blocky.yaml
var defaultBlockyYAML []byte

// DefaultBlockyConfig returns the default Blocky configuration:
// a 6x5 board, five colours, a one second settle delay and five moves.
func DefaultBlockyConfig() BlockyConfig {
	return BlockyConfig{
		Board: BlockyBoard{
			Rows:   6,
			Cols:   5,
			Colors: 5,
		},
		Turn: BlockyTurn{
			SettleDelay: time.Second,
			MinMatch:    1,
		},
		Scoring: BlockyScoring{
			PointMultiplier: 10,
		},
		Moves: BlockyMoves{
			Budget: 5,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "blocky", "blocky_endless":
		return defaultBlockyYAML
	default:
		return nil
	}
}
