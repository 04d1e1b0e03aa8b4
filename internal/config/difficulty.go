package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed" // Use the loaded config unchanged
)

// ParseDifficulty converts a CLI value to a preset. The empty string is
// accepted and means "no preset".
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// ApplyBlockyPreset modifies the config based on a difficulty preset.
// Fewer colours make larger regions, so the palette is the main lever
// alongside the move budget. An unlimited budget stays unlimited.
func ApplyBlockyPreset(cfg *BlockyConfig, preset DifficultyPreset) {
	unlimited := cfg.Unlimited()

	switch preset {
	case DifficultyEasy:
		cfg.Board.Colors = 4
		cfg.Moves.Budget = 8
		cfg.Turn.MinMatch = 1
	case DifficultyNormal:
		cfg.Board.Colors = 5
		cfg.Moves.Budget = 5
		cfg.Turn.MinMatch = 1
	case DifficultyHard:
		cfg.Board.Colors = 5
		cfg.Moves.Budget = 4
		cfg.Turn.MinMatch = 2
	default:
		return
	}

	if unlimited {
		cfg.Moves.Budget = 0
	}
}
