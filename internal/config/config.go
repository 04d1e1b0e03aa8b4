// Package config provides YAML-based game configuration loading and
// difficulty presets for the arcade platform.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Palette limits for the block colours. Mirrors the engine palette size.
const (
	MinColors = 1
	MaxColors = 5
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// BlockyConfig contains all configuration for the Blocky game.
type BlockyConfig struct {
	Board   BlockyBoard   `yaml:"board"`
	Turn    BlockyTurn    `yaml:"turn"`
	Scoring BlockyScoring `yaml:"scoring"`
	Moves   BlockyMoves   `yaml:"moves"`
}

// BlockyBoard defines the board shape and palette.
type BlockyBoard struct {
	Rows   int `yaml:"rows"`
	Cols   int `yaml:"cols"`
	Colors int `yaml:"colors"` // Number of palette entries in play
}

// BlockyTurn defines turn resolution parameters.
type BlockyTurn struct {
	SettleDelay time.Duration `yaml:"settle_delay"` // e.g. "1s", "750ms"
	MinMatch    int           `yaml:"min_match"`    // Smallest region that can be removed
}

// BlockyScoring defines how removed blocks turn into points.
type BlockyScoring struct {
	PointMultiplier int `yaml:"point_multiplier"` // Points per removed block
}

// BlockyMoves defines the move budget.
type BlockyMoves struct {
	Budget int `yaml:"budget"` // Moves per game; 0 or less means unlimited
}

// Validate checks that the configuration describes a playable game.
func (c BlockyConfig) Validate() error {
	switch {
	case c.Board.Rows <= 0 || c.Board.Cols <= 0:
		return fmt.Errorf("%w: board must be at least 1x1, got %dx%d", ErrInvalidConfig, c.Board.Rows, c.Board.Cols)
	case c.Board.Colors < MinColors || c.Board.Colors > MaxColors:
		return fmt.Errorf("%w: colors must be in [%d, %d], got %d", ErrInvalidConfig, MinColors, MaxColors, c.Board.Colors)
	case c.Turn.SettleDelay < 0:
		return fmt.Errorf("%w: settle_delay must not be negative, got %v", ErrInvalidConfig, c.Turn.SettleDelay)
	case c.Turn.MinMatch < 1:
		return fmt.Errorf("%w: min_match must be at least 1, got %d", ErrInvalidConfig, c.Turn.MinMatch)
	case c.Scoring.PointMultiplier < 0:
		return fmt.Errorf("%w: point_multiplier must not be negative, got %d", ErrInvalidConfig, c.Scoring.PointMultiplier)
	}
	return nil
}

// Unlimited reports whether the move budget is disabled.
func (c BlockyConfig) Unlimited() bool {
	return c.Moves.Budget <= 0
}
