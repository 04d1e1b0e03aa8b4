package blocky

import "github.com/vovakirdan/blocky-arcade/internal/games/blocky/engine"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateResolving   GameStateType = "resolving"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing.
type Snapshot struct {
	Tick      uint64
	Mode      string
	Score     int
	MovesLeft int // -1 when unlimited
	MovesUsed int
	Turns     uint64
	Cursor    engine.Coord
	Board     [][]int // Colour indices row by row, -1 for empty
	State     GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.gameOver:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	case g.coord.State() == engine.StateResolving:
		state = StateResolving
	}

	return Snapshot{
		Tick:      g.tick,
		Mode:      string(g.mode),
		Score:     g.scores.Score(),
		MovesLeft: g.moves.Left(),
		MovesUsed: g.moves.Used(),
		Turns:     g.coord.Turns(),
		Cursor:    g.cursor,
		Board:     g.coord.Snapshot().ColorGrid(),
		State:     state,
	}
}
