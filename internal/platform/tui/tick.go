// Package tui provides the Bubble Tea integration for the arcade platform.
// It handles the terminal UI loop, input mapping, session tracking and the
// SSH server.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
// ID identifies the tick loop that produced it.
type TickMsg struct {
	Time time.Time
	ID   uint64
}

var lastLoopID atomic.Uint64

// newLoopID returns an id for a new tick loop. Ticks from a loop that was
// replaced (a previous game on the same connection) are ignored.
func newLoopID() uint64 {
	return lastLoopID.Add(1)
}

// tickCmd returns a Bubble Tea command that sends a tick message at the specified rate.
func tickCmd(tickRate int, id uint64) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, ID: id}
	})
}
