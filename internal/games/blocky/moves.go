package blocky

import (
	"errors"
	"sync"
)

// DefaultMoveBudget is the number of moves in a classic game.
const DefaultMoveBudget = 5

// ErrNoMovesLeft is returned when a move is reported on an exhausted budget.
var ErrNoMovesLeft = errors.New("blocky: no moves left")

// MoveBudget counts down the moves of a game.
// It implements engine.MoveReporter. A total of zero or less is unlimited:
// moves are still counted but the budget never runs out.
type MoveBudget struct {
	mu    sync.Mutex
	total int
	left  int
	used  int

	onChange    []func(left int)
	onExhausted []func()
}

// NewMoveBudget creates a budget of total moves.
func NewMoveBudget(total int) *MoveBudget {
	if total < 0 {
		total = 0
	}
	return &MoveBudget{total: total, left: total}
}

// ReportMoveUsed consumes one move. When the last move is used the
// exhausted listeners fire once.
func (m *MoveBudget) ReportMoveUsed() error {
	m.mu.Lock()
	if m.total == 0 {
		m.used++
		m.mu.Unlock()
		return nil
	}
	if m.left == 0 {
		m.mu.Unlock()
		return ErrNoMovesLeft
	}

	m.left--
	m.used++
	left := m.left
	onChange := m.onChange
	var onExhausted []func()
	if left == 0 {
		onExhausted = m.onExhausted
	}
	m.mu.Unlock()

	for _, fn := range onChange {
		fn(left)
	}
	for _, fn := range onExhausted {
		fn()
	}
	return nil
}

// Left returns the remaining moves, or -1 when unlimited.
func (m *MoveBudget) Left() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.total == 0 {
		return -1
	}
	return m.left
}

// Used returns the number of moves played since the last reset.
func (m *MoveBudget) Used() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.used
}

// Total returns the budget size; 0 means unlimited.
func (m *MoveBudget) Total() int {
	return m.total
}

// Unlimited reports whether the budget never runs out.
func (m *MoveBudget) Unlimited() bool {
	return m.total == 0
}

// Exhausted reports whether no moves are left.
func (m *MoveBudget) Exhausted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total > 0 && m.left == 0
}

// Reset refills the budget and notifies change listeners.
func (m *MoveBudget) Reset() {
	m.mu.Lock()
	m.left = m.total
	m.used = 0
	left := m.left
	onChange := m.onChange
	m.mu.Unlock()

	for _, fn := range onChange {
		fn(left)
	}
}

// OnChange registers fn to be called with the remaining moves after each change.
func (m *MoveBudget) OnChange(fn func(left int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

// OnExhausted registers fn to be called when the last move is used.
func (m *MoveBudget) OnExhausted(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExhausted = append(m.onExhausted, fn)
}
