package engine

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// TurnState is the coordinator's input-lock state.
type TurnState int

const (
	StateIdle      TurnState = iota // Accepting selections
	StateResolving                  // A turn is in flight, input is locked
)

// String returns a human-readable name for the state.
func (s TurnState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	default:
		return "unknown"
	}
}

// SelectOutcome describes what a selection did.
// Only OutcomeStarted changes anything; the others are silent no-ops.
type SelectOutcome int

const (
	OutcomeStarted        SelectOutcome = iota // A turn started
	OutcomeBusy                                // Ignored: a turn is already resolving
	OutcomeEmptyCell                           // Ignored: the selected cell is empty
	OutcomeBelowThreshold                      // Ignored: region smaller than MinMatch
)

// String returns a human-readable name for the outcome.
func (o SelectOutcome) String() string {
	switch o {
	case OutcomeStarted:
		return "started"
	case OutcomeBusy:
		return "busy"
	case OutcomeEmptyCell:
		return "empty cell"
	case OutcomeBelowThreshold:
		return "below threshold"
	default:
		return "unknown"
	}
}

// ScoreReporter is told how many cells each turn removed.
// It owns the scoring formula; the engine passes the raw count.
type ScoreReporter interface {
	ReportMatch(count int) error
}

// MoveReporter is told once per turn that a move was consumed.
type MoveReporter interface {
	ReportMoveUsed() error
}

// Options configures a TurnCoordinator. Zero values get defaults.
type Options struct {
	SettleDelay time.Duration // Pause between removal and gravity/refill
	MinMatch    int           // Smallest region that resolves a turn (default 1)

	Scorer    ScoreReporter // Optional
	Mover     MoveReporter  // Optional
	Presenter Presenter     // Optional

	Scheduler Scheduler   // Default TimerScheduler
	Colors    ColorSource // Refill randomness, default time-seeded math/rand
	Logger    *log.Logger // Default discards
}

// TurnCoordinator sequences a turn: match, removal, notification, settle
// delay, gravity, refill. The Resolving state locks out further selections
// until the turn completes; the coordinator is the only writer of its board.
type TurnCoordinator struct {
	mu     sync.Mutex
	board  *Board
	opts   Options
	logger *log.Logger

	state  TurnState
	turn   uint64     // Turns started on any board
	gen    uint64     // Incremented when the board is replaced
	cancel CancelFunc // Pending settle continuation, if any
}

// NewTurnCoordinator creates an idle coordinator that owns board.
func NewTurnCoordinator(board *Board, opts Options) *TurnCoordinator {
	if opts.MinMatch < 1 {
		opts.MinMatch = 1
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	}
	if opts.Scheduler == nil {
		opts.Scheduler = TimerScheduler{}
	}
	if opts.Colors == nil {
		opts.Colors = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &TurnCoordinator{
		board:  board,
		opts:   opts,
		logger: logger,
		state:  StateIdle,
	}
}

// Select handles a selection of c. Returns true if a turn started.
func (t *TurnCoordinator) Select(c Coord) bool {
	return t.TrySelect(c) == OutcomeStarted
}

// TrySelect handles a selection of c and reports why it was accepted or
// ignored. Panics with *OutOfBoundsError if c is off the board.
func (t *TurnCoordinator) TrySelect(c Coord) SelectOutcome {
	region, turn, gen, outcome := t.begin(c)
	if outcome != OutcomeStarted {
		t.logger.Debug("selection ignored", "coord", c, "reason", outcome)
		return outcome
	}

	t.logger.Debug("turn started", "turn", turn, "coord", c, "color", region.Color, "removed", region.Len())

	t.present(RemovedEvent{Turn: turn, Region: region})

	// Score before moves. Failures are logged and never stop the turn.
	if t.opts.Scorer != nil {
		t.notify("ReportMatch", func() error { return t.opts.Scorer.ReportMatch(region.Len()) })
	}
	if t.opts.Mover != nil {
		t.notify("ReportMoveUsed", t.opts.Mover.ReportMoveUsed)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		// Board was replaced while collaborators were notified.
		t.logger.Debug("turn abandoned before settle", "turn", turn)
		return outcome
	}
	t.cancel = t.opts.Scheduler.After(t.opts.SettleDelay, func() {
		t.settle(gen)
	})

	return outcome
}

// begin validates a selection and, if accepted, clears the region and
// enters Resolving.
func (t *TurnCoordinator) begin(c Coord) (Region, uint64, uint64, SelectOutcome) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateIdle {
		// Still bounds-checked: a bad coordinate is a caller bug in any state.
		t.board.index(c)
		return Region{}, 0, 0, OutcomeBusy
	}
	if !t.board.Get(c).Filled {
		return Region{}, 0, 0, OutcomeEmptyCell
	}

	region := FindRegion(t.board, c)
	if region.Len() < t.opts.MinMatch {
		return Region{}, 0, 0, OutcomeBelowThreshold
	}

	for _, rc := range region.Coords {
		t.board.Set(rc, Empty())
	}
	t.state = StateResolving
	t.turn++

	return region, t.turn, t.gen, OutcomeStarted
}

// settle is the continuation scheduled after the settle delay.
func (t *TurnCoordinator) settle(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.state != StateResolving {
		t.mu.Unlock()
		t.logger.Debug("stale settle continuation dropped", "generation", gen)
		return
	}

	moves := Collapse(t.board)
	placements := Refill(t.board, t.opts.Colors)

	events := make([]Event, 0, len(moves)+len(placements)+1)
	for _, m := range moves {
		events = append(events, MovedEvent{Turn: t.turn, Move: m, Cell: t.board.Get(m.To())})
	}
	for _, p := range placements {
		events = append(events, RefilledEvent{Turn: t.turn, Placement: p})
	}
	events = append(events, SettledEvent{Turn: t.turn})

	t.state = StateIdle
	t.cancel = nil
	turn := t.turn
	t.mu.Unlock()

	t.logger.Debug("turn settled", "turn", turn, "moves", len(moves), "refilled", len(placements))

	for _, ev := range events {
		t.present(ev)
	}
}

// Restart replaces the board and returns to Idle. A turn in flight on the
// old board is abandoned without touching either board.
func (t *TurnCoordinator) Restart(board *Board) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.abandon()
	t.board = board
}

// Close abandons any in-flight turn. The board is left as it is.
func (t *TurnCoordinator) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.abandon()
}

func (t *TurnCoordinator) abandon() {
	if t.cancel != nil {
		if t.cancel() {
			t.logger.Debug("pending settle cancelled", "turn", t.turn)
		}
		t.cancel = nil
	}
	t.gen++
	t.state = StateIdle
}

// State returns the current turn state.
func (t *TurnCoordinator) State() TurnState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Turns returns how many turns have started since creation.
func (t *TurnCoordinator) Turns() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.turn
}

// MinMatch returns the configured minimum region size.
func (t *TurnCoordinator) MinMatch() int {
	return t.opts.MinMatch
}

// Snapshot returns a copy of the board. During Resolving the copy shows the
// removed cells as empty.
func (t *TurnCoordinator) Snapshot() *Board {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.board.Clone()
}

// Dimensions returns the size of the current board.
func (t *TurnCoordinator) Dimensions() (rows, cols int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.board.Dimensions()
}

// present delivers ev to the presenter, absorbing panics.
func (t *TurnCoordinator) present(ev Event) {
	if t.opts.Presenter == nil {
		return
	}
	t.notify("Present", func() error {
		t.opts.Presenter.Present(ev)
		return nil
	})
}

// notify runs a collaborator callback. Errors and panics are logged and
// swallowed so the board can never stick half-resolved.
func (t *TurnCoordinator) notify(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("collaborator panicked", "callback", name, "panic", fmt.Sprint(r))
		}
	}()
	if err := fn(); err != nil {
		t.logger.Warn("collaborator failed", "callback", name, "error", err)
	}
}
