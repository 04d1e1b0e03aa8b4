package engine

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// recorder collects every collaborator notification in call order.
type recorder struct {
	mu       sync.Mutex
	calls    []string
	matches  []int
	events   []Event
	matchErr error
	panicOn  string
}

func (r *recorder) ReportMatch(count int) error {
	r.mu.Lock()
	r.calls = append(r.calls, "match")
	r.matches = append(r.matches, count)
	r.mu.Unlock()
	if r.panicOn == "match" {
		panic("scorer exploded")
	}
	return r.matchErr
}

func (r *recorder) ReportMoveUsed() error {
	r.mu.Lock()
	r.calls = append(r.calls, "move")
	r.mu.Unlock()
	if r.panicOn == "move" {
		panic("mover exploded")
	}
	return nil
}

func (r *recorder) Present(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	if r.panicOn == "present" {
		panic("presenter exploded")
	}
}

func (r *recorder) count(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == kind {
			n++
		}
	}
	return n
}

type turnHarness struct {
	coord *TurnCoordinator
	sched *TickScheduler
	rec   *recorder
	logs  *bytes.Buffer
}

func newTurnHarness(board *Board, minMatch int, src ColorSource) *turnHarness {
	rec := &recorder{}
	sched := NewTickScheduler()
	logs := &bytes.Buffer{}
	logger := log.NewWithOptions(logs, log.Options{Level: log.DebugLevel})

	coord := NewTurnCoordinator(board, Options{
		SettleDelay: time.Second,
		MinMatch:    minMatch,
		Scorer:      rec,
		Mover:       rec,
		Presenter:   rec,
		Scheduler:   sched,
		Colors:      src,
		Logger:      logger,
	})
	return &turnHarness{coord: coord, sched: sched, rec: rec, logs: logs}
}

// Scenario: 2x2 board of one colour, the whole board is one region.
func TestTurnWholeBoardRegion(t *testing.T) {
	h := newTurnHarness(MustParseBoard(5, "GG", "GG"), 1, &seqSource{values: []int{1, 2, 3, 4}})

	if !h.coord.Select(At(0, 0)) {
		t.Fatalf("expected turn to start")
	}
	if h.coord.State() != StateResolving {
		t.Fatalf("expected Resolving, got %v", h.coord.State())
	}

	// Pre-refill: every cell removed.
	if got := h.coord.Snapshot().FilledCount(); got != 0 {
		t.Errorf("expected fully empty board before settle, got %d filled", got)
	}
	if len(h.rec.matches) != 1 || h.rec.matches[0] != 4 {
		t.Errorf("expected ReportMatch(4) once, got %v", h.rec.matches)
	}

	h.sched.Advance(time.Second)

	if h.coord.State() != StateIdle {
		t.Errorf("expected Idle after settle, got %v", h.coord.State())
	}
	want := MustParseBoard(5, "PY", "BK")
	if got := h.coord.Snapshot(); !got.Equal(want) {
		t.Errorf("expected\n%s\ngot\n%s", want, got)
	}
}

// Scenario: 3x1 column G/P/G, selecting the middle removes only it.
func TestTurnColumnSingleton(t *testing.T) {
	h := newTurnHarness(MustParseBoard(5, "G", "P", "G"), 1, &seqSource{values: []int{2}})

	if !h.coord.Select(At(1, 0)) {
		t.Fatalf("expected turn to start")
	}

	removed, ok := h.rec.events[0].(RemovedEvent)
	if !ok {
		t.Fatalf("expected RemovedEvent first, got %T", h.rec.events[0])
	}
	if removed.Region.Len() != 1 || removed.Region.Coords[0] != At(1, 0) {
		t.Errorf("expected region {(1,0)}, got %v", removed.Region.Coords)
	}
	if removed.Region.Color != ColorPurple {
		t.Errorf("expected purple region, got %v", removed.Region.Color)
	}

	h.sched.Advance(time.Second)

	want := MustParseBoard(5, "Y", "G", "G")
	if got := h.coord.Snapshot(); !got.Equal(want) {
		t.Errorf("expected\n%s\ngot\n%s", want, got)
	}

	var moved []MovedEvent
	var refilled []RefilledEvent
	for _, ev := range h.rec.events {
		switch e := ev.(type) {
		case MovedEvent:
			moved = append(moved, e)
		case RefilledEvent:
			refilled = append(refilled, e)
		}
	}
	if len(moved) != 1 || moved[0].Move != (Move{FromRow: 0, ToRow: 1, Col: 0}) {
		t.Errorf("expected one move 0->1, got %+v", moved)
	}
	if moved[0].Cell != Occupied(ColorGreen) {
		t.Errorf("expected moved cell to be green, got %+v", moved[0].Cell)
	}
	if len(refilled) != 1 || refilled[0].Placement.Coord != At(0, 0) {
		t.Errorf("expected refill at row 0 only, got %+v", refilled)
	}
}

// Scenario: no two adjacent cells share a colour, every turn removes one cell.
func TestTurnSingletonsEverywhere(t *testing.T) {
	h := newTurnHarness(MustParseBoard(2,
		"GPG",
		"PGP",
		"GPG",
	), 1, &seqSource{values: []int{0}})

	for _, c := range []Coord{At(0, 0), At(1, 1), At(2, 2)} {
		// Rebuild the checkerboard so each pick is still isolated.
		h.coord.Restart(MustParseBoard(2, "GPG", "PGP", "GPG"))
		if !h.coord.Select(c) {
			t.Fatalf("expected turn to start at %v", c)
		}
		h.sched.Advance(time.Second)
	}

	for i, n := range h.rec.matches {
		if n != 1 {
			t.Errorf("turn %d: expected region of 1, got %d", i, n)
		}
	}
}

// Scenario: selecting an empty cell is a silent no-op.
func TestTurnEmptyCellIgnored(t *testing.T) {
	h := newTurnHarness(MustParseBoard(5, "G.", "GG"), 1, &seqSource{values: []int{0}})

	if got := h.coord.TrySelect(At(0, 1)); got != OutcomeEmptyCell {
		t.Errorf("expected OutcomeEmptyCell, got %v", got)
	}
	if h.coord.State() != StateIdle {
		t.Errorf("expected Idle, got %v", h.coord.State())
	}
	if len(h.rec.calls) != 0 || len(h.rec.events) != 0 {
		t.Errorf("expected no collaborator calls, got %v / %d events", h.rec.calls, len(h.rec.events))
	}
	if h.sched.Pending() != 0 {
		t.Errorf("expected nothing scheduled")
	}
}

func TestTurnBusyIgnored(t *testing.T) {
	h := newTurnHarness(MustParseBoard(5, "GP", "YB"), 1, &seqSource{values: []int{0}})

	if !h.coord.Select(At(0, 0)) {
		t.Fatalf("expected first selection to start a turn")
	}
	before := h.coord.Snapshot()

	if got := h.coord.TrySelect(At(1, 1)); got != OutcomeBusy {
		t.Errorf("expected OutcomeBusy, got %v", got)
	}
	if !h.coord.Snapshot().Equal(before) {
		t.Errorf("busy selection mutated the board")
	}
	if h.rec.count("match") != 1 || h.rec.count("move") != 1 {
		t.Errorf("expected exactly one notification of each kind, got %v", h.rec.calls)
	}
	if h.sched.Pending() != 1 {
		t.Errorf("expected one pending continuation, got %d", h.sched.Pending())
	}

	// The busy selection is not queued.
	h.sched.Advance(time.Second)
	h.sched.Advance(time.Second)
	if h.coord.Turns() != 1 {
		t.Errorf("expected 1 turn, got %d", h.coord.Turns())
	}
}

func TestTurnBusyOutOfBoundsStillPanics(t *testing.T) {
	h := newTurnHarness(MustParseBoard(5, "GP"), 1, &seqSource{values: []int{0}})
	h.coord.Select(At(0, 0))

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for out-of-bounds selection")
		}
	}()
	h.coord.Select(At(4, 4))
}

func TestTurnMinMatch(t *testing.T) {
	board := MustParseBoard(5,
		"GGP",
		"YGP",
	)
	h := newTurnHarness(board, 3, &seqSource{values: []int{0}})

	if h.coord.MinMatch() != 3 {
		t.Fatalf("expected MinMatch 3, got %d", h.coord.MinMatch())
	}
	if got := h.coord.TrySelect(At(0, 2)); got != OutcomeBelowThreshold {
		t.Errorf("expected OutcomeBelowThreshold for region of 2, got %v", got)
	}
	if got := h.coord.TrySelect(At(1, 0)); got != OutcomeBelowThreshold {
		t.Errorf("expected OutcomeBelowThreshold for region of 1, got %v", got)
	}
	if len(h.rec.calls) != 0 {
		t.Errorf("expected no notifications, got %v", h.rec.calls)
	}
	if got := h.coord.TrySelect(At(0, 0)); got != OutcomeStarted {
		t.Errorf("expected region of 3 to start a turn, got %v", got)
	}
}

func TestTurnDefaultMinMatch(t *testing.T) {
	coord := NewTurnCoordinator(NewBoard(1, 1, 1), Options{MinMatch: -4})
	if coord.MinMatch() != 1 {
		t.Errorf("expected MinMatch default 1, got %d", coord.MinMatch())
	}
}

func TestTurnNotificationOrder(t *testing.T) {
	h := newTurnHarness(MustParseBoard(5, "GG", "PY"), 1, &seqSource{values: []int{0}})

	h.coord.Select(At(0, 0))

	if len(h.rec.calls) != 2 || h.rec.calls[0] != "match" || h.rec.calls[1] != "move" {
		t.Fatalf("expected [match move], got %v", h.rec.calls)
	}

	h.sched.Advance(time.Second)

	if _, ok := h.rec.events[len(h.rec.events)-1].(SettledEvent); !ok {
		t.Errorf("expected SettledEvent last, got %T", h.rec.events[len(h.rec.events)-1])
	}
	for _, ev := range h.rec.events {
		if e, ok := ev.(SettledEvent); ok && e.Turn != 1 {
			t.Errorf("expected turn 1, got %d", e.Turn)
		}
	}
}

func TestTurnSettleWaitsForDelay(t *testing.T) {
	h := newTurnHarness(MustParseBoard(5, "G", "P"), 1, &seqSource{values: []int{0}})

	h.coord.Select(At(1, 0))
	h.sched.Advance(999 * time.Millisecond)

	if h.coord.State() != StateResolving {
		t.Fatalf("settled before the delay elapsed")
	}
	if h.coord.Snapshot().Get(At(1, 0)).Filled {
		t.Errorf("removed cell should stay empty during the settle delay")
	}

	h.sched.Advance(time.Millisecond)
	if h.coord.State() != StateIdle {
		t.Errorf("expected Idle after the full delay")
	}
}

func TestTurnCollaboratorFailuresAbsorbed(t *testing.T) {
	testCases := []struct {
		name    string
		setup   func(r *recorder)
		wantLog string
	}{
		{"scorer error", func(r *recorder) { r.matchErr = errors.New("db down") }, "db down"},
		{"scorer panic", func(r *recorder) { r.panicOn = "match" }, "scorer exploded"},
		{"mover panic", func(r *recorder) { r.panicOn = "move" }, "mover exploded"},
		{"presenter panic", func(r *recorder) { r.panicOn = "present" }, "presenter exploded"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTurnHarness(MustParseBoard(5, "GG", "GG"), 1, &seqSource{values: []int{1}})
			tc.setup(h.rec)

			if !h.coord.Select(At(1, 1)) {
				t.Fatalf("expected turn to start")
			}
			h.sched.Advance(time.Second)

			if h.coord.State() != StateIdle {
				t.Errorf("expected Idle, got %v", h.coord.State())
			}
			if got := h.coord.Snapshot().FilledCount(); got != 4 {
				t.Errorf("expected refilled board, got %d filled", got)
			}
			// A panicking scorer must not skip the move report.
			if h.rec.count("move") != 1 {
				t.Errorf("expected move reported once, got %d", h.rec.count("move"))
			}
			if !strings.Contains(h.logs.String(), tc.wantLog) {
				t.Errorf("expected log to mention %q, got:\n%s", tc.wantLog, h.logs.String())
			}
		})
	}
}

func TestTurnRestartCancelsPendingSettle(t *testing.T) {
	h := newTurnHarness(MustParseBoard(5, "GG", "GG"), 1, &seqSource{values: []int{3}})

	h.coord.Select(At(0, 0))
	old := h.coord.Snapshot()

	fresh := MustParseBoard(5, "PY", "BK")
	h.coord.Restart(fresh)

	if h.coord.State() != StateIdle {
		t.Errorf("expected Idle after restart, got %v", h.coord.State())
	}
	if h.sched.Pending() != 0 {
		t.Errorf("expected pending settle to be cancelled, got %d", h.sched.Pending())
	}

	h.sched.Advance(5 * time.Second)

	if got := h.coord.Snapshot(); !got.Equal(MustParseBoard(5, "PY", "BK")) {
		t.Errorf("replacement board was modified:\n%s", got)
	}
	if old.FilledCount() != 0 {
		t.Errorf("expected old board snapshot to stay removed")
	}
	for _, ev := range h.rec.events {
		if _, ok := ev.(SettledEvent); ok {
			t.Errorf("abandoned turn must not settle")
		}
	}

	// New board accepts input immediately.
	if !h.coord.Select(At(0, 0)) {
		t.Errorf("expected new board to accept selection")
	}
}

// A continuation that was already dequeued when Restart ran must not touch
// the new board.
func TestTurnStaleContinuationDropped(t *testing.T) {
	h := newTurnHarness(MustParseBoard(5, "G", "G"), 1, &seqSource{values: []int{4}})
	h.coord.Select(At(0, 0))

	// Capture the generation of the in-flight turn, then replace the board.
	h.coord.mu.Lock()
	gen := h.coord.gen
	h.coord.mu.Unlock()

	fresh := MustParseBoard(5, ".", "P")
	h.coord.Restart(fresh)
	h.coord.settle(gen)

	if got := h.coord.Snapshot(); !got.Equal(MustParseBoard(5, ".", "P")) {
		t.Errorf("stale continuation mutated the replacement board:\n%s", got)
	}
	if !strings.Contains(h.logs.String(), "stale settle") {
		t.Errorf("expected stale continuation to be logged")
	}
}

// Restart from inside a collaborator, before the continuation is scheduled.
func TestTurnRestartDuringNotification(t *testing.T) {
	sched := NewTickScheduler()
	var coord *TurnCoordinator
	fresh := MustParseBoard(5, "PP")

	coord = NewTurnCoordinator(MustParseBoard(5, "GG"), Options{
		SettleDelay: time.Second,
		Scheduler:   sched,
		Colors:      &seqSource{values: []int{0}},
		Mover: moverFunc(func() error {
			coord.Restart(fresh)
			return nil
		}),
	})

	if !coord.Select(At(0, 0)) {
		t.Fatalf("expected turn to start")
	}
	if sched.Pending() != 0 {
		t.Errorf("expected no continuation for an abandoned turn")
	}
	if coord.State() != StateIdle {
		t.Errorf("expected Idle, got %v", coord.State())
	}
	if !coord.Snapshot().Equal(MustParseBoard(5, "PP")) {
		t.Errorf("replacement board was modified")
	}
}

type moverFunc func() error

func (f moverFunc) ReportMoveUsed() error { return f() }

func TestTurnCloseAbandons(t *testing.T) {
	h := newTurnHarness(MustParseBoard(5, "GG"), 1, &seqSource{values: []int{0}})
	h.coord.Select(At(0, 0))

	h.coord.Close()
	h.sched.Advance(time.Second)

	if h.coord.State() != StateIdle {
		t.Errorf("expected Idle after Close")
	}
	if got := h.coord.Snapshot().FilledCount(); got != 0 {
		t.Errorf("expected board to be left as is, got %d filled", got)
	}
}

func TestTurnWithTimerScheduler(t *testing.T) {
	settled := make(chan struct{})
	coord := NewTurnCoordinator(MustParseBoard(5, "GG", "PP"), Options{
		SettleDelay: 5 * time.Millisecond,
		Colors:      &seqSource{values: []int{2}},
		Presenter: PresenterFunc(func(ev Event) {
			if _, ok := ev.(SettledEvent); ok {
				close(settled)
			}
		}),
	})

	if !coord.Select(At(1, 0)) {
		t.Fatalf("expected turn to start")
	}

	select {
	case <-settled:
	case <-time.After(2 * time.Second):
		t.Fatal("turn did not settle")
	}

	want := MustParseBoard(5, "YY", "GG")
	if got := coord.Snapshot(); !got.Equal(want) {
		t.Errorf("expected\n%s\ngot\n%s", want, got)
	}
	if coord.State() != StateIdle {
		t.Errorf("expected Idle")
	}
}

func TestTurnStateStrings(t *testing.T) {
	if StateIdle.String() != "idle" || StateResolving.String() != "resolving" {
		t.Errorf("unexpected state names")
	}
	if OutcomeBusy.String() != "busy" || OutcomeBelowThreshold.String() != "below threshold" {
		t.Errorf("unexpected outcome names")
	}
}
