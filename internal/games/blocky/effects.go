package blocky

import "github.com/vovakirdan/blocky-arcade/internal/games/blocky/engine"

// Effect durations in ticks.
const (
	popDuration  = 12 // ~200ms at 60fps
	dropDuration = 6  // ~100ms at 60fps
)

// effects turns engine events into short-lived visual state.
// It is the game's engine.Presenter; events arrive on the Step goroutine
// because the game drives a TickScheduler, so no locking is needed.
type effects struct {
	removed map[engine.Coord]engine.Color // Cleared this turn, shown as ghosts until settle
	popped  map[engine.Coord]int          // Refilled cells, ticks left
	dropped map[engine.Coord]int          // Cells that fell, ticks left

	lastRemoved int    // Size of the most recent region
	turns       uint64 // Last settled turn
}

func newEffects() *effects {
	e := &effects{}
	e.reset()
	return e
}

// Present implements engine.Presenter.
func (e *effects) Present(ev engine.Event) {
	switch ev := ev.(type) {
	case engine.RemovedEvent:
		for _, c := range ev.Region.Coords {
			e.removed[c] = ev.Region.Color
			delete(e.popped, c)
			delete(e.dropped, c)
		}
		e.lastRemoved = ev.Region.Len()
	case engine.MovedEvent:
		delete(e.dropped, ev.Move.From())
		e.dropped[ev.Move.To()] = dropDuration
	case engine.RefilledEvent:
		e.popped[ev.Placement.Coord] = popDuration
	case engine.SettledEvent:
		clear(e.removed)
		e.turns = ev.Turn
	}
}

// step ages the running effects by one tick.
func (e *effects) step() {
	for c, ticks := range e.popped {
		if ticks <= 1 {
			delete(e.popped, c)
		} else {
			e.popped[c] = ticks - 1
		}
	}
	for c, ticks := range e.dropped {
		if ticks <= 1 {
			delete(e.dropped, c)
		} else {
			e.dropped[c] = ticks - 1
		}
	}
}

func (e *effects) reset() {
	e.removed = make(map[engine.Coord]engine.Color)
	e.popped = make(map[engine.Coord]int)
	e.dropped = make(map[engine.Coord]int)
	e.lastRemoved = 0
	e.turns = 0
}
