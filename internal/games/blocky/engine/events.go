package engine

// Event is a board change reported to the presentation layer.
type Event interface {
	turnEvent()
}

// RemovedEvent is emitted once per turn after the matched region was cleared.
type RemovedEvent struct {
	Turn   uint64
	Region Region
}

func (RemovedEvent) turnEvent() {}

// MovedEvent is emitted for each block that fell during gravity.
type MovedEvent struct {
	Turn uint64
	Move Move
	Cell Cell // The block now at Move.To()
}

func (MovedEvent) turnEvent() {}

// RefilledEvent is emitted for each new block placed by refill.
type RefilledEvent struct {
	Turn      uint64
	Placement Placement
}

func (RefilledEvent) turnEvent() {}

// SettledEvent is emitted when a turn finished and input is accepted again.
type SettledEvent struct {
	Turn uint64
}

func (SettledEvent) turnEvent() {}

// Presenter receives board change events, e.g. to place or animate visuals.
type Presenter interface {
	Present(ev Event)
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(ev Event)

// Present calls f(ev).
func (f PresenterFunc) Present(ev Event) {
	f(ev)
}
