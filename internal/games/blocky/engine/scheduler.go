package engine

import (
	"sort"
	"sync"
	"time"
)

// CancelFunc stops a scheduled callback. It returns false if the callback
// already ran or was already cancelled.
type CancelFunc func() bool

// Scheduler runs a callback after a delay.
// Implementations must never invoke fn synchronously from After.
type Scheduler interface {
	After(d time.Duration, fn func()) CancelFunc
}

// TimerScheduler runs callbacks on their own goroutine via time.AfterFunc.
type TimerScheduler struct{}

// After schedules fn with time.AfterFunc.
func (TimerScheduler) After(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return t.Stop
}

// TickScheduler is a deterministic scheduler driven by simulated time.
// The game loop calls Advance once per tick; due callbacks run on the
// caller's goroutine in deadline order.
type TickScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []*tickTask
}

type tickTask struct {
	due time.Duration
	seq uint64
	fn  func()
}

// NewTickScheduler creates a scheduler at simulated time zero.
func NewTickScheduler() *TickScheduler {
	return &TickScheduler{}
}

// After schedules fn to run once simulated time has advanced by d.
func (s *TickScheduler) After(d time.Duration, fn func()) CancelFunc {
	if d < 0 {
		d = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	task := &tickTask{due: s.now + d, seq: s.seq, fn: fn}
	s.pending = append(s.pending, task)

	return func() bool {
		return s.remove(task)
	}
}

func (s *TickScheduler) remove(task *tickTask) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.pending {
		if t == task {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves simulated time forward by dt and runs every callback that
// became due. Returns the number of callbacks run.
func (s *TickScheduler) Advance(dt time.Duration) int {
	s.mu.Lock()
	s.now += dt
	due := make([]*tickTask, 0)
	keep := s.pending[:0]
	for _, t := range s.pending {
		if t.due <= s.now {
			due = append(due, t)
		} else {
			keep = append(keep, t)
		}
	}
	s.pending = keep
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})

	// Callbacks run unlocked so they may schedule or cancel.
	for _, t := range due {
		t.fn()
	}
	return len(due)
}

// Pending returns the number of callbacks waiting to run.
func (s *TickScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Now returns the simulated time elapsed since creation.
func (s *TickScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}
