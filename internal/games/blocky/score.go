package blocky

import (
	"fmt"
	"sync"
)

// DefaultPointMultiplier is the number of points per removed block.
const DefaultPointMultiplier = 10

// ScoreKeeper accumulates points for removed blocks.
// It implements engine.ScoreReporter.
type ScoreKeeper struct {
	mu         sync.Mutex
	multiplier int
	score      int
	listeners  []func(score int)
}

// NewScoreKeeper creates a score keeper awarding multiplier points per block.
func NewScoreKeeper(multiplier int) *ScoreKeeper {
	return &ScoreKeeper{multiplier: multiplier}
}

// ReportMatch adds count × multiplier points.
func (s *ScoreKeeper) ReportMatch(count int) error {
	if count < 0 {
		return fmt.Errorf("blocky: negative match count %d", count)
	}

	s.mu.Lock()
	s.score += count * s.multiplier
	score := s.score
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(score)
	}
	return nil
}

// Score returns the current score.
func (s *ScoreKeeper) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Reset sets the score back to zero and notifies listeners.
func (s *ScoreKeeper) Reset() {
	s.mu.Lock()
	s.score = 0
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(0)
	}
}

// OnChange registers fn to be called with the new score after every change.
func (s *ScoreKeeper) OnChange(fn func(score int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
