package domain

import (
	"sync"
	"time"

	"parkwatch/internal/platform/clock"
)

// Stopwatch accumulates running time against a single time source.
// Elapsed may be read concurrently with the mutating calls.
type Stopwatch struct {
	name   string
	source clock.Clock

	mu          sync.RWMutex
	running     bool
	startedAt   time.Time
	accumulated time.Duration
}

func NewStopwatch(name string, source clock.Clock) *Stopwatch {
	return &Stopwatch{name: name, source: source}
}

func (s *Stopwatch) Name() string { return s.name }

// Start captures the current source time. It is a no-op while running.
func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.startedAt = s.source.Now()
	s.running = true
}

// Stop freezes and returns the elapsed time. Stopping a stopped watch
// returns the frozen value unchanged.
func (s *Stopwatch) Stop() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return s.accumulated
	}
	s.accumulated += s.segment()
	s.running = false
	s.startedAt = time.Time{}
	return s.accumulated
}

func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.startedAt = time.Time{}
	s.accumulated = 0
}

func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return s.accumulated
	}
	return s.accumulated + s.segment()
}

func (s *Stopwatch) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// segment is the live running span; a source that steps backwards yields 0.
func (s *Stopwatch) segment() time.Duration {
	d := s.source.Now().Sub(s.startedAt)
	if d < 0 {
		return 0
	}
	return d
}
