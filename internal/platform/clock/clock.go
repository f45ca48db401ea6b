package clock

import (
	"sync"
	"time"
)

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock. The returned value keeps its monotonic
// reading, so differences between two calls are immune to wall clock steps.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// External is a clock whose value is pushed in from outside, typically the
// simulation time carried by the motion feed. It never moves backwards.
type External struct {
	mu  sync.RWMutex
	now time.Time
	set bool
}

// Epoch is the external clock reading before any value arrives, matching
// a simulation that has not published time yet.
var Epoch = time.Unix(0, 0)

func NewExternal() *External {
	return &External{now: Epoch}
}

// Set moves the clock to t. Values earlier than the current reading are ignored.
func (e *External) Set(t time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set && t.Before(e.now) {
		return
	}
	e.now = t
	e.set = true
}

func (e *External) Now() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.now
}

// Synced reports whether the clock has received at least one value.
func (e *External) Synced() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.set
}
