package service

import (
	"sync"

	"parkwatch/internal/modules/motion/domain"
	"parkwatch/internal/platform/clock"
	"parkwatch/internal/platform/metrics"
)

// Tracker retains the last accepted sample. When the feed drops out the
// previous sample stays in place until a new one arrives.
type Tracker struct {
	clock    clock.Clock
	external *clock.External

	mu     sync.RWMutex
	latest domain.Sample
	seq    uint64
}

// NewTracker returns a tracker that stamps samples with clk and, when
// external is non-nil, pushes reading stamps into it.
func NewTracker(clk clock.Clock, external *clock.External) *Tracker {
	return &Tracker{clock: clk, external: external}
}

func (t *Tracker) Observe(r domain.Reading) error {
	sample, err := domain.NewSample(r, t.clock.Now())
	if err != nil {
		metrics.ReadingsRejected.Inc()
		return err
	}

	t.mu.Lock()
	t.latest = sample
	t.seq++
	t.mu.Unlock()

	if t.external != nil && sample.HasStamp {
		t.external.Set(clock.Epoch.Add(sample.Stamp))
	}
	metrics.ReadingsIngested.Inc()
	return nil
}

// Latest returns the retained sample and its sequence number. ok is false
// until the first reading has been accepted.
func (t *Tracker) Latest() (domain.Sample, uint64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.latest, t.seq, t.seq > 0
}
