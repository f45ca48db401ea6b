package domain

import (
	"fmt"
	"time"
)

// DefaultSpeedThreshold is the speed below which a robot inside a park zone
// counts as stopped. It sits above zero so sensor noise at a standstill
// still reads as stopped.
const DefaultSpeedThreshold = 0.0005

type State int

const (
	Idle State = iota
	Candidate
	Confirmed
)

func (s State) String() string {
	switch s {
	case Candidate:
		return "candidate"
	case Confirmed:
		return "confirmed"
	default:
		return "idle"
	}
}

// Observation is one classified sample. Zone is only read when InPark is true.
type Observation struct {
	InPark bool
	Zone   int
	Speed  float64
	At     time.Time
}

type EventKind int

const (
	EventParked EventKind = iota + 1
)

// Event is emitted once per confirmed parking episode.
type Event struct {
	Kind EventKind
	Zone int
	At   time.Time
}

// Detector turns classified samples into debounced parked events. It is not
// safe for concurrent use; the sampling task owns it.
type Detector struct {
	threshold float64
	state     State
	zone      int
}

func NewDetector(threshold float64) (*Detector, error) {
	if !(threshold > 0) {
		return nil, fmt.Errorf("speed threshold must be positive, got %g", threshold)
	}
	return &Detector{threshold: threshold}, nil
}

func (d *Detector) State() State { return d.state }

// Zone returns the park zone being watched, or 0 when idle.
func (d *Detector) Zone() int {
	if d.state == Idle {
		return 0
	}
	return d.zone
}

func (d *Detector) Threshold() float64 { return d.threshold }

// Update advances the state machine. The event is valid only when ok is true.
func (d *Detector) Update(o Observation) (Event, bool) {
	if !o.InPark {
		d.Reset()
		return Event{}, false
	}
	if d.state == Idle || d.zone != o.Zone {
		// Entering a park zone, or sliding straight into a neighbouring bay,
		// starts a new episode.
		d.state = Candidate
		d.zone = o.Zone
	}
	if d.state == Candidate && o.Speed < d.threshold {
		d.state = Confirmed
		return Event{Kind: EventParked, Zone: d.zone, At: o.At}, true
	}
	return Event{}, false
}

// Reset forgets any episode in progress.
func (d *Detector) Reset() {
	d.state = Idle
	d.zone = 0
}
