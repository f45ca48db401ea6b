package dto

import "time"

type ParkedEvent struct {
	Zone int
	At   time.Time
}

// StatusOutput is the latest view of the robot for display. Fresh is false
// when the last tick found no new sample and reused the retained one.
type StatusOutput struct {
	HasSample bool
	Fresh     bool
	X         float64
	Y         float64
	Speed     float64
	ZoneKind  string
	Zone      int
	ZoneName  string
	State     string
	WatchZone int
	Ticks     uint64
	UpdatedAt time.Time
}
