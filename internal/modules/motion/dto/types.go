package dto

import "time"

type ReadingInput struct {
	X        float64
	Y        float64
	VX       float64
	VY       float64
	Stamp    time.Duration
	HasStamp bool
}

// SampleOutput is the last accepted sample. Seq increases by one for every
// accepted reading, so callers can tell a fresh sample from a retained one.
type SampleOutput struct {
	X          float64
	Y          float64
	Speed      float64
	Seq        uint64
	ReceivedAt time.Time
	Stamp      time.Duration
}
