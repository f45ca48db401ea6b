package domain

import (
	"fmt"
	"math"
	"time"

	apperrors "parkwatch/internal/platform/errors"
)

// Reading is one raw update from the motion feed: a planar position, the
// planar linear velocity, and optionally the external (simulation) time at
// which it was produced.
type Reading struct {
	X        float64
	Y        float64
	VX       float64
	VY       float64
	Stamp    time.Duration
	HasStamp bool
}

// Sample is the normalized form of a Reading. Speed is the magnitude of the
// planar velocity and is never negative.
type Sample struct {
	X          float64
	Y          float64
	Speed      float64
	ReceivedAt time.Time
	Stamp      time.Duration
	HasStamp   bool
}

func NewSample(r Reading, receivedAt time.Time) (Sample, error) {
	for _, v := range []float64{r.X, r.Y, r.VX, r.VY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Sample{}, fmt.Errorf("%w: non-finite motion reading", apperrors.ErrInvalidInput)
		}
	}
	if r.HasStamp && r.Stamp < 0 {
		return Sample{}, fmt.Errorf("%w: negative stamp %v", apperrors.ErrInvalidInput, r.Stamp)
	}
	return Sample{
		X:          r.X,
		Y:          r.Y,
		Speed:      math.Hypot(r.VX, r.VY),
		ReceivedAt: receivedAt,
		Stamp:      r.Stamp,
		HasStamp:   r.HasStamp,
	}, nil
}

// StampFromSeconds converts a floating point seconds value, as carried by
// simulation clocks, into a Duration.
func StampFromSeconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
