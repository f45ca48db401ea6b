package domain_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"parkwatch/internal/modules/motion/domain"
	apperrors "parkwatch/internal/platform/errors"
)

func TestNewSampleComputesPlanarSpeed(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	s, err := domain.NewSample(domain.Reading{X: 1, Y: 2, VX: -3, VY: 4}, at)
	if err != nil {
		t.Fatalf("new sample: %v", err)
	}
	if s.Speed != 5 {
		t.Fatalf("expected speed 5, got %g", s.Speed)
	}
	if s.X != 1 || s.Y != 2 || !s.ReceivedAt.Equal(at) {
		t.Fatalf("unexpected sample: %+v", s)
	}
}

func TestNewSampleRejectsNonFinite(t *testing.T) {
	t.Parallel()
	bad := []domain.Reading{
		{X: math.NaN()},
		{Y: math.Inf(1)},
		{VX: math.Inf(-1)},
		{HasStamp: true, Stamp: -time.Second},
	}
	for _, r := range bad {
		if _, err := domain.NewSample(r, time.Time{}); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", r, err)
		}
	}
}

func TestStampFromSeconds(t *testing.T) {
	t.Parallel()
	if got := domain.StampFromSeconds(1080.665); got != 1080*time.Second+665*time.Millisecond {
		t.Fatalf("unexpected stamp %v", got)
	}
}
