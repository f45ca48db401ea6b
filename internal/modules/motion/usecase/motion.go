package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"parkwatch/internal/modules/motion/domain"
	"parkwatch/internal/modules/motion/dto"
	motionin "parkwatch/internal/modules/motion/port/in"
	motionout "parkwatch/internal/modules/motion/port/out"
	"parkwatch/internal/modules/motion/service"
	apperrors "parkwatch/internal/platform/errors"
	"parkwatch/internal/platform/metrics"
)

const (
	minRestartDelay = 100 * time.Millisecond
	maxRestartDelay = 5 * time.Second
)

type Interactor struct {
	tracker *service.Tracker
	feed    motionout.Feed
	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewInteractor(tracker *service.Tracker, feed motionout.Feed) motionin.Usecase {
	return &Interactor{tracker: tracker, feed: feed, sleep: sleepContext}
}

func (i *Interactor) Ingest(_ context.Context, input dto.ReadingInput) error {
	return i.tracker.Observe(domain.Reading{
		X:        input.X,
		Y:        input.Y,
		VX:       input.VX,
		VY:       input.VY,
		Stamp:    input.Stamp,
		HasStamp: input.HasStamp,
	})
}

func (i *Interactor) Latest(_ context.Context) (dto.SampleOutput, error) {
	s, seq, ok := i.tracker.Latest()
	if !ok {
		return dto.SampleOutput{}, apperrors.ErrNoSample
	}
	return dto.SampleOutput{
		X:          s.X,
		Y:          s.Y,
		Speed:      s.Speed,
		Seq:        seq,
		ReceivedAt: s.ReceivedAt,
		Stamp:      s.Stamp,
	}, nil
}

func (i *Interactor) Follow(ctx context.Context) error {
	if i.feed == nil {
		return fmt.Errorf("%w: no feed configured", apperrors.ErrFeedUnavailable)
	}
	sink := func(r domain.Reading) {
		if err := i.tracker.Observe(r); err != nil {
			slog.Debug("motion reading rejected", "err", err)
		}
	}

	delay := minRestartDelay
	for {
		err := i.feed.Run(ctx, sink)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			slog.Info("motion feed exhausted")
			return nil
		}
		metrics.FeedRestarts.Inc()
		slog.Warn("motion feed failed, keeping last sample", "err", err, "retry_in", delay)
		if err := i.sleep(ctx, delay); err != nil {
			return nil
		}
		delay *= 2
		if delay > maxRestartDelay {
			delay = maxRestartDelay
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
