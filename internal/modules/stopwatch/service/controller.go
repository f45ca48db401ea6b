package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	parkdto "parkwatch/internal/modules/park/dto"
	"parkwatch/internal/modules/stopwatch/domain"
	"parkwatch/internal/modules/stopwatch/dto"
	stopwatchout "parkwatch/internal/modules/stopwatch/port/out"
	"parkwatch/internal/platform/clock"
	apperrors "parkwatch/internal/platform/errors"
	"parkwatch/internal/platform/metrics"
)

const DefaultCommanderTimeout = 2 * time.Second

type Options struct {
	UseExternalClock bool
	AutoStart        bool
	CommanderTimeout time.Duration
}

// Controller owns the session state and both stopwatches. Mutating calls
// are serialized by mu; Snapshot only reads atomics and the stopwatches.
type Controller struct {
	wall      *domain.Stopwatch
	external  *domain.Stopwatch
	synced    func() bool
	now       clock.Clock
	commander stopwatchout.Commander
	sink      stopwatchout.LogSink
	timeout   time.Duration

	mu          sync.Mutex
	active      atomic.Bool
	useExternal atomic.Bool
	autoStart   atomic.Bool
}

// NewController builds a controller timing against wall and external.
// Log timestamps come from wall. A nil commander makes every
// acknowledged start fail.
func NewController(wall, external clock.Clock, commander stopwatchout.Commander, sink stopwatchout.LogSink, opts Options) *Controller {
	if opts.CommanderTimeout <= 0 {
		opts.CommanderTimeout = DefaultCommanderTimeout
	}
	c := &Controller{
		wall:      domain.NewStopwatch("wall", wall),
		external:  domain.NewStopwatch("external", external),
		synced:    func() bool { return true },
		now:       wall,
		commander: commander,
		sink:      sink,
		timeout:   opts.CommanderTimeout,
	}
	if s, ok := external.(interface{ Synced() bool }); ok {
		c.synced = s.Synced
	}
	c.useExternal.Store(opts.UseExternalClock)
	c.autoStart.Store(opts.AutoStart)
	return c
}

func (c *Controller) RequestStart(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active.Load() {
		return nil
	}

	acknowledged := false
	if c.autoStart.Load() {
		if err := c.acknowledge(ctx); err != nil {
			return err
		}
		acknowledged = true
	}

	c.wall.Start()
	c.external.Start()
	c.active.Store(true)
	metrics.SessionActive.Set(1)
	c.emit(domain.StartedEntry(c.now.Now(), acknowledged))
	return nil
}

// acknowledge runs the commander round trip under the configured timeout.
// Any failure is logged and returned wrapping ErrCommandFailed.
func (c *Controller) acknowledge(ctx context.Context) error {
	if c.commander == nil {
		return c.failStart("commander not configured", nil)
	}
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ok, message, err := c.commander.RequestStart(callCtx)
	switch {
	case err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded):
		return c.failStart(fmt.Sprintf("no answer within %s", c.timeout), apperrors.ErrCommanderTimeout)
	case err != nil:
		return c.failStart(err.Error(), err)
	case !ok:
		if message == "" {
			message = "start refused"
		}
		return c.failStart(message, nil)
	}
	return nil
}

func (c *Controller) failStart(reason string, cause error) error {
	metrics.CommanderFailures.Inc()
	c.emit(domain.CommandFailedEntry(c.now.Now(), reason))
	if cause != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrCommandFailed, cause)
	}
	return fmt.Errorf("%w: %s", apperrors.ErrCommandFailed, reason)
}

// RequestStop ends the interval and returns the authoritative elapsed.
// stopped is false when no interval was active.
func (c *Controller) RequestStop(_ context.Context) (elapsed time.Duration, stopped bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active.Load() {
		return c.authoritative(), false
	}
	elapsed = c.finish(domain.TriggerManual)
	c.emit(domain.StoppedEntry(c.now.Now(), elapsed))
	return elapsed, true
}

func (c *Controller) RequestReset(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wall.Reset()
	c.external.Reset()
	c.active.Store(false)
	metrics.SessionActive.Set(0)
}

// OnParked ends the interval on a confirmed parking episode. Events that
// arrive while no interval is active are dropped without a log entry.
func (c *Controller) OnParked(_ context.Context, event parkdto.ParkedEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active.Load() {
		return nil
	}
	elapsed := c.finish(domain.TriggerParked)
	c.emit(domain.ParkedEntry(c.now.Now(), event.Zone, elapsed))
	return nil
}

func (c *Controller) finish(trigger domain.Trigger) time.Duration {
	wall := c.wall.Stop()
	external := c.external.Stop()
	c.active.Store(false)
	metrics.SessionActive.Set(0)

	elapsed := wall
	if c.useExternal.Load() {
		elapsed = external
	}
	metrics.IntervalsRecorded.WithLabelValues(string(trigger)).Observe(elapsed.Seconds())
	return elapsed
}

func (c *Controller) SetUseExternalClock(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.useExternal.Swap(enabled) == enabled || enabled {
		return
	}
	at := c.now.Now()
	c.emit(domain.NoticeEntry(at, "external clock disabled, recording wall time"))
	c.emit(domain.NoticeEntry(at, "wall time may drift from the simulation under load"))
}

func (c *Controller) SetAutoStart(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoStart.Store(enabled)
}

// Append forwards an entry that did not originate from a transition,
// such as the startup notice.
func (c *Controller) Append(entry domain.LogEntry) {
	c.emit(entry)
}

// Session reads the current flags without taking the transition lock.
func (c *Controller) Session() domain.Session {
	return domain.Session{
		Active:           c.active.Load(),
		UseExternalClock: c.useExternal.Load(),
		AutoStartEnabled: c.autoStart.Load(),
	}
}

func (c *Controller) Snapshot() dto.SnapshotOutput {
	s := c.Session()
	return dto.SnapshotOutput{
		Active:           s.Active,
		UseExternalClock: s.UseExternalClock,
		AutoStartEnabled: s.AutoStartEnabled,
		WallElapsed:      c.wall.Elapsed(),
		ExternalElapsed:  c.external.Elapsed(),
		ExternalSynced:   c.synced(),
	}
}

func (c *Controller) authoritative() time.Duration {
	return c.Session().Authoritative(c.wall.Elapsed(), c.external.Elapsed())
}

func (c *Controller) emit(entry domain.LogEntry) {
	if c.sink != nil {
		c.sink.Append(entry)
	}
}
