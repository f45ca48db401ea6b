package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	parkdto "parkwatch/internal/modules/park/dto"
	"parkwatch/internal/modules/stopwatch/domain"
	stopwatchout "parkwatch/internal/modules/stopwatch/port/out"
	"parkwatch/internal/modules/stopwatch/service"
	"parkwatch/internal/platform/clock"
	apperrors "parkwatch/internal/platform/errors"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (m *manualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualClock) advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

type recordingSink struct {
	mu      sync.Mutex
	entries []domain.LogEntry
}

func (s *recordingSink) Append(entry domain.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

func (s *recordingSink) snapshot() []domain.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.LogEntry(nil), s.entries...)
}

func (s *recordingSink) count(kind domain.EntryKind) int {
	n := 0
	for _, e := range s.snapshot() {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

type fakeCommander struct {
	ok      bool
	message string
	err     error
	block   bool
	calls   int
}

func (f *fakeCommander) RequestStart(ctx context.Context) (bool, string, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return false, "", ctx.Err()
	}
	return f.ok, f.message, f.err
}

type harness struct {
	ctrl     *service.Controller
	wall     *manualClock
	external *clock.External
	sink     *recordingSink
}

func newHarness(commander *fakeCommander, opts service.Options) harness {
	h := harness{
		wall:     &manualClock{now: time.Unix(1_700_000_000, 0)},
		external: clock.NewExternal(),
		sink:     &recordingSink{},
	}
	h.external.Set(time.Unix(0, 0))
	var cmd stopwatchout.Commander
	if commander != nil {
		cmd = commander
	}
	h.ctrl = service.NewController(h.wall, h.external, cmd, h.sink, opts)
	return h
}

func TestRefusedStartKeepsSessionInactive(t *testing.T) {
	t.Parallel()
	h := newHarness(&fakeCommander{ok: false, message: "refused"}, service.Options{AutoStart: true})

	err := h.ctrl.RequestStart(context.Background())
	if !errors.Is(err, apperrors.ErrCommandFailed) {
		t.Fatalf("expected ErrCommandFailed, got %v", err)
	}
	if h.ctrl.Snapshot().Active {
		t.Fatalf("session must stay inactive after a refused start")
	}
	entries := h.sink.snapshot()
	if len(entries) != 1 {
		t.Fatalf("expected exactly one log entry, got %d", len(entries))
	}
	if entries[0].Kind != domain.EntryCommandFailed || !strings.Contains(entries[0].Message, "refused") {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}

func TestStopRecordsExternalElapsed(t *testing.T) {
	t.Parallel()
	h := newHarness(nil, service.Options{UseExternalClock: true})
	ctx := context.Background()

	if err := h.ctrl.RequestStart(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.external.Set(h.external.Now().Add(2345 * time.Millisecond))
	h.wall.advance(9 * time.Second)

	elapsed, stopped := h.ctrl.RequestStop(ctx)
	if !stopped {
		t.Fatalf("expected the interval to stop")
	}
	if elapsed != 2345*time.Millisecond {
		t.Fatalf("expected 2.345s of external time, got %v", elapsed)
	}
	if got := h.sink.count(domain.EntryStopped); got != 1 {
		t.Fatalf("expected exactly one stop entry, got %d", got)
	}
	snap := h.ctrl.Snapshot()
	if snap.Active || snap.WallElapsed != 9*time.Second {
		t.Fatalf("unexpected snapshot after stop: %+v", snap)
	}
}

func TestStopUsesWallClockWhenExternalDisabled(t *testing.T) {
	t.Parallel()
	h := newHarness(nil, service.Options{})
	ctx := context.Background()
	_ = h.ctrl.RequestStart(ctx)
	h.external.Set(h.external.Now().Add(time.Second))
	h.wall.advance(1500 * time.Millisecond)
	elapsed, _ := h.ctrl.RequestStop(ctx)
	if elapsed != 1500*time.Millisecond {
		t.Fatalf("expected wall elapsed, got %v", elapsed)
	}
}

func TestAcknowledgedStartMessage(t *testing.T) {
	t.Parallel()
	cmd := &fakeCommander{ok: true, message: "navigating"}
	h := newHarness(cmd, service.Options{AutoStart: true})
	ctx := context.Background()

	if err := h.ctrl.RequestStart(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := h.ctrl.RequestStart(ctx); err != nil {
		t.Fatalf("second start: %v", err)
	}
	if cmd.calls != 1 {
		t.Fatalf("start while active must not call the commander again, got %d calls", cmd.calls)
	}
	entries := h.sink.snapshot()
	if len(entries) != 1 || entries[0].Kind != domain.EntryStarted || !strings.Contains(entries[0].Message, "nav start") {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestCommanderTimeoutFailsStart(t *testing.T) {
	t.Parallel()
	h := newHarness(&fakeCommander{block: true}, service.Options{AutoStart: true, CommanderTimeout: 20 * time.Millisecond})

	err := h.ctrl.RequestStart(context.Background())
	if !errors.Is(err, apperrors.ErrCommandFailed) || !errors.Is(err, apperrors.ErrCommanderTimeout) {
		t.Fatalf("expected a timed out command failure, got %v", err)
	}
	if h.ctrl.Snapshot().Active {
		t.Fatalf("session must stay inactive after a timeout")
	}
	if got := h.sink.count(domain.EntryCommandFailed); got != 1 {
		t.Fatalf("expected one failure entry, got %d", got)
	}
}

func TestMissingCommanderFailsAcknowledgedStart(t *testing.T) {
	t.Parallel()
	h := newHarness(nil, service.Options{AutoStart: true})
	if err := h.ctrl.RequestStart(context.Background()); !errors.Is(err, apperrors.ErrCommandFailed) {
		t.Fatalf("expected ErrCommandFailed, got %v", err)
	}
	entries := h.sink.snapshot()
	if len(entries) != 1 || !strings.Contains(entries[0].Message, "commander not configured") {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestParkedEventWhileInactiveIsIgnored(t *testing.T) {
	t.Parallel()
	h := newHarness(nil, service.Options{})
	if err := h.ctrl.OnParked(context.Background(), parkdto.ParkedEvent{Zone: 2}); err != nil {
		t.Fatalf("on parked: %v", err)
	}
	if len(h.sink.snapshot()) != 0 {
		t.Fatalf("inactive parked event must not log")
	}
	snap := h.ctrl.Snapshot()
	if snap.Active || snap.WallElapsed != 0 || snap.ExternalElapsed != 0 {
		t.Fatalf("inactive parked event must not touch clocks: %+v", snap)
	}
}

func TestParkedEventStopsActiveInterval(t *testing.T) {
	t.Parallel()
	h := newHarness(nil, service.Options{})
	ctx := context.Background()
	_ = h.ctrl.RequestStart(ctx)
	h.wall.advance(42 * time.Second)

	if err := h.ctrl.OnParked(ctx, parkdto.ParkedEvent{Zone: 3}); err != nil {
		t.Fatalf("on parked: %v", err)
	}
	entries := h.sink.snapshot()
	last := entries[len(entries)-1]
	if last.Kind != domain.EntryParked || last.Zone != 3 || last.Elapsed != 42*time.Second {
		t.Fatalf("unexpected parked entry %+v", last)
	}
	if h.ctrl.Snapshot().Active {
		t.Fatalf("parked event must end the interval")
	}
}

func TestResetDoesNotLog(t *testing.T) {
	t.Parallel()
	h := newHarness(nil, service.Options{})
	ctx := context.Background()
	_ = h.ctrl.RequestStart(ctx)
	h.wall.advance(time.Second)
	h.ctrl.RequestReset(ctx)
	h.ctrl.RequestReset(ctx)

	if got := len(h.sink.snapshot()); got != 1 {
		t.Fatalf("reset must not log, got %d entries", got)
	}
	snap := h.ctrl.Snapshot()
	if snap.Active || snap.WallElapsed != 0 {
		t.Fatalf("reset must clear the session: %+v", snap)
	}
	if _, stopped := h.ctrl.RequestStop(ctx); stopped {
		t.Fatalf("stop after reset must be a no-op")
	}
}

func TestDisablingExternalClockEmitsNotices(t *testing.T) {
	t.Parallel()
	h := newHarness(nil, service.Options{UseExternalClock: true})
	h.ctrl.SetUseExternalClock(true)
	if len(h.sink.snapshot()) != 0 {
		t.Fatalf("re-enabling must not log")
	}
	h.ctrl.SetUseExternalClock(false)
	h.ctrl.SetUseExternalClock(false)
	if got := h.sink.count(domain.EntryNotice); got != 2 {
		t.Fatalf("expected two notices on the first disable, got %d", got)
	}
	if h.ctrl.Snapshot().UseExternalClock {
		t.Fatalf("flag not updated")
	}
}

func TestConcurrentStopAndParkLogOnce(t *testing.T) {
	t.Parallel()
	for i := 0; i < 50; i++ {
		h := newHarness(nil, service.Options{})
		ctx := context.Background()
		_ = h.ctrl.RequestStart(ctx)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.ctrl.RequestStop(ctx)
		}()
		go func() {
			defer wg.Done()
			_ = h.ctrl.OnParked(ctx, parkdto.ParkedEvent{Zone: 1})
		}()
		wg.Wait()

		ended := h.sink.count(domain.EntryStopped) + h.sink.count(domain.EntryParked)
		if ended != 1 {
			t.Fatalf("iteration %d: expected exactly one terminal entry, got %d", i, ended)
		}
	}
}

func TestSnapshotDoesNotBlockDuringCommanderCall(t *testing.T) {
	t.Parallel()
	h := newHarness(&fakeCommander{block: true}, service.Options{AutoStart: true, CommanderTimeout: 200 * time.Millisecond})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.ctrl.RequestStart(context.Background())
	}()

	read := make(chan struct{})
	go func() {
		h.ctrl.Snapshot()
		close(read)
	}()
	select {
	case <-read:
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("snapshot blocked behind the commander call")
	}
	<-done
}

func TestSessionReflectsFlagsAndActivity(t *testing.T) {
	t.Parallel()
	h := newHarness(nil, service.Options{UseExternalClock: true})
	ctx := context.Background()
	if err := h.ctrl.RequestStart(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.ctrl.SetAutoStart(true)
	want := domain.Session{Active: true, UseExternalClock: true, AutoStartEnabled: true}
	if got := h.ctrl.Session(); got != want {
		t.Fatalf("session = %+v, want %+v", got, want)
	}
	h.ctrl.RequestReset(ctx)
	if h.ctrl.Session().Active {
		t.Fatalf("reset must deactivate the session")
	}
}
