package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	motiondto "parkwatch/internal/modules/motion/dto"
	motionin "parkwatch/internal/modules/motion/port/in"
	"parkwatch/internal/modules/park/domain"
	"parkwatch/internal/modules/park/dto"
	parkin "parkwatch/internal/modules/park/port/in"
	parkout "parkwatch/internal/modules/park/port/out"
	zonedto "parkwatch/internal/modules/zone/dto"
	zonein "parkwatch/internal/modules/zone/port/in"
	"parkwatch/internal/platform/clock"
	apperrors "parkwatch/internal/platform/errors"
	"parkwatch/internal/platform/metrics"
)

// Monitor is the sampling task: each tick it classifies the latest motion
// sample, feeds the detector, and forwards parked events to the sink.
type Monitor struct {
	motion   motionin.Usecase
	zones    zonein.Usecase
	detector *domain.Detector
	sink     parkout.EventSink
	clock    clock.Clock

	stepMu  sync.Mutex
	lastSeq uint64

	statusMu sync.RWMutex
	status   dto.StatusOutput
}

func NewMonitor(motion motionin.Usecase, zones zonein.Usecase, detector *domain.Detector, sink parkout.EventSink, clk clock.Clock) parkin.Usecase {
	return &Monitor{
		motion:   motion,
		zones:    zones,
		detector: detector,
		sink:     sink,
		clock:    clk,
		status:   dto.StatusOutput{ZoneKind: "none", Zone: -1, ZoneName: "none", State: domain.Idle.String()},
	}
}

func (m *Monitor) Step(ctx context.Context) (dto.StatusOutput, error) {
	m.stepMu.Lock()
	defer m.stepMu.Unlock()

	sample, err := m.motion.Latest(ctx)
	if errors.Is(err, apperrors.ErrNoSample) {
		return m.touch(false), nil
	}
	if err != nil {
		return m.touch(false), err
	}
	if sample.Seq == m.lastSeq {
		// Feed is quiet: keep the retained sample and make no transition.
		return m.touch(false), nil
	}
	m.lastSeq = sample.Seq

	class, err := m.zones.Classify(ctx, zonedto.ClassifyInput{X: sample.X, Y: sample.Y})
	if err != nil {
		return m.touch(false), err
	}
	now := m.clock.Now()
	ev, parked := m.detector.Update(domain.Observation{
		InPark: class.IsPark(),
		Zone:   class.Zone,
		Speed:  sample.Speed,
		At:     now,
	})
	status := m.record(sample, class, now)

	if parked {
		metrics.ParkedEvents.WithLabelValues(strconv.Itoa(ev.Zone)).Inc()
		slog.Info("parked", "zone", ev.Zone, "x", sample.X, "y", sample.Y, "speed", sample.Speed)
		if m.sink != nil {
			if err := m.sink.OnParked(ctx, dto.ParkedEvent{Zone: ev.Zone, At: ev.At}); err != nil {
				slog.Warn("parked event not delivered", "zone", ev.Zone, "err", err)
			}
		}
	}
	return status, nil
}

func (m *Monitor) Status(_ context.Context) dto.StatusOutput {
	m.statusMu.RLock()
	defer m.statusMu.RUnlock()
	return m.status
}

func (m *Monitor) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := m.Step(ctx); err != nil {
				slog.Warn("sampling tick failed", "err", err)
			}
		}
	}
}

func (m *Monitor) touch(fresh bool) dto.StatusOutput {
	metrics.SamplingTicks.Inc()
	m.statusMu.Lock()
	defer m.statusMu.Unlock()
	m.status.Fresh = fresh
	m.status.Ticks++
	return m.status
}

func (m *Monitor) record(sample motiondto.SampleOutput, class zonedto.ClassificationOutput, now time.Time) dto.StatusOutput {
	metrics.SamplingTicks.Inc()
	m.statusMu.Lock()
	defer m.statusMu.Unlock()
	m.status = dto.StatusOutput{
		HasSample: true,
		Fresh:     true,
		X:         sample.X,
		Y:         sample.Y,
		Speed:     sample.Speed,
		ZoneKind:  class.Kind,
		Zone:      class.Zone,
		ZoneName:  class.Name,
		State:     m.detector.State().String(),
		WatchZone: m.detector.Zone(),
		Ticks:     m.status.Ticks + 1,
		UpdatedAt: now,
	}
	return m.status
}
