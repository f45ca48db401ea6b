package usecase

import (
	"context"

	"parkwatch/internal/modules/stopwatch/domain"
	"parkwatch/internal/modules/stopwatch/dto"
	stopwatchin "parkwatch/internal/modules/stopwatch/port/in"
	stopwatchout "parkwatch/internal/modules/stopwatch/port/out"
	"parkwatch/internal/modules/stopwatch/service"
)

type Interactor struct {
	ctrl *service.Controller
	log  stopwatchout.LogSource
}

func NewInteractor(ctrl *service.Controller, log stopwatchout.LogSource) stopwatchin.Usecase {
	return &Interactor{ctrl: ctrl, log: log}
}

func (i *Interactor) Start(ctx context.Context) error {
	return i.ctrl.RequestStart(ctx)
}

func (i *Interactor) Stop(ctx context.Context) (dto.StopOutput, error) {
	elapsed, stopped := i.ctrl.RequestStop(ctx)
	return dto.StopOutput{Stopped: stopped, Elapsed: elapsed}, nil
}

func (i *Interactor) Reset(ctx context.Context) error {
	i.ctrl.RequestReset(ctx)
	return nil
}

func (i *Interactor) SetUseExternalClock(_ context.Context, enabled bool) error {
	i.ctrl.SetUseExternalClock(enabled)
	return nil
}

func (i *Interactor) SetAutoStart(_ context.Context, enabled bool) error {
	i.ctrl.SetAutoStart(enabled)
	return nil
}

func (i *Interactor) Snapshot(_ context.Context) dto.SnapshotOutput {
	return i.ctrl.Snapshot()
}

func (i *Interactor) Entries(_ context.Context) []dto.LogEntryOutput {
	if i.log == nil {
		return nil
	}
	recent := i.log.Recent()
	out := make([]dto.LogEntryOutput, 0, len(recent))
	for _, entry := range recent {
		out = append(out, toOutput(entry))
	}
	return out
}

func (i *Interactor) Follow(ctx context.Context) <-chan dto.LogEntryOutput {
	out := make(chan dto.LogEntryOutput, 16)
	if i.log == nil {
		close(out)
		return out
	}
	in := i.log.Subscribe(ctx)
	go func() {
		defer close(out)
		for entry := range in {
			select {
			case out <- toOutput(entry):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func toOutput(entry domain.LogEntry) dto.LogEntryOutput {
	return dto.LogEntryOutput{
		At:      entry.At,
		Kind:    entry.Kind.String(),
		Message: entry.Message,
		Zone:    entry.Zone,
		Elapsed: entry.Elapsed,
	}
}
