package in

import (
	"context"

	stopwatchdto "parkwatch/internal/modules/stopwatch/dto"
	stopwatchin "parkwatch/internal/modules/stopwatch/port/in"
)

type CLIHandler struct {
	usecase stopwatchin.Usecase
}

func NewCLIHandler(usecase stopwatchin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context) error {
	return h.usecase.Start(ctx)
}

func (h CLIHandler) Stop(ctx context.Context) (stopwatchdto.StopOutput, error) {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) error {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) ToggleExternalClock(ctx context.Context) error {
	return h.usecase.SetUseExternalClock(ctx, !h.usecase.Snapshot(ctx).UseExternalClock)
}

func (h CLIHandler) ToggleAutoStart(ctx context.Context) error {
	return h.usecase.SetAutoStart(ctx, !h.usecase.Snapshot(ctx).AutoStartEnabled)
}

func (h CLIHandler) Snapshot(ctx context.Context) stopwatchdto.SnapshotOutput {
	return h.usecase.Snapshot(ctx)
}

func (h CLIHandler) Entries(ctx context.Context) []stopwatchdto.LogEntryOutput {
	return h.usecase.Entries(ctx)
}

func (h CLIHandler) Follow(ctx context.Context) <-chan stopwatchdto.LogEntryOutput {
	return h.usecase.Follow(ctx)
}
