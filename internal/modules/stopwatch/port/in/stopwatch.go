package in

import (
	"context"

	"parkwatch/internal/modules/stopwatch/dto"
)

type Usecase interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (dto.StopOutput, error)
	Reset(ctx context.Context) error
	SetUseExternalClock(ctx context.Context, enabled bool) error
	SetAutoStart(ctx context.Context, enabled bool) error
	Snapshot(ctx context.Context) dto.SnapshotOutput
	// Entries returns the retained log, oldest first.
	Entries(ctx context.Context) []dto.LogEntryOutput
	// Follow streams entries appended after the call until ctx is done.
	Follow(ctx context.Context) <-chan dto.LogEntryOutput
}
