package in

import (
	"context"

	"parkwatch/internal/modules/motion/dto"
)

type Usecase interface {
	Ingest(ctx context.Context, input dto.ReadingInput) error
	Latest(ctx context.Context) (dto.SampleOutput, error)
	// Follow consumes the configured feed until ctx is done or the feed is
	// exhausted, restarting it after upstream failures.
	Follow(ctx context.Context) error
}
