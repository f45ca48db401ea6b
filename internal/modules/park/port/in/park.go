package in

import (
	"context"
	"time"

	"parkwatch/internal/modules/park/dto"
)

type Usecase interface {
	// Step processes the most recent motion sample once.
	Step(ctx context.Context) (dto.StatusOutput, error)
	Status(ctx context.Context) dto.StatusOutput
	// Run calls Step every interval until ctx is done.
	Run(ctx context.Context, interval time.Duration) error
}
