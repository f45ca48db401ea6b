package out

import (
	"context"

	"parkwatch/internal/modules/motion/domain"
)

// Feed delivers readings to sink until ctx is cancelled. A nil return with
// a live ctx means the feed has no more readings.
type Feed interface {
	Run(ctx context.Context, sink func(domain.Reading)) error
}
