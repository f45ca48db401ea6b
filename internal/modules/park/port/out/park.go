package out

import (
	"context"

	"parkwatch/internal/modules/park/dto"
)

// EventSink receives confirmed parking episodes.
type EventSink interface {
	OnParked(ctx context.Context, event dto.ParkedEvent) error
}
