package out

import (
	"context"

	"parkwatch/internal/modules/stopwatch/domain"
)

// Commander asks the robot to begin navigating. ok=false carries the
// refusal reason in message; transport failures are returned as err.
type Commander interface {
	RequestStart(ctx context.Context) (ok bool, message string, err error)
}

// LogSink receives session log entries in emission order.
type LogSink interface {
	Append(entry domain.LogEntry)
}

// LogSource exposes the entries a LogSink has seen.
type LogSource interface {
	Recent() []domain.LogEntry
	Subscribe(ctx context.Context) <-chan domain.LogEntry
}
