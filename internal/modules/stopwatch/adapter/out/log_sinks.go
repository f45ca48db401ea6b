package out

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"parkwatch/internal/modules/stopwatch/domain"
	stopwatchout "parkwatch/internal/modules/stopwatch/port/out"
)

const DefaultRetain = 256

// SlogSink mirrors session entries into the structured log.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return SlogSink{logger: logger}
}

func (s SlogSink) Append(entry domain.LogEntry) {
	attrs := []any{"kind", entry.Kind.String()}
	switch entry.Kind {
	case domain.EntryStopped, domain.EntryParked:
		attrs = append(attrs, "zone", entry.Zone, "elapsed", entry.Elapsed)
	}
	level := slog.LevelInfo
	if entry.Kind == domain.EntryCommandFailed || entry.Kind == domain.EntryNotice {
		level = slog.LevelWarn
	}
	s.logger.Log(context.Background(), level, entry.Message, attrs...)
}

// WriterSink prints one line per entry, for headless runs.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Append(entry domain.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.w, "%s  %-14s %s\n", entry.At.Format("15:04:05.000"), entry.Kind, entry.Message)
}

// Broadcaster retains the most recent entries and fans new ones out to
// subscribers. Slow subscribers miss entries rather than block Append.
type Broadcaster struct {
	mu     sync.Mutex
	retain int
	recent []domain.LogEntry
	subs   map[chan domain.LogEntry]struct{}
}

func NewBroadcaster(retain int) *Broadcaster {
	if retain <= 0 {
		retain = DefaultRetain
	}
	return &Broadcaster{retain: retain, subs: map[chan domain.LogEntry]struct{}{}}
}

func (b *Broadcaster) Append(entry domain.LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recent = append(b.recent, entry)
	if over := len(b.recent) - b.retain; over > 0 {
		b.recent = append(b.recent[:0:0], b.recent[over:]...)
	}
	for ch := range b.subs {
		select {
		case ch <- entry:
		default:
		}
	}
}

func (b *Broadcaster) Recent() []domain.LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.LogEntry(nil), b.recent...)
}

// Subscribe delivers entries appended after the call. The channel is
// closed once ctx is done.
func (b *Broadcaster) Subscribe(ctx context.Context) <-chan domain.LogEntry {
	ch := make(chan domain.LogEntry, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch
}

// Fanout appends every entry to each sink in order.
type Fanout []stopwatchout.LogSink

func (f Fanout) Append(entry domain.LogEntry) {
	for _, sink := range f {
		if sink != nil {
			sink.Append(entry)
		}
	}
}
