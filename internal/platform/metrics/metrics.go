package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Motion metrics
	ReadingsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "parkwatch",
		Subsystem: "motion",
		Name:      "readings_ingested_total",
		Help:      "Total motion readings accepted from the feed",
	})

	ReadingsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "parkwatch",
		Subsystem: "motion",
		Name:      "readings_rejected_total",
		Help:      "Total motion readings rejected as malformed",
	})

	FeedRestarts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "parkwatch",
		Subsystem: "motion",
		Name:      "feed_restarts_total",
		Help:      "Total motion feed restarts after an upstream failure",
	})

	// Park detection metrics
	SamplingTicks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "parkwatch",
		Subsystem: "park",
		Name:      "sampling_ticks_total",
		Help:      "Total sampling ticks processed by the park monitor",
	})

	ParkedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parkwatch",
		Subsystem: "park",
		Name:      "parked_events_total",
		Help:      "Total confirmed parking episodes",
	}, []string{"zone"})

	// Stopwatch metrics
	IntervalsRecorded = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "parkwatch",
		Subsystem: "stopwatch",
		Name:      "interval_seconds",
		Help:      "Recorded interval durations by trigger",
		Buckets:   []float64{5, 10, 20, 30, 45, 60, 90, 120, 180, 300},
	}, []string{"trigger"})

	CommanderFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "parkwatch",
		Subsystem: "stopwatch",
		Name:      "commander_failures_total",
		Help:      "Total failed or timed out commander start requests",
	})

	SessionActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "parkwatch",
		Subsystem: "stopwatch",
		Name:      "session_active",
		Help:      "1 while an interval is being timed",
	})
)

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("metrics endpoint listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
