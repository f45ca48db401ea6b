package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	motionoutadapter "parkwatch/internal/modules/motion/adapter/out"
	motionin "parkwatch/internal/modules/motion/port/in"
	motionout "parkwatch/internal/modules/motion/port/out"
	motionservice "parkwatch/internal/modules/motion/service"
	motionusecase "parkwatch/internal/modules/motion/usecase"
	parkinadapter "parkwatch/internal/modules/park/adapter/in"
	parkdomain "parkwatch/internal/modules/park/domain"
	parkin "parkwatch/internal/modules/park/port/in"
	parkusecase "parkwatch/internal/modules/park/usecase"
	stopwatchinadapter "parkwatch/internal/modules/stopwatch/adapter/in"
	stopwatchoutadapter "parkwatch/internal/modules/stopwatch/adapter/out"
	stopwatchdomain "parkwatch/internal/modules/stopwatch/domain"
	stopwatchdto "parkwatch/internal/modules/stopwatch/dto"
	stopwatchservice "parkwatch/internal/modules/stopwatch/service"
	stopwatchusecase "parkwatch/internal/modules/stopwatch/usecase"
	zoneinadapter "parkwatch/internal/modules/zone/adapter/in"
	zoneoutadapter "parkwatch/internal/modules/zone/adapter/out"
	zoneout "parkwatch/internal/modules/zone/port/out"
	zoneusecase "parkwatch/internal/modules/zone/usecase"
	"parkwatch/internal/platform/clock"
	"parkwatch/internal/platform/config"
	"parkwatch/internal/platform/metrics"
	uiapp "parkwatch/internal/ui/app"
)

type App struct {
	ZoneCLI      zoneinadapter.CLIHandler
	ParkCLI      parkinadapter.CLIHandler
	StopwatchCLI stopwatchinadapter.CLIHandler

	cfg       config.Config
	motion    motionin.Usecase
	monitor   parkin.Usecase
	commander *stopwatchoutadapter.CommanderHost
	hasFeed   bool
}

// Options adjust wiring for a single invocation.
type Options struct {
	// Replay overrides feed.replay.
	Replay string
	// Output, when set, receives one line per session log entry.
	Output io.Writer
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	wall := clock.SystemClock{}
	external := clock.NewExternal()

	var zoneStore zoneout.Store = zoneoutadapter.NewCourseLayoutStore()
	if cfg.Zones.File != "" {
		zoneStore = zoneoutadapter.NewYAMLZoneStore(cfg.Zones.File)
	}
	zoneMap, err := zoneusecase.Load(ctx, zoneStore)
	if err != nil {
		return nil, fmt.Errorf("load zones: %w", err)
	}
	zoneUC := zoneusecase.NewInteractor(zoneMap)

	feed, err := newFeed(cfg.Feed, opts.Replay)
	if err != nil {
		return nil, err
	}
	motionUC := motionusecase.NewInteractor(motionservice.NewTracker(wall, external), feed)

	detector, err := parkdomain.NewDetector(cfg.Detector.SpeedThreshold)
	if err != nil {
		return nil, fmt.Errorf("new detector: %w", err)
	}

	broadcaster := stopwatchoutadapter.NewBroadcaster(0)
	sinks := stopwatchoutadapter.Fanout{stopwatchoutadapter.NewSlogSink(slog.Default()), broadcaster}
	if opts.Output != nil {
		sinks = append(sinks, stopwatchoutadapter.NewWriterSink(opts.Output))
	}
	commander := stopwatchoutadapter.NewCommanderHost(cfg.Commander.Plugin, wall)
	ctrl := stopwatchservice.NewController(wall, external, commander, sinks, stopwatchservice.Options{
		UseExternalClock: cfg.Stopwatch.UseExternalClock,
		AutoStart:        cfg.Stopwatch.AutoStart,
		CommanderTimeout: cfg.Commander.Timeout,
	})
	ctrl.Append(stopwatchdomain.NoticeEntry(wall.Now(), "stopwatch initialized"))

	monitor := parkusecase.NewMonitor(motionUC, zoneUC, detector, ctrl, wall)

	return &App{
		ZoneCLI:      zoneinadapter.NewCLIHandler(zoneUC),
		ParkCLI:      parkinadapter.NewCLIHandler(monitor),
		StopwatchCLI: stopwatchinadapter.NewCLIHandler(stopwatchusecase.NewInteractor(ctrl, broadcaster)),
		cfg:          cfg,
		motion:       motionUC,
		monitor:      monitor,
		commander:    commander,
		hasFeed:      feed != nil,
	}, nil
}

func newFeed(cfg config.FeedConfig, replay string) (motionout.Feed, error) {
	if replay == "" {
		replay = cfg.Replay
	}
	switch {
	case replay != "":
		script, err := motionoutadapter.LoadReplayScript(replay)
		if err != nil {
			return nil, err
		}
		return motionoutadapter.NewReplayFeed(script), nil
	case cfg.NATSURL != "":
		return motionoutadapter.NewNATSFeed(cfg.NATSURL, cfg.Subject), nil
	default:
		return nil, nil
	}
}

// Close stops the commander plugin if it was launched.
func (a *App) Close() {
	a.commander.Close()
}

// Run supervises the motion feed, the sampling loop, and the optional
// metrics endpoint until ctx is done. Stopwatch state is left as is.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	if a.hasFeed {
		g.Go(func() error { return a.motion.Follow(gctx) })
	} else {
		slog.Warn("no motion feed configured, automatic stop is disabled")
	}
	g.Go(func() error { return a.monitor.Run(gctx, a.cfg.Sampling.Interval()) })
	if a.cfg.Metrics.Addr != "" {
		g.Go(func() error { return metrics.Serve(gctx, a.cfg.Metrics.Addr) })
	}
	return g.Wait()
}

func RunTUI(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- app.Run(ctx) }()

	model := uiapp.NewModel(ctx, app.StopwatchCLI, app.ParkCLI, app.ZoneCLI, app.cfg.Display.Interval())
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	cancel()
	return errors.Join(err, <-runErr)
}

// RunHeadless runs without a display until the first interval is recorded
// or ctx is done. With start set the interval is started immediately.
// It returns the entry that ended the interval, if any.
func RunHeadless(ctx context.Context, app *App, start bool) (stopwatchdto.LogEntryOutput, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	follow := app.StopwatchCLI.Follow(ctx)
	if start {
		if err := app.StopwatchCLI.Start(ctx); err != nil {
			return stopwatchdto.LogEntryOutput{}, err
		}
	}

	runErr := make(chan error, 1)
	go func() { runErr <- app.Run(ctx) }()

	var last stopwatchdto.LogEntryOutput
	for done := false; !done; {
		select {
		case entry, ok := <-follow:
			if !ok {
				done = true
				break
			}
			if entry.Kind == stopwatchdomain.EntryStopped.String() || entry.Kind == stopwatchdomain.EntryParked.String() {
				last = entry
				done = true
			}
		case err := <-runErr:
			return last, err
		}
	}
	cancel()
	return last, <-runErr
}
