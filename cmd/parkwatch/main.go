package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"parkwatch/internal/bootstrap"
	"parkwatch/internal/platform/config"
	"parkwatch/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "parkwatch",
		Short:         "Geofence-triggered course stopwatch",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: parkwatch.yaml in . or ./configs)")

	root.AddCommand(newTUICmd(&configPath))
	root.AddCommand(newRunCmd(&configPath))
	root.AddCommand(newZonesCmd(&configPath))
	return root
}

// loadApp reads configuration, routes logs to logOut, and wires the app.
func loadApp(ctx context.Context, configPath string, logOut io.Writer, opts bootstrap.Options) (*bootstrap.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, logOut)
	return bootstrap.New(ctx, cfg, opts)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newTUICmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the stopwatch dashboard",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			// The dashboard owns the terminal, so logs go to a file.
			logFile, err := logging.OpenFile(cfg.Log.File)
			if err != nil {
				return err
			}
			defer logFile.Close()
			logging.Setup(cfg.Log.Level, cfg.Log.Format, logFile)

			ctx, stop := signalContext()
			defer stop()
			app, err := bootstrap.New(ctx, cfg, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(ctx, app)
		},
	}
}

func newRunCmd(configPath *string) *cobra.Command {
	var replay string
	var start bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run headless until the first interval is recorded",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()
			app, err := loadApp(ctx, *configPath, cmd.ErrOrStderr(), bootstrap.Options{
				Replay: replay,
				Output: cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			defer app.Close()

			last, err := bootstrap.RunHeadless(ctx, app, start)
			if err != nil {
				return err
			}
			if last.Kind != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %.3f sec (%s)\n", last.Elapsed.Seconds(), last.Kind)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&replay, "replay", "", "replay script to use instead of the configured feed")
	cmd.Flags().BoolVar(&start, "start", false, "start timing immediately")
	return cmd
}

func newZonesCmd(configPath *string) *cobra.Command {
	zones := &cobra.Command{Use: "zones", Short: "Inspect the zone layout"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List zones in priority order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), *configPath, cmd.ErrOrStderr(), bootstrap.Options{})
			if err != nil {
				return err
			}
			out, err := app.ZoneCLI.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, z := range out {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\tx=[%.3f, %.3f]\ty=[%.3f, %.3f]\n",
					z.ID, z.Name, z.Min.X, z.Max.X, z.Min.Y, z.Max.Y)
			}
			return nil
		},
	}

	classifyCmd := &cobra.Command{
		Use:   "classify [--] <x> <y>",
		Short: "Report which zone contains a point",
		Long:  "Report which zone contains a point. Put -- before the coordinates when x is negative.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid x: %w", err)
			}
			y, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid y: %w", err)
			}
			app, err := loadApp(cmd.Context(), *configPath, cmd.ErrOrStderr(), bootstrap.Options{})
			if err != nil {
				return err
			}
			out, err := app.ZoneCLI.Classify(cmd.Context(), x, y)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", out.Name, out.Kind)
			return nil
		},
	}

	classifyCmd.Flags().SetInterspersed(false)

	zones.AddCommand(listCmd, classifyCmd)
	return zones
}
