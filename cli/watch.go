package cli

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soocke/traystack-go/config"
	"github.com/soocke/traystack-go/debug"
	"github.com/soocke/traystack-go/domain/capture"
	"github.com/soocke/traystack-go/domain/traystack"
)

const (
	watchTick        = 10 * time.Millisecond
	debugLogInterval = 5 * time.Second
)

func newWatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Count the stack on screen until interrupted",
		Long: "Counts the configured screen selection (or the full screen) and prints\n" +
			"every change of the stable count. Ctrl-C applies and prints the final count.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if cfg.Debug {
				debug.StartGoroutineLogger(ctx, debugLogInterval, logger)
				debug.StartMemLogger(ctx, debugLogInterval, logger)
			}
			svc := capture.NewCaptureService(logger, selectionFromConfig(cfg))
			svc.SetPace(time.Second / time.Duration(2*cfg.FPSLimit))
			svc.Start()
			defer svc.Stop()
			return watch(ctx, cmd, cfg, capture.NewFrameSource(svc), traystack.NewTrayCounter(cfg, logger))
		},
	}
}

// watch drives a scheduler over src until ctx ends, printing stability
// changes, then applies the session.
func watch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, src traystack.FrameSource, proc traystack.Processor) error {
	out := cmd.OutOrStdout()
	sched := traystack.NewScheduler(proc, cfg.FPSLimit, nil)
	var (
		printed    bool
		lastStable bool
		lastCount  int
	)
	sched.AddListener(func(r traystack.Result) {
		if printed && r.Stable == lastStable && (!r.Stable || r.Count == lastCount) {
			return
		}
		printed, lastStable, lastCount = true, r.Stable, r.Count
		fmt.Fprintln(out, formatResult(r))
	})
	sched.Start(src)

	// cancellation is the normal way out
	if err := sched.Drive(ctx, watchTick); err != nil && ctx.Err() == nil {
		return err
	}
	final, ok := sched.Apply()
	if !ok {
		fmt.Fprintln(out, mutedStyle.Render("no frames processed"))
		return nil
	}
	return writeSummary(out, final)
}

func selectionFromConfig(cfg *config.Config) capture.SelectionProvider {
	if cfg.SelectionW <= 0 || cfg.SelectionH <= 0 {
		return nil
	}
	r := image.Rect(cfg.SelectionX, cfg.SelectionY, cfg.SelectionX+cfg.SelectionW, cfg.SelectionY+cfg.SelectionH)
	return func() *image.Rectangle { return &r }
}
