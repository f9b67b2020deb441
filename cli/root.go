// Package cli holds the traystack command line: the GUI launcher and the
// headless watch and analyze commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soocke/traystack-go/config"
	"github.com/soocke/traystack-go/domain/traystack"
)

// GUIRunner starts the windowed application and blocks until it exits.
type GUIRunner func(cfg *config.Config, cfgPath string, logger *slog.Logger) error

type options struct {
	configPath      string
	debug           bool
	sensitivity     float64
	minPeakDistance int
	roi             string
	manualOffset    int
	noAutoOffset    bool
	fps             int
}

// NewRootCmd builds the command tree. Running without a subcommand opens
// the GUI through runGUI.
func NewRootCmd(runGUI GUIRunner) *cobra.Command {
	opts := &options{}
	def := config.DefaultConfig()
	gui := func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := opts.resolve(cmd)
		if err != nil {
			return err
		}
		if runGUI == nil {
			return fmt.Errorf("gui not available in this build")
		}
		return runGUI(cfg, opts.configPath, logger)
	}
	rootCmd := &cobra.Command{
		Use:           "traystack",
		Short:         "Count stacked trays on screen",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          gui,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.DefaultConfigPath(), "config file (.json or .toml)")
	pf.BoolVar(&opts.debug, "debug", false, "debug logging and runtime stats")
	pf.Float64Var(&opts.sensitivity, "sensitivity", def.Sensitivity, "seam sensitivity (0-1)")
	pf.IntVar(&opts.minPeakDistance, "min-peak-distance", def.MinPeakDistance, "minimum rows between seams")
	pf.StringVar(&opts.roi, "roi", "", "region of interest as x,y,w,h frame fractions")
	pf.IntVar(&opts.manualOffset, "manual-offset", def.ManualOffset, "trays added to the seam count (0-2)")
	pf.BoolVar(&opts.noAutoOffset, "no-auto-offset", false, "use --manual-offset instead of seams+1")
	pf.IntVar(&opts.fps, "fps", def.FPSLimit, "frames processed per second")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "gui",
		Short: "Open the counter window",
		Args:  cobra.NoArgs,
		RunE:  gui,
	})
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newAnalyzeCmd(opts))
	return rootCmd
}

// resolve loads the config file and overlays every flag set explicitly on
// the command line. Flags win over the file.
func (o *options) resolve(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}
	if flags.Changed("sensitivity") {
		cfg.Sensitivity = o.sensitivity
	}
	if flags.Changed("min-peak-distance") {
		cfg.MinPeakDistance = o.minPeakDistance
	}
	if flags.Changed("roi") {
		roi, err := ParseROI(o.roi)
		if err != nil {
			return nil, nil, err
		}
		cfg.ROIX, cfg.ROIY, cfg.ROIW, cfg.ROIH = roi.X, roi.Y, roi.W, roi.H
	}
	if flags.Changed("manual-offset") {
		cfg.ManualOffset = o.manualOffset
	}
	if flags.Changed("no-auto-offset") {
		cfg.AutoOffset = !o.noAutoOffset
	}
	if flags.Changed("fps") {
		cfg.FPSLimit = o.fps
	}
	_ = cfg.Validate()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	return cfg, NewLogger(os.Stderr, level), nil
}

// ParseROI parses "x,y,w,h" frame fractions.
func ParseROI(s string) (traystack.ROI, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return traystack.ROI{}, fmt.Errorf("roi %q: want x,y,w,h", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return traystack.ROI{}, fmt.Errorf("roi %q: %w", s, err)
		}
		v[i] = f
	}
	return traystack.ROI{X: v[0], Y: v[1], W: v[2], H: v[3]}.Clamp(), nil
}
