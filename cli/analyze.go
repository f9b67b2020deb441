package cli

import (
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	_ "golang.org/x/image/webp"

	"github.com/soocke/traystack-go/assets"
	"github.com/soocke/traystack-go/debug"
	"github.com/soocke/traystack-go/domain/traystack"
	"github.com/soocke/traystack-go/ui/images"
)

type analyzeOptions struct {
	frames  int
	json    bool
	plot    string
	overlay string
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	a := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [image]",
		Short: "Count the trays in a still image",
		Long: "Runs the counter on an image file (png, jpeg, gif, bmp, tiff, webp).\n" +
			"Without an argument the embedded sample stack is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			img, err := loadImage(args)
			if err != nil {
				return err
			}
			if a.plot != "" {
				cfg.DebugDraw = true
			}
			return analyze(cmd, a, img, traystack.NewTrayCounter(cfg, logger), cfg.FPSLimit)
		},
	}
	cmd.Flags().IntVar(&a.frames, "frames", 1, "process the image this many times to fill the stability window")
	cmd.Flags().BoolVar(&a.json, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&a.plot, "plot", "", "write the row profile plot to this file")
	cmd.Flags().StringVar(&a.overlay, "overlay", "", "write the annotated image to this file")
	return cmd
}

func loadImage(args []string) (image.Image, error) {
	if len(args) == 0 {
		img, err := assets.SampleStackImage()
		if err != nil {
			return nil, fmt.Errorf("sample image: %w", err)
		}
		return img, nil
	}
	img, err := imaging.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return img, nil
}

// analyze replays img through a scheduler at the configured frame rate on
// a synthetic clock, then applies the session.
func analyze(cmd *cobra.Command, a *analyzeOptions, img image.Image, proc traystack.Processor, fps int) error {
	frame := imaging.Clone(img)
	buf, ok := traystack.FromImage(frame)
	if !ok {
		return fmt.Errorf("image has no pixels")
	}
	sched := traystack.NewScheduler(proc, fps, nil)
	sched.Start(traystack.FrameSourceFunc(func() (traystack.PixelBuffer, bool) { return buf, true }))
	frames := a.frames
	if frames < 1 {
		frames = 1
	}
	t := time.Now()
	for i := 0; i < frames; i++ {
		sched.Tick(t)
		t = t.Add(sched.Interval())
	}
	r, _ := sched.Apply()

	if a.overlay != "" {
		if err := imaging.Save(images.DrawOverlay(frame, r), a.overlay); err != nil {
			return fmt.Errorf("failed to write overlay: %w", err)
		}
	}
	if a.plot != "" {
		if err := debug.SaveProfilePlot(a.plot, r); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if a.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	return writeSummary(out, r)
}
