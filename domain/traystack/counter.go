package traystack

import (
	"image"
	"log/slog"
	"time"

	"github.com/soocke/traystack-go/config"
	"github.com/soocke/traystack-go/domain/signal"
)

// TrayCounter owns the per-session detection state: parameters, ROI, count
// policy and the stability window. It estimates tray counts frame by frame.
// Not safe for concurrent use; call ProcessFrame and the setters from a
// single goroutine.
type TrayCounter struct {
	logger    *slog.Logger
	params    DetectionParams
	roi       ROI
	policy    CountPolicy
	window    *StabilityWindow
	required  float64
	debugDraw bool
	wasStable bool
}

// NewTrayCounter returns a counter configured from cfg. If cfg is nil the
// default configuration is used. cfg is copied; later edits to it have no
// effect until passed to Apply.
func NewTrayCounter(cfg *config.Config, logger *slog.Logger) *TrayCounter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	local := *cfg
	_ = local.Validate()
	c := &TrayCounter{logger: logger, window: NewStabilityWindow(local.StableWindow)}
	c.Apply(&local)
	return c
}

// Apply copies every detection setting from cfg. A changed stable window
// size replaces (and so empties) the stability window.
func (c *TrayCounter) Apply(cfg *config.Config) {
	if cfg == nil {
		return
	}
	c.params = NewDetectionParams(cfg.Sensitivity, cfg.MinPeakDistance, cfg.MinPeakStrength)
	c.roi = ROI{X: cfg.ROIX, Y: cfg.ROIY, W: cfg.ROIW, H: cfg.ROIH}.Clamp()
	c.policy = CountPolicy{AutoOffset: cfg.AutoOffset, ManualOffset: cfg.ManualOffset}
	c.required = cfg.StableRequiredRatio
	if c.required <= 0 || c.required > 1 {
		c.required = DefaultStableRequiredRatio
	}
	c.debugDraw = cfg.DebugDraw
	size := cfg.StableWindow
	if size < 1 {
		size = DefaultStableWindow
	}
	if c.window == nil || c.window.Cap() != size {
		c.window = NewStabilityWindow(size)
		c.wasStable = false
	}
}

// SetSensitivity updates the sensitivity and re-derives dependent parameters.
func (c *TrayCounter) SetSensitivity(s float64) { c.params = c.params.WithSensitivity(s) }

// SetMinPeakDistance sets the merge / prominence neighbourhood in rows.
func (c *TrayCounter) SetMinPeakDistance(d int) { c.params = c.params.WithMinPeakDistance(d) }

// SetMinPeakStrength sets the absolute threshold floor.
func (c *TrayCounter) SetMinPeakStrength(v float64) { c.params = c.params.WithMinPeakStrength(v) }

// SetROI replaces the analysed region; ratios are clamped.
func (c *TrayCounter) SetROI(r ROI) { c.roi = r.Clamp() }

// SetAutoOffset selects the automatic offset policy.
func (c *TrayCounter) SetAutoOffset(on bool) { c.policy.AutoOffset = on }

// SetManualOffset sets the offset used when auto offset is off.
func (c *TrayCounter) SetManualOffset(n int) {
	if n < 0 {
		n = 0
	} else if n > MaxManualOffset {
		n = MaxManualOffset
	}
	c.policy.ManualOffset = n
}

// SetDebugDraw toggles emission of DebugTrace data.
func (c *TrayCounter) SetDebugDraw(on bool) { c.debugDraw = on }

// Params returns the current detection parameters.
func (c *TrayCounter) Params() DetectionParams { return c.params }

// ROI returns the clamped region of interest.
func (c *TrayCounter) ROI() ROI { return c.roi }

// Policy returns the offset policy applied to peak counts.
func (c *TrayCounter) Policy() CountPolicy { return c.policy }

// Reset clears the stability window.
func (c *TrayCounter) Reset() {
	c.window.Reset()
	c.wasStable = false
}

// ProcessFrame runs the full pipeline on one frame and returns a fresh
// Result. Invalid or tiny frames yield zero peaks.
func (c *TrayCounter) ProcessFrame(buf PixelBuffer, ts time.Time) Result {
	var (
		rect  image.Rectangle
		raw   []float64
		prof  []float64
		hp    []float64
		peaks []signal.Peak
	)
	pp := signal.PeakParams{ThresholdK: c.params.ThresholdK(), MinDistance: c.params.MinPeakDistance(), MinStrength: c.params.MinPeakStrength()}
	if buf.Valid() {
		rect = c.roi.Rect(buf.Width, buf.Height)
		raw = signal.EdgeProfile(buf.Data, buf.RowStride(), rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy())
	}
	var st signal.PeakStats
	if len(raw) > 0 {
		smooth, dist := c.params.effective(len(raw))
		pp.MinDistance = dist
		prof = signal.MovingAverage(raw, smooth)
		hp = signal.HighPass(prof, signal.BaselineWindow(c.params.SmoothWindow()))
		peaks, st = signal.DetectPeaks(hp, pp)
	} else {
		st = signal.Stats(nil, pp)
	}

	rawCount := c.policy.Resolve(len(peaks))
	c.window.Push(rawCount)
	mode, ratio := c.window.Vote()
	stable := c.window.Stable(c.required)
	count := rawCount
	if stable {
		count = mode
	}
	c.logTransition(stable, count, ratio)

	res := Result{
		Count:     count,
		RawCount:  rawCount,
		Stable:    stable,
		Ratio:     ratio,
		Peaks:     len(peaks),
		PeaksY:    signal.Rows(peaks),
		Threshold: st.Threshold,
		Timestamp: ts,
		ROI:       rect,
	}
	if c.debugDraw {
		res.Debug = &DebugTrace{ProfileRaw: raw, Profile: prof, HighPass: hp, Mean: st.Mean, Std: st.Std, PromAbs: st.PromAbs}
	}
	return res
}

func (c *TrayCounter) logTransition(stable bool, count int, ratio float64) {
	if stable == c.wasStable {
		return
	}
	c.wasStable = stable
	if c.logger == nil {
		return
	}
	if stable {
		c.logger.Info("stack stable", "count", count, "ratio", ratio)
	} else {
		c.logger.Info("stack unstable", "count", count, "ratio", ratio)
	}
}

// compile-time check that TrayCounter implements Processor.
var _ Processor = (*TrayCounter)(nil)
