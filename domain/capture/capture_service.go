package capture

import (
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	captureStatsLogInterval = 5 * time.Second
	defaultPace             = 5 * time.Millisecond
	errorBackoff            = 50 * time.Millisecond
)

type captureService struct {
	running      atomic.Bool
	latest       atomic.Pointer[FrameSnapshot]
	selFn        atomic.Pointer[SelectionProvider]
	pace         atomic.Int64
	grabber      Grabber
	logger       *slog.Logger
	captures     atomic.Uint64
	skipped      atomic.Uint64
	errors       atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64
	wg           sync.WaitGroup
}

// NewCaptureService constructs a capture service reading the local screen.
// selectionFn may be nil.
func NewCaptureService(logger *slog.Logger, selectionFn SelectionProvider) Service {
	return NewCaptureServiceWithGrabber(logger, ScreenGrabber{}, selectionFn)
}

// NewCaptureServiceWithGrabber constructs a capture service on top of g.
func NewCaptureServiceWithGrabber(logger *slog.Logger, g Grabber, selectionFn SelectionProvider) Service {
	s := &captureService{grabber: g, logger: logger}
	s.pace.Store(int64(defaultPace))
	s.SetSelectionProvider(selectionFn)
	return s
}

func (s *captureService) SetSelectionProvider(fn SelectionProvider) {
	if fn == nil {
		s.selFn.Store(nil)
		return
	}
	s.selFn.Store(&fn)
}

// SetPace sets the pause between two grabs. Frames are only worth grabbing
// as fast as the counter admits them.
func (s *captureService) SetPace(d time.Duration) {
	if d <= 0 {
		d = defaultPace
	}
	s.pace.Store(int64(d))
}

func (s *captureService) LatestFrame() FrameSnapshot {
	snap := s.latest.Load()
	if snap == nil {
		return FrameSnapshot{}
	}
	return *snap
}

func (s *captureService) Running() bool { return s.running.Load() }

func (s *captureService) Stats() CaptureStats {
	captures := s.captures.Load()
	total := s.captureNanos.Load()
	var avg time.Duration
	avgMicros := 0.0
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
		avgMicros = float64(avg) / float64(time.Microsecond)
	}
	snapshot := s.LatestFrame()
	age := time.Duration(0)
	if !snapshot.CapturedAt.IsZero() {
		age = time.Since(snapshot.CapturedAt)
	}
	return CaptureStats{
		Captures:         captures,
		Skipped:          s.skipped.Load(),
		Errors:           s.errors.Load(),
		AvgCapture:       avg,
		AvgCaptureMicros: avgMicros,
		LastCapture:      snapshot.CapturedAt,
		LatestFrameAge:   age,
		Sequence:         snapshot.Sequence,
	}
}

func (s *captureService) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.wg.Add(1)
	go s.loop()
}

// Stop halts the loop and waits for an in-flight grab to finish.
func (s *captureService) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	s.wg.Wait()
}

func (s *captureService) loop() {
	defer s.wg.Done()
	logTicker := time.NewTicker(captureStatsLogInterval)
	defer logTicker.Stop()
	for s.running.Load() {
		start := time.Now()
		img, err := s.grab()
		if err != nil {
			s.errors.Add(1)
			if s.logger != nil {
				s.logger.Error("capture grab", "error", err)
			}
			time.Sleep(errorBackoff)
			continue
		}
		if img == nil || img.Rect.Empty() {
			s.skipped.Add(1)
			time.Sleep(time.Millisecond)
			continue
		}

		s.captureNanos.Add(uint64(time.Since(start).Nanoseconds()))
		s.captures.Add(1)
		seq := s.sequence.Add(1)
		s.latest.Store(&FrameSnapshot{Image: img, CapturedAt: time.Now(), Sequence: seq})

		select {
		case <-logTicker.C:
			s.logStats()
		default:
		}

		time.Sleep(time.Duration(s.pace.Load()))
	}
}

// grab captures the selection when one is set, else the full screen.
func (s *captureService) grab() (*image.RGBA, error) {
	if p := s.selFn.Load(); p != nil {
		if r := (*p)(); r != nil && !r.Empty() {
			return s.grabber.GrabRect(*r)
		}
	}
	return s.grabber.Grab()
}

func (s *captureService) logStats() {
	if s.logger == nil {
		return
	}
	stats := s.Stats()
	s.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
		"avg_capture", stats.AvgCapture,
		"age", stats.LatestFrameAge,
	)
}
