package presenter

import (
	"errors"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/soocke/traystack-go/domain/capture"
	"github.com/soocke/traystack-go/domain/traystack"
	"github.com/soocke/traystack-go/ui/images"
)

// SnapshotSource supplies the most recent captured frame.
type SnapshotSource interface {
	Running() bool
	LatestFrame() capture.FrameSnapshot
}

// ResultSource supplies the newest counter result.
type ResultSource interface {
	Latest() (traystack.Result, uint64)
}

// PreviewView describes the UI surface updated by the presenter.
type PreviewView interface {
	UpdateCapture(img image.Image)
	UpdateDetection(img image.Image)
}

const (
	previewMaxW        = 400
	previewMaxH        = 225
	previewMinInterval = 100 * time.Millisecond
)

type previewTask struct {
	snapshot capture.FrameSnapshot
	result   traystack.Result
	roi      traystack.ROI
}

type previewResult struct {
	sequence uint64
	err      error
	frame    image.Image
	roi      image.Image
}

// PreviewPresenter renders the annotated capture preview and the ROI crop.
// Rendering and scaling run on a single worker goroutine; the UI goroutine
// only hands over the newest snapshot and applies finished images. Stale
// tasks and results are dropped, never queued.
type PreviewPresenter struct {
	Enabled func() bool
	Source  SnapshotSource
	Results ResultSource
	ROI     func() traystack.ROI
	View    PreviewView
	logger  *slog.Logger

	workerOnce sync.Once
	workCh     chan previewTask
	resultCh   chan previewResult

	lastSeq      uint64
	lastDispatch time.Time
	minInterval  time.Duration
}

// NewPreviewPresenter constructs a preview presenter.
func NewPreviewPresenter(enabled func() bool, source SnapshotSource, results ResultSource, roi func() traystack.ROI, view PreviewView, logger *slog.Logger) *PreviewPresenter {
	return &PreviewPresenter{
		Enabled:     enabled,
		Source:      source,
		Results:     results,
		ROI:         roi,
		View:        view,
		logger:      logger,
		workCh:      make(chan previewTask, 1),
		resultCh:    make(chan previewResult, 1),
		minInterval: previewMinInterval,
	}
}

// ProcessFrame applies finished previews and schedules a new render when a
// fresh frame is available.
func (p *PreviewPresenter) ProcessFrame(now time.Time) {
	if p == nil || p.Enabled == nil || p.Source == nil || p.View == nil {
		return
	}
	p.ensureWorker()

	for drained := false; !drained; {
		select {
		case res := <-p.resultCh:
			p.handleResult(res)
		default:
			drained = true
		}
	}

	if !p.Enabled() || !p.Source.Running() {
		return
	}
	snap := p.Source.LatestFrame()
	if snap.Image == nil || snap.Sequence == 0 || snap.Sequence == p.lastSeq {
		return
	}
	if !p.lastDispatch.IsZero() && now.Sub(p.lastDispatch) < p.minInterval {
		return
	}
	p.lastSeq = snap.Sequence
	p.lastDispatch = now
	task := previewTask{snapshot: snap}
	if p.Results != nil {
		task.result, _ = p.Results.Latest()
	}
	if p.ROI != nil {
		task.roi = p.ROI()
	}
	p.dispatch(task)
}

func (p *PreviewPresenter) ensureWorker() {
	p.workerOnce.Do(func() {
		go p.runWorker()
	})
}

func (p *PreviewPresenter) runWorker() {
	for task := range p.workCh {
		res := render(task)
		select {
		case p.resultCh <- res:
		default:
			select {
			case <-p.resultCh:
			default:
			}
			select {
			case p.resultCh <- res:
			default:
			}
		}
	}
}

func (p *PreviewPresenter) dispatch(task previewTask) {
	select {
	case p.workCh <- task:
	default:
		select {
		case <-p.workCh:
		default:
		}
		select {
		case p.workCh <- task:
		default:
		}
	}
}

func render(task previewTask) previewResult {
	res := previewResult{sequence: task.snapshot.Sequence}
	frame := task.snapshot.Image
	if frame == nil {
		res.err = errors.New("nil frame")
		return res
	}
	crop, _, err := images.ExtractROI(frame, task.roi)
	if err != nil {
		res.err = err
		return res
	}
	r := task.result
	if !r.ROI.In(frame.Rect.Sub(frame.Rect.Min)) {
		r.ROI, r.PeaksY = image.Rectangle{}, nil
	}
	res.frame = images.ScaleToFit(images.DrawOverlay(frame, r), previewMaxW, previewMaxH)
	res.roi = images.ScaleToFit(crop, previewMaxW/2, previewMaxH)
	return res
}

func (p *PreviewPresenter) handleResult(res previewResult) {
	if res.err != nil {
		if p.logger != nil {
			p.logger.Error("preview", "error", res.err, "sequence", res.sequence)
		}
		return
	}
	p.View.UpdateCapture(res.frame)
	p.View.UpdateDetection(res.roi)
}
