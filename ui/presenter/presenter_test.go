package presenter

import (
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/soocke/traystack-go/config"
	"github.com/soocke/traystack-go/domain/capture"
	"github.com/soocke/traystack-go/domain/traystack"
	"github.com/soocke/traystack-go/ui/model"
)

// stackFrame draws a gray frame with brightness steps at the given rows.
func stackFrame(w, h int, seams ...int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	level := uint8(40)
	next := 0
	for y := 0; y < h; y++ {
		if next < len(seams) && y == seams[next] {
			level += 50
			next++
		}
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{level, level, level, 255})
		}
	}
	return img
}

type countView struct {
	counts []traystack.Result
	final  *traystack.Result
	ok     bool
}

func (v *countView) SetCount(r traystack.Result) { v.counts = append(v.counts, r) }
func (v *countView) SetFinal(r traystack.Result, ok bool) {
	v.final, v.ok = &r, ok
}

func newCounterFixture(t *testing.T) (*CounterPresenter, *countView, *model.RunModel, *model.CountModel) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ROIX, cfg.ROIY, cfg.ROIW, cfg.ROIH = 0, 0, 1, 1
	cfg.FPSLimit = 10
	buf, ok := traystack.FromImage(stackFrame(16, 200, 50, 100, 150))
	if !ok {
		t.Fatalf("fixture frame not convertible")
	}
	src := traystack.FrameSourceFunc(func() (traystack.PixelBuffer, bool) { return buf, true })
	run := &model.RunModel{}
	counts := model.NewCountModel()
	view := &countView{}
	p := NewCounterPresenter(cfg, traystack.NewTrayCounter(cfg, nil), src, run, counts, view, nil)
	return p, view, run, counts
}

func TestCounterPresenter_SessionFlow(t *testing.T) {
	p, view, run, counts := newCounterFixture(t)
	var states []traystack.State
	p.AddStateListener(func(_, next traystack.State) { states = append(states, next) })

	base := time.Unix(100, 0)
	p.Tick(base)
	if len(view.counts) != 0 {
		t.Fatalf("no session yet, expected no updates")
	}

	p.Begin()
	if !p.Active() || run.State() != traystack.StateRunning {
		t.Fatalf("expected running session, got %v", run.State())
	}
	for i := 0; i < 8; i++ {
		p.Tick(base.Add(time.Duration(i) * 100 * time.Millisecond))
	}
	if len(view.counts) != 8 {
		t.Fatalf("expected 8 updates, got %d", len(view.counts))
	}
	last := view.counts[len(view.counts)-1]
	if last.Count != 4 || !last.Stable {
		t.Fatalf("expected stable count 4, got %+v", last)
	}

	p.TogglePause()
	if run.State() != traystack.StatePaused {
		t.Fatalf("expected paused, got %v", run.State())
	}
	p.Tick(base.Add(5 * time.Second))
	if len(view.counts) != 8 {
		t.Fatalf("paused session must not update the view")
	}
	p.TogglePause()

	final, ok := p.Apply()
	if !ok || final.Count != 4 || view.final == nil || !view.ok {
		t.Fatalf("apply failed: ok=%v final=%+v", ok, final)
	}
	if f, ok := counts.Final(); !ok || f.Count != 4 {
		t.Fatalf("final not stored in model")
	}
	if p.Active() || run.State() != traystack.StateStopped {
		t.Fatalf("apply should stop the session")
	}
	want := []traystack.State{traystack.StateRunning, traystack.StatePaused, traystack.StateRunning, traystack.StateStopped}
	if len(states) != len(want) {
		t.Fatalf("states %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("states %v, want %v", states, want)
		}
	}

	// a new session starts from a clean window
	p.Begin()
	p.Tick(base.Add(10 * time.Second))
	if got := view.counts[len(view.counts)-1]; got.Stable || got.SessionID == last.SessionID {
		t.Fatalf("expected fresh unstable session, got %+v", got)
	}
}

func TestCounterPresenter_ApplyConfig(t *testing.T) {
	p, view, _, _ := newCounterFixture(t)
	p.Begin()
	cfg := config.DefaultConfig()
	cfg.ROIX, cfg.ROIY, cfg.ROIW, cfg.ROIH = 0, 0, 1, 1
	cfg.AutoOffset = false
	cfg.ManualOffset = 0
	cfg.FPSLimit = 20
	p.ApplyConfig(cfg)
	p.Tick(time.Unix(0, 0))
	if len(view.counts) != 1 || view.counts[0].RawCount != 3 {
		t.Fatalf("manual offset 0 should count seams only, got %+v", view.counts)
	}
	if got := p.sched.Interval(); got != 50*time.Millisecond {
		t.Fatalf("fps not applied, interval=%v", got)
	}
}

func TestCounterPresenter_ApplyWithoutFrames(t *testing.T) {
	p, view, _, counts := newCounterFixture(t)
	if _, ok := p.Apply(); ok {
		t.Fatalf("apply before begin must fail")
	}
	p.Begin()
	if _, ok := p.Apply(); ok || view.ok {
		t.Fatalf("apply before first frame must report not ok")
	}
	if _, ok := counts.Final(); ok {
		t.Fatalf("no final expected")
	}
}

type stateView struct {
	labels   []string
	controls []traystack.State
}

func (v *stateView) SetStateLabel(s string)          { v.labels = append(v.labels, s) }
func (v *stateView) SetControls(s traystack.State) { v.controls = append(v.controls, s) }

func TestStatePresenter_ReflectsLatest(t *testing.T) {
	view := &stateView{}
	p := NewStatePresenter(view)
	now := time.Now()
	p.Tick(now)
	if len(view.labels) != 0 {
		t.Fatalf("no pending state, expected no update")
	}
	p.OnState(traystack.StateIdle, traystack.StateRunning)
	p.OnState(traystack.StateRunning, traystack.StatePaused)
	p.Tick(now)
	if len(view.labels) != 1 || view.labels[0] != "State: paused" || view.controls[0] != traystack.StatePaused {
		t.Fatalf("unexpected labels %v", view.labels)
	}
	p.OnState(traystack.StatePaused, traystack.StatePaused)
	p.Tick(now)
	if len(view.labels) != 1 {
		t.Fatalf("unchanged state should not update the view")
	}
}

type sessionView struct {
	session, total time.Duration
	completed      []int
}

func (v *sessionView) SetSession(s, t time.Duration) { v.session, v.total = s, t }
func (v *sessionView) SetCompleted(n int)            { v.completed = append(v.completed, n) }

func TestSessionPresenter_Tick(t *testing.T) {
	run := &model.RunModel{}
	view := &sessionView{}
	p := NewSessionPresenter(model.NewSessionModel(), run, view)
	base := time.Unix(0, 0)
	p.Tick(base)
	run.SetState(traystack.StateRunning)
	p.Tick(base.Add(time.Second))
	p.Tick(base.Add(3 * time.Second))
	if view.session != 2*time.Second {
		t.Fatalf("session=%v", view.session)
	}
	run.SetState(traystack.StateStopped)
	p.Tick(base.Add(4 * time.Second))
	if view.total != 3*time.Second {
		t.Fatalf("total=%v", view.total)
	}
	if len(view.completed) != 2 || view.completed[1] != 1 {
		t.Fatalf("completed updates %v", view.completed)
	}
}

type snapSource struct {
	mu   sync.Mutex
	snap capture.FrameSnapshot
}

func (s *snapSource) Running() bool { return true }
func (s *snapSource) LatestFrame() capture.FrameSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

type previewView struct {
	mu        sync.Mutex
	captures  int
	detection image.Image
}

func (v *previewView) UpdateCapture(image.Image) {
	v.mu.Lock()
	v.captures++
	v.mu.Unlock()
}

func (v *previewView) UpdateDetection(img image.Image) {
	v.mu.Lock()
	v.detection = img
	v.mu.Unlock()
}

func TestPreviewPresenter_RendersFreshFrames(t *testing.T) {
	src := &snapSource{snap: capture.FrameSnapshot{Image: stackFrame(100, 80, 40), Sequence: 1}}
	view := &previewView{}
	counts := model.NewCountModel()
	counts.Publish(traystack.Result{Count: 2, ROI: image.Rect(0, 0, 100, 80), PeaksY: []int{40}})
	roi := func() traystack.ROI { return traystack.ROI{X: 0.5, Y: 0.5, W: 0.5, H: 0.5} }
	p := NewPreviewPresenter(func() bool { return true }, src, counts, roi, view, nil)

	now := time.Unix(0, 0)
	deadline := time.Now().Add(2 * time.Second)
	for {
		p.ProcessFrame(now)
		view.mu.Lock()
		done := view.captures > 0
		view.mu.Unlock()
		if done {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("preview never rendered")
		}
		time.Sleep(time.Millisecond)
	}
	view.mu.Lock()
	det := view.detection
	view.mu.Unlock()
	if det == nil || det.Bounds().Dx() != 50 || det.Bounds().Dy() != 40 {
		t.Fatalf("unexpected ROI crop %v", det)
	}

	// same sequence is not rendered again
	p.ProcessFrame(now.Add(time.Second))
	if p.lastSeq != 1 {
		t.Fatalf("lastSeq=%d", p.lastSeq)
	}
}

func TestPreviewPresenter_DisabledSkips(t *testing.T) {
	src := &snapSource{snap: capture.FrameSnapshot{Image: stackFrame(10, 10), Sequence: 3}}
	p := NewPreviewPresenter(func() bool { return false }, src, nil, nil, &previewView{}, nil)
	p.ProcessFrame(time.Now())
	if p.lastSeq != 0 {
		t.Fatalf("disabled presenter should not dispatch")
	}
}

func TestLoop_NilSafe(t *testing.T) {
	var l *Loop
	l.Tick()
	scheduled := 0
	(&Loop{Schedule: func() { scheduled++ }}).Tick()
	if scheduled != 1 {
		t.Fatalf("schedule callback not invoked")
	}
}
