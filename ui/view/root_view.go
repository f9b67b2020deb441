package view

import (
	"image"
	"log/slog"
	"time"

	"github.com/soocke/traystack-go/config"
	"github.com/soocke/traystack-go/domain/traystack"
	"github.com/soocke/traystack-go/ui/palette"
	"github.com/soocke/traystack-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Session     SessionStats
	Count       CountDisplay
	ConfigPanel ConfigPanel
	CapturePrev CapturePreview

	// Widgets
	StateLabel   *LabelWidget
	captureBtn   *TButtonWidget
	pauseBtn     *TButtonWidget
	applyBtn     *TButtonWidget
	selectionBtn *TButtonWidget
}

// Handlers groups the callbacks invoked on user actions.
type Handlers struct {
	ToggleCapture func()
	TogglePause   func()
	ApplyCount    func()
	SelectionGrid func()
	ConfigApplied func(*config.Config)
	Exit          func()
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

func orNop(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return fn
}

// Build constructs the layout.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	// Row 0: session stats, state label, buttons frame
	stats := Frame()
	Grid(stats, Row(0), Column(0), Columnspan(2), Sticky("w"), Padx("0.3m"), Pady("0.3m"))
	rv.Session = NewSessionStats(stats, 0, 0)
	idle := palette.State(traystack.StateIdle)
	rv.StateLabel = Label(Txt("State: idle"), Foreground(idle.Fg), Background(idle.Bg), Borderwidth(1), Relief("ridge"))
	Grid(rv.StateLabel, Row(0), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(4), Rowspan(2), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	rv.captureBtn = TButton(Txt("Start"), Style(theme.CaptureButtonStyle(false)), Command(orNop(h.ToggleCapture)))
	Grid(rv.captureBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.pauseBtn = TButton(Txt("Pause"), Command(orNop(h.TogglePause)), State("disabled"))
	Grid(rv.pauseBtn, In(btnFrame), Row(1), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.applyBtn = TButton(Txt("Apply Count"), Style(theme.StyleApplyButton), Command(orNop(h.ApplyCount)), State("disabled"))
	Grid(rv.applyBtn, In(btnFrame), Row(2), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.selectionBtn = TButton(Txt("Selection Grid"), Command(orNop(h.SelectionGrid)))
	Grid(rv.selectionBtn, In(btnFrame), Row(3), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	exitBtn := TButton(Txt("Exit"), Style(theme.StyleStopButton), Command(orNop(h.Exit)))
	Grid(exitBtn, In(btnFrame), Row(4), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	// Row 1: live count
	countFrame := Frame()
	Grid(countFrame, Row(1), Column(0), Columnspan(4), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	rv.Count = NewCountDisplay(countFrame, 0)

	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, h.ConfigApplied)
	endRow := rv.ConfigPanel.Build(2)

	rv.CapturePrev = NewCapturePreview(endRow)
}

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

// SetControls enables the session buttons that make sense in state s.
func (rv *RootView) SetControls(s traystack.State) {
	if rv == nil || rv.pauseBtn == nil {
		return
	}
	active := s == traystack.StateRunning || s == traystack.StatePaused
	pauseTxt := "Pause"
	if s == traystack.StatePaused {
		pauseTxt = "Resume"
	}
	rv.pauseBtn.Configure(Txt(pauseTxt), State(enabledState(active)))
	rv.applyBtn.Configure(State(enabledState(active)))
	captureTxt := "Start"
	if active {
		captureTxt = "Stop"
	}
	rv.captureBtn.Configure(Txt(captureTxt), Style(theme.CaptureButtonStyle(active)))
	sw := palette.State(s)
	rv.StateLabel.Configure(Foreground(sw.Fg), Background(sw.Bg))
}

func enabledState(b bool) string {
	if b {
		return "normal"
	}
	return "disabled"
}

func (rv *RootView) SetCount(r traystack.Result) {
	if rv != nil && rv.Count != nil {
		rv.Count.SetCount(r)
	}
}

func (rv *RootView) SetFinal(r traystack.Result, ok bool) {
	if rv != nil && rv.Count != nil {
		rv.Count.SetFinal(r, ok)
	}
}

// UpdateCapture proxies to underlying capture preview view.
func (rv *RootView) UpdateCapture(img image.Image) {
	if rv != nil && rv.CapturePrev != nil {
		rv.CapturePrev.UpdateCapture(img)
	}
}

// UpdateDetection proxies to underlying capture preview view.
func (rv *RootView) UpdateDetection(img image.Image) {
	if rv != nil && rv.CapturePrev != nil {
		rv.CapturePrev.UpdateDetection(img)
	}
}

// SetSession updates both session and total counting durations.
func (rv *RootView) SetSession(session, total time.Duration) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(session)
	rv.Session.SetTotal(total)
}

func (rv *RootView) SetCompleted(n int) {
	if rv != nil && rv.Session != nil {
		rv.Session.SetCompleted(n)
	}
}

// PreviewReset clears the capture preview canvas.
func (rv *RootView) PreviewReset() {
	if rv != nil && rv.CapturePrev != nil {
		rv.CapturePrev.Reset()
	}
}

// ConfigEditable locks the selection grid while capturing. Detection
// settings stay editable so they can be tuned on a live stack.
func (rv *RootView) ConfigEditable(b bool) {
	if rv != nil && rv.selectionBtn != nil {
		rv.selectionBtn.Configure(State(enabledState(b)))
	}
}
