package app

import (
	"image"
	"log/slog"
	"time"

	"github.com/soocke/traystack-go/config"
	"github.com/soocke/traystack-go/domain/capture"
	"github.com/soocke/traystack-go/domain/traystack"
	"github.com/soocke/traystack-go/ui/model"
	"github.com/soocke/traystack-go/ui/presenter"
	"github.com/soocke/traystack-go/ui/view"
)

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger
	Run        *model.RunModel
	Session    *model.SessionModel
	Counts     *model.CountModel
	CaptureSvc capture.Service
	Counter    *traystack.TrayCounter
	Selection  view.SelectionOverlay
	RootView   *view.RootView

	// Presenters
	CounterPresenter *presenter.CounterPresenter
	StatePresenter   *presenter.StatePresenter
	SessionPresenter *presenter.SessionPresenter
	PreviewPresenter *presenter.PreviewPresenter
	CapturePresenter *presenter.CapturePresenter
	Loop             *presenter.Loop
}

// BuildContainer constructs all components. No widgets are created here;
// the root view is built by the app once Tk is ready.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger) *AppContainer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &AppContainer{Config: cfg, ConfigPath: cfgPath, Logger: logger}
	c.Run = &model.RunModel{}
	c.Session = model.NewSessionModel()
	c.Counts = model.NewCountModel()

	c.Selection = view.NewSelectionOverlay(cfg, cfgPath, capture.ScreenBounds, logger)
	c.CaptureSvc = capture.NewCaptureService(logger, c.Selection.ActiveRect)
	c.CaptureSvc.SetPace(capturePace(cfg.FPSLimit))
	c.Counter = traystack.NewTrayCounter(cfg, logger)

	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	c.StatePresenter = presenter.NewStatePresenter(c.RootView)
	c.CounterPresenter = presenter.NewCounterPresenter(cfg, c.Counter, capture.NewFrameSource(c.CaptureSvc), c.Run, c.Counts, c.RootView, logger)
	c.CounterPresenter.AddStateListener(c.StatePresenter.OnState)
	c.SessionPresenter = presenter.NewSessionPresenter(c.Session, c.Run, c.RootView)
	c.PreviewPresenter = presenter.NewPreviewPresenter(c.Run.Enabled, c.CaptureSvc, c.Counts, c.Counter.ROI, c.RootView, logger)
	c.CapturePresenter = presenter.NewCapturePresenter(c.CaptureSvc, c.CounterPresenter, c.RootView)
	return c
}

// OnConfigApplied forwards edited settings to the counter and the capture pace.
func (c *AppContainer) OnConfigApplied(cfg *config.Config) {
	if c == nil || cfg == nil {
		return
	}
	c.CounterPresenter.ApplyConfig(cfg)
	c.CaptureSvc.SetPace(capturePace(cfg.FPSLimit))
}

// ActiveSelection exposes the current capture rectangle, nil for full screen.
func (c *AppContainer) ActiveSelection() *image.Rectangle {
	if c == nil || c.Selection == nil {
		return nil
	}
	return c.Selection.ActiveRect()
}

// capturePace grabs at twice the counter's frame rate so a fresh frame is
// ready at every admitted tick.
func capturePace(fps int) time.Duration {
	if fps <= 0 {
		fps = config.DefaultConfig().FPSLimit
	}
	return time.Second / time.Duration(2*fps)
}
