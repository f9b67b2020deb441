package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/traystack-go/config"
	"github.com/soocke/traystack-go/debug"
	"github.com/soocke/traystack-go/ui/presenter"
	"github.com/soocke/traystack-go/ui/theme"
	"github.com/soocke/traystack-go/ui/view"
)

const (
	tick             = 16 * time.Millisecond
	debugLogInterval = 5 * time.Second
)

type app struct {
	c       *AppContainer
	width   int
	height  int
	afterID string
	stop    context.CancelFunc
	logger  *slog.Logger
}

// NewApp prepares the main window. Widgets are created by Start.
func NewApp(title string, width, height int, cfg *config.Config, cfgPath string, logger *slog.Logger) *app {
	a := &app{c: BuildContainer(cfg, cfgPath, logger), width: width, height: height, logger: logger}
	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))
	return a
}

// Start builds the layout, starts the update loop and blocks until the
// window is closed.
func (a *app) Start() {
	c := a.c
	theme.InitStyles()
	c.RootView.Build(view.Handlers{
		ToggleCapture: c.CapturePresenter.Toggle,
		TogglePause:   c.CounterPresenter.TogglePause,
		ApplyCount:    a.applyCount,
		SelectionGrid: c.Selection.OpenOrFocus,
		ConfigApplied: c.OnConfigApplied,
		Exit:          a.exitHandler,
	})
	c.Loop = presenter.NewLoop(c.CounterPresenter, c.StatePresenter, c.SessionPresenter, c.PreviewPresenter, a.scheduleUpdate)

	if c.Config.Debug && a.logger != nil {
		ctx, cancel := context.WithCancel(context.Background())
		a.stop = cancel
		debug.StartGoroutineLogger(ctx, debugLogInterval, a.logger)
		debug.StartMemLogger(ctx, debugLogInterval, a.logger)
	}

	a.scheduleUpdate()
	App.Wait()
}

// applyCount freezes the current count, then releases the screen capture.
func (a *app) applyCount() {
	final, ok := a.c.CounterPresenter.Apply()
	if ok && a.logger != nil {
		a.logger.Info("stack counted", "count", final.Count, "stable", final.Stable, "session", final.SessionID)
	}
	a.c.CapturePresenter.Disable()
}

func (a *app) scheduleUpdate() {
	// TclAfter keeps every widget update on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.c.Loop.Tick() })
}

func (a *app) exitHandler() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	if a.stop != nil {
		a.stop()
	}
	a.c.CapturePresenter.Disable()
	Destroy(App)
}
