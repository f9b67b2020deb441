package presenter

import (
	"log/slog"
	"time"

	"github.com/soocke/traystack-go/config"
	"github.com/soocke/traystack-go/domain/traystack"
	"github.com/soocke/traystack-go/ui/model"
)

// CountView shows the live and the applied count.
type CountView interface {
	SetCount(r traystack.Result)
	SetFinal(r traystack.Result, ok bool)
}

// CounterPresenter owns the counting session: it creates a scheduler per
// session, ticks it from the UI loop and pushes fresh results to the view.
// All methods must be called from the UI goroutine.
type CounterPresenter struct {
	cfg       *config.Config
	counter   *traystack.TrayCounter
	source    traystack.FrameSource
	run       *model.RunModel
	counts    *model.CountModel
	view      CountView
	logger    *slog.Logger
	sched     *traystack.Scheduler
	listeners []traystack.StateListener
	lastSeq   uint64
}

// NewCounterPresenter wires a presenter. counter and source are required
// for Begin to have any effect.
func NewCounterPresenter(cfg *config.Config, counter *traystack.TrayCounter, source traystack.FrameSource, run *model.RunModel, counts *model.CountModel, view CountView, logger *slog.Logger) *CounterPresenter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &CounterPresenter{cfg: cfg, counter: counter, source: source, run: run, counts: counts, view: view, logger: logger}
}

// AddStateListener registers l on every scheduler created by Begin.
func (p *CounterPresenter) AddStateListener(l traystack.StateListener) {
	if p == nil || l == nil {
		return
	}
	p.listeners = append(p.listeners, l)
}

// Active reports whether a session is running or paused.
func (p *CounterPresenter) Active() bool {
	if p == nil || p.sched == nil {
		return false
	}
	s := p.sched.State()
	return s == traystack.StateRunning || s == traystack.StatePaused
}

// Begin starts a new session unless one is already active.
func (p *CounterPresenter) Begin() {
	if p == nil || p.counter == nil || p.source == nil || p.Active() {
		return
	}
	p.counter.Apply(p.cfg)
	p.counter.Reset()
	p.counts.ClearLatest()
	sched := traystack.NewScheduler(p.counter, p.cfg.FPSLimit, p.logger)
	run := p.run
	sched.AddStateListener(func(_, next traystack.State) { run.SetState(next) })
	for _, l := range p.listeners {
		sched.AddStateListener(l)
	}
	sched.AddListener(p.counts.Publish)
	p.sched = sched
	sched.Start(p.source)
}

// End stops the current session.
func (p *CounterPresenter) End() {
	if p == nil || p.sched == nil {
		return
	}
	p.sched.Stop()
}

// Pause suspends frame admission.
func (p *CounterPresenter) Pause() {
	if p != nil && p.sched != nil {
		p.sched.Pause()
	}
}

// Resume continues a paused session.
func (p *CounterPresenter) Resume() {
	if p != nil && p.sched != nil {
		p.sched.Resume()
	}
}

// TogglePause flips between running and paused.
func (p *CounterPresenter) TogglePause() {
	if p == nil || p.sched == nil {
		return
	}
	switch p.sched.State() {
	case traystack.StateRunning:
		p.sched.Pause()
	case traystack.StatePaused:
		p.sched.Resume()
	}
}

// Apply freezes the latest result as the session's final count and stops
// the session.
func (p *CounterPresenter) Apply() (traystack.Result, bool) {
	if p == nil || p.sched == nil {
		return traystack.Result{}, false
	}
	final, ok := p.sched.Apply()
	if ok {
		p.counts.SetFinal(final)
	}
	if p.view != nil {
		p.view.SetFinal(final, ok)
	}
	return final, ok
}

// ApplyConfig pushes edited settings into the counter and the running
// scheduler. cfg is copied by the counter.
func (p *CounterPresenter) ApplyConfig(cfg *config.Config) {
	if p == nil || cfg == nil {
		return
	}
	p.cfg = cfg
	if p.counter != nil {
		p.counter.Apply(cfg)
	}
	if p.sched != nil {
		p.sched.SetFPSLimit(cfg.FPSLimit)
	}
	if p.logger != nil {
		p.logger.Info("detection settings applied",
			"sensitivity", cfg.Sensitivity,
			"min_peak_distance", cfg.MinPeakDistance,
			"auto_offset", cfg.AutoOffset,
			"manual_offset", cfg.ManualOffset,
		)
	}
}

// Tick offers the scheduler a frame and forwards a fresh result to the view.
func (p *CounterPresenter) Tick(now time.Time) {
	if p == nil || p.sched == nil {
		return
	}
	p.sched.Tick(now)
	r, seq := p.counts.Latest()
	if seq == p.lastSeq {
		return
	}
	p.lastSeq = seq
	if p.view != nil {
		p.view.SetCount(r)
	}
}
