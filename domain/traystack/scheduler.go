package traystack

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State enumerates scheduler lifecycle states.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StateListener is called on each state transition.
type StateListener func(prev, next State)

// SchedulerStats counts how ticks were handled.
type SchedulerStats struct {
	Admitted    uint64
	RateDropped uint64
	NotReady    uint64
	Idle        uint64
}

const (
	minFPS     = 1
	maxFPS     = 60
	defaultFPS = 12
)

// Scheduler admits frames from a source at a bounded rate and feeds them to
// a Processor, one frame per admitted tick. Tick is driven externally (a UI
// refresh callback, Drive, or a test clock).
//
// All methods are safe for concurrent use. Listeners run while the
// scheduler lock is held: they must not call back into the scheduler. Once
// Stop returns no listener fires again.
type Scheduler struct {
	mu             sync.Mutex
	state          State
	proc           Processor
	src            FrameSource
	interval       time.Duration
	lastProcessed  time.Time
	sessionID      string
	last           Result
	hasLast        bool
	stats          SchedulerStats
	results        Emitter
	stateListeners []StateListener
	logger         *slog.Logger
}

// NewScheduler returns an Idle scheduler for proc throttled to fpsLimit.
func NewScheduler(proc Processor, fpsLimit int, logger *slog.Logger) *Scheduler {
	s := &Scheduler{proc: proc, logger: logger}
	s.interval = fpsInterval(fpsLimit)
	return s
}

func fpsInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = defaultFPS
	}
	if fps < minFPS {
		fps = minFPS
	} else if fps > maxFPS {
		fps = maxFPS
	}
	return time.Second / time.Duration(fps)
}

// SetFPSLimit changes the admission rate.
func (s *Scheduler) SetFPSLimit(fps int) {
	s.mu.Lock()
	s.interval = fpsInterval(fps)
	s.mu.Unlock()
}

// Interval returns the minimum spacing between admitted frames.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// AddListener registers a result listener.
func (s *Scheduler) AddListener(l ResultListener) { s.results.AddListener(l) }

// AddStateListener registers a state transition listener.
func (s *Scheduler) AddStateListener(l StateListener) {
	if l == nil {
		return
	}
	s.mu.Lock()
	s.stateListeners = append(s.stateListeners, l)
	s.mu.Unlock()
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SessionID returns the id assigned by Start, empty before.
func (s *Scheduler) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Stats returns tick counters.
func (s *Scheduler) Stats() SchedulerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Last returns the most recently emitted result.
func (s *Scheduler) Last() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// Start begins admitting frames from src. Only valid from Idle; otherwise a no-op.
func (s *Scheduler) Start(src FrameSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle || src == nil || s.proc == nil {
		return
	}
	s.src = src
	s.sessionID = uuid.NewString()
	s.lastProcessed = time.Time{}
	s.transition(StateRunning)
}

// Pause stops admitting frames while keeping all state. Only valid from Running.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning {
		s.transition(StatePaused)
	}
}

// Resume continues a paused session.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StatePaused {
		s.transition(StateRunning)
	}
}

// Stop ends the session from any state. Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.state == StateStopped {
		return
	}
	s.transition(StateStopped)
	s.src = nil
}

// Apply freezes the last emitted result as the final value and stops the
// session. ok is false when no frame was processed.
func (s *Scheduler) Apply() (final Result, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	final, ok = s.last, s.hasLast
	s.stopLocked()
	if s.logger != nil {
		s.logger.Info("count applied", "session", s.sessionID, "count", final.Count, "stable", final.Stable, "ok", ok)
	}
	return final, ok
}

// Tick offers the scheduler a chance to process one frame at now. It
// returns true when a frame was processed and its result emitted. Ticks
// outside Running, inside the rate interval, or while the source is not
// ready are dropped silently.
func (s *Scheduler) Tick(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		s.stats.Idle++
		return false
	}
	if !s.lastProcessed.IsZero() && now.Sub(s.lastProcessed) < s.interval {
		s.stats.RateDropped++
		return false
	}
	buf, ok := s.src.Frame()
	if !ok {
		s.stats.NotReady++
		return false
	}
	res := s.proc.ProcessFrame(buf, now)
	res.SessionID = s.sessionID
	s.lastProcessed = now
	s.last, s.hasLast = res, true
	s.stats.Admitted++
	s.results.Emit(res)
	return true
}

// Drive ticks the scheduler every interval until ctx is cancelled or the
// scheduler stops. It is the timer-based driver for hosts without a
// display refresh callback.
func (s *Scheduler) Drive(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = s.Interval() / 2
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		if s.State() == StateStopped {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			s.Tick(now)
		}
	}
}

func (s *Scheduler) transition(next State) {
	prev := s.state
	if prev == next {
		return
	}
	s.state = next
	if s.logger != nil {
		s.logger.Info("scheduler state", "from", prev.String(), "to", next.String(), "session", s.sessionID)
	}
	for _, l := range s.stateListeners {
		l(prev, next)
	}
}
