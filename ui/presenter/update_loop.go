package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It ticks the counter first so the state, session and preview presenters
// observe the freshest result, then invokes a scheduler callback. The zero
// value is usable (methods are nil-safe).
type Loop struct {
	Counter  *CounterPresenter
	State    *StatePresenter
	Session  *SessionPresenter
	Preview  *PreviewPresenter
	Schedule func()
}

func NewLoop(counter *CounterPresenter, state *StatePresenter, sess *SessionPresenter, preview *PreviewPresenter, schedule func()) *Loop {
	return &Loop{Counter: counter, State: state, Session: sess, Preview: preview, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	l.TickAt(time.Now())
}

// TickAt runs one update at now.
func (l *Loop) TickAt(now time.Time) {
	if l == nil {
		return
	}
	if l.Counter != nil {
		l.Counter.Tick(now)
	}
	if l.State != nil {
		l.State.Tick(now)
	}
	if l.Session != nil {
		l.Session.Tick(now)
	}
	if l.Preview != nil {
		l.Preview.ProcessFrame(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
