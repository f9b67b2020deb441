package model

import (
	"time"
)

// SessionModel tracks the current counting session duration, the
// accumulated active time and how many sessions have completed.
// Presenters poll Values() and update views. The zero value is ready to use.
type SessionModel struct {
	active      bool
	started     time.Time
	current     time.Duration
	accumulated time.Duration
	completed   int
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick updates the model from the session activity flag at now.
func (m *SessionModel) OnTick(active bool, now time.Time) {
	if m == nil {
		return
	}
	switch {
	case active && !m.active:
		m.active = true
		m.started = now
		m.current = 0
	case active:
		m.current = now.Sub(m.started)
	case m.active:
		m.current = now.Sub(m.started)
		m.accumulated += m.current
		m.completed++
		m.active = false
	}
}

// Values returns the current session duration and the total accumulated duration.
// The total includes the ongoing session when active.
func (m *SessionModel) Values() (session, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	session = m.current
	total = m.accumulated
	if m.active {
		total += session
	}
	return
}

// Completed returns the number of finished sessions.
func (m *SessionModel) Completed() int {
	if m == nil {
		return 0
	}
	return m.completed
}
