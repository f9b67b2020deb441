package model

import (
	"sync/atomic"

	"github.com/soocke/traystack-go/domain/traystack"
)

// RunModel mirrors the counting session state for the UI. The zero value is
// idle and usable. Concurrency-safe because scheduler listeners and UI
// callbacks may race.
type RunModel struct{ state atomic.Int32 }

// State returns the last stored state.
func (m *RunModel) State() traystack.State {
	if m == nil {
		return traystack.StateIdle
	}
	return traystack.State(m.state.Load())
}

// SetState stores s.
func (m *RunModel) SetState(s traystack.State) {
	if m == nil {
		return
	}
	m.state.Store(int32(s))
}

// Enabled reports whether a session is in progress, running or paused.
func (m *RunModel) Enabled() bool {
	s := m.State()
	return s == traystack.StateRunning || s == traystack.StatePaused
}

// Paused reports whether the session is paused.
func (m *RunModel) Paused() bool { return m.State() == traystack.StatePaused }
