package model

import (
	"sync"

	"github.com/soocke/traystack-go/domain/traystack"
)

// CountModel holds the newest emitted result and the last applied count.
// Publish is called from the scheduler listener, readers poll from the UI
// tick; a sequence number lets them skip unchanged results.
type CountModel struct {
	mu       sync.Mutex
	latest   traystack.Result
	seq      uint64
	final    traystack.Result
	hasFinal bool
}

// NewCountModel returns an empty model.
func NewCountModel() *CountModel { return &CountModel{} }

// Publish stores r as the latest result.
func (m *CountModel) Publish(r traystack.Result) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.latest = r
	m.seq++
	m.mu.Unlock()
}

// Latest returns the newest result and its sequence. seq is zero until the
// first Publish.
func (m *CountModel) Latest() (r traystack.Result, seq uint64) {
	if m == nil {
		return traystack.Result{}, 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest, m.seq
}

// SetFinal records the result frozen by Apply.
func (m *CountModel) SetFinal(r traystack.Result) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.final, m.hasFinal = r, true
	m.mu.Unlock()
}

// Final returns the applied result, if any.
func (m *CountModel) Final() (traystack.Result, bool) {
	if m == nil {
		return traystack.Result{}, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.final, m.hasFinal
}

// ClearLatest forgets the live result; the applied result is kept.
func (m *CountModel) ClearLatest() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.latest = traystack.Result{}
	m.seq++
	m.mu.Unlock()
}
