package presenter

import (
	"sync"
	"time"

	"github.com/soocke/traystack-go/domain/traystack"
)

// StateView reflects the scheduler state.
type StateView interface {
	SetStateLabel(string)
	SetControls(traystack.State)
}

// StatePresenter receives scheduler transitions and updates the view on the
// next tick.
type StatePresenter struct {
	view    StateView
	mu      sync.Mutex
	latest  traystack.State
	shown   bool
	pending []traystack.State
}

func NewStatePresenter(view StateView) *StatePresenter {
	return &StatePresenter{view: view}
}

// OnState queues a transitioned state. It only records the state, so it is
// safe to register as a scheduler listener.
func (p *StatePresenter) OnState(_, next traystack.State) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, next)
	p.mu.Unlock()
}

// Tick reflects the most recent queued state and clears the queue.
func (p *StatePresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	if len(p.pending) == 0 {
		p.mu.Unlock()
		return
	}
	last := p.pending[len(p.pending)-1]
	p.pending = p.pending[:0]
	p.mu.Unlock()
	if p.shown && last == p.latest {
		return
	}
	p.latest, p.shown = last, true
	p.view.SetStateLabel("State: " + last.String())
	p.view.SetControls(last)
}
