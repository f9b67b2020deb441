package presenter

import (
	"time"

	"github.com/soocke/traystack-go/ui/model"
)

// ActiveModel reports whether a counting session is in progress.
type ActiveModel interface{ Enabled() bool }

// SessionView displays formatted session and total durations.
type SessionView interface {
	SetSession(session, total time.Duration)
	SetCompleted(n int)
}

// SessionPresenter formats session timing from the model to the view.
type SessionPresenter struct {
	sess      *model.SessionModel
	active    ActiveModel
	view      SessionView
	completed int
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, active ActiveModel, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, active: active, view: view, completed: -1}
}

// Tick advances the session model and pushes values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.active == nil || p.view == nil {
		return
	}
	p.sess.OnTick(p.active.Enabled(), now)
	s, t := p.sess.Values()
	p.view.SetSession(s, t)
	if n := p.sess.Completed(); n != p.completed {
		p.completed = n
		p.view.SetCompleted(n)
	}
}
