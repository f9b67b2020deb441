package presenter

// LifecycleContract narrows what the presenter needs from the capture layer.
type LifecycleContract interface {
	Start()
	Stop()
	Running() bool
}

// CounterSession begins and ends a counting session.
type CounterSession interface {
	Begin()
	End()
}

// CaptureView updates UI elements affected by capture toggling.
// State label updates are owned by StatePresenter.
type CaptureView interface {
	PreviewReset()
	ConfigEditable(bool)
}

// CapturePresenter couples the capture service to the counting session.
// The capture service's running flag is the source of truth, so a session
// ended by Apply can still be torn down here.
type CapturePresenter struct {
	service LifecycleContract
	session CounterSession
	view    CaptureView
}

func NewCapturePresenter(service LifecycleContract, session CounterSession, view CaptureView) *CapturePresenter {
	return &CapturePresenter{service: service, session: session, view: view}
}

func (c *CapturePresenter) ready() bool {
	return c != nil && c.service != nil && c.session != nil && c.view != nil
}

// Enable starts the capture service and begins a counting session. Idempotent.
func (c *CapturePresenter) Enable() {
	if !c.ready() || c.service.Running() {
		return
	}
	c.service.Start()
	c.session.Begin()
	c.view.ConfigEditable(false)
}

// Disable ends the session, stops the capture service and resets the preview. Idempotent.
func (c *CapturePresenter) Disable() {
	if !c.ready() || !c.service.Running() {
		return
	}
	c.session.End()
	c.service.Stop()
	c.view.PreviewReset()
	c.view.ConfigEditable(true)
}

// Toggle flips enabled state delegating to Enable/Disable.
func (c *CapturePresenter) Toggle() {
	if !c.ready() {
		return
	}
	if c.service.Running() {
		c.Disable()
		return
	}
	c.Enable()
}
