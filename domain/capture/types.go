package capture

import (
	"image"
	"time"
)

// Grabber acquires screen pixels. Implementations return a freshly
// allocated image per call; the service never mutates it afterwards.
type Grabber interface {
	Grab() (*image.RGBA, error)
	GrabRect(r image.Rectangle) (*image.RGBA, error)
}

// ScreenGrabber captures from the local display using the platform backend.
type ScreenGrabber struct{}

// Grab captures the full primary screen.
func (ScreenGrabber) Grab() (*image.RGBA, error) { return grabScreen() }

// GrabRect captures r clipped to the screen.
func (ScreenGrabber) GrabRect(r image.Rectangle) (*image.RGBA, error) { return grabRect(r) }

// SelectionProvider returns the current capture rectangle in screen
// coordinates, or nil to capture the full screen.
type SelectionProvider func() *image.Rectangle

// Service is the capture service used by the counter and the UI.
type Service interface {
	Start()
	Stop()
	LatestFrame() FrameSnapshot
	Running() bool
	SetSelectionProvider(SelectionProvider)
	SetPace(time.Duration)
	Stats() CaptureStats
}

// ScreenBounds reports the primary display bounds, or an empty rectangle
// when they cannot be queried.
func ScreenBounds() image.Rectangle { return screenBounds() }
