package capture

import (
	"sync"

	"github.com/soocke/traystack-go/domain/traystack"
)

type frameSource struct {
	svc     Service
	mu      sync.Mutex
	lastSeq uint64
}

// NewFrameSource adapts svc to the counter's pull interface. Each captured
// frame is offered once; until the service publishes a newer sequence the
// source reports not ready.
func NewFrameSource(svc Service) traystack.FrameSource {
	return &frameSource{svc: svc}
}

func (f *frameSource) Frame() (traystack.PixelBuffer, bool) {
	snap := f.svc.LatestFrame()
	if snap.Image == nil || snap.Sequence == 0 {
		return traystack.PixelBuffer{}, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if snap.Sequence == f.lastSeq {
		return traystack.PixelBuffer{}, false
	}
	buf, ok := traystack.FromImage(snap.Image)
	if !ok {
		return traystack.PixelBuffer{}, false
	}
	f.lastSeq = snap.Sequence
	return buf, true
}
