package traystack

import (
	"image"
	"time"
)

// PixelBuffer is a read-only view of a 4-channel frame. Stride is the
// distance in bytes between rows; zero means Width*4. The counter only
// borrows the buffer for the duration of one ProcessFrame call.
type PixelBuffer struct {
	Width  int
	Height int
	Stride int
	Data   []byte
}

// RowStride returns the effective stride.
func (b PixelBuffer) RowStride() int {
	if b.Stride > 0 {
		return b.Stride
	}
	return b.Width * 4
}

// Valid reports whether the geometry is positive and fully backed by Data.
func (b PixelBuffer) Valid() bool {
	if b.Width <= 0 || b.Height <= 0 {
		return false
	}
	stride := b.RowStride()
	if stride < b.Width*4 {
		return false
	}
	return len(b.Data) >= (b.Height-1)*stride+b.Width*4
}

// FromImage wraps the pixels of an RGBA or NRGBA image without copying.
// Other image types are not supported and return false.
func FromImage(img image.Image) (PixelBuffer, bool) {
	switch m := img.(type) {
	case *image.RGBA:
		r := m.Rect
		if r.Empty() {
			return PixelBuffer{}, false
		}
		return PixelBuffer{Width: r.Dx(), Height: r.Dy(), Stride: m.Stride, Data: m.Pix[m.PixOffset(r.Min.X, r.Min.Y):]}, true
	case *image.NRGBA:
		r := m.Rect
		if r.Empty() {
			return PixelBuffer{}, false
		}
		return PixelBuffer{Width: r.Dx(), Height: r.Dy(), Stride: m.Stride, Data: m.Pix[m.PixOffset(r.Min.X, r.Min.Y):]}, true
	default:
		return PixelBuffer{}, false
	}
}

// FrameSource yields the current frame on demand. ok is false while the
// source has nothing new to offer; the scheduler retries on the next tick.
type FrameSource interface {
	Frame() (buf PixelBuffer, ok bool)
}

// FrameSourceFunc adapts a function to FrameSource.
type FrameSourceFunc func() (PixelBuffer, bool)

// Frame calls f.
func (f FrameSourceFunc) Frame() (PixelBuffer, bool) { return f() }

// Processor turns one frame into a Result.
type Processor interface {
	ProcessFrame(buf PixelBuffer, ts time.Time) Result
}

// Result is the snapshot published for every processed frame. It is never
// mutated after emission.
type Result struct {
	Count     int             `json:"count"`
	RawCount  int             `json:"raw_count"`
	Stable    bool            `json:"stable"`
	Ratio     float64         `json:"ratio"`
	Peaks     int             `json:"peaks"`
	PeaksY    []int           `json:"peaks_y"`
	Threshold float64         `json:"threshold"`
	Timestamp time.Time       `json:"timestamp"`
	SessionID string          `json:"session_id,omitempty"`
	ROI       image.Rectangle `json:"roi"`
	Debug     *DebugTrace     `json:"debug,omitempty"`
}

// DebugTrace carries the intermediate profiles of a frame when debug
// drawing is enabled. Rows are relative to the ROI.
type DebugTrace struct {
	ProfileRaw []float64 `json:"profile_raw"`
	Profile    []float64 `json:"profile"`
	HighPass   []float64 `json:"high_pass"`
	Mean       float64   `json:"mean"`
	Std        float64   `json:"std"`
	PromAbs    float64   `json:"prom_abs"`
}
