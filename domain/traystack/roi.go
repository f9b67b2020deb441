package traystack

import (
	"image"
	"math"
)

// ROI is a sub-rectangle of the frame expressed as ratios of its size.
type ROI struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// minROISide is the smallest processable ROI edge in pixels.
const minROISide = 2

// Clamp returns the ROI with every ratio in [0,1], X+W <= 1 and Y+H <= 1.
func (r ROI) Clamp() ROI {
	r.X, r.Y = unit(r.X), unit(r.Y)
	r.W, r.H = unit(r.W), unit(r.H)
	if r.X+r.W > 1 {
		r.W = 1 - r.X
	}
	if r.Y+r.H > 1 {
		r.H = 1 - r.Y
	}
	return r
}

func unit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Rect maps the ROI onto a frame of the given size. The rectangle always
// lies inside the frame and is at least 2x2 when the frame allows it;
// degenerate ROIs are grown and shifted rather than rejected.
func (r ROI) Rect(frameW, frameH int) image.Rectangle {
	c := r.Clamp()
	x0, x1 := span(c.X, c.W, frameW)
	y0, y1 := span(c.Y, c.H, frameH)
	return image.Rect(x0, y0, x1, y1)
}

func span(start, length float64, size int) (int, int) {
	if size <= 0 {
		return 0, 0
	}
	a := int(math.Round(start * float64(size)))
	b := int(math.Round((start + length) * float64(size)))
	if a > size {
		a = size
	}
	if b > size {
		b = size
	}
	if b-a < minROISide {
		b = a + minROISide
		if b > size {
			b = size
			a = size - minROISide
			if a < 0 {
				a = 0
			}
		}
	}
	return a, b
}
