package images

import (
	"errors"
	"image"
	"image/draw"

	"github.com/soocke/traystack-go/domain/traystack"
)

// ExtractROI returns the part of frame selected by roi together with the
// rectangle in frame coordinates. The ROI is clamped like the counter
// clamps it, so the result always lies inside the frame.
func ExtractROI(frame *image.RGBA, roi traystack.ROI) (*image.RGBA, image.Rectangle, error) {
	if frame == nil {
		return nil, image.Rectangle{}, errors.New("nil frame")
	}
	b := frame.Bounds()
	if b.Empty() {
		return nil, image.Rectangle{}, errors.New("empty frame")
	}
	rect := roi.Rect(b.Dx(), b.Dy()).Add(b.Min)
	sub := frame.SubImage(rect)
	if rgba, ok := sub.(*image.RGBA); ok {
		return rgba, rect, nil
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), sub, rect.Min, draw.Src)
	return out, rect, nil
}
