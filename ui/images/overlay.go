package images

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/soocke/traystack-go/domain/traystack"
)

var (
	roiColor    = color.NRGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff}
	peakColor   = color.NRGBA{R: 0xff, G: 0x52, B: 0x52, A: 0xff}
	stableColor = color.NRGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff}
	labelColor  = color.NRGBA{R: 0xff, G: 0xc1, B: 0x07, A: 0xff}
)

// DrawOverlay returns a copy of frame with the analysed region outlined,
// one horizontal line per detected seam and the current count in the top
// left corner. res.ROI and res.PeaksY are interpreted as produced by the
// counter for a frame of the same size.
func DrawOverlay(frame image.Image, res traystack.Result) *image.NRGBA {
	if frame == nil {
		return nil
	}
	dst := imaging.Clone(frame)
	roi := res.ROI.Intersect(dst.Rect)
	if !roi.Empty() {
		strokeRect(dst, roi, roiColor)
		for _, y := range res.PeaksY {
			hline(dst, roi.Min.X, roi.Max.X, roi.Min.Y+y, peakColor)
		}
	}
	col := labelColor
	if res.Stable {
		col = stableColor
	}
	label := fmt.Sprintf("count %d (raw %d, %.0f%%)", res.Count, res.RawCount, res.Ratio*100)
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(4, 14),
	}
	d.DrawString(label)
	return dst
}

func hline(dst *image.NRGBA, x0, x1, y int, c color.NRGBA) {
	if y < dst.Rect.Min.Y || y >= dst.Rect.Max.Y {
		return
	}
	for x := x0; x < x1; x++ {
		dst.SetNRGBA(x, y, c)
	}
}

func vline(dst *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	for y := y0; y < y1; y++ {
		dst.SetNRGBA(x, y, c)
	}
}

func strokeRect(dst *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	hline(dst, r.Min.X, r.Max.X, r.Min.Y, c)
	hline(dst, r.Min.X, r.Max.X, r.Max.Y-1, c)
	vline(dst, r.Min.X, r.Min.Y, r.Max.Y, c)
	vline(dst, r.Max.X-1, r.Min.Y, r.Max.Y, c)
}
