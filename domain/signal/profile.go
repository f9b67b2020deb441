// Package signal holds the per-frame numeric stages of the tray counter:
// the row edge profile, window smoothing, baseline removal and peak picking.
// Every function is total: degenerate inputs yield empty or zero outputs.
package signal

import (
	"gonum.org/v1/gonum/floats"
)

// Rec.709 luma weights.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// Luma returns the perceptual brightness of an RGB sample.
func Luma(r, g, b byte) float64 {
	return lumaR*float64(r) + lumaG*float64(g) + lumaB*float64(b)
}

// EdgeProfile reduces the w x h region at (x0, y0) of a 4-channel pixel
// buffer to one value per row: the mean absolute luma difference between
// the row and the row above it. Row 0 replicates row 1. The caller
// guarantees the region lies inside pix; regions shorter than two rows or
// narrower than one column produce nil.
func EdgeProfile(pix []byte, stride, x0, y0, w, h int) []float64 {
	if w < 1 || h < 2 {
		return nil
	}
	out := make([]float64, h)
	prev := make([]float64, w)
	cur := make([]float64, w)
	lumaRow(pix, stride, x0, y0, w, prev)
	inv := 1 / float64(w)
	for y := 1; y < h; y++ {
		lumaRow(pix, stride, x0, y0+y, w, cur)
		var sum float64
		for x := 0; x < w; x++ {
			d := cur[x] - prev[x]
			if d < 0 {
				d = -d
			}
			sum += d
		}
		out[y] = sum * inv
		prev, cur = cur, prev
	}
	out[0] = out[1]
	return out
}

func lumaRow(pix []byte, stride, x0, y, w int, dst []float64) {
	row := pix[y*stride+x0*4 : y*stride+(x0+w)*4]
	for x := 0; x < w; x++ {
		i := x * 4
		dst[x] = Luma(row[i], row[i+1], row[i+2])
	}
}

// OddWindow coerces a window size to the nearest valid odd value >= 1,
// rounding even sizes up.
func OddWindow(n int) int {
	if n < 1 {
		return 1
	}
	if n%2 == 0 {
		return n + 1
	}
	return n
}

// MovingAverage applies a centred moving average of the given odd window.
// Windows are truncated at the ends: each output averages only the samples
// that exist, so the edges carry no zero-padding bias. Runs in O(n) using
// prefix sums.
func MovingAverage(src []float64, window int) []float64 {
	n := len(src)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	window = OddWindow(window)
	if window == 1 {
		copy(out, src)
		return out
	}
	prefix := make([]float64, n+1)
	floats.CumSum(prefix[1:], src)
	half := window / 2
	for i := range out {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > n-1 {
			hi = n - 1
		}
		out[i] = (prefix[hi+1] - prefix[lo]) / float64(hi-lo+1)
	}
	return out
}

// BaselineWindow returns the width of the illumination baseline window for
// a given smoothing window.
func BaselineWindow(smoothWindow int) int {
	w := smoothWindow * 5
	if w < 21 {
		w = 21
	}
	return OddWindow(w)
}

// HighPass subtracts a wide moving average from profile and clamps negative
// values to zero, removing slow illumination gradients while keeping sharp
// seams.
func HighPass(profile []float64, baseWindow int) []float64 {
	base := MovingAverage(profile, baseWindow)
	out := make([]float64, len(profile))
	for i, v := range profile {
		d := v - base[i]
		if d > 0 {
			out[i] = d
		}
	}
	return out
}
