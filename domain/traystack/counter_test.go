package traystack

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/traystack-go/config"
)

// grayFrame builds a w-wide buffer whose row y has gray level rows[y].
func grayFrame(w int, rows []uint8) PixelBuffer {
	h := len(rows)
	data := make([]byte, w*h*4)
	for y, v := range rows {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			data[i], data[i+1], data[i+2], data[i+3] = v, v, v, 255
		}
	}
	return PixelBuffer{Width: w, Height: h, Data: data}
}

// stepFrame returns an h-row frame whose gray level rises by step at each
// of the given seam rows.
func stepFrame(w, h int, base, step uint8, seams ...int) PixelBuffer {
	rows := make([]uint8, h)
	level := base
	next := 0
	for y := range rows {
		if next < len(seams) && y == seams[next] {
			level += step
			next++
		}
		rows[y] = level
	}
	return grayFrame(w, rows)
}

func fullFrameConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.ROIX, cfg.ROIY, cfg.ROIW, cfg.ROIH = 0, 0, 1, 1
	return cfg
}

var t0 = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestProcessFrameTwoSeamsEightRows(t *testing.T) {
	c := NewTrayCounter(fullFrameConfig(), nil)
	buf := grayFrame(4, []uint8{100, 100, 140, 140, 140, 180, 180, 180})

	res := c.ProcessFrame(buf, t0)

	assert.Equal(t, 2, res.Peaks)
	assert.Equal(t, []int{2, 5}, res.PeaksY)
	assert.Equal(t, 3, res.RawCount)
	assert.Equal(t, 3, res.Count)
	assert.False(t, res.Stable)
	assert.InDelta(t, 24.27, res.Threshold, 0.05)
	assert.Equal(t, image.Rect(0, 0, 4, 8), res.ROI)
	assert.Equal(t, t0, res.Timestamp)
	assert.Nil(t, res.Debug)
}

func TestProcessFrameUniformHasNoPeaks(t *testing.T) {
	buf := grayFrame(32, make([]uint8, 120))
	for _, s := range []float64{0, 0.3, 0.62, 1} {
		cfg := fullFrameConfig()
		cfg.Sensitivity = s
		c := NewTrayCounter(cfg, nil)
		for i := 0; i < 8; i++ {
			res := c.ProcessFrame(buf, t0)
			require.Equal(t, 0, res.Peaks, "sensitivity %v", s)
			require.Equal(t, 0, res.Count)
			require.False(t, res.Stable, "empty profile must never be stable")
		}
	}
}

func TestProcessFrameCountsEverySeam(t *testing.T) {
	seams := []int{40, 80, 120, 160}
	buf := stepFrame(16, 200, 40, 44, seams...)
	c := NewTrayCounter(fullFrameConfig(), nil)

	res := c.ProcessFrame(buf, t0)

	require.Equal(t, len(seams), res.Peaks)
	assert.Equal(t, len(seams)+1, res.RawCount)
	for i, y := range res.PeaksY {
		assert.InDelta(t, seams[i], y, 6, "peak %d at row %d", i, y)
	}
	for i := 1; i < len(res.PeaksY); i++ {
		assert.GreaterOrEqual(t, res.PeaksY[i]-res.PeaksY[i-1], c.Params().MinPeakDistance())
	}
}

func TestProcessFrameKeepsMinPeakDistanceOnShortROI(t *testing.T) {
	cfg := fullFrameConfig()
	cfg.Sensitivity = 1
	cfg.MinPeakDistance = 16
	found := 0
	for rows := 40; rows <= 60; rows += 4 {
		for spacing := 10; spacing < 20; spacing++ {
			var seams []int
			for y := spacing; y < rows-2; y += spacing {
				seams = append(seams, y)
			}
			c := NewTrayCounter(cfg, nil)
			require.Equal(t, cfg.MinPeakDistance, c.Params().MinPeakDistance())
			res := c.ProcessFrame(stepFrame(8, rows, 40, 30, seams...), t0)
			found += res.Peaks
			for i := 1; i < len(res.PeaksY); i++ {
				gap := res.PeaksY[i] - res.PeaksY[i-1]
				assert.GreaterOrEqual(t, gap, cfg.MinPeakDistance, "rows=%d seams=%v peaks=%v", rows, seams, res.PeaksY)
			}
		}
	}
	assert.Positive(t, found, "seams should be detected on short ROIs")
}

func TestProcessFrameStableAfterSixFrames(t *testing.T) {
	c := NewTrayCounter(fullFrameConfig(), nil)
	buf := grayFrame(4, []uint8{100, 100, 140, 140, 140, 180, 180, 180})

	for i := 1; i <= 5; i++ {
		res := c.ProcessFrame(buf, t0)
		require.False(t, res.Stable, "frame %d", i)
	}
	res := c.ProcessFrame(buf, t0)
	assert.True(t, res.Stable)
	assert.Equal(t, 3, res.Count)
	assert.InDelta(t, 1.0, res.Ratio, 1e-9)
}

func TestProcessFrameDeterministic(t *testing.T) {
	cfg := fullFrameConfig()
	cfg.DebugDraw = true
	c := NewTrayCounter(cfg, nil)
	buf := stepFrame(16, 200, 40, 44, 40, 80, 120, 160)

	first := c.ProcessFrame(buf, t0)
	c.Reset()
	second := c.ProcessFrame(buf, t0)

	require.NotNil(t, first.Debug)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("results differ after reset (-first +second):\n%s", diff)
	}
	assert.Len(t, first.Debug.HighPass, 200)
}

func TestProcessFrameManualOffset(t *testing.T) {
	cfg := fullFrameConfig()
	cfg.AutoOffset = false
	cfg.ManualOffset = 2
	c := NewTrayCounter(cfg, nil)

	res := c.ProcessFrame(grayFrame(4, []uint8{100, 100, 140, 140, 140, 180, 180, 180}), t0)
	assert.Equal(t, 4, res.RawCount)

	c.SetManualOffset(1)
	res = c.ProcessFrame(grayFrame(4, make([]uint8, 8)), t0)
	assert.Equal(t, 0, res.Peaks)
	assert.Equal(t, 1, res.RawCount)

	c.SetManualOffset(7)
	assert.Equal(t, MaxManualOffset, c.Policy().ManualOffset)
}

func TestProcessFrameInvalidBuffer(t *testing.T) {
	c := NewTrayCounter(nil, nil)
	for name, buf := range map[string]PixelBuffer{
		"zero":      {},
		"short":     {Width: 10, Height: 10, Data: make([]byte, 20)},
		"badStride": {Width: 10, Height: 2, Stride: 8, Data: make([]byte, 400)},
	} {
		res := c.ProcessFrame(buf, t0)
		assert.Equal(t, 0, res.Peaks, name)
		assert.Equal(t, 0, res.Count, name)
		assert.Empty(t, res.PeaksY, name)
	}
}

func TestProcessFrameRespectsROI(t *testing.T) {
	cfg := fullFrameConfig()
	cfg.ROIY, cfg.ROIH = 0.5, 0.5
	c := NewTrayCounter(cfg, nil)
	// seams at 40 and 160: only the second lies in the lower half.
	buf := stepFrame(16, 200, 40, 60, 40, 160)

	res := c.ProcessFrame(buf, t0)

	assert.Equal(t, image.Rect(0, 100, 16, 200), res.ROI)
	require.Equal(t, 1, res.Peaks)
	assert.InDelta(t, 60, res.PeaksY[0], 6, "peak rows are ROI relative")
}

func TestApplyResizesStabilityWindow(t *testing.T) {
	cfg := fullFrameConfig()
	c := NewTrayCounter(cfg, nil)
	buf := grayFrame(4, []uint8{100, 100, 140, 140, 140, 180, 180, 180})
	for i := 0; i < 6; i++ {
		c.ProcessFrame(buf, t0)
	}
	cfg.Sensitivity = 0.7
	c.Apply(cfg)
	assert.True(t, c.ProcessFrame(buf, t0).Stable, "same window size keeps history")

	cfg.StableWindow = 4
	c.Apply(cfg)
	res := c.ProcessFrame(buf, t0)
	assert.False(t, res.Stable, "new window starts empty")
	assert.InDelta(t, 0.7, c.Params().Sensitivity(), 1e-9)
}

func TestFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	img.Set(2, 1, color.NRGBA{R: 9, G: 8, B: 7, A: 255})
	buf, ok := FromImage(img)
	require.True(t, ok)
	assert.True(t, buf.Valid())
	assert.Equal(t, 6, buf.Width)
	assert.Equal(t, 4, buf.Height)
	i := 1*buf.RowStride() + 2*4
	assert.Equal(t, []byte{9, 8, 7, 255}, buf.Data[i:i+4])

	sub := img.SubImage(image.Rect(2, 1, 4, 3))
	buf, ok = FromImage(sub)
	require.True(t, ok)
	assert.Equal(t, 2, buf.Width)
	assert.Equal(t, byte(9), buf.Data[0])

	_, ok = FromImage(image.NewGray(image.Rect(0, 0, 2, 2)))
	assert.False(t, ok)
}

func TestManualOffsetRangeFollowsConfig(t *testing.T) {
	assert.Equal(t, config.MaxManualOffset, MaxManualOffset)

	cfg := fullFrameConfig()
	cfg.AutoOffset = false
	cfg.ManualOffset = config.MaxManualOffset + 3
	c := NewTrayCounter(cfg, nil)
	assert.Equal(t, config.MaxManualOffset, c.Policy().ManualOffset)
	assert.Equal(t, config.MaxManualOffset, c.Policy().Offset(0))
}
