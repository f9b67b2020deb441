package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/traystack-go/config"
	"github.com/soocke/traystack-go/domain/traystack"
)

func TestMain(m *testing.M) {
	// plain text so assertions do not depend on the terminal running the tests
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestParseROI(t *testing.T) {
	roi, err := ParseROI("0.1, 0.2,0.5,0.6")
	require.NoError(t, err)
	assert.Equal(t, traystack.ROI{X: 0.1, Y: 0.2, W: 0.5, H: 0.6}, roi)

	roi, err = ParseROI("0.8,0,0.5,1")
	require.NoError(t, err)
	assert.InDelta(t, 0.2, roi.W, 1e-9, "clamped to the frame")

	for _, bad := range []string{"", "1,2,3", "a,b,c,d", "0,0,1,1,1"} {
		_, err := ParseROI(bad)
		assert.Error(t, err, bad)
	}
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.toml")
	require.NoError(t, os.WriteFile(path, []byte("sensitivity = 0.9\nfps_limit = 15\nauto_offset = true\n"), 0o644))

	var got *config.Config
	cmd := NewRootCmd(func(cfg *config.Config, cfgPath string, _ *slog.Logger) error {
		got = cfg
		assert.Equal(t, path, cfgPath)
		return nil
	})
	cmd.SetArgs([]string{"gui", "--config", path, "--sensitivity", "0.3", "--no-auto-offset", "--manual-offset", "2", "--roi", "0,0,1,1"})
	require.NoError(t, cmd.Execute())
	require.NotNil(t, got)

	assert.InDelta(t, 0.3, got.Sensitivity, 1e-9)
	assert.Equal(t, 15, got.FPSLimit, "unset flags keep the file value")
	assert.False(t, got.AutoOffset)
	assert.Equal(t, 2, got.ManualOffset)
	assert.Equal(t, [4]float64{0, 0, 1, 1}, [4]float64{got.ROIX, got.ROIY, got.ROIW, got.ROIH})
}

func TestRootRunsGUIByDefault(t *testing.T) {
	called := false
	cmd := NewRootCmd(func(*config.Config, string, *slog.Logger) error { called = true; return nil })
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.json")})
	require.NoError(t, cmd.Execute())
	assert.True(t, called)
}

func runAnalyze(t *testing.T, args ...string) *bytes.Buffer {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCmd(nil)
	cmd.SetOut(out)
	cmd.SetArgs(append([]string{"analyze", "--config", filepath.Join(t.TempDir(), "none.json")}, args...))
	require.NoError(t, cmd.Execute())
	return out
}

func TestAnalyzeSampleJSON(t *testing.T) {
	out := runAnalyze(t, "--frames", "8", "--json")
	var r traystack.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	assert.Equal(t, 4, r.Count)
	assert.Equal(t, 3, r.Peaks)
	assert.True(t, r.Stable)
	assert.NotEmpty(t, r.SessionID)
	assert.Nil(t, r.Debug)
}

func TestAnalyzeSingleFrameIsUnstable(t *testing.T) {
	out := runAnalyze(t)
	assert.Contains(t, out.String(), "Trays: 4 (unstable)")
}

func TestAnalyzeWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	plot := filepath.Join(dir, "profile.png")
	overlay := filepath.Join(dir, "overlay.png")
	runAnalyze(t, "--plot", plot, "--overlay", overlay)
	for _, p := range []string{plot, overlay} {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	cmd := NewRootCmd(nil)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"analyze", "--config", filepath.Join(t.TempDir(), "none.json"), filepath.Join(t.TempDir(), "nope.png")})
	assert.Error(t, cmd.Execute())
}

// seamFrame is a 16x200 gray frame with brightness steps at rows 50, 100
// and 150.
func seamFrame() traystack.PixelBuffer {
	img := image.NewRGBA(image.Rect(0, 0, 16, 200))
	for y := 0; y < 200; y++ {
		level := uint8(40 + 50*(y/50))
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, color.RGBA{level, level, level, 255})
		}
	}
	buf, _ := traystack.FromImage(img)
	return buf
}

func TestWatchPrintsFinalCount(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ROIX, cfg.ROIY, cfg.ROIW, cfg.ROIH = 0, 0, 1, 1
	cfg.FPSLimit = 20
	buf := seamFrame()
	src := traystack.FrameSourceFunc(func() (traystack.PixelBuffer, bool) { return buf, true })

	out := &bytes.Buffer{}
	cmd := NewRootCmd(nil)
	cmd.SetOut(out)
	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()
	require.NoError(t, watch(ctx, cmd, cfg, src, traystack.NewTrayCounter(cfg, nil)))

	text := out.String()
	assert.Contains(t, text, "Trays: 4 (stable)")
	// first result plus the switch to stable
	assert.Equal(t, 2, strings.Count(text, "count "))
}

func TestWatchWithoutFrames(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := NewRootCmd(nil)
	cmd.SetOut(out)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	src := traystack.FrameSourceFunc(func() (traystack.PixelBuffer, bool) { return traystack.PixelBuffer{}, false })
	require.NoError(t, watch(ctx, cmd, config.DefaultConfig(), src, traystack.NewTrayCounter(config.DefaultConfig(), nil)))
	assert.Contains(t, out.String(), "no frames processed")
}

func TestSelectionFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Nil(t, selectionFromConfig(cfg))
	cfg.SelectionX, cfg.SelectionY, cfg.SelectionW, cfg.SelectionH = 10, 20, 30, 40
	sel := selectionFromConfig(cfg)
	require.NotNil(t, sel)
	assert.Equal(t, image.Rect(10, 20, 40, 60), *sel())
}
