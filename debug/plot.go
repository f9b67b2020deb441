package debug

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/soocke/traystack-go/domain/traystack"
)

var (
	rawColor       = color.RGBA{R: 148, G: 163, B: 184, A: 255}
	smoothColor    = color.RGBA{R: 37, G: 99, B: 235, A: 255}
	highPassColor  = color.RGBA{R: 16, G: 185, B: 129, A: 255}
	thresholdColor = color.RGBA{R: 220, G: 38, B: 38, A: 255}
)

// SaveProfilePlot renders the row profiles of r against the ROI row and
// marks the accepted peaks. r must carry a debug trace. The format follows
// the extension of path (png, svg, pdf).
func SaveProfilePlot(path string, r traystack.Result) error {
	tr := r.Debug
	if tr == nil || len(tr.HighPass) == 0 {
		return errors.New("result has no debug trace")
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Row profile: %d peaks, count %d", r.Peaks, r.Count)
	p.X.Label.Text = "ROI row"
	p.Y.Label.Text = "Mean abs diff"

	series := []struct {
		name  string
		data  []float64
		color color.Color
	}{
		{"raw", tr.ProfileRaw, rawColor},
		{"smoothed", tr.Profile, smoothColor},
		{"high-pass", tr.HighPass, highPassColor},
	}
	for _, s := range series {
		if len(s.data) == 0 {
			continue
		}
		line, err := plotter.NewLine(profileXYs(s.data))
		if err != nil {
			return fmt.Errorf("%s line: %w", s.name, err)
		}
		line.Color = s.color
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	thr, err := plotter.NewLine(plotter.XYs{{X: 0, Y: r.Threshold}, {X: float64(len(tr.HighPass) - 1), Y: r.Threshold}})
	if err != nil {
		return fmt.Errorf("threshold line: %w", err)
	}
	thr.Color = thresholdColor
	thr.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(thr)
	p.Legend.Add("threshold", thr)

	pts := make(plotter.XYs, 0, len(r.PeaksY))
	for _, y := range r.PeaksY {
		if y >= 0 && y < len(tr.HighPass) {
			pts = append(pts, plotter.XY{X: float64(y), Y: tr.HighPass[y]})
		}
	}
	if len(pts) > 0 {
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("peak markers: %w", err)
		}
		sc.Color = thresholdColor
		sc.Radius = vg.Points(3)
		p.Add(sc)
		p.Legend.Add("peaks", sc)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save profile plot: %w", err)
	}
	return nil
}

func profileXYs(v []float64) plotter.XYs {
	pts := make(plotter.XYs, len(v))
	for i, y := range v {
		pts[i] = plotter.XY{X: float64(i), Y: y}
	}
	return pts
}
