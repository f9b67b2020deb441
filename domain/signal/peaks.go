package signal

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Peak is an accepted local maximum of the corrected profile.
type Peak struct {
	Row   int
	Value float64
}

// PeakParams controls peak acceptance.
type PeakParams struct {
	ThresholdK  float64 // std multiplier of the adaptive threshold
	MinDistance int     // merge / prominence neighbourhood in rows, >= 1
	MinStrength float64 // absolute floor of the threshold, >= 0
}

// PeakStats reports the statistics a detection pass was judged against.
type PeakStats struct {
	Mean      float64
	Std       float64
	Threshold float64
	PromAbs   float64
}

const (
	minProminence    = 1.5
	prominenceStdMul = 0.6
)

// Stats computes the sample mean and standard deviation (n-1) of hp along
// with the adaptive threshold and prominence floor derived from them.
func Stats(hp []float64, p PeakParams) PeakStats {
	var mean, std float64
	if len(hp) > 0 {
		mean, std = stat.MeanStdDev(hp, nil)
	}
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		mean = 0
	}
	if math.IsNaN(std) || math.IsInf(std, 0) {
		std = 0
	}
	return PeakStats{
		Mean:      mean,
		Std:       std,
		Threshold: math.Max(math.Max(p.MinStrength, 0), mean+p.ThresholdK*std),
		PromAbs:   math.Max(minProminence, prominenceStdMul*std),
	}
}

// DetectPeaks finds seam peaks in the baseline-corrected profile hp. The
// returned peaks are ordered by row and no two are closer than MinDistance:
// a candidate inside the distance of the last accepted peak replaces it only
// when strictly stronger.
func DetectPeaks(hp []float64, p PeakParams) ([]Peak, PeakStats) {
	st := Stats(hp, p)
	n := len(hp)
	dist := p.MinDistance
	if dist < 1 {
		dist = 1
	}
	var peaks []Peak
	for y := 1; y <= n-2; y++ {
		v := hp[y]
		if v <= st.Threshold || v <= hp[y-1] || v < hp[y+1] {
			continue
		}
		if prominence(hp, y, dist) < st.PromAbs {
			continue
		}
		if k := len(peaks); k > 0 && y-peaks[k-1].Row < dist {
			if v > peaks[k-1].Value {
				peaks[k-1] = Peak{Row: y, Value: v}
			}
			continue
		}
		peaks = append(peaks, Peak{Row: y, Value: v})
	}
	return peaks, st
}

// prominence measures how far hp[y] rises above the higher of the minima
// found within dist rows on either side.
func prominence(hp []float64, y, dist int) float64 {
	lo := y - dist
	if lo < 0 {
		lo = 0
	}
	hi := y + dist
	if hi > len(hp)-1 {
		hi = len(hp) - 1
	}
	leftMin := floats.Min(hp[lo:y])
	rightMin := floats.Min(hp[y+1 : hi+1])
	return hp[y] - math.Max(leftMin, rightMin)
}

// Rows returns the row positions of peaks.
func Rows(peaks []Peak) []int {
	rows := make([]int, len(peaks))
	for i, p := range peaks {
		rows[i] = p.Row
	}
	return rows
}
