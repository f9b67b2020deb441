package traystack

import (
	"math"

	"github.com/soocke/traystack-go/domain/signal"
)

// DetectionParams groups the peak detection settings. The threshold
// multiplier and smoothing window are derived from the sensitivity and can
// only change through WithSensitivity.
type DetectionParams struct {
	sensitivity     float64
	thresholdK      float64
	smoothWindow    int
	minPeakDistance int
	minPeakStrength float64
}

// NewDetectionParams derives a parameter set. Out of range inputs are
// coerced: sensitivity into [0,1], distance to >= 1, strength to >= 0.
func NewDetectionParams(sensitivity float64, minPeakDistance int, minPeakStrength float64) DetectionParams {
	p := DetectionParams{}
	return p.WithSensitivity(sensitivity).WithMinPeakDistance(minPeakDistance).WithMinPeakStrength(minPeakStrength)
}

// WithSensitivity returns a copy with sensitivity s and re-derived
// threshold multiplier and smoothing window.
func (p DetectionParams) WithSensitivity(s float64) DetectionParams {
	s = unit(s)
	p.sensitivity = s
	p.thresholdK = 2.2 - 1.6*s
	p.smoothWindow = signal.OddWindow(int(math.Round(7 + 8*(1-s))))
	return p
}

// WithMinPeakDistance returns a copy with the given minimum peak spacing.
func (p DetectionParams) WithMinPeakDistance(d int) DetectionParams {
	if d < 1 {
		d = 1
	}
	p.minPeakDistance = d
	return p
}

// WithMinPeakStrength returns a copy with the given absolute threshold floor.
func (p DetectionParams) WithMinPeakStrength(v float64) DetectionParams {
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	p.minPeakStrength = v
	return p
}

// Sensitivity returns the configured sensitivity in [0,1].
func (p DetectionParams) Sensitivity() float64 { return p.sensitivity }

// ThresholdK returns the standard deviation multiplier of the threshold.
func (p DetectionParams) ThresholdK() float64 { return p.thresholdK }

// SmoothWindow returns the odd moving average window in rows.
func (p DetectionParams) SmoothWindow() int { return p.smoothWindow }

// MinPeakDistance returns the configured minimum spacing between peaks.
func (p DetectionParams) MinPeakDistance() int { return p.minPeakDistance }

// MinPeakStrength returns the absolute threshold floor.
func (p DetectionParams) MinPeakStrength() float64 { return p.minPeakStrength }

// effective returns the smoothing window and peak distance used on a
// profile of the given length. The smoothing window is capped at a quarter
// of the rows. The configured distance holds unless the profile is too
// short to fit two peaks that far apart; only then is it lowered to the
// same quarter so the seams still resolve.
func (p DetectionParams) effective(rows int) (smooth, dist int) {
	limit := rows / 4
	if limit < 1 {
		limit = 1
	}
	smooth = p.smoothWindow
	if smooth > limit {
		smooth = limit
		if smooth%2 == 0 {
			smooth--
		}
	}
	if smooth < 1 {
		smooth = 1
	}
	dist = p.minPeakDistance
	if rows < 2*dist+1 {
		dist = limit
	}
	if dist < 1 {
		dist = 1
	}
	return smooth, dist
}
