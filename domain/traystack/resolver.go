package traystack

import "github.com/soocke/traystack-go/config"

// MaxManualOffset is the largest operator-selected offset.
const MaxManualOffset = config.MaxManualOffset

// CountPolicy converts a seam count into a tray count. With AutoOffset a
// stack of N trays shows N-1 seams plus one silhouette edge, so one is added
// whenever any seam is visible; an empty profile reads as no stack.
type CountPolicy struct {
	AutoOffset   bool `json:"auto_offset"`
	ManualOffset int  `json:"manual_offset"`
}

// Offset returns the value added to a peak count.
func (p CountPolicy) Offset(peaks int) int {
	if p.AutoOffset {
		if peaks > 0 {
			return 1
		}
		return 0
	}
	switch {
	case p.ManualOffset < 0:
		return 0
	case p.ManualOffset > MaxManualOffset:
		return MaxManualOffset
	default:
		return p.ManualOffset
	}
}

// Resolve returns the raw tray count for a peak count. Never negative.
func (p CountPolicy) Resolve(peaks int) int {
	if peaks < 0 {
		peaks = 0
	}
	return peaks + p.Offset(peaks)
}
