// Package palette maps counter semantics to window colors. A stable count is
// green, a count still settling is amber. It has no toolkit dependency so the
// mapping can be checked headless.
package palette

import "github.com/soocke/traystack-go/domain/traystack"

const (
	Background = "#f4f6f8"
	Surface    = "#ffffff"
	Border     = "#cbd5e1"
	Text       = "#0f172a"
	TextMuted  = "#64748b"

	Stable   = "#15803d" // vote agreed, count can be applied
	Settling = "#b45309" // vote still collecting frames
	Counting = "#1d4ed8"
	Halted   = "#b91c1c"
)

// Swatch is a foreground/background pair.
type Swatch struct {
	Fg string
	Bg string
}

// Count returns the foreground for a live count.
func Count(stable bool) string {
	if stable {
		return Stable
	}
	return Settling
}

// State returns the swatch of the session state label.
func State(s traystack.State) Swatch {
	switch s {
	case traystack.StateRunning:
		return Swatch{Fg: Surface, Bg: Counting}
	case traystack.StatePaused:
		return Swatch{Fg: Surface, Bg: Settling}
	case traystack.StateStopped:
		return Swatch{Fg: Text, Bg: Border}
	default:
		return Swatch{Fg: TextMuted, Bg: Surface}
	}
}

// Capture returns the background of the start/stop button. An active
// session shows the stop color.
func Capture(active bool) string {
	if active {
		return Halted
	}
	return Counting
}
