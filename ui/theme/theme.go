package theme

// Tk styles for the tray counter window. Colors come from ui/palette; this
// package only binds them to ttk style names.

import (
	"github.com/soocke/traystack-go/ui/palette"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ttk style names.
const (
	StyleStartButton = "start.TButton"
	StyleStopButton  = "stop.TButton"
	StyleApplyButton = "apply.TButton"
)

// CaptureButtonStyle returns the style of the start/stop button.
func CaptureButtonStyle(active bool) string {
	if active {
		return StyleStopButton
	}
	return StyleStartButton
}

// InitStyles activates the base theme and configures the counter styles.
// Must run on the Tk goroutine before any widget uses a style.
func InitStyles() {
	_ = ActivateTheme("azure light")
	App.Configure(Background(palette.Background))

	button(StyleStartButton, palette.Capture(false))
	button(StyleStopButton, palette.Capture(true))
	// apply shares the stable count color
	button(StyleApplyButton, palette.Count(true))
}

func button(style, bg string) {
	StyleConfigure(style,
		Background(bg),
		Foreground(palette.Surface),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
}
