package view

import (
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"

	"github.com/soocke/traystack-go/config"
	"github.com/soocke/traystack-go/ui/form"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// SelectionOverlay manages the transparent window the user drags over the
// tray stack to constrain screen capture to a rectangle.
type SelectionOverlay interface {
	OpenOrFocus()
	Clear()
	ActiveRect() *image.Rectangle
}

type selectionOverlay struct {
	logger    *slog.Logger
	cfg       *config.Config
	cfgPath   string
	screen    func() image.Rectangle
	selection atomic.Pointer[image.Rectangle]
	win       *ToplevelWidget
}

// NewSelectionOverlay creates a new overlay manager. screen reports the
// display bounds used to place the initial window.
func NewSelectionOverlay(cfg *config.Config, cfgPath string, screen func() image.Rectangle, logger *slog.Logger) SelectionOverlay {
	v := &selectionOverlay{logger: logger, cfg: cfg, cfgPath: cfgPath, screen: screen}
	if cfg != nil && cfg.SelectionW > 0 && cfg.SelectionH > 0 {
		rect := image.Rect(cfg.SelectionX, cfg.SelectionY, cfg.SelectionX+cfg.SelectionW, cfg.SelectionY+cfg.SelectionH)
		v.selection.Store(&rect)
	}
	return v
}

func (v *selectionOverlay) initialGeometry() string {
	if r := v.ActiveRect(); r != nil {
		return fmt.Sprintf("%dx%d+%d+%d", r.Dx(), r.Dy(), r.Min.X, r.Min.Y)
	}
	screen := image.Rect(0, 0, 1920, 1080)
	if v.screen != nil {
		if s := v.screen(); !s.Empty() {
			screen = s
		}
	}
	// a tall narrow window suits a vertical stack
	w, h := screen.Dx()/4, screen.Dy()*2/3
	x, y := screen.Min.X+(screen.Dx()-w)/2, screen.Min.Y+(screen.Dy()-h)/2
	return fmt.Sprintf("%dx%d+%d+%d", w, h, x, y)
}

func (v *selectionOverlay) OpenOrFocus() {
	if v.win != nil {
		WmGeometry(v.win.Window)
		return
	}
	win := App.Toplevel(Borderwidth(2), Background("#008080"))
	win.WmTitle("Capture Region")
	v.win = win
	WmGeometry(win.Window, v.initialGeometry())
	WmAttributes(win.Window, "-topmost", 1)
	WmAttributes(win.Window, "-toolwindow", true)
	WmAttributes(win.Window, "-transparentcolor", "#008080")
	GridRowConfigure(win.Window, 0, Weight(1))
	GridColumnConfigure(win.Window, 0, Weight(0))
	GridColumnConfigure(win.Window, 1, Weight(1))
	GridColumnConfigure(win.Window, 2, Weight(0))
	left := win.Frame(Width(4), Background("#FFFFFF"))
	Grid(left, Row(0), Column(0), Sticky("ns"))
	center := win.Frame(Background("#008080"))
	Grid(center, Row(0), Column(1), Sticky("nsew"))
	right := win.Frame(Width(4), Background("#FFFFFF"))
	Grid(right, Row(0), Column(2), Sticky("ns"))
	controls := win.Frame()
	Grid(controls, Row(1), Column(0), Columnspan(3), Sticky("we"))
	confirm := win.Button(Txt("Confirm [Enter]"), Command(v.confirm))
	Grid(confirm, In(controls), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	cancel := win.Button(Txt("Cancel [Esc]"), Command(v.cancel))
	Grid(cancel, In(controls), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	clear := win.Button(Txt("Full Screen"), Command(func() { v.Clear(); v.destroy() }))
	Grid(clear, In(controls), Row(0), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Bind(win, "<Return>", Command(v.confirm))
	Bind(win, "<Escape>", Command(v.cancel))
}

func (v *selectionOverlay) Clear() {
	v.selection.Store(nil)
	if v.cfg != nil {
		v.cfg.SelectionW, v.cfg.SelectionH = 0, 0
		v.save()
	}
}

func (v *selectionOverlay) confirm() {
	if v.win == nil {
		return
	}
	if rect, ok := form.ParseGeometry(WmGeometry(v.win.Window)); ok {
		v.selection.Store(&rect)
		if v.cfg != nil {
			v.cfg.SelectionX, v.cfg.SelectionY = rect.Min.X, rect.Min.Y
			v.cfg.SelectionW, v.cfg.SelectionH = rect.Dx(), rect.Dy()
			v.save()
		}
		if v.logger != nil {
			v.logger.Info("capture region set", "rect", rect.String())
		}
	}
	v.destroy()
}

func (v *selectionOverlay) save() {
	if err := v.cfg.Save(v.cfgPath); err != nil && v.logger != nil {
		v.logger.Error("config save failed", "error", err)
	}
}

func (v *selectionOverlay) cancel() { v.destroy() }

func (v *selectionOverlay) destroy() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
	}
}

func (v *selectionOverlay) ActiveRect() *image.Rectangle {
	r := v.selection.Load()
	if r == nil || r.Empty() {
		return nil
	}
	out := *r
	return &out
}
