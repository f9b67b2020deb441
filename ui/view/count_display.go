package view

import (
	"fmt"

	"github.com/soocke/traystack-go/domain/traystack"
	"github.com/soocke/traystack-go/ui/palette"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CountDisplay shows the live tray count with its stability and the last
// applied count.
type CountDisplay interface {
	SetCount(r traystack.Result)
	SetFinal(r traystack.Result, ok bool)
}

type countDisplay struct {
	countLbl  *LabelWidget
	detailLbl *LabelWidget
	finalLbl  *LabelWidget
}

// NewCountDisplay grids the count labels into parent at row.
func NewCountDisplay(parent *FrameWidget, row int) CountDisplay {
	d := &countDisplay{
		countLbl:  Label(Txt("--"), Width(6), Borderwidth(2), Relief("groove")),
		detailLbl: Label(Txt("waiting for frames"), Anchor("w")),
		finalLbl:  Label(Txt("Final: -"), Anchor("w")),
	}
	Grid(d.countLbl, In(parent), Row(row), Column(0), Sticky("nsw"), Padx("0.4m"), Pady("0.3m"))
	Grid(d.detailLbl, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.4m"))
	Grid(d.finalLbl, In(parent), Row(row+1), Column(1), Sticky("we"), Padx("0.4m"))
	return d
}

func (d *countDisplay) SetCount(r traystack.Result) {
	if d == nil || d.countLbl == nil {
		return
	}
	d.countLbl.Configure(Txt(fmt.Sprintf("%d", r.Count)), Foreground(palette.Count(r.Stable)))
	state := "unstable"
	if r.Stable {
		state = "stable"
	}
	d.detailLbl.Configure(Txt(fmt.Sprintf("%s  raw %d  peaks %d  agree %.0f%%", state, r.RawCount, r.Peaks, r.Ratio*100)))
}

func (d *countDisplay) SetFinal(r traystack.Result, ok bool) {
	if d == nil || d.finalLbl == nil {
		return
	}
	if !ok {
		d.finalLbl.Configure(Txt("Final: no frames processed"))
		return
	}
	suffix := ""
	if !r.Stable {
		suffix = " (unstable)"
	}
	d.finalLbl.Configure(Txt(fmt.Sprintf("Final: %d%s", r.Count, suffix)))
}
