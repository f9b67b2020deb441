package view

import (
	"log/slog"
	"strings"

	"github.com/soocke/traystack-go/config"
	"github.com/soocke/traystack-go/ui/form"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the configuration form widgets and apply logic.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
type ConfigPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	ApplyChanges() // parses widget text into underlying config, persists and notifies
	Refresh()      // rewrites every field from the underlying config
}

type configPanel struct {
	cfg       *config.Config
	cfgPath   string
	logger    *slog.Logger
	onApplied func(*config.Config)
	fields    []form.Field
	widgets   map[string]*TextWidget // keyed by field id
}

// NewConfigPanel creates the view bound to cfg. onApplied runs after every
// apply with the updated config so running sessions pick it up.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, onApplied func(*config.Config)) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, onApplied: onApplied, fields: form.ConfigFields(), widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(startRow int) (row int) {
	row = startRow
	for _, f := range v.fields {
		lbl := Label(Txt(f.Label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(16))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		v.widgets[f.ID] = w
		row++
	}
	v.Refresh()
	applyBtn := Button(Txt("Apply Settings"), Command(func() { v.ApplyChanges() }))
	Grid(applyBtn, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) Refresh() {
	if v.cfg == nil {
		return
	}
	for _, f := range v.fields {
		if w := v.widgets[f.ID]; w != nil {
			w.Delete("1.0", END)
			w.Insert("1.0", f.Get(v.cfg))
		}
	}
}

func (v *configPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	values := make(map[string]string, len(v.widgets))
	for id, w := range v.widgets {
		values[id] = v.text(w)
	}
	cfg, rejected := form.Apply(*v.cfg, v.fields, values)
	if len(rejected) > 0 && v.logger != nil {
		v.logger.Warn("config fields ignored", "fields", rejected)
	}
	*v.cfg = cfg
	v.Refresh()
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
	if v.onApplied != nil {
		v.onApplied(v.cfg)
	}
}
