// Package form maps text form values to configuration fields. It holds the
// toolkit-independent half of the settings panel.
package form

import (
	"fmt"
	"image"
	"regexp"
	"strconv"
	"strings"

	"github.com/soocke/traystack-go/config"
)

// Field binds one form row to a config value.
type Field struct {
	ID    string
	Label string
	Get   func(c *config.Config) string
	Set   func(c *config.Config, s string) bool
}

func floatField(id, label, format string, ptr func(*config.Config) *float64) Field {
	return Field{
		ID: id, Label: label,
		Get: func(c *config.Config) string { return fmt.Sprintf(format, *ptr(c)) },
		Set: func(c *config.Config, s string) bool {
			f, ok := ParseFloat(s)
			if ok {
				*ptr(c) = f
			}
			return ok
		},
	}
}

func intField(id, label string, ptr func(*config.Config) *int) Field {
	return Field{
		ID: id, Label: label,
		Get: func(c *config.Config) string { return strconv.Itoa(*ptr(c)) },
		Set: func(c *config.Config, s string) bool {
			i, ok := ParseInt(s)
			if ok {
				*ptr(c) = i
			}
			return ok
		},
	}
}

func boolField(id, label string, ptr func(*config.Config) *bool) Field {
	return Field{
		ID: id, Label: label,
		Get: func(c *config.Config) string { return strconv.FormatBool(*ptr(c)) },
		Set: func(c *config.Config, s string) bool {
			b, ok := ParseBoolLoose(s)
			if ok {
				*ptr(c) = b
			}
			return ok
		},
	}
}

// ConfigFields lists the editable settings in display order.
func ConfigFields() []Field {
	return []Field{
		floatField("sensitivity", "Sensitivity (0-1)", "%.2f", func(c *config.Config) *float64 { return &c.Sensitivity }),
		intField("minPeakDistance", fmt.Sprintf("Min Peak Distance (%d-%d)", config.MinPeakDistanceLow, config.MinPeakDistanceHigh), func(c *config.Config) *int { return &c.MinPeakDistance }),
		floatField("minPeakStrength", "Min Peak Strength", "%.2f", func(c *config.Config) *float64 { return &c.MinPeakStrength }),
		floatField("roiX", "ROI X", "%.2f", func(c *config.Config) *float64 { return &c.ROIX }),
		floatField("roiY", "ROI Y", "%.2f", func(c *config.Config) *float64 { return &c.ROIY }),
		floatField("roiW", "ROI Width", "%.2f", func(c *config.Config) *float64 { return &c.ROIW }),
		floatField("roiH", "ROI Height", "%.2f", func(c *config.Config) *float64 { return &c.ROIH }),
		boolField("autoOffset", "Auto Offset (true/false)", func(c *config.Config) *bool { return &c.AutoOffset }),
		intField("manualOffset", fmt.Sprintf("Manual Offset (0-%d)", config.MaxManualOffset), func(c *config.Config) *int { return &c.ManualOffset }),
		intField("stableWindow", "Stable Window", func(c *config.Config) *int { return &c.StableWindow }),
		floatField("stableRatio", "Stable Ratio", "%.2f", func(c *config.Config) *float64 { return &c.StableRequiredRatio }),
		intField("fpsLimit", fmt.Sprintf("FPS Limit (%d-%d)", config.FPSLimitLow, config.FPSLimitHigh), func(c *config.Config) *int { return &c.FPSLimit }),
		boolField("debugDraw", "Debug Draw (true/false)", func(c *config.Config) *bool { return &c.DebugDraw }),
	}
}

// Apply parses values into a copy of cfg and validates it. Fields that
// fail to parse keep their previous value and are returned as rejected.
func Apply(cfg config.Config, fields []Field, values map[string]string) (config.Config, []string) {
	var rejected []string
	for _, f := range fields {
		s, ok := values[f.ID]
		if !ok {
			continue
		}
		if !f.Set(&cfg, s) {
			rejected = append(rejected, f.ID)
		}
	}
	_ = cfg.Validate()
	return cfg, rejected
}

func ParseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func ParseInt(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}

func ParseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}

// geomRe matches window geometry strings in the format "WIDTHxHEIGHT+X+Y".
var geomRe = regexp.MustCompile(`^(\d+)x(\d+)\+(-?\d+)\+(-?\d+)$`)

// ParseGeometry parses a Tk geometry string into a screen rectangle.
func ParseGeometry(g string) (image.Rectangle, bool) {
	m := geomRe.FindStringSubmatch(strings.TrimSpace(g))
	if len(m) != 5 {
		return image.Rectangle{}, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	x, _ := strconv.Atoi(m[3])
	y, _ := strconv.Atoi(m[4])
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(x, y, x+w, y+h), true
}
