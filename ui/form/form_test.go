package form

import (
	"testing"

	"github.com/soocke/traystack-go/config"
)

func TestApply_ParsesAndValidates(t *testing.T) {
	base := *config.DefaultConfig()
	values := map[string]string{
		"sensitivity":     "0.9",
		"minPeakDistance": "100",
		"autoOffset":      "no",
		"manualOffset":    "2",
		"roiX":            "abc",
		"debugDraw":       "on",
	}
	cfg, rejected := Apply(base, ConfigFields(), values)
	if cfg.Sensitivity != 0.9 {
		t.Fatalf("sensitivity=%v", cfg.Sensitivity)
	}
	if cfg.MinPeakDistance != config.MinPeakDistanceHigh {
		t.Fatalf("min peak distance not clamped: %d", cfg.MinPeakDistance)
	}
	if cfg.AutoOffset || cfg.ManualOffset != 2 || !cfg.DebugDraw {
		t.Fatalf("unexpected policy fields: %+v", cfg)
	}
	if cfg.ROIX != base.ROIX {
		t.Fatalf("unparsable field should keep its value, got %v", cfg.ROIX)
	}
	if len(rejected) != 1 || rejected[0] != "roiX" {
		t.Fatalf("rejected=%v", rejected)
	}
}

func TestConfigFields_RoundTrip(t *testing.T) {
	src := config.DefaultConfig()
	src.Sensitivity = 0.25
	src.FPSLimit = 15
	values := map[string]string{}
	for _, f := range ConfigFields() {
		values[f.ID] = f.Get(src)
	}
	got, rejected := Apply(*config.DefaultConfig(), ConfigFields(), values)
	if len(rejected) != 0 {
		t.Fatalf("rejected=%v", rejected)
	}
	if got != *src {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, *src)
	}
}

func TestParseBoolLoose(t *testing.T) {
	for in, want := range map[string]bool{"TRUE": true, " y ": true, "off": false, "0": false} {
		got, ok := ParseBoolLoose(in)
		if !ok || got != want {
			t.Fatalf("ParseBoolLoose(%q) = %v,%v", in, got, ok)
		}
	}
	if _, ok := ParseBoolLoose("maybe"); ok {
		t.Fatalf("expected parse failure")
	}
}

func TestParseGeometry(t *testing.T) {
	r, ok := ParseGeometry("300x200+10+-5")
	if !ok || r.Min.X != 10 || r.Min.Y != -5 || r.Dx() != 300 || r.Dy() != 200 {
		t.Fatalf("unexpected rect %v ok=%v", r, ok)
	}
	if _, ok := ParseGeometry("0x10+0+0"); ok {
		t.Fatalf("zero width should fail")
	}
	if _, ok := ParseGeometry("garbage"); ok {
		t.Fatalf("garbage should fail")
	}
}
