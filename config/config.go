package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Config holds runtime configuration for tray counting and app behavior.
// Fields may be loaded from a JSON or TOML file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug" toml:"debug"`

	// Detection parameters. Threshold multiplier and smoothing window are
	// derived from Sensitivity by the counter and are not configurable.
	Sensitivity     float64 `json:"sensitivity" toml:"sensitivity"`
	MinPeakDistance int     `json:"min_peak_distance" toml:"min_peak_distance"`
	MinPeakStrength float64 `json:"min_peak_strength" toml:"min_peak_strength"`

	// Region of interest as ratios of the frame size.
	ROIX float64 `json:"roi_x" toml:"roi_x"`
	ROIY float64 `json:"roi_y" toml:"roi_y"`
	ROIW float64 `json:"roi_w" toml:"roi_w"`
	ROIH float64 `json:"roi_h" toml:"roi_h"`

	// Count policy
	AutoOffset   bool `json:"auto_offset" toml:"auto_offset"`
	ManualOffset int  `json:"manual_offset" toml:"manual_offset"`

	// Voting
	StableWindow        int     `json:"stable_window" toml:"stable_window"`
	StableRequiredRatio float64 `json:"stable_required_ratio" toml:"stable_required_ratio"`

	FPSLimit  int  `json:"fps_limit" toml:"fps_limit"`
	DebugDraw bool `json:"debug_draw" toml:"debug_draw"`

	// Screen capture rectangle in pixels; zero size captures the full screen.
	SelectionX int `json:"selection_x" toml:"selection_x"`
	SelectionY int `json:"selection_y" toml:"selection_y"`
	SelectionW int `json:"selection_w" toml:"selection_w"`
	SelectionH int `json:"selection_h" toml:"selection_h"`
}

// Ranges exposed to the UI and used by Validate.
const (
	MinPeakDistanceLow  = 4
	MinPeakDistanceHigh = 40
	FPSLimitLow         = 6
	FPSLimitHigh        = 20
	MaxManualOffset     = 2
)

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:               false,
		Sensitivity:         0.62,
		MinPeakDistance:     12,
		MinPeakStrength:     0.5,
		ROIX:                0.35,
		ROIY:                0.10,
		ROIW:                0.30,
		ROIH:                0.80,
		AutoOffset:          true,
		ManualOffset:        0,
		StableWindow:        10,
		StableRequiredRatio: 0.80,
		FPSLimit:            12,
		DebugDraw:           false,
	}
}

// Validate clamps/normalizes values to safe ranges. It never rejects a config.
func (c *Config) Validate() error {
	if math.IsNaN(c.Sensitivity) || c.Sensitivity < 0 {
		c.Sensitivity = 0
	} else if c.Sensitivity > 1 {
		c.Sensitivity = 1
	}
	if c.MinPeakDistance < MinPeakDistanceLow {
		c.MinPeakDistance = MinPeakDistanceLow
	} else if c.MinPeakDistance > MinPeakDistanceHigh {
		c.MinPeakDistance = MinPeakDistanceHigh
	}
	if math.IsNaN(c.MinPeakStrength) || c.MinPeakStrength < 0 {
		c.MinPeakStrength = 0
	}
	c.ROIX = clampRatio(c.ROIX)
	c.ROIY = clampRatio(c.ROIY)
	c.ROIW = clampRatio(c.ROIW)
	c.ROIH = clampRatio(c.ROIH)
	if c.ROIX+c.ROIW > 1 {
		c.ROIW = 1 - c.ROIX
	}
	if c.ROIY+c.ROIH > 1 {
		c.ROIH = 1 - c.ROIY
	}
	if c.ManualOffset < 0 {
		c.ManualOffset = 0
	} else if c.ManualOffset > MaxManualOffset {
		c.ManualOffset = MaxManualOffset
	}
	if c.StableWindow <= 0 {
		c.StableWindow = 10
	}
	if math.IsNaN(c.StableRequiredRatio) || c.StableRequiredRatio <= 0 || c.StableRequiredRatio > 1 {
		c.StableRequiredRatio = 0.80
	}
	if c.FPSLimit < FPSLimitLow {
		c.FPSLimit = FPSLimitLow
	} else if c.FPSLimit > FPSLimitHigh {
		c.FPSLimit = FPSLimitHigh
	}
	if c.SelectionW < 0 {
		c.SelectionW = 0
	}
	if c.SelectionH < 0 {
		c.SelectionH = 0
	}
	return nil
}

func clampRatio(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Load attempts to read configuration from the given path. Files ending in
// .toml are decoded as TOML, everything else as JSON. If the file does not
// exist it returns DefaultConfig(). On decode error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if isTOML(path) {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return cfg, nil
			}
			return cfg, err
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("decode %s: %w", path, err)
		}
		_ = cfg.Validate()
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("decode %s: %w", path, err)
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path, creating parent
// directories. The format follows the file extension as in Load.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if isTOML(path) {
		return toml.NewEncoder(f).Encode(c)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// DefaultConfigPath returns the per-user config file location under the
// XDG config home.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "traystack", "config.json")
}
