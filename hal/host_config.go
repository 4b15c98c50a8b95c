//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"beacon/ws2812"
)

// SimConfig tunes the host simulator. All fields are optional; the zero
// value of any field falls back to the hardware deployment's numbers.
type SimConfig struct {
	// TickMillis is the timer overflow period; hardware uses 1000.
	TickMillis int `yaml:"tick_millis"`
	// BaseCelsius is the synthetic thermometer baseline.
	BaseCelsius float64 `yaml:"base_celsius"`
	// ClockHz scales the recorded LED pulse widths; hardware runs 125 MHz.
	ClockHz uint32 `yaml:"clock_hz"`
	// Palette overrides the built-in color cycle.
	Palette []PaletteEntry `yaml:"palette"`
}

// PaletteEntry is one palette color in the config file.
type PaletteEntry struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// DefaultSimConfig mirrors the hardware deployment.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		TickMillis:  1000,
		BaseCelsius: 23.5,
		ClockHz:     125_000_000,
	}
}

// LoadSimConfig reads a YAML simulator config, filling omitted fields
// from the defaults.
func LoadSimConfig(path string) (SimConfig, error) {
	cfg := DefaultSimConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	if cfg.TickMillis <= 0 {
		cfg.TickMillis = 1000
	}
	if cfg.ClockHz == 0 {
		cfg.ClockHz = 125_000_000
	}
	return cfg, nil
}

// Colors converts the configured palette, or nil when unset.
func (c SimConfig) Colors() []ws2812.Color {
	if len(c.Palette) == 0 {
		return nil
	}
	out := make([]ws2812.Color, len(c.Palette))
	for i, p := range c.Palette {
		out[i] = ws2812.Color{R: p.R, G: p.G, B: p.B}
	}
	return out
}

func (c SimConfig) tickPeriod() time.Duration {
	if c.TickMillis <= 0 {
		return time.Second
	}
	return time.Duration(c.TickMillis) * time.Millisecond
}

func (c SimConfig) clockHz() uint32 {
	if c.ClockHz == 0 {
		return 125_000_000
	}
	return c.ClockHz
}
