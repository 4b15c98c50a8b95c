//go:build !tinygo

package hal

import (
	"os"
	"path/filepath"
	"testing"

	"beacon/ws2812"
)

func TestHostStripDecodesEncoderFrames(t *testing.T) {
	strip := newHostStrip(ws2812.TimingsForClock(125_000_000))
	enc := ws2812.New(strip, strip.t)

	enc.Reset()
	enc.WriteColor(ws2812.Color{R: 0x12, G: 0x34, B: 0x56})

	if got := strip.Frames(); got != 1 {
		t.Fatalf("Frames() = %d, want 1", got)
	}
	want := ws2812.Color{R: 0x12, G: 0x34, B: 0x56}
	if got := strip.Color(); got != want {
		t.Fatalf("Color() = %+v, want %+v", got, want)
	}
}

func TestHostStripResetDiscardsPartialFrame(t *testing.T) {
	tm := ws2812.TimingsForClock(125_000_000)
	strip := newHostStrip(tm)

	// Half a bit's worth of garbage, then a latch hold.
	strip.High()
	strip.Cycles(tm.T1High)
	strip.Low()
	strip.Cycles(tm.T1Low)
	strip.Low()
	strip.Cycles(tm.Reset)

	enc := ws2812.New(strip, tm)
	enc.WriteColor(ws2812.Color{G: 0x80})

	if got := strip.Frames(); got != 1 {
		t.Fatalf("Frames() = %d, want 1", got)
	}
	if got := strip.Color(); got != (ws2812.Color{G: 0x80}) {
		t.Fatalf("Color() = %+v, want G=0x80", got)
	}
}

func TestLoadSimConfigFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	data := "base_celsius: 30.25\npalette:\n  - {r: 1, g: 2, b: 3}\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSimConfig(path)
	if err != nil {
		t.Fatalf("LoadSimConfig: %v", err)
	}
	if cfg.TickMillis != 1000 {
		t.Fatalf("TickMillis = %d, want default 1000", cfg.TickMillis)
	}
	if cfg.BaseCelsius != 30.25 {
		t.Fatalf("BaseCelsius = %v, want 30.25", cfg.BaseCelsius)
	}
	if cfg.ClockHz != 125_000_000 {
		t.Fatalf("ClockHz = %d, want default 125000000", cfg.ClockHz)
	}
	colors := cfg.Colors()
	if len(colors) != 1 || colors[0] != (ws2812.Color{R: 1, G: 2, B: 3}) {
		t.Fatalf("Colors() = %+v, want one entry {1 2 3}", colors)
	}
}

func TestLoadSimConfigMissingFile(t *testing.T) {
	if _, err := LoadSimConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadSimConfig on a missing file returned nil error")
	}
}
