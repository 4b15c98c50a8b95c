//go:build !tinygo

package hal

import (
	"math"
	"time"
)

// hostTherm synthesizes a slow drift around a baseline so the serial
// reports change between ticks.
type hostTherm struct {
	base  float64
	start time.Time
}

func newHostTherm(base float64) *hostTherm {
	return &hostTherm{base: base, start: time.Now()}
}

func (t *hostTherm) ReadCelsius() (float32, error) {
	elapsed := time.Since(t.start).Seconds()
	// One full swing of ±1.5 °C every two minutes.
	return float32(t.base + 1.5*math.Sin(2*math.Pi*elapsed/120)), nil
}
