// Package hal is the only contact point between the firmware core and
// the hardware. The TinyGo build binds real peripherals; the host build
// binds a simulator so the same core runs and tests off-target.
package hal

import (
	"errors"

	"beacon/uart"
	"beacon/ws2812"
)

var ErrNotImplemented = errors.New("not implemented")

// Logger writes newline-delimited diagnostic lines. Diagnostics are kept
// off the data UART: on hardware they go to the USB console, on the host
// to stderr.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// Serial is one interrupt-driven hardware serial channel: the register
// access the driver needs, plus the interrupt routing.
type Serial interface {
	uart.Port

	// Bind routes the channel's interrupt sources to the driver's
	// handler entry points. Call exactly once, before the first Send.
	Bind(d *uart.Driver)
}

// Ticker is the periodic hardware tick source.
type Ticker interface {
	// Start arms the overflow interrupt. fire runs in interrupt context
	// on every overflow and must not block; the platform implementation
	// owns clearing its own peripheral and controller pending bits.
	Start(fire func())
}

// Thermometer starts a conversion and reads calibrated degrees Celsius.
// The call blocks until the conversion completes.
type Thermometer interface {
	ReadCelsius() (float32, error)
}

// HAL bundles everything the main loop touches.
type HAL interface {
	Logger() Logger
	Serial() Serial
	Ticker() Ticker
	Strip() *ws2812.Encoder
	Thermometer() Thermometer
}
