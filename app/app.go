// Package app is the cooperative main loop: it polls the timer flag and,
// once per tick, reports the temperature over serial, drains received
// bytes, and steps the status LED through the palette.
package app

import (
	"fmt"
	"runtime"

	"beacon/hal"
	"beacon/internal/buildinfo"
	"beacon/tick"
	"beacon/uart"
	"beacon/ws2812"
)

// DefaultPalette is the color cycle shown on the status LED, one step
// per timer tick. Channel values are held at half brightness.
var DefaultPalette = []ws2812.Color{
	{R: 128, G: 0, B: 0},   // red
	{R: 128, G: 82, B: 0},  // orange
	{R: 128, G: 128, B: 0}, // yellow
	{R: 0, G: 128, B: 0},   // green
	{R: 0, G: 128, B: 128}, // cyan
	{R: 0, G: 0, B: 128},   // blue
	{R: 128, G: 0, B: 128}, // purple
}

// Config carries the host-overridable parts of the loop.
type Config struct {
	// Palette replaces DefaultPalette when non-empty.
	Palette []ws2812.Color
}

// App owns the driver, the tick flag and the animation state. The loop
// body never overlaps its own execution, so none of the fields below
// need guarding beyond what the driver and flag already provide.
type App struct {
	h   hal.HAL
	drv *uart.Driver

	flag tick.Flag

	enc     *ws2812.Encoder
	palette []ws2812.Color
	index   int

	lastDropped uint32
	lastErrors  uint32

	line []byte
}

// New wires the driver and interrupt sources and returns the app with
// the LED latched dark. The first tick fires the first report.
func New(h hal.HAL) *App {
	return NewWithConfig(h, Config{})
}

// NewWithConfig is New with host simulator overrides.
func NewWithConfig(h hal.HAL, cfg Config) *App {
	a := &App{
		h:       h,
		palette: cfg.Palette,
		line:    make([]byte, 0, 64),
	}
	if len(a.palette) == 0 {
		a.palette = DefaultPalette
	}

	a.drv = uart.New(h.Serial())
	h.Serial().Bind(a.drv)
	h.Ticker().Start(a.flag.Signal)

	a.enc = h.Strip()
	a.enc.Reset()

	h.Logger().WriteLineString("beacon " + buildinfo.Short() + " on " + hal.Platform + ": up, reporting every tick")
	return a
}

// Step runs one pass of the loop. It returns quickly when the timer has
// not fired; when it has, the pass blocks only inside the LED encoder.
func (a *App) Step() error {
	if !a.flag.PollAndClear() {
		return nil
	}

	a.report()
	a.drainRx()
	a.noteCounters()

	a.enc.WriteColor(a.palette[a.index])
	a.index = (a.index + 1) % len(a.palette)
	return nil
}

// Run drives Step forever. TinyGo entry point; the host front-ends call
// Step from their own loops instead.
func Run(h hal.HAL) {
	RunWithConfig(h, Config{})
}

func RunWithConfig(h hal.HAL, cfg Config) {
	a := NewWithConfig(h, cfg)
	for {
		if err := a.Step(); err != nil {
			h.Logger().WriteLineString("beacon: " + err.Error())
		}
		runtime.Gosched()
	}
}

// report reads the sensor and queues one temperature line for transmit.
func (a *App) report() {
	t, err := a.h.Thermometer().ReadCelsius()
	if err != nil {
		a.h.Logger().WriteLineString("therm: " + err.Error())
		return
	}
	msg := fmt.Sprintf("%8.4f C\r\n", t)
	if n := a.drv.Send([]byte(msg)); n != len(msg) {
		a.h.Logger().WriteLineString(fmt.Sprintf("uart: tx ring full, sent %d/%d", n, len(msg)))
	}
}

// drainRx empties the receive ring and reports the bytes as one line.
func (a *App) drainRx() {
	a.line = a.line[:0]
	for {
		b, ok := a.drv.TryRecv()
		if !ok {
			break
		}
		a.line = append(a.line, b)
	}
	if len(a.line) == 0 {
		return
	}
	// Strip the CRLF terminator for the log; the payload is ASCII text.
	n := len(a.line)
	for n > 0 && (a.line[n-1] == '\r' || a.line[n-1] == '\n') {
		n--
	}
	a.h.Logger().WriteLineString("rx: " + string(a.line[:n]))
}

// noteCounters logs RX overflow and link error deltas since last pass.
// The handlers only count; reporting stays in the polling context.
func (a *App) noteCounters() {
	if d := a.drv.Dropped(); d != a.lastDropped {
		a.h.Logger().WriteLineString(fmt.Sprintf("uart: rx overflow, %d bytes dropped", d-a.lastDropped))
		a.lastDropped = d
	}
	if e := a.drv.LinkErrors(); e != a.lastErrors {
		a.h.Logger().WriteLineString(fmt.Sprintf("uart: %d link errors", e-a.lastErrors))
		a.lastErrors = e
	}
}

// Driver exposes the transceiver for the host front-ends and tests.
func (a *App) Driver() *uart.Driver {
	return a.drv
}
