//go:build !tinygo

package hal

import (
	"os"

	"github.com/rs/zerolog"

	"beacon/ws2812"
)

// Platform identifies this build's board in the boot banner.
const Platform = "host-sim"

// hostHAL binds the firmware core to a simulator: stdin/stdout as the
// serial wire, the wall clock as the timer, a synthetic thermometer, and
// a pulse decoder in place of the LED.
type hostHAL struct {
	logger *hostLogger
	serial *hostSerial
	ticker *hostTicker
	strip  *hostStrip
	enc    *ws2812.Encoder
	therm  *hostTherm
}

// New returns a host HAL with the default simulator configuration.
func New() HAL {
	return NewWithConfig(DefaultSimConfig())
}

// NewWithConfig returns a host HAL tuned by a simulator config.
func NewWithConfig(cfg SimConfig) HAL {
	// The simulated core clock only scales the recorded pulse widths;
	// it matches the hardware target so decoded trains compare 1:1.
	strip := newHostStrip(ws2812.TimingsForClock(cfg.clockHz()))
	return &hostHAL{
		logger: newHostLogger(os.Stderr),
		serial: newHostSerial(os.Stdin, os.Stdout),
		ticker: newHostTicker(cfg.tickPeriod()),
		strip:  strip,
		enc:    ws2812.New(strip, strip.t),
		therm:  newHostTherm(cfg.BaseCelsius),
	}
}

func (h *hostHAL) Logger() Logger           { return h.logger }
func (h *hostHAL) Serial() Serial           { return h.serial }
func (h *hostHAL) Ticker() Ticker           { return h.ticker }
func (h *hostHAL) Strip() *ws2812.Encoder   { return h.enc }
func (h *hostHAL) Thermometer() Thermometer { return h.therm }

// hostLogger writes structured diagnostics to stderr, keeping stdout
// clean for the simulated serial TX.
type hostLogger struct {
	log zerolog.Logger
}

func newHostLogger(f *os.File) *hostLogger {
	w := zerolog.ConsoleWriter{Out: f, TimeFormat: "15:04:05"}
	return &hostLogger{log: zerolog.New(w).With().Timestamp().Logger()}
}

func (l *hostLogger) WriteLineString(s string) { l.log.Info().Msg(s) }
func (l *hostLogger) WriteLineBytes(b []byte)  { l.log.Info().Msg(string(b)) }
