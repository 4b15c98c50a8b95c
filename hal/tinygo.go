//go:build tinygo && rp2040

package hal

import (
	"machine"
	"runtime/interrupt"

	"beacon/ws2812"
)

// Platform identifies this build's board in the boot banner.
const Platform = "rp2040"

type tinyGoHAL struct {
	logger *usbLogger
	serial *rpSerial
	ticker *rpTicker
	enc    *ws2812.Encoder
	therm  Thermometer
}

// New returns a Raspberry Pi Pico (RP2040) HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// LED data: GP16. Thermometer: LSM6DS3TR on I2C0, with the on-die
// sensor as fallback. Diagnostics go to the USB console.
func New() HAL {
	serial := newRPSerial(machine.GP0, machine.GP1, 115200)

	strip := newRPStrip(machine.GP16)
	enc := ws2812.New(strip, ws2812.TimingsForClock(machine.CPUFrequency()))
	enc.Exclusive = maskInterrupts

	return &tinyGoHAL{
		logger: &usbLogger{},
		serial: serial,
		ticker: newRPTicker(),
		enc:    enc,
		therm:  newThermometer(),
	}
}

func (h *tinyGoHAL) Logger() Logger           { return h.logger }
func (h *tinyGoHAL) Serial() Serial           { return h.serial }
func (h *tinyGoHAL) Ticker() Ticker           { return h.ticker }
func (h *tinyGoHAL) Strip() *ws2812.Encoder   { return h.enc }
func (h *tinyGoHAL) Thermometer() Thermometer { return h.therm }

// maskInterrupts holds off every interrupt for the duration of one LED
// frame so the bit-banged pulse widths stay within tolerance.
func maskInterrupts() func() {
	state := interrupt.Disable()
	return func() { interrupt.Restore(state) }
}

// usbLogger writes diagnostic lines to the USB CDC console, keeping the
// data UART free for the reporting protocol.
type usbLogger struct{}

func (l *usbLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		machine.Serial.WriteByte(s[i])
	}
	machine.Serial.WriteByte('\r')
	machine.Serial.WriteByte('\n')
}

func (l *usbLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		machine.Serial.WriteByte(b[i])
	}
	machine.Serial.WriteByte('\r')
	machine.Serial.WriteByte('\n')
}
