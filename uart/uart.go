// Package uart implements an interrupt-driven serial transceiver.
//
// The driver is platform-independent: all register access goes through a
// Port, and the platform layer routes its interrupt sources to the On*
// entry points. Two execution contexts touch the driver — interrupt
// handlers and the main loop — and all shared state is either an SPSC
// ring or an atomic, so neither side ever blocks or takes a lock.
package uart

import (
	"sync/atomic"

	"beacon/ring"
)

// Port is the capability handle for one hardware serial channel.
//
// Implementations wrap the peripheral's registers. The driver never
// clears interrupt pending bits itself: acknowledging the source at the
// peripheral and at the interrupt controller is the caller's duty in its
// interrupt trampoline, before or after invoking the On* method.
type Port interface {
	// ReadData reads one byte from the receive data register.
	ReadData() byte
	// WriteData writes one byte to the transmit data register.
	WriteData(b byte)
	// SetTxEmptyInterrupt masks or unmasks the transmit-data-empty source.
	SetTxEmptyInterrupt(enable bool)
	// SetTxCompleteInterrupt masks or unmasks the transmission-complete source.
	SetTxCompleteInterrupt(enable bool)
	// ReadAndClearErrors returns the latched link error flags and clears
	// every one of them, so the line recovers without driver involvement.
	ReadAndClearErrors() ErrorBits
}

// ErrorBits reports the hardware link error flags.
type ErrorBits uint8

const (
	ErrOverrun ErrorBits = 1 << iota
	ErrFraming
	ErrParity
)

func (e ErrorBits) String() string {
	if e == 0 {
		return "none"
	}
	s := ""
	if e&ErrOverrun != 0 {
		s += "+overrun"
	}
	if e&ErrFraming != 0 {
		s += "+framing"
	}
	if e&ErrParity != 0 {
		s += "+parity"
	}
	return s[1:]
}

// Mode is the transmit side state of the driver.
type Mode uint32

const (
	// ReceiveOnly: receive interrupt armed, both transmit sources masked.
	ReceiveOnly Mode = iota
	// Transmitting: transmit-data-empty armed, bytes draining from the TX ring.
	Transmitting
	// DrainingLastByte: TX ring empty, waiting for the final byte to leave
	// the shift register. Only transmission-complete is armed.
	DrainingLastByte
)

func (m Mode) String() string {
	switch m {
	case ReceiveOnly:
		return "receive-only"
	case Transmitting:
		return "transmitting"
	case DrainingLastByte:
		return "draining"
	}
	return "invalid"
}

// Driver is the transceiver state machine over one Port.
//
// The zero value is not usable; construct with New. Reset state is
// ReceiveOnly with both transmit interrupt sources masked.
type Driver struct {
	port Port
	mode atomic.Uint32

	rx ring.Buffer
	tx ring.Buffer

	rxDropped  atomic.Uint32
	linkErrors atomic.Uint32

	// ErrorFunc, when set, is invoked from OnError with the latched
	// flags. It runs in interrupt context and must not block.
	ErrorFunc func(ErrorBits)
}

// New returns a driver for the given port in ReceiveOnly mode.
func New(p Port) *Driver {
	d := &Driver{port: p}
	p.SetTxEmptyInterrupt(false)
	p.SetTxCompleteInterrupt(false)
	return d
}

// Mode returns the current transmit state.
func (d *Driver) Mode() Mode {
	return Mode(d.mode.Load())
}

func (d *Driver) setMode(m Mode) {
	d.mode.Store(uint32(m))
}

// Send enqueues p for transmission and arms the transmit machinery.
// Main-loop context only.
//
// It returns the number of bytes accepted. When the TX ring lacks room
// the tail of the message is dropped: backpressure degrades to data
// loss, never to blocking.
func (d *Driver) Send(p []byte) int {
	n := 0
	for n < len(p) {
		if !d.tx.TryPush(p[n]) {
			break
		}
		n++
	}
	// Arm transmit-data-empty and make sure transmission-complete is
	// masked; the two sources are never enabled together. The mode is
	// set first: a port that feeds its FIFO synchronously on the enable
	// edge may re-enter OnTxEmpty and advance to DrainingLastByte
	// before this call returns.
	d.setMode(Transmitting)
	d.port.SetTxCompleteInterrupt(false)
	d.port.SetTxEmptyInterrupt(true)
	return n
}

// TryRecv removes and returns the oldest received byte, if any.
// Main-loop context only.
func (d *Driver) TryRecv() (byte, bool) {
	return d.rx.TryPop()
}

// Pending returns the number of received bytes waiting in the RX ring.
func (d *Driver) Pending() int {
	return d.rx.Len()
}

// Dropped returns how many received bytes were discarded because the RX
// ring was full. Silent drop is the documented overflow policy.
func (d *Driver) Dropped() uint32 {
	return d.rxDropped.Load()
}

// LinkErrors returns how many error interrupts have been serviced.
func (d *Driver) LinkErrors() uint32 {
	return d.linkErrors.Load()
}

// OnRxReady services a receive-data-ready interrupt: one byte is moved
// from the data register into the RX ring. A full ring drops the byte.
func (d *Driver) OnRxReady() {
	b := d.port.ReadData()
	if !d.rx.TryPush(b) {
		d.rxDropped.Add(1)
	}
}

// OnTxEmpty services a transmit-data-empty interrupt.
//
// While the TX ring has bytes the next one goes to the data register and
// the source stays armed. On an empty ring the driver switches to
// transmission-complete: the hardware reports "data register empty" one
// byte-time before the line has finished shifting out the final byte, so
// ReceiveOnly must wait for the complete interrupt.
func (d *Driver) OnTxEmpty() {
	if b, ok := d.tx.TryPop(); ok {
		d.port.WriteData(b)
		return
	}
	d.port.SetTxEmptyInterrupt(false)
	d.port.SetTxCompleteInterrupt(true)
	d.setMode(DrainingLastByte)
}

// OnTxComplete services a transmission-complete interrupt: the last byte
// is physically on the wire, both transmit sources are masked and the
// driver returns to ReceiveOnly.
func (d *Driver) OnTxComplete() {
	d.port.SetTxEmptyInterrupt(false)
	d.port.SetTxCompleteInterrupt(false)
	d.setMode(ReceiveOnly)
}

// OnError services a link error interrupt. The latched flags are read
// and cleared so the line keeps running; the transmit state is left
// untouched — an on-wire error degrades data, it must not stall the
// driver.
func (d *Driver) OnError() {
	e := d.port.ReadAndClearErrors()
	d.linkErrors.Add(1)
	if d.ErrorFunc != nil {
		d.ErrorFunc(e)
	}
}
