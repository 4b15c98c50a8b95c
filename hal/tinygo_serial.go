//go:build tinygo && rp2040

package hal

import (
	"device/rp"
	"machine"
	"runtime/interrupt"
	"runtime/volatile"

	"beacon/uart"
)

// rpSerial drives UART0 (PL011) as the interrupt-driven data channel.
//
// Two PL011 quirks shape the TX path. First, the TX source latches only
// on a downward FIFO level transition, so arming it over an empty FIFO
// never fires: SetTxEmptyInterrupt seeds the FIFO while TXIM is still
// masked and lets the drain produce the edge. Second, there is no
// shifter-idle source, so "transmission complete" is synthesized: while
// the complete source is armed, every interrupt on this channel and the
// periodic timer tick re-check for FIFO empty and line idle.
type rpSerial struct {
	bus *rp.UART0_Type
	d   *uart.Driver

	// Software views of the two driver-facing interrupt sources; both
	// map onto the single hardware TXIM bit.
	txEmptyOn    volatile.Register32
	txCompleteOn volatile.Register32
}

// serial0 is read by the interrupt handler, which must be a
// compile-time function. Set once by Bind before interrupts are enabled.
var serial0 *rpSerial

func newRPSerial(tx, rx machine.Pin, baud uint32) *rpSerial {
	s := &rpSerial{bus: rp.UART0}

	rp.RESETS.RESET.SetBits(rp.RESETS_RESET_UART0)
	rp.RESETS.RESET.ClearBits(rp.RESETS_RESET_UART0)
	for !rp.RESETS.RESET_DONE.HasBits(rp.RESETS_RESET_UART0) {
	}

	s.bus.UARTCR.ClearBits(rp.UART0_UARTCR_UARTEN | rp.UART0_UARTCR_RXE | rp.UART0_UARTCR_TXE)

	tx.Configure(machine.PinConfig{Mode: machine.PinUART})
	rx.Configure(machine.PinConfig{Mode: machine.PinUART})

	// Integer and fractional divisors, then the LCR_H write that latches
	// them. 8N1 with FIFOs enabled.
	div := 8 * machine.CPUFrequency() / baud
	ibrd := div >> 7
	var fbrd uint32
	switch {
	case ibrd == 0:
		ibrd = 1
	case ibrd >= 65535:
		ibrd = 65535
	default:
		fbrd = ((div & 0x7f) + 1) / 2
	}
	s.bus.UARTIBRD.Set(ibrd)
	s.bus.UARTFBRD.Set(fbrd)
	s.bus.UARTLCR_H.Set(uint32(8-5)<<rp.UART0_UARTLCR_H_WLEN_Pos | rp.UART0_UARTLCR_H_FEN)

	// Purge stale state: pending interrupts, RX FIFO, sticky errors.
	s.bus.UARTICR.Set(0x7FF)
	for !s.bus.UARTFR.HasBits(rp.UART0_UARTFR_RXFE) {
		_ = s.bus.UARTDR.Get()
	}
	s.bus.UARTRSR.Set(0)

	s.bus.UARTCR.Set(rp.UART0_UARTCR_UARTEN | rp.UART0_UARTCR_RXE | rp.UART0_UARTCR_TXE)

	// 1/8 FIFO thresholds keep per-interrupt latency low; RX, RX
	// timeout and the error sources armed, TX armed on demand.
	s.bus.UARTIFLS.Set(0)
	s.bus.UARTIMSC.Set(rp.UART0_UARTIMSC_RXIM | rp.UART0_UARTIMSC_RTIM |
		rp.UART0_UARTIMSC_OEIM | rp.UART0_UARTIMSC_BEIM |
		rp.UART0_UARTIMSC_PEIM | rp.UART0_UARTIMSC_FEIM)

	return s
}

func (s *rpSerial) Bind(d *uart.Driver) {
	s.d = d
	serial0 = s
	intr := interrupt.New(rp.IRQ_UART0_IRQ, uart0Handler)
	intr.SetPriority(0x80)
	intr.Enable()
}

func (s *rpSerial) ReadData() byte {
	return byte(s.bus.UARTDR.Get())
}

func (s *rpSerial) WriteData(b byte) {
	s.bus.UARTDR.Set(uint32(b))
}

func (s *rpSerial) SetTxEmptyInterrupt(enable bool) {
	state := interrupt.Disable()
	if enable {
		s.txEmptyOn.Set(1)
		// The TX source latches only when the FIFO passes down through
		// its trigger level; over an empty FIFO no edge ever comes.
		// Seed the FIFO while TXIM is still masked so the subsequent
		// drain produces the transition. The loop ends when the FIFO
		// fills or the driver masks the source on its last byte.
		if s.d != nil {
			for s.txEmptyOn.Get() != 0 && !s.bus.UARTFR.HasBits(rp.UART0_UARTFR_TXFF) {
				s.d.OnTxEmpty()
			}
		}
	} else {
		s.txEmptyOn.Set(0)
	}
	s.applyTxMask()
	interrupt.Restore(state)
}

func (s *rpSerial) SetTxCompleteInterrupt(enable bool) {
	state := interrupt.Disable()
	if enable {
		s.txCompleteOn.Set(1)
	} else {
		s.txCompleteOn.Set(0)
	}
	s.applyTxMask()
	interrupt.Restore(state)
}

// applyTxMask maps the two logical sources onto the hardware TXIM bit.
// Caller holds interrupts disabled.
func (s *rpSerial) applyTxMask() {
	if s.txEmptyOn.Get() != 0 || s.txCompleteOn.Get() != 0 {
		s.bus.UARTIMSC.SetBits(rp.UART0_UARTIMSC_TXIM)
	} else {
		s.bus.UARTIMSC.ClearBits(rp.UART0_UARTIMSC_TXIM)
	}
}

func (s *rpSerial) ReadAndClearErrors() uart.ErrorBits {
	rsr := s.bus.UARTRSR.Get()
	s.bus.UARTRSR.Set(0)

	var e uart.ErrorBits
	if rsr&rp.UART0_UARTRSR_OE != 0 {
		e |= uart.ErrOverrun
	}
	// A break reads back as a framing violation too.
	if rsr&(rp.UART0_UARTRSR_FE|rp.UART0_UARTRSR_BE) != 0 {
		e |= uart.ErrFraming
	}
	if rsr&rp.UART0_UARTRSR_PE != 0 {
		e |= uart.ErrParity
	}
	return e
}

const (
	uartRxSources  = rp.UART0_UARTMIS_RXMIS | rp.UART0_UARTMIS_RTMIS
	uartErrSources = rp.UART0_UARTMIS_OEMIS | rp.UART0_UARTMIS_BEMIS |
		rp.UART0_UARTMIS_PEMIS | rp.UART0_UARTMIS_FEMIS
)

func uart0Handler(interrupt.Interrupt) {
	s := serial0
	if s == nil {
		return
	}
	mis := s.bus.UARTMIS.Get()

	if mis&uartErrSources != 0 {
		s.d.OnError()
		s.bus.UARTICR.Set(rp.UART0_UARTICR_OEIC | rp.UART0_UARTICR_BEIC |
			rp.UART0_UARTICR_PEIC | rp.UART0_UARTICR_FEIC)
	}

	if mis&uartRxSources != 0 {
		for !s.bus.UARTFR.HasBits(rp.UART0_UARTFR_RXFE) {
			s.d.OnRxReady()
		}
		s.bus.UARTICR.Set(rp.UART0_UARTICR_RXIC | rp.UART0_UARTICR_RTIC)
	}

	if mis&rp.UART0_UARTMIS_TXMIS != 0 {
		// Feed the FIFO one driver byte at a time; the loop ends when
		// either the FIFO fills or the driver masks the empty source on
		// its last byte.
		for s.txEmptyOn.Get() != 0 && !s.bus.UARTFR.HasBits(rp.UART0_UARTFR_TXFF) {
			s.d.OnTxEmpty()
		}
		s.bus.UARTICR.Set(rp.UART0_UARTICR_TXIC)
	}

	s.pollTxComplete()
}

// pollTxComplete delivers the synthesized transmission-complete event.
// The edge-latched TX source stops firing once the FIFO is empty, so no
// interrupt marks the shifter going idle; instead the check runs on
// every interrupt of this channel and on each timer tick while the
// complete source is armed.
func (s *rpSerial) pollTxComplete() {
	if s.txCompleteOn.Get() != 0 &&
		s.bus.UARTFR.HasBits(rp.UART0_UARTFR_TXFE) &&
		!s.bus.UARTFR.HasBits(rp.UART0_UARTFR_BUSY) {
		s.d.OnTxComplete()
	}
}
