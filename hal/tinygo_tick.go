//go:build tinygo && rp2040

package hal

import (
	"device/rp"
	"runtime/interrupt"
)

// tickMicros is the reporting period. The RP2040 timer counts
// microseconds, so one tick is one second of timer counts.
const tickMicros = 1_000_000

// rpTicker arms timer ALARM0 and re-arms it from the handler, keeping
// the long-run rate exact even when servicing is delayed.
type rpTicker struct {
	fire func()
	next uint32
}

// ticker0 is read by the interrupt handler. Set once by Start.
var ticker0 *rpTicker

func newRPTicker() *rpTicker {
	return &rpTicker{}
}

func (t *rpTicker) Start(fire func()) {
	t.fire = fire
	ticker0 = t

	intr := interrupt.New(rp.IRQ_TIMER_IRQ_0, timer0Handler)
	rp.TIMER.INTE.SetBits(rp.TIMER_INTE_ALARM_0)

	t.next = rp.TIMER.TIMERAWL.Get() + tickMicros
	rp.TIMER.ALARM0.Set(t.next)
	intr.Enable()
}

func timer0Handler(interrupt.Interrupt) {
	rp.TIMER.INTR.Set(rp.TIMER_INTR_ALARM_0) // write one to clear

	t := ticker0
	if t == nil {
		return
	}

	// Schedule from the previous deadline, not from now. If servicing
	// slipped past a whole period, resynchronize instead of bursting.
	t.next += tickMicros
	if now := rp.TIMER.TIMERAWL.Get(); int32(t.next-now) <= 0 {
		t.next = now + tickMicros
	}
	rp.TIMER.ALARM0.Set(t.next)

	if t.fire != nil {
		t.fire()
	}

	// The UART's synthesized transmission-complete has no interrupt of
	// its own once the TX FIFO is empty; the tick picks up the tail.
	if s := serial0; s != nil {
		s.pollTxComplete()
	}
}
