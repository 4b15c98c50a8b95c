//go:build tinygo && rp2040

package hal

import (
	"device/arm"
	"device/rp"
	"machine"
)

// rpStrip drives the LED data pin through the SIO set/clear registers,
// which toggle in a single cycle. The encoder runs with interrupts
// masked, so the nop loop below is the only thing between edges.
type rpStrip struct {
	mask uint32
}

func newRPStrip(pin machine.Pin) *rpStrip {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
	return &rpStrip{mask: 1 << uint32(pin)}
}

func (s *rpStrip) High() { rp.SIO.GPIO_OUT_SET.Set(s.mask) }
func (s *rpStrip) Low()  { rp.SIO.GPIO_OUT_CLR.Set(s.mask) }

// spinCost is the approximate cost of one loop iteration on the M0+:
// the nop plus the compare-and-branch around it.
const spinCost = 4

func (s *rpStrip) Cycles(n uint32) {
	for i := uint32(0); i < n; i += spinCost {
		arm.Asm("nop")
	}
}
