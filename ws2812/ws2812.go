// Package ws2812 encodes RGB colors as the precisely timed one-wire
// pulse train a WS2812B LED expects.
//
// Each of the 24 bits (green, red, blue bytes, most significant bit
// first) is one pulse: the line driven high for a short ("0") or longer
// ("1") duration, then low for the remainder of the bit window. The
// datasheet tolerance is ±150 ns per phase, so the encoder is a bounded
// busy-wait and must not be preempted while a frame is on the wire.
package ws2812

// Color is an RGB triple. Plain value, no alpha.
type Color struct {
	R, G, B uint8
}

// Output is the data line plus the cycle-accurate wait primitive.
//
// High and Low drive the pin; Cycles busy-waits approximately n core
// clock cycles. On hardware the implementation is a no-op loop; on the
// host it records the pulse train instead.
type Output interface {
	High()
	Low()
	Cycles(n uint32)
}

// Nominal WS2812B phase durations in nanoseconds. The cycle counts fed
// to the encoder are derived from these and the configured core clock;
// porting to another clock means regenerating the table (cmd/ledtiming
// prints it), never editing counts inline.
const (
	T0HighNanos = 400
	T1HighNanos = 800
	T0LowNanos  = 850
	T1LowNanos  = 450

	// ResetNanos is the low hold that latches a frame. The datasheet
	// minimum is 50 µs; 280 µs also satisfies the stricter WS2812B-V5.
	ResetNanos = 280_000
)

// Timings is the per-phase busy-wait table in core clock cycles.
type Timings struct {
	T0High uint32
	T1High uint32
	T0Low  uint32
	T1Low  uint32
	Reset  uint32
}

// TimingsForClock derives the cycle table for a core clock in hertz.
func TimingsForClock(hz uint32) Timings {
	return Timings{
		T0High: cyclesFor(T0HighNanos, hz),
		T1High: cyclesFor(T1HighNanos, hz),
		T0Low:  cyclesFor(T0LowNanos, hz),
		T1Low:  cyclesFor(T1LowNanos, hz),
		Reset:  cyclesFor(ResetNanos, hz),
	}
}

func cyclesFor(nanos uint32, hz uint32) uint32 {
	return uint32(uint64(nanos) * uint64(hz) / 1_000_000_000)
}

// Encoder drives one LED chain through an Output.
type Encoder struct {
	out Output
	t   Timings

	// Exclusive, when set, is entered for the duration of each frame
	// and reset; it returns the restore function. On hardware this is
	// the interrupt-disable critical section — a serviced interrupt in
	// mid-frame corrupts the bit timing.
	Exclusive func() (restore func())
}

// New returns an encoder for out using the given cycle table.
func New(out Output, t Timings) *Encoder {
	return &Encoder{out: out, t: t}
}

// Reset holds the line low long enough to latch the previous frame.
// Must run once before the first frame; between frames the inter-frame
// gap normally exceeds it on its own.
func (e *Encoder) Reset() {
	restore := e.enter()
	e.out.Low()
	e.out.Cycles(e.t.Reset)
	restore()
}

// WriteColor shifts one 24-bit GRB frame out on the wire. It blocks for
// the full frame duration and runs under the Exclusive hook.
func (e *Encoder) WriteColor(c Color) {
	grb := uint32(c.G)<<16 | uint32(c.R)<<8 | uint32(c.B)

	restore := e.enter()
	for bit := 23; bit >= 0; bit-- {
		if grb>>uint(bit)&1 == 0 {
			e.out.High()
			e.out.Cycles(e.t.T0High)
			e.out.Low()
			e.out.Cycles(e.t.T0Low)
		} else {
			e.out.High()
			e.out.Cycles(e.t.T1High)
			e.out.Low()
			e.out.Cycles(e.t.T1Low)
		}
	}
	restore()
}

func (e *Encoder) enter() func() {
	if e.Exclusive == nil {
		return func() {}
	}
	return e.Exclusive()
}
