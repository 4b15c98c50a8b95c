// Package tick provides the timer-overflow signal shared between the
// timer interrupt handler and the main loop.
package tick

import "sync/atomic"

// Flag is a coalescing one-shot overflow indicator.
//
// The interrupt handler calls Signal on every hardware overflow; the main
// loop calls PollAndClear. Overflows are coalesced, not queued: a consumer
// that polls slower than the period sees at most one true per poll.
type Flag struct {
	fired atomic.Bool
}

// Signal records that an overflow occurred. Safe from interrupt context.
func (f *Flag) Signal() {
	f.fired.Store(true)
}

// PollAndClear atomically reads and resets the flag. It returns true
// exactly once per Signal burst.
func (f *Flag) PollAndClear() bool {
	return f.fired.Swap(false)
}
