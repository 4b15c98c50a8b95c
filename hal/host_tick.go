//go:build !tinygo

package hal

import (
	"sync"
	"sync/atomic"
	"time"
)

// hostTicker derives overflow events from the wall clock. The front-end
// loops call step(); elapsed time is accumulated with a carried
// remainder so the long-run rate matches the period exactly.
type hostTicker struct {
	period time.Duration

	mu   sync.Mutex
	fire func()
	last time.Time
	acc  time.Duration

	count atomic.Uint64
}

func newHostTicker(period time.Duration) *hostTicker {
	if period <= 0 {
		period = time.Second
	}
	return &hostTicker{period: period}
}

func (t *hostTicker) Start(fire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fire = fire
}

// Fired returns how many overflows have been delivered.
func (t *hostTicker) Fired() uint64 { return t.count.Load() }

// step advances the simulated timer; called from the front-end loop.
func (t *hostTicker) step() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fire == nil {
		return
	}

	now := time.Now()
	if t.last.IsZero() {
		t.last = now
		return
	}
	t.acc += now.Sub(t.last)
	t.last = now

	for t.acc >= t.period {
		t.acc -= t.period
		t.count.Add(1)
		t.fire()
	}
}
