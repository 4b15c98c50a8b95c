//go:build !tinygo

package hal

import (
	"context"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	// Ticks stops the run after N timer overflows; 0 runs forever.
	Ticks uint64
}

// RunHeadless runs the firmware loop without opening a window. The loop
// polls well below the tick period so overflow delivery stays prompt.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, sim SimConfig, cfg HeadlessConfig) error {
	h := NewWithConfig(sim).(*hostHAL)
	step := newApp(h)

	t := time.NewTicker(10 * time.Millisecond)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.ticker.step()
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			if cfg.Ticks > 0 && h.ticker.Fired() >= cfg.Ticks {
				return nil
			}
		}
	}
}
