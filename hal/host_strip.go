//go:build !tinygo

package hal

import (
	"sync"

	"beacon/ws2812"
)

// hostStrip stands in for the LED data line: it classifies the encoder's
// pulse train back into bits and keeps the last fully decoded color for
// the window to display. Decoding the real pulse widths (rather than
// intercepting the color) keeps the encoder itself on the host code path.
type hostStrip struct {
	t ws2812.Timings

	mu      sync.Mutex
	level   bool
	highLen uint32
	nbits   int
	grb     uint32
	cur     ws2812.Color
	frames  uint64
}

func newHostStrip(t ws2812.Timings) *hostStrip {
	return &hostStrip{t: t}
}

func (s *hostStrip) High() {
	s.mu.Lock()
	s.level = true
	s.mu.Unlock()
}

func (s *hostStrip) Low() {
	s.mu.Lock()
	s.level = false
	s.mu.Unlock()
}

func (s *hostStrip) Cycles(n uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.level {
		s.highLen = n
		return
	}
	if s.highLen == 0 {
		// Reset hold: a full latch period discards any partial frame.
		if n >= s.t.Reset {
			s.nbits = 0
			s.grb = 0
		}
		return
	}

	bit := uint32(0)
	if s.highLen >= (s.t.T0High+s.t.T1High)/2 {
		bit = 1
	}
	s.highLen = 0
	s.grb = s.grb<<1 | bit
	s.nbits++
	if s.nbits == 24 {
		s.cur = ws2812.Color{
			G: uint8(s.grb >> 16),
			R: uint8(s.grb >> 8),
			B: uint8(s.grb),
		}
		s.frames++
		s.nbits = 0
		s.grb = 0
	}
}

// Color returns the last fully decoded frame.
func (s *hostStrip) Color() ws2812.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Frames returns how many complete frames have been decoded.
func (s *hostStrip) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}
