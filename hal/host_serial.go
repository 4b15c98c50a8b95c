//go:build !tinygo

package hal

import (
	"bufio"
	"io"
	"sync"
	"time"

	"beacon/uart"
)

// hostByteTime approximates one byte on the wire at 115200 8N1.
const hostByteTime = 87 * time.Microsecond

// hostSerial simulates the interrupt-driven serial channel: a reader
// goroutine delivers one receive interrupt per stdin byte, and a pump
// goroutine plays the transmit interrupt sources whenever the driver
// unmasks them.
type hostSerial struct {
	in  io.Reader
	out io.Writer

	d *uart.Driver

	mu           sync.Mutex
	txEmptyOn    bool
	txCompleteOn bool

	// cur is only written by the RX goroutine immediately before it
	// invokes OnRxReady, which reads it back on the same goroutine.
	cur byte

	kick chan struct{}
}

func newHostSerial(in io.Reader, out io.Writer) *hostSerial {
	return &hostSerial{
		in:   in,
		out:  out,
		kick: make(chan struct{}, 1),
	}
}

func (s *hostSerial) Bind(d *uart.Driver) {
	s.d = d
	go s.pumpRx()
	go s.pumpTx()
}

func (s *hostSerial) ReadData() byte { return s.cur }

func (s *hostSerial) WriteData(b byte) {
	s.out.Write([]byte{b})
}

func (s *hostSerial) SetTxEmptyInterrupt(on bool) {
	s.mu.Lock()
	s.txEmptyOn = on
	s.mu.Unlock()
	if on {
		s.wake()
	}
}

func (s *hostSerial) SetTxCompleteInterrupt(on bool) {
	s.mu.Lock()
	s.txCompleteOn = on
	s.mu.Unlock()
	if on {
		s.wake()
	}
}

// ReadAndClearErrors never reports errors: a pipe has no parity.
func (s *hostSerial) ReadAndClearErrors() uart.ErrorBits { return 0 }

func (s *hostSerial) wake() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

func (s *hostSerial) masks() (txEmpty, txComplete bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txEmptyOn, s.txCompleteOn
}

// pumpRx turns each input byte into one receive-data interrupt.
func (s *hostSerial) pumpRx() {
	br := bufio.NewReader(s.in)
	for {
		b, err := br.ReadByte()
		if err != nil {
			return
		}
		s.cur = b
		s.d.OnRxReady()
	}
}

// pumpTx services the transmit sources like the hardware would: the
// empty interrupt re-fires per byte while unmasked, and the complete
// interrupt fires one byte-time after the last write.
func (s *hostSerial) pumpTx() {
	for range s.kick {
		for {
			txEmpty, txComplete := s.masks()
			switch {
			case txEmpty:
				s.d.OnTxEmpty()
				time.Sleep(hostByteTime)
			case txComplete:
				time.Sleep(hostByteTime)
				s.d.OnTxComplete()
			default:
			}
			if e, c := s.masks(); !e && !c {
				break
			}
		}
	}
}
