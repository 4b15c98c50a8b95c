// Package ring provides a fixed-capacity single-producer/single-consumer
// byte queue.
//
// One side of the queue may run inside an interrupt handler while the
// other runs in the main program flow: the producer only ever writes the
// head cursor and the consumer only ever writes the tail cursor, so no
// lock is needed as long as each side has at most one caller at a time.
package ring

import "sync/atomic"

// Capacity is the number of bytes a Buffer can hold.
//
// Both queues in the serial driver use this size; it matches the wire
// budget of one report line with slack for a slow reader.
const Capacity = 64

// Buffer is a fixed-size SPSC byte ring.
//
// The zero value is an empty, ready-to-use buffer. It must not be copied
// after first use. Cursors are free-running uint32s; the difference
// head-tail is the fill level and wraparound is harmless because Capacity
// divides 2^32.
type Buffer struct {
	_     [0]func() // prevent accidental copying.
	head  atomic.Uint32
	tail  atomic.Uint32
	slots [Capacity]byte
}

// Len returns the number of bytes currently queued.
func (b *Buffer) Len() int {
	return int(b.head.Load() - b.tail.Load())
}

// Free returns the number of bytes that can still be pushed.
func (b *Buffer) Free() int {
	return Capacity - b.Len()
}

// Cap returns the fixed capacity of the buffer.
func (b *Buffer) Cap() int { return Capacity }

// TryPush appends one byte, returning false without side effects when
// the buffer is full. Producer side only.
func (b *Buffer) TryPush(v byte) bool {
	head := b.head.Load()
	if head-b.tail.Load() >= Capacity {
		return false
	}
	b.slots[head%Capacity] = v
	b.head.Store(head + 1)
	return true
}

// TryPop removes and returns the oldest byte, or false when the buffer
// is empty. Consumer side only.
func (b *Buffer) TryPop() (byte, bool) {
	tail := b.tail.Load()
	if tail == b.head.Load() {
		return 0, false
	}
	v := b.slots[tail%Capacity]
	b.tail.Store(tail + 1)
	return v, true
}
