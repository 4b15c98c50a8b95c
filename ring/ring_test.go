package ring

import (
	"sync"
	"testing"
)

func TestTryPopEmpty(t *testing.T) {
	var b Buffer

	if _, ok := b.TryPop(); ok {
		t.Fatalf("TryPop() ok = true on empty buffer, want false")
	}
	if got := b.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0", got)
	}
}

func TestTryPushFull(t *testing.T) {
	var b Buffer

	for i := 0; i < Capacity; i++ {
		if ok := b.TryPush(byte(i)); !ok {
			t.Fatalf("TryPush() ok = false at byte %d, want true", i)
		}
	}
	if got := b.Len(); got != Capacity {
		t.Fatalf("Len() = %d, want %d", got, Capacity)
	}
	if ok := b.TryPush(0xFF); ok {
		t.Fatalf("TryPush() ok = true when full, want false")
	}

	// A full-then-drained buffer yields everything in FIFO order.
	for i := 0; i < Capacity; i++ {
		v, ok := b.TryPop()
		if !ok {
			t.Fatalf("TryPop() ok = false at byte %d, want true", i)
		}
		if v != byte(i) {
			t.Fatalf("TryPop() = %d, want %d", v, i)
		}
	}
	if got := b.Free(); got != Capacity {
		t.Fatalf("Free() = %d, want %d", got, Capacity)
	}
}

func TestFIFOAcrossWraparound(t *testing.T) {
	var b Buffer

	// Push/pop past the capacity several times so the cursors wrap the
	// backing array.
	next := byte(0)
	for round := 0; round < 5; round++ {
		for i := 0; i < Capacity-1; i++ {
			if !b.TryPush(next + byte(i)) {
				t.Fatalf("TryPush() ok = false at round %d byte %d", round, i)
			}
		}
		for i := 0; i < Capacity-1; i++ {
			v, ok := b.TryPop()
			if !ok {
				t.Fatalf("TryPop() ok = false at round %d byte %d", round, i)
			}
			if v != next+byte(i) {
				t.Fatalf("TryPop() = %d, want %d", v, next+byte(i))
			}
		}
		next += Capacity - 1
	}
}

func TestConcurrentProducerConsumer(t *testing.T) {
	const total = 100_000

	var b Buffer
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		for i := 0; i < total; {
			if b.TryPush(byte(i)) {
				i++
			}
		}
	}()

	for i := 0; i < total; {
		v, ok := b.TryPop()
		if !ok {
			continue
		}
		if v != byte(i) {
			t.Fatalf("TryPop() = %d at position %d, want %d", v, i, byte(i))
		}
		if got := b.Len(); got < 0 || got > Capacity {
			t.Fatalf("Len() = %d, want 0..%d", got, Capacity)
		}
		i++
	}

	wg.Wait()
}
