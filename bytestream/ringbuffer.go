package bytestream

import (
	"io"
	"sync"
)

// RingBuffer is a fixed-capacity, bounded, concurrent byte pipe: any
// number of goroutines may call Write, any number may call Read, and
// writers block while the buffer is full exactly as readers block while
// it is empty. Closing the buffer enqueues a sentinel so that bytes
// written before Close remain readable; the sticky EOF only surfaces
// once every byte written before the close has been drained.
//
// Grounded on the original tclib::ByteBufferStream's per-byte entry ring
// (byte value plus an is_eof flag) guarded by a pair of semaphores; this
// port uses two sync.Cond waiting on a shared mutex in their place.
type RingBuffer struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	slots    []slot
	read     int
	count    int
	closed   bool
	eofSeen  bool
}

type slot struct {
	isEOF bool
	value byte
}

// NewRingBuffer returns an empty RingBuffer holding at most capacity
// bytes (plus the trailing EOF sentinel) before writers block.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity < 1 {
		capacity = 1
	}
	rb := &RingBuffer{slots: make([]slot, capacity+1)}
	rb.notEmpty = sync.NewCond(&rb.mu)
	rb.notFull = sync.NewCond(&rb.mu)
	return rb
}

// pushLocked queues s, waiting while the ring is full. Data bytes may
// occupy at most capacity slots; the last slot is kept for the EOF
// sentinel. It returns false, queuing nothing, if the buffer is closed
// while a data byte is waiting for room.
func (rb *RingBuffer) pushLocked(s slot) bool {
	limit := len(rb.slots)
	if !s.isEOF {
		limit--
	}
	for rb.count >= limit {
		if rb.closed && !s.isEOF {
			return false
		}
		rb.notFull.Wait()
	}
	rb.slots[(rb.read+rb.count)%len(rb.slots)] = s
	rb.count++
	rb.notEmpty.Signal()
	return true
}

// Write blocks until every byte of p has been queued or the buffer has
// been closed, in which case it returns the count written so far
// together with io.ErrClosedPipe.
func (rb *RingBuffer) Write(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	for i, b := range p {
		if rb.closed || !rb.pushLocked(slot{value: b}) {
			return i, io.ErrClosedPipe
		}
	}
	return len(p), nil
}

// Flush is a no-op: RingBuffer has no internal staging beyond the ring
// itself, so every Write is already visible to readers.
func (rb *RingBuffer) Flush() error { return nil }

// Close marks the buffer as done accepting writes and enqueues the EOF
// sentinel behind any bytes already written, so readers still drain
// them before observing EOF. Close is idempotent.
func (rb *RingBuffer) Close() error {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.closed {
		return nil
	}
	rb.closed = true
	rb.pushLocked(slot{isEOF: true})
	rb.notFull.Broadcast()
	return nil
}

// Read blocks until at least one byte or the EOF sentinel is available.
// It returns a short read (n > 0, err == nil) when the sentinel follows
// some already-delivered bytes in the same call, and returns (0, io.EOF)
// on every call once the sentinel itself has been consumed.
func (rb *RingBuffer) Read(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.eofSeen {
		return 0, io.EOF
	}
	n := 0
	for n < len(p) {
		for rb.count == 0 {
			rb.notEmpty.Wait()
		}
		s := rb.slots[rb.read]
		rb.read = (rb.read + 1) % len(rb.slots)
		rb.count--
		rb.notFull.Signal()
		if s.isEOF {
			rb.eofSeen = true
			if n > 0 {
				return n, nil
			}
			return 0, io.EOF
		}
		p[n] = s.value
		n++
	}
	return n, nil
}
