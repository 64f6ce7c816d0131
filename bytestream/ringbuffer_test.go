package bytestream

import (
	"io"
	"sync"
	"testing"
)

func TestWriteThenReadThenEOF(t *testing.T) {
	rb := NewRingBuffer(8)
	if _, err := rb.Write([]byte("hi")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := rb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	buf := make([]byte, 2)
	n, err := rb.Read(buf)
	if err != nil || n != 2 || string(buf) != "hi" {
		t.Fatalf("Read: n=%d err=%v buf=%q", n, err, buf)
	}
	if _, err := rb.Read(buf); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
	if _, err := rb.Read(buf); err != io.EOF {
		t.Fatalf("expected sticky EOF, got %v", err)
	}
}

func TestWriteAfterCloseFails(t *testing.T) {
	rb := NewRingBuffer(4)
	rb.Close()
	if _, err := rb.Write([]byte("x")); err != io.ErrClosedPipe {
		t.Fatalf("expected io.ErrClosedPipe, got %v", err)
	}
}

func TestBoundedCapacityBlocksWriter(t *testing.T) {
	rb := NewRingBuffer(1)
	done := make(chan struct{})
	go func() {
		rb.Write([]byte{1, 2})
		close(done)
	}()
	buf := make([]byte, 1)
	if n, err := rb.Read(buf); err != nil || n != 1 {
		t.Fatalf("Read: n=%d err=%v", n, err)
	}
	<-done
}

// TestConcurrentFanInFanOut exercises the 16-producer / 16-consumer pipe
// scenario: 16 goroutines each write 1600 tagged bytes (upper nibble is
// the producer id, lower nibble cycles 0..15) into a shared buffer; a
// distributor demultiplexes by upper nibble into 16 per-producer
// buffers, and each is checked for a uniform lower-nibble histogram.
func TestConcurrentFanInFanOut(t *testing.T) {
	const producers = 16
	const perProducer = 1600

	shared := NewRingBuffer(256)
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(id byte) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				b := id<<4 | byte(i%16)
				if _, err := shared.Write([]byte{b}); err != nil {
					t.Errorf("producer %d write: %v", id, err)
					return
				}
			}
		}(byte(p))
	}
	go func() {
		wg.Wait()
		shared.Close()
	}()

	slices := make([]*RingBuffer, producers)
	for i := range slices {
		slices[i] = NewRingBuffer(perProducer)
	}

	distributeDone := make(chan struct{})
	go func() {
		defer close(distributeDone)
		buf := make([]byte, 1)
		for {
			n, err := shared.Read(buf)
			if n == 1 {
				slice := slices[buf[0]>>4]
				if _, werr := slice.Write(buf); werr != nil {
					t.Errorf("distributor write: %v", werr)
				}
			}
			if err == io.EOF {
				for _, s := range slices {
					s.Close()
				}
				return
			}
		}
	}()

	<-distributeDone

	for id, slice := range slices {
		histogram := make([]int, 16)
		buf := make([]byte, 1)
		total := 0
		for {
			n, err := slice.Read(buf)
			if n == 1 {
				histogram[buf[0]&0xF]++
				total++
			}
			if err == io.EOF {
				break
			}
		}
		if total != perProducer {
			t.Fatalf("producer %d: got %d bytes, want %d", id, total, perProducer)
		}
		for bucket, count := range histogram {
			if count != perProducer/16 {
				t.Errorf("producer %d bucket %d: got %d, want %d", id, bucket, count, perProducer/16)
			}
		}
	}
}
