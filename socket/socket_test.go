package socket

import (
	"bytes"
	"io"
	"testing"

	"github.com/goto-10/plankton/variant"
	"github.com/goto-10/plankton/wire"
)

func TestHeaderBytesMatchReferenceVector(t *testing.T) {
	var out bytes.Buffer
	dest := &closeableBuffer{Buffer: &out}
	socket := NewOutputSocket(dest, variant.NewArena())
	if err := socket.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !socket.SetDefaultStringEncoding("utf-8") {
		t.Fatal("SetDefaultStringEncoding should succeed exactly once after Init")
	}
	want := []byte{112, 116, 246, 110, 0, 0, 0, 0, 1, 106, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(out.Bytes(), want) {
		t.Errorf("got %v, want %v", out.Bytes(), want)
	}
	if socket.SetDefaultStringEncoding("utf-8") {
		t.Error("a second SetDefaultStringEncoding call should fail")
	}
}

func TestDefaultStringEncodingAppliesToReceivedStrings(t *testing.T) {
	var out bytes.Buffer
	dest := &closeableBuffer{Buffer: &out}
	arena := variant.NewArena()
	writer := NewOutputSocket(dest, arena)
	if err := writer.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !writer.SetDefaultStringEncoding("us-ascii") {
		t.Fatal("SetDefaultStringEncoding should succeed")
	}
	if err := writer.SendValue(arena.NewStringFrom([]byte("hi"))); err != nil {
		t.Fatalf("SendValue: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reader := NewInputSocket(bytes.NewReader(out.Bytes()))
	if err := reader.Init(); err != nil {
		t.Fatalf("reader Init: %v", err)
	}
	if err := reader.ProcessAllInstructions(); err != nil {
		t.Fatalf("ProcessAllInstructions: %v", err)
	}
	root, ok := reader.RootStream().(*BufferInputStream)
	if !ok {
		t.Fatalf("expected a *BufferInputStream, got %T", reader.RootStream())
	}
	got, err := root.PullMessage(variant.NewArena())
	if err != nil {
		t.Fatalf("PullMessage: %v", err)
	}
	if got.StringCharset() != "us-ascii" {
		t.Errorf("got charset %q, want %q", got.StringCharset(), "us-ascii")
	}
}

func TestSendValueRoundTrip(t *testing.T) {
	var out bytes.Buffer
	dest := &closeableBuffer{Buffer: &out}
	arena := variant.NewArena()
	writer := NewOutputSocket(dest, arena)
	if err := writer.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	values := []variant.Variant{
		variant.Integer(1),
		variant.Integer(2),
		variant.Integer(3),
	}
	for _, v := range values {
		if err := writer.SendValue(v); err != nil {
			t.Fatalf("SendValue: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reader := NewInputSocket(bytes.NewReader(out.Bytes()))
	if err := reader.Init(); err != nil {
		t.Fatalf("reader Init: %v", err)
	}
	if err := reader.ProcessAllInstructions(); err != nil {
		t.Fatalf("ProcessAllInstructions: %v", err)
	}
	root, ok := reader.RootStream().(*BufferInputStream)
	if !ok {
		t.Fatalf("expected a *BufferInputStream, got %T", reader.RootStream())
	}
	for i, want := range values {
		if root.IsEmpty() {
			t.Fatalf("message %d: stream is empty", i)
		}
		got, err := root.PullMessage(arena)
		if err != nil {
			t.Fatalf("message %d: PullMessage: %v", i, err)
		}
		if !got.Equal(want) {
			t.Errorf("message %d: got %v, want %v", i, got, want)
		}
	}
	if !root.IsEmpty() {
		t.Error("expected no more pending messages")
	}
}

func TestMagicMismatchFails(t *testing.T) {
	reader := NewInputSocket(bytes.NewReader([]byte("garbage!")))
	if err := reader.Init(); err == nil {
		t.Fatal("expected a magic mismatch error")
	}
}

func TestPushInputStreamInvokesActionsInOrder(t *testing.T) {
	var out bytes.Buffer
	dest := &closeableBuffer{Buffer: &out}
	arena := variant.NewArena()
	writer := NewOutputSocket(dest, arena)
	writer.Init()
	writer.SendValue(variant.Integer(10))
	writer.SendValue(variant.Integer(20))
	writer.Close()

	var received []int64
	reader := NewInputSocket(bytes.NewReader(out.Bytes()))
	reader.SetStreamFactory(func(config *InputStreamConfig) InputStream {
		return NewPushInputStream(config, func(v variant.Variant) {
			received = append(received, v.IntegerValue())
		})
	})
	if err := reader.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := reader.ProcessAllInstructions(); err != nil {
		t.Fatalf("ProcessAllInstructions: %v", err)
	}
	if len(received) != 2 || received[0] != 10 || received[1] != 20 {
		t.Errorf("got %v", received)
	}
}

func TestRootStreamIDIsBinaryNullOpcode(t *testing.T) {
	id := RootStreamID()
	if len(id.Bytes()) != 1 || id.Bytes()[0] != byte(wire.OpNull) {
		t.Errorf("got %v", id.Bytes())
	}
}

func TestRandomStreamIDsAreDistinct(t *testing.T) {
	a, b := NewRandomStreamID(), NewRandomStreamID()
	if a.Equal(b) {
		t.Error("two random stream ids collided")
	}
}

// closeableBuffer adapts *bytes.Buffer to bytestream.Stream for tests
// that don't need RingBuffer's concurrency semantics.
type closeableBuffer struct {
	*bytes.Buffer
	closed bool
}

func (c *closeableBuffer) Flush() error { return nil }
func (c *closeableBuffer) Close() error { c.closed = true; return nil }

var _ io.ReadWriteCloser = (*closeableBuffer)(nil)
