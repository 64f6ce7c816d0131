package rpc

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/goto-10/plankton/bytestream"
	"github.com/goto-10/plankton/variant"
)

func quietLogger() zerolog.Logger { return zerolog.Nop() }

// connectedPair returns two StreamServiceConnectors joined back to
// back over a pair of in-memory RingBuffer pipes: a's requests reach
// b's handler and vice versa. Both connectors are initialized
// concurrently, since each blocks reading the other's magic header
// until it's written.
func connectedPair(t *testing.T, handlerA, handlerB RequestHandler) (a, b *StreamServiceConnector, arena *variant.Arena) {
	t.Helper()
	aToB := bytestream.NewRingBuffer(1 << 14)
	bToA := bytestream.NewRingBuffer(1 << 14)
	arena = variant.NewArena()

	a = NewStreamServiceConnector(bToA, aToB, arena)
	b = NewStreamServiceConnector(aToB, bToA, arena)

	errA, errB := make(chan error, 1), make(chan error, 1)
	go func() { errA <- a.Init(handlerA) }()
	go func() { errB <- b.Init(handlerB) }()
	if err := <-errA; err != nil {
		t.Fatalf("a.Init: %v", err)
	}
	if err := <-errB; err != nil {
		t.Fatalf("b.Init: %v", err)
	}

	go a.ProcessAllMessages()
	go b.ProcessAllMessages()
	return a, b, arena
}

func TestEchoRoundTrip(t *testing.T) {
	received := make(chan *IncomingRequest, 1)
	handler := func(request *IncomingRequest, respond func(OutgoingResponse)) {
		received <- request
		respond(Success(variant.Integer(18)))
	}
	client, _, arena := connectedPair(t, nil, handler)

	request := NewOutgoingRequest(
		arena.NewStringFrom([]byte("test_subject")),
		arena.NewStringFrom([]byte("test_selector")),
		arena.NewStringFrom([]byte("test_arguments")),
	)
	promise, err := client.SendRequest(request)
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}

	select {
	case req := <-received:
		if string(req.Subject.StringChars()) != "test_subject" {
			t.Errorf("subject: got %q", req.Subject.StringChars())
		}
		if string(req.Selector.StringChars()) != "test_selector" {
			t.Errorf("selector: got %q", req.Selector.StringChars())
		}
		if string(req.Arguments.StringChars()) != "test_arguments" {
			t.Errorf("arguments: got %q", req.Arguments.StringChars())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the handler to see the request")
	}

	value, ok := promise.Wait()
	if !ok {
		t.Fatal("promise settled to a failure")
	}
	if value.IntegerValue() != 18 {
		t.Errorf("got %v, want 18", value)
	}
}

// TestCloseAbandonsPendingPromises exercises the scenario that used to
// leak a goroutine per call: a request is sent and never answered, then
// the connector is closed. SendRequest's latency-recording goroutine
// must return instead of blocking on a promise that will now never
// settle on its own, and the promise itself must unblock any Wait.
func TestCloseAbandonsPendingPromises(t *testing.T) {
	block := make(chan struct{})
	handler := func(request *IncomingRequest, respond func(OutgoingResponse)) {
		<-block
	}
	defer close(block)
	client, _, arena := connectedPair(t, nil, handler)

	request := NewOutgoingRequest(
		arena.NewStringFrom([]byte("subject")),
		arena.NewStringFrom([]byte("selector")),
		variant.Null(),
	)
	promise, err := client.SendRequest(request)
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}

	if err := client.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	select {
	case <-promise.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("promise never settled after Close")
	}
	if promise.IsFulfilled() {
		t.Error("abandoned promise should not be fulfilled")
	}

	// Closing a second time, or a MessageSocket with no pending
	// promises at all, must not panic.
	if err := client.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestDoubleSettlementIsFatal(t *testing.T) {
	promise := newIncomingResponse(quietLogger())
	promise.settle(true, variant.Integer(1))

	defer func() {
		if recover() == nil {
			t.Fatal("expected settling an already-settled promise to panic")
		}
	}()
	promise.settle(true, variant.Integer(2))
}
