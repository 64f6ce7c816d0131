package rpc

import (
	"testing"
	"time"

	"github.com/goto-10/plankton/variant"
)

func TestServiceDispatch(t *testing.T) {
	service := NewService()
	service.RegisterMethod("echo", func(args variant.Variant, respond func(OutgoingResponse)) {
		respond(Success(args.ArrayGet(0)))
	})
	service.RegisterMethod("ping", func(args variant.Variant, respond func(OutgoingResponse)) {
		respond(Success(variant.ExternalString([]byte("pong"))))
	})
	service.SetFallback(func(request *IncomingRequest, respond func(OutgoingResponse)) {
		respond(Success(variant.ExternalString([]byte("you sunk my battleship"))))
	})

	client, _, arena := connectedPair(t, nil, service.Handler())

	call := func(selector string, args variant.Variant) variant.Variant {
		request := NewOutgoingRequest(variant.Null(), arena.NewStringFrom([]byte(selector)), args)
		promise, err := client.SendRequest(request)
		if err != nil {
			t.Fatalf("SendRequest(%s): %v", selector, err)
		}
		select {
		case <-promise.Done():
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s's response", selector)
		}
		value, ok := promise.Wait()
		if !ok {
			t.Fatalf("%s: response was a failure: %v", selector, value)
		}
		return value
	}

	echoArgs := arena.NewArray(1)
	echoArgs.ArrayAdd(variant.Integer(43))
	if got := call("echo", echoArgs); got.IntegerValue() != 43 {
		t.Errorf("echo(43): got %v, want 43", got)
	}

	if got := call("echo", arena.NewArray(0)); !got.IsNull() {
		t.Errorf("echo(): got %v, want null", got)
	}

	if got := call("ping", variant.Null()); string(got.StringChars()) != "pong" {
		t.Errorf("ping: got %q, want pong", got.StringChars())
	}

	if got := call("foobeliboo", variant.Null()); string(got.StringChars()) != "you sunk my battleship" {
		t.Errorf("foobeliboo: got %q", got.StringChars())
	}

	if count := service.FallbackCount(); count != 1 {
		t.Errorf("FallbackCount: got %d, want 1", count)
	}
}
