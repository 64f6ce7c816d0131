//go:build grpc

package rpc

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/goto-10/plankton/variant"
)

// TestGRPCBridgeRoundTrip dials a GRPCBridgeHandler over a real TCP
// loopback listener and calls through it, the same path
// DialGRPCBridge/RegisterGRPCBridge exercise in production. This is
// what catches a payload type the installed codec can't actually
// marshal: that failure only surfaces once something puts the message
// on the wire, never from GRPCBridgeHandler.Call alone.
func TestGRPCBridgeRoundTrip(t *testing.T) {
	service := NewService()
	service.RegisterMethod("echo", func(args variant.Variant, respond func(OutgoingResponse)) {
		respond(Success(args.ArrayGet(0)))
	})

	arena := variant.NewArena()
	handler := &GRPCBridgeHandler{Service: service, Arena: arena}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	server := grpc.NewServer()
	RegisterGRPCBridge(server, handler)
	go server.Serve(listener)
	defer server.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := DialGRPCBridge(ctx, listener.Addr().String(), arena)
	if err != nil {
		t.Fatalf("DialGRPCBridge: %v", err)
	}
	defer client.Close()

	args := arena.NewArray(1)
	args.ArrayAdd(variant.Integer(42))
	request := NewOutgoingRequest(variant.Null(), arena.NewStringFrom([]byte("echo")), args)

	got, err := client.Call(ctx, request)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got.IntegerValue() != 42 {
		t.Errorf("echo(42): got %v, want 42", got)
	}
}

// TestGRPCBridgeRoundTripFailure checks that a handler failure reaches
// the client as an error rather than a malformed success value.
func TestGRPCBridgeRoundTripFailure(t *testing.T) {
	service := NewService()
	service.RegisterMethod("boom", func(args variant.Variant, respond func(OutgoingResponse)) {
		respond(Failure(variant.ExternalString([]byte("kaboom"))))
	})

	arena := variant.NewArena()
	handler := &GRPCBridgeHandler{Service: service, Arena: arena}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	server := grpc.NewServer()
	RegisterGRPCBridge(server, handler)
	go server.Serve(listener)
	defer server.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := grpc.DialContext(ctx, listener.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	defer conn.Close()
	client := &GRPCBridgeClient{conn: conn, arena: arena}

	request := NewOutgoingRequest(variant.Null(), arena.NewStringFrom([]byte("boom")), variant.Null())
	if _, err := client.Call(ctx, request); err == nil {
		t.Fatal("expected an error from a failed handler")
	}
}
