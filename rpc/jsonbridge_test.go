package rpc

import (
	"context"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/goto-10/plankton/variant"
)

func TestJSONBridgeRoundTrip(t *testing.T) {
	service := NewService()
	service.RegisterMethod("echo", func(args variant.Variant, respond func(OutgoingResponse)) {
		respond(Success(args.ArrayGet(0)))
	})

	arena := variant.NewArena()
	server := NewJSONBridgeServer(service, arena)
	httpServer := httptest.NewServer(server)
	defer httpServer.Close()

	uri, err := url.Parse(httpServer.URL)
	if err != nil {
		t.Fatalf("url.Parse: %v", err)
	}
	client := NewJSONBridgeClient(uri, arena)

	args := arena.NewArray(1)
	args.ArrayAdd(variant.Integer(7))
	request := NewOutgoingRequest(variant.Null(), arena.NewStringFrom([]byte("echo")), args)

	got, err := client.Call(context.Background(), request)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got.IntegerValue() != 7 {
		t.Errorf("echo(7): got %v, want 7", got)
	}
}

func TestPlainValueCodecRoundTrip(t *testing.T) {
	arena := variant.NewArena()
	var codec Codec = plainValueCodec{}

	m := arena.NewMap()
	m.MapSet(arena.NewStringFrom([]byte("k")), variant.Integer(9))

	encoded, err := codec.Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := codec.Decode(arena, encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.MapGet(arena.NewStringFrom([]byte("k")), variant.Null()).IntegerValue() != 9 {
		t.Errorf("got %v", decoded)
	}
}
