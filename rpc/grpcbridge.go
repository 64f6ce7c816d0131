//go:build grpc

package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/goto-10/plankton/binary"
	"github.com/goto-10/plankton/variant"
)

// GRPCBridgeClient forwards requests to a plankton Service fronted by
// GRPCBridgeHandler, using a single generic method so no .proto needs
// compiling: the request's subject/selector/arguments are binary-coded
// into the call's payload, and the grpc "selector" metadata key carries
// the selector so the far side can dispatch without decoding the
// payload first.
type GRPCBridgeClient struct {
	conn  *grpc.ClientConn
	arena *variant.Arena
}

// DialGRPCBridge dials addr and returns a client for it.
func DialGRPCBridge(ctx context.Context, addr string, arena *variant.Arena) (*GRPCBridgeClient, error) {
	conn, err := grpc.DialContext(ctx, addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("rpc: grpc bridge dial: %w", err)
	}
	return &GRPCBridgeClient{conn: conn, arena: arena}, nil
}

// Call invokes request.Selector against the bridge and decodes the
// raw response bytes back into a Variant.
func (c *GRPCBridgeClient) Call(ctx context.Context, request *OutgoingRequest) (variant.Variant, error) {
	selector := string(request.Selector.StringChars())
	ctx = metadata.AppendToOutgoingContext(ctx, "plankton-selector", selector)
	payload := binary.NewWriter(c.arena).Write(request.Arguments)

	// grpc-go's default codec type-asserts both the request and reply to
	// proto.Message, which a bare []byte never satisfies; wrap the
	// binary-coded bytes in a BytesValue so the generic proto codec
	// actually has something it can marshal.
	reply := &wrapperspb.BytesValue{}
	if err := c.conn.Invoke(ctx, "/plankton.rpc.Bridge/Call", &wrapperspb.BytesValue{Value: payload}, reply); err != nil {
		return variant.Null(), fmt.Errorf("rpc: grpc bridge call: %w", err)
	}
	return binary.NewReader(c.arena, nil).Read(reply.Value)
}

// Close closes the underlying connection.
func (c *GRPCBridgeClient) Close() error { return c.conn.Close() }

// GRPCBridgeHandler implements the generic gRPC service a
// GRPCBridgeClient calls: it reads the selector out of the incoming
// metadata, binary-decodes the payload into Arguments, and dispatches
// into service the same way a StreamServiceConnector would.
type GRPCBridgeHandler struct {
	Service *Service
	Arena   *variant.Arena
}

// Call implements the bridge's single generic RPC method.
func (h *GRPCBridgeHandler) Call(ctx context.Context, payload []byte) ([]byte, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	selectors := md.Get("plankton-selector")
	if len(selectors) == 0 {
		return nil, status.Error(codes.InvalidArgument, "rpc: missing plankton-selector metadata")
	}

	arguments, err := binary.NewReader(h.Arena, nil).Read(payload)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "rpc: decode arguments: %v", err)
	}

	done := make(chan OutgoingResponse, 1)
	request := &IncomingRequest{
		Subject:   variant.Null(),
		Selector:  h.Arena.NewStringFrom([]byte(selectors[0])),
		Arguments: arguments,
	}
	h.Service.Handler()(request, func(resp OutgoingResponse) { done <- resp })
	response := <-done

	if !response.IsSuccess() {
		return nil, status.Errorf(codes.Unknown, "%v", response.Payload())
	}
	return binary.NewWriter(h.Arena).Write(response.Payload()), nil
}

func grpcBridgeCallHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	var payload wrapperspb.BytesValue
	if err := dec(&payload); err != nil {
		return nil, err
	}
	reply, err := srv.(*GRPCBridgeHandler).Call(ctx, payload.Value)
	if err != nil {
		return nil, err
	}
	return &wrapperspb.BytesValue{Value: reply}, nil
}

// grpcBridgeServiceDesc describes the single-method service by hand,
// since there's no .proto to generate it from: the payload is always a
// BytesValue wrapping plankton's own binary coding, dispatch happens on
// the plankton-selector metadata key instead of on the gRPC method name.
var grpcBridgeServiceDesc = grpc.ServiceDesc{
	ServiceName: "plankton.rpc.Bridge",
	HandlerType: (*GRPCBridgeHandler)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Call", Handler: grpcBridgeCallHandler},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterGRPCBridge registers handler on server so GRPCBridgeClient
// callers can reach it.
func RegisterGRPCBridge(server *grpc.Server, handler *GRPCBridgeHandler) {
	server.RegisterService(&grpcBridgeServiceDesc, handler)
}
