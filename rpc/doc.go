// Package rpc implements plankton's RPC layer: requests and responses
// are Variants carried over a socket.OutputSocket/InputSocket pair, a
// MessageSocket correlates a request with its eventual response by a
// serial number it assigns, and a Service dispatches incoming requests
// to registered methods by selector.
//
// The default, in-process transport is StreamServiceConnector, which
// binds a MessageSocket directly to a pair of bytestream.Stream values.
// Two interop bridges let a plankton Service also be reached from
// outside the format entirely: jsonbridge.go speaks JSON-RPC over HTTP,
// and grpcbridge.go (behind the "grpc" build tag) forwards gRPC calls.
package rpc
