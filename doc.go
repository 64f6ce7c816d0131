// Package plankton is the root of a self-describing data-interchange
// format: a small variant value model, a compact binary codec, a
// debuggable 7-bit ASCII text codec, a framed multiplexed byte-stream
// transport, and an RPC layer built on top of it.
//
// # Layout
//
//   - variant:    the Variant value model (Null, Bool, Integer, String,
//     Blob, Id, Array, Map, Seed, Native) and its arena-based memory
//     ownership.
//   - wire:       constants shared by the binary codec and the socket
//     layer (the stream magic, opcodes, directive bytes, charset ids).
//   - binary:     the compact binary codec (Writer/Reader/Assembler).
//   - text:       the 7-bit ASCII text codec, a human-debuggable
//     round-trip companion to binary.
//   - marshal:    the type registry that resolves seed headers to
//     application-native Go types during decode.
//   - bytestream: a minimal Stream interface plus a bounded,
//     concurrency-safe RingBuffer implementation of it.
//   - socket:     the framed, multiplexed OutputSocket/InputSocket pair
//     and the InputStream implementations blocks get demultiplexed to.
//   - rpc:        OutgoingRequest/IncomingRequest, IncomingResponse
//     promises, MessageSocket correlation, and Service dispatch, plus
//     JSON and gRPC interop bridges.
//
// This top-level package carries the one thing every layer needs and
// none of them should have to redefine: FatalError and Fatal, for the
// class of programmer errors that are bugs, not runtime conditions -- a
// version-tag mismatch, a nil stream source, a promise settled twice.
package plankton
