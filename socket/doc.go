// Package socket implements plankton's framed, multiplexed byte-stream
// protocol: an OutputSocket that frames values behind a stream id and an
// InputSocket that demultiplexes them back out to per-stream sinks, both
// driven by the 8-byte magic header and 8-byte-aligned directive framing.
package socket
