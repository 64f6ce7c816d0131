// Package bytestream defines the external byte-stream contract plankton
// sockets are driven over (read/write/flush/close, sticky EOF, short
// reads and writes always allowed) and a concrete in-memory RingBuffer
// implementation of it, used for tests and for pairing a socket's input
// side to its output side without a real network connection.
package bytestream
