package bytestream

import "io"

// Stream is the byte-stream contract plankton's binary, text and socket
// layers are written against: ordinary read/write plus an explicit
// Flush, sticky EOF once the peer has closed, and the allowance that any
// single Read or Write may transfer fewer bytes than requested -- callers
// must loop, exactly as with any io.Reader/io.Writer.
type Stream interface {
	io.Reader
	io.Writer
	Flush() error
	io.Closer
}
