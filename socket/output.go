package socket

import (
	"fmt"

	"github.com/goto-10/plankton/binary"
	"github.com/goto-10/plankton/bytestream"
	"github.com/goto-10/plankton/variant"
	"github.com/goto-10/plankton/wire"
)

// OutputSocket frames values onto a byte stream: an 8-byte magic header
// followed by directives, each padded so the cumulative byte count
// stays 8-byte aligned -- the absolute byte cursor is always padded to
// an 8-byte boundary.
type OutputSocket struct {
	dest           bytestream.Stream
	scratch        *variant.Arena
	cursor         int
	inited         bool
	closed         bool
	encodingSet    bool
	pendingCharset string
}

// Option configures an OutputSocket at construction time, in the
// functional-options style the rpc package's connectors also use.
type Option func(*OutputSocket)

// WithDefaultCharset arranges for SetDefaultStringEncoding to be called
// automatically with charset as soon as Init runs, so callers that
// always want a non-default encoding don't need a separate call.
func WithDefaultCharset(charset string) Option {
	return func(o *OutputSocket) { o.pendingCharset = charset }
}

// NewOutputSocket returns an OutputSocket writing to dest. scratch is
// used as throwaway arena storage when a Native value's seed type needs
// to construct a replacement seed to encode.
func NewOutputSocket(dest bytestream.Stream, scratch *variant.Arena, opts ...Option) *OutputSocket {
	o := &OutputSocket{dest: dest, scratch: scratch}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *OutputSocket) writeRaw(data []byte) error {
	if _, err := o.dest.Write(data); err != nil {
		return err
	}
	o.cursor += len(data)
	return nil
}

func (o *OutputSocket) writeUvarint(value uint64) error {
	return o.writeRaw(binary.EncodeUvarint(nil, value))
}

func (o *OutputSocket) writePadding() error {
	pad := (8 - o.cursor%8) % 8
	if pad == 0 {
		return nil
	}
	return o.writeRaw(make([]byte, pad))
}

func (o *OutputSocket) writeFrame(data []byte) error {
	if err := o.writeUvarint(uint64(len(data))); err != nil {
		return err
	}
	if err := o.writeRaw(data); err != nil {
		return err
	}
	return o.writePadding()
}

// Init writes the stream magic and flushes. Init is idempotent.
func (o *OutputSocket) Init() error {
	if o.inited {
		return nil
	}
	if err := o.writeRaw(wire.Magic[:]); err != nil {
		return err
	}
	o.inited = true
	if err := o.dest.Flush(); err != nil {
		return err
	}
	if o.pendingCharset != "" {
		if !o.SetDefaultStringEncoding(o.pendingCharset) {
			return fmt.Errorf("socket: unrecognized default charset %q", o.pendingCharset)
		}
	}
	return nil
}

// SetDefaultStringEncoding emits a directive changing the charset new
// default-encoded strings are assumed to use. It succeeds exactly once,
// and only once the socket has been initialised: the first post-init
// call succeeds, later ones don't.
func (o *OutputSocket) SetDefaultStringEncoding(charset string) bool {
	if !o.inited || o.encodingSet {
		return false
	}
	if charset != "none" {
		canonical, err := variant.NormalizeCharset(charset)
		if err != nil {
			return false
		}
		charset = canonical
	}
	id, ok := wire.CharsetID(charset)
	if !ok {
		return false
	}
	if err := o.writeRaw([]byte{byte(wire.DirectiveSetDefaultStringEncoding)}); err != nil {
		return false
	}
	if err := o.writeUvarint(id); err != nil {
		return false
	}
	if err := o.writePadding(); err != nil {
		return false
	}
	o.encodingSet = true
	return true
}

// SendValue encodes value with the binary writer and frames it behind a
// stream id, defaulting to the root stream when streamID is omitted.
func (o *OutputSocket) SendValue(value variant.Variant, streamID ...StreamID) error {
	if !o.inited {
		return fmt.Errorf("socket: SendValue before Init")
	}
	id := RootStreamID()
	if len(streamID) > 0 {
		id = streamID[0]
	}
	if err := o.writeRaw([]byte{byte(wire.DirectiveSendValue)}); err != nil {
		return err
	}
	if err := o.writeFrame(id.Bytes()); err != nil {
		return err
	}
	encoded := binary.NewWriter(o.scratch).Write(value)
	if err := o.writeFrame(encoded); err != nil {
		return err
	}
	return o.dest.Flush()
}

// Close writes the EOF sentinel byte and closes the underlying stream.
// Close is idempotent: later calls do nothing and return nil.
func (o *OutputSocket) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	if err := o.writeRaw([]byte{byte(wire.DirectiveEOF)}); err != nil {
		return err
	}
	if err := o.writePadding(); err != nil {
		return err
	}
	return o.dest.Close()
}
