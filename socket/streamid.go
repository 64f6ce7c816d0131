package socket

import (
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/goto-10/plankton/wire"
)

// StreamID is an opaque byte key identifying a logical inbound stream.
// Ids are compared and hashed by byte sequence: equality is
// length-then-content.
type StreamID struct {
	key     []byte
	ownsKey bool
}

// RootStreamID is the id reserved for the root stream: the single byte
// that is also the binary codec's Null opcode.
func RootStreamID() StreamID {
	return StreamID{key: wire.RootStreamID}
}

// NewStreamID wraps an existing byte key. The caller retains ownership
// of key; Release is a no-op for such an id.
func NewStreamID(key []byte) StreamID {
	return StreamID{key: key}
}

// NewRandomStreamID returns a fresh, effectively-unique stream id backed
// by a random UUID, the way a connector mints ids for streams it opens
// itself rather than ones named by an incoming message.
func NewRandomStreamID() StreamID {
	id := uuid.New()
	return StreamID{key: id[:], ownsKey: true}
}

// Bytes returns the id's raw key.
func (id StreamID) Bytes() []byte { return id.key }

// Equal reports whether id and other wrap identical byte keys.
func (id StreamID) Equal(other StreamID) bool {
	return string(id.key) == string(other.key)
}

// String renders the id as hex, for logging and map keys alike.
func (id StreamID) String() string { return hex.EncodeToString(id.key) }

// Release disposes of the id's owned key bytes; ids that merely wrap
// caller-owned bytes ignore the call. InputSocket never removes a
// stream from its map, so nothing in this package calls Release.
func (id *StreamID) Release() {
	if id.ownsKey {
		id.key = nil
		id.ownsKey = false
	}
}
