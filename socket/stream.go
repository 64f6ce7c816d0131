package socket

import (
	"github.com/goto-10/plankton/binary"
	"github.com/goto-10/plankton/marshal"
	"github.com/goto-10/plankton/variant"
)

// InputStreamConfig carries the data a stream needs at construction
// time: the stream's own id, the type registry the socket was given to
// resolve seeds with absent a more specific one set later, and the
// default string charset negotiated so far.
type InputStreamConfig struct {
	ID                  StreamID
	DefaultTypeRegistry *marshal.TypeRegistry
	DefaultCharset      string
}

// InputStream receives raw, already-delimited message blocks addressed
// to one stream id. Ownership of data passes to the stream.
type InputStream interface {
	ReceiveBlock(data []byte)
}

// defaultCharsetSetter is implemented by stream kinds whose decoding
// depends on the socket-wide negotiated default charset, letting
// InputSocket update already-created streams when the directive
// changing it arrives after they exist.
type defaultCharsetSetter interface {
	SetDefaultCharset(charset string)
}

// StreamFactory creates an InputStream for a newly-seen stream id.
type StreamFactory func(config *InputStreamConfig) InputStream

// BufferInputStream buffers received blocks and lets a client pull them
// one at a time, decoding lazily against a caller-supplied arena. This
// is the InputSocket's default stream kind.
type BufferInputStream struct {
	id             StreamID
	typeRegistry   *marshal.TypeRegistry
	defaultCharset string
	pending        [][]byte
}

// NewBufferInputStream is a StreamFactory-shaped constructor.
func NewBufferInputStream(config *InputStreamConfig) *BufferInputStream {
	return &BufferInputStream{id: config.ID, typeRegistry: config.DefaultTypeRegistry, defaultCharset: config.DefaultCharset}
}

// ReceiveBlock enqueues message for later PullMessage.
func (b *BufferInputStream) ReceiveBlock(data []byte) {
	b.pending = append(b.pending, data)
}

// SetTypeRegistry overrides the registry used to decode future pulls.
func (b *BufferInputStream) SetTypeRegistry(registry *marshal.TypeRegistry) {
	b.typeRegistry = registry
}

// SetDefaultCharset overrides the charset default-encoded strings are
// decoded with in future pulls.
func (b *BufferInputStream) SetDefaultCharset(charset string) {
	b.defaultCharset = charset
}

// IsEmpty reports whether there are no pending messages to pull.
func (b *BufferInputStream) IsEmpty() bool { return len(b.pending) == 0 }

// PullMessage decodes and returns the oldest pending message, allocating
// from arena. It fails if there is nothing pending.
func (b *BufferInputStream) PullMessage(arena *variant.Arena) (variant.Variant, error) {
	if len(b.pending) == 0 {
		return variant.Null(), errNoPendingMessage
	}
	data := b.pending[0]
	b.pending = b.pending[1:]
	opts := readerOptions(b.defaultCharset)
	return binary.NewReader(arena, b.typeRegistry, opts...).Read(data)
}

// MessageAction is invoked with each value a PushInputStream decodes.
// The value is only valid for the duration of the call.
type MessageAction func(value variant.Variant)

// PushInputStream decodes each received block eagerly, against a fresh
// private arena, and runs every registered action on the result.
type PushInputStream struct {
	id             StreamID
	typeRegistry   *marshal.TypeRegistry
	defaultCharset string
	actions        []MessageAction
}

// NewPushInputStream is a StreamFactory-shaped constructor. Additional
// actions may be attached later with AddAction.
func NewPushInputStream(config *InputStreamConfig, actions ...MessageAction) *PushInputStream {
	return &PushInputStream{id: config.ID, typeRegistry: config.DefaultTypeRegistry, defaultCharset: config.DefaultCharset, actions: actions}
}

// SetTypeRegistry overrides the registry used to decode future blocks.
func (p *PushInputStream) SetTypeRegistry(registry *marshal.TypeRegistry) {
	p.typeRegistry = registry
}

// SetDefaultCharset overrides the charset default-encoded strings are
// decoded with in future blocks.
func (p *PushInputStream) SetDefaultCharset(charset string) {
	p.defaultCharset = charset
}

// AddAction appends an action, run after every action already
// registered when future blocks arrive.
func (p *PushInputStream) AddAction(action MessageAction) {
	p.actions = append(p.actions, action)
}

// ReceiveBlock decodes data and runs every registered action on the
// result. A malformed payload inside an otherwise well-framed block is
// tolerated by discarding the block rather than propagating an error
// through the void ReceiveBlock contract.
func (p *PushInputStream) ReceiveBlock(data []byte) {
	arena := variant.NewArena()
	opts := readerOptions(p.defaultCharset)
	value, err := binary.NewReader(arena, p.typeRegistry, opts...).Read(data)
	if err != nil {
		return
	}
	for _, action := range p.actions {
		action(value)
	}
}

// readerOptions turns an optionally-empty negotiated charset into the
// binary.Option slice NewReader expects, leaving the reader's own
// default alone when nothing has been negotiated yet.
func readerOptions(charset string) []binary.Option {
	if charset == "" {
		return nil
	}
	return []binary.Option{binary.WithDefaultCharset(charset)}
}
