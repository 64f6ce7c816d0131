package binary

import (
	"github.com/goto-10/plankton/marshal"
	"github.com/goto-10/plankton/variant"
	"github.com/goto-10/plankton/wire"
)

// Writer serializes variant.Variant values to bytes. Each Write call
// starts a fresh assembler and sharing table, mirroring the original
// implementation's VariantWriter: the assembler's lifetime is scoped to
// one encode, unlike the longer-lived Assembler a caller might drive
// directly.
type Writer struct {
	scratch *variant.Arena
}

// NewWriter returns a Writer that allocates any scratch values it needs
// (for example when encoding a Native variant through its
// AbstractSeedType) from scratch.
func NewWriter(scratch *variant.Arena) *Writer {
	return &Writer{scratch: scratch}
}

// Write serializes value and returns the encoded bytes.
func (w *Writer) Write(value variant.Variant) []byte {
	assm := NewAssembler()
	enc := &encoder{assm: assm, scratch: w.scratch, seen: make(map[any]uint64)}
	enc.encode(value)
	return assm.PeekCode()
}

type encoder struct {
	assm    *Assembler
	scratch *variant.Arena
	seen    map[any]uint64
	next    uint64
}

func (e *encoder) encode(v variant.Variant) {
	if key := v.IdentityKey(); key != nil {
		if index, ok := e.seen[key]; ok {
			e.assm.EmitReference(index)
			return
		}
		e.seen[key] = e.next
		e.next++
	} else if kind := v.Type(); kind == variant.KindString || kind == variant.KindBlob {
		// The reader gives every decoded string and blob a table slot,
		// external ones included, so keep the numbering in step.
		e.next++
	}
	switch v.Type() {
	case variant.KindArray:
		e.encodeArray(v)
	case variant.KindString:
		e.encodeString(v)
	case variant.KindBlob:
		e.assm.EmitBlob(v.BlobData())
	case variant.KindMap:
		e.encodeMap(v)
	case variant.KindSeed:
		e.encodeSeed(v)
	case variant.KindNative:
		e.encodeNative(v)
	case variant.KindBool:
		e.assm.EmitBool(v.BoolValue())
	case variant.KindInteger:
		e.assm.EmitInt64(v.IntegerValue())
	case variant.KindID:
		e.assm.EmitID64(v.IDSize(), v.IDValue())
	default:
		e.assm.EmitNull()
	}
}

func (e *encoder) encodeString(v variant.Variant) {
	if v.StringCharset() == variant.DefaultCharset {
		e.assm.EmitDefaultString(v.StringChars())
	} else {
		e.assm.EmitStringWithEncoding(charsetID(v.StringCharset()), v.StringChars())
	}
}

func (e *encoder) encodeArray(v variant.Variant) {
	length := v.ArrayLength()
	e.assm.BeginArray(uint32(length))
	for i := 0; i < length; i++ {
		e.encode(v.ArrayGet(i))
	}
}

func (e *encoder) encodeMap(v variant.Variant) {
	e.assm.BeginMap(uint32(v.MapSize()))
	it := v.MapIterator()
	for it.HasNext() {
		key, value := it.Next()
		e.encode(key)
		e.encode(value)
	}
}

func (e *encoder) encodeSeed(v variant.Variant) {
	e.assm.BeginSeed(1, uint32(v.SeedFieldCount()))
	e.encode(v.SeedHeader())
	it := v.SeedIterator()
	for it.HasNext() {
		key, value := it.Next()
		e.encode(key)
		e.encode(value)
	}
}

func (e *encoder) encodeNative(v variant.Variant) {
	seedType, ok := v.NativeTypeOf().(marshal.AbstractSeedType)
	if !ok {
		e.assm.EmitNull()
		return
	}
	replacement := seedType.EncodeInstance(v, e.scratch)
	e.encode(replacement)
}

func charsetID(name string) uint64 {
	if id, ok := wire.CharsetID(name); ok {
		return id
	}
	id, _ := wire.CharsetID(variant.DefaultCharset)
	return id
}

func charsetName(id uint64) string {
	if name, ok := wire.CharsetName(id); ok {
		return name
	}
	return variant.DefaultCharset
}
