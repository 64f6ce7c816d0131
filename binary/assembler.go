package binary

import "github.com/goto-10/plankton/wire"

// Assembler is a stateless stream emitter: it enforces no structural
// invariants of its own and is meant as a primitive for callers
// building custom binary encodings.
type Assembler struct {
	bytes []byte
}

// NewAssembler returns an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// BeginArray emits the array opcode and its declared length.
func (a *Assembler) BeginArray(length uint32) {
	a.writeByte(byte(wire.OpArray))
	a.writeUvarint(uint64(length))
}

// BeginMap emits the map opcode and its declared size.
func (a *Assembler) BeginMap(size uint32) {
	a.writeByte(byte(wire.OpMap))
	a.writeUvarint(uint64(size))
}

// BeginSeed emits the seed opcode and its declared header/field counts.
func (a *Assembler) BeginSeed(headerCount, fieldCount uint32) {
	a.writeByte(byte(wire.OpSeed))
	a.writeUvarint(uint64(headerCount))
	a.writeUvarint(uint64(fieldCount))
}

// EmitBool emits the True or False singleton opcode.
func (a *Assembler) EmitBool(value bool) {
	if value {
		a.writeByte(byte(wire.OpTrue))
	} else {
		a.writeByte(byte(wire.OpFalse))
	}
}

// EmitNull emits the Null singleton opcode.
func (a *Assembler) EmitNull() {
	a.writeByte(byte(wire.OpNull))
}

// EmitInt64 emits a signed integer, zig-zag encoded.
func (a *Assembler) EmitInt64(value int64) {
	a.writeByte(byte(wire.OpInteger))
	a.bytes = EncodeVarint(a.bytes, value)
}

// EmitDefaultString emits a string using the stream's default charset.
func (a *Assembler) EmitDefaultString(chars []byte) {
	a.writeByte(byte(wire.OpDefaultString))
	a.writeUvarint(uint64(len(chars)))
	a.bytes = append(a.bytes, chars...)
}

// EmitStringWithEncoding emits a string tagged with an explicit
// charset id.
func (a *Assembler) EmitStringWithEncoding(charsetID uint64, chars []byte) {
	a.writeByte(byte(wire.OpStringWithEncoding))
	a.writeUvarint(charsetID)
	a.writeUvarint(uint64(len(chars)))
	a.bytes = append(a.bytes, chars...)
}

// EmitBlob emits an opaque byte sequence.
func (a *Assembler) EmitBlob(data []byte) {
	a.writeByte(byte(wire.OpBlob))
	a.writeUvarint(uint64(len(data)))
	a.bytes = append(a.bytes, data...)
}

// EmitID64 emits an identifier of the given declared bit size (8, 16,
// 32 or 64) carrying a 64-bit payload. Returns false for an
// unsupported size and emits nothing.
func (a *Assembler) EmitID64(size uint32, value uint64) bool {
	switch size {
	case 8, 16, 32, 64:
	default:
		return false
	}
	a.writeByte(byte(wire.OpID))
	a.writeByte(byte(size >> 3))
	switch size {
	case 64:
		a.bytes = append(a.bytes,
			byte(value), byte(value>>8), byte(value>>16), byte(value>>24),
			byte(value>>32), byte(value>>40), byte(value>>48), byte(value>>56))
	case 32:
		v := uint32(value)
		a.bytes = append(a.bytes, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	case 16:
		v := uint16(value)
		a.bytes = append(a.bytes, byte(v), byte(v>>8))
	case 8:
		a.bytes = append(a.bytes, byte(value))
	}
	return true
}

// EmitReference emits a back-reference to a previously emitted
// composite value, by its assigned sharing index.
func (a *Assembler) EmitReference(index uint64) {
	a.writeByte(byte(wire.OpReference))
	a.writeUvarint(index)
}

// PeekCode returns the bytes assembled so far, without resetting the
// assembler.
func (a *Assembler) PeekCode() []byte {
	return a.bytes
}

func (a *Assembler) writeByte(b byte) {
	a.bytes = append(a.bytes, b)
}

func (a *Assembler) writeUvarint(v uint64) {
	a.bytes = EncodeUvarint(a.bytes, v)
}
