package binary

import (
	"fmt"

	"github.com/goto-10/plankton/marshal"
	"github.com/goto-10/plankton/variant"
	"github.com/goto-10/plankton/wire"
)

// Reader deserializes a byte sequence produced by Writer back into a
// variant.Variant, allocating all storage from a given arena.
type Reader struct {
	arena          *variant.Arena
	registry       *marshal.TypeRegistry
	defaultCharset string
}

// Option configures a Reader at construction time.
type Option func(*Reader)

// WithDefaultCharset overrides the charset OpDefaultString values decode
// with, instead of variant.DefaultCharset. A socket uses this to apply
// whatever charset SetDefaultStringEncoding last negotiated.
func WithDefaultCharset(charset string) Option {
	return func(r *Reader) { r.defaultCharset = charset }
}

// NewReader returns a Reader that allocates decoded values from arena.
// registry may be nil, in which case every seed decodes as a generic
// Seed variant rather than being resolved to a native object.
func NewReader(arena *variant.Arena, registry *marshal.TypeRegistry, opts ...Option) *Reader {
	r := &Reader{arena: arena, registry: registry, defaultCharset: variant.DefaultCharset}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read parses one value from the front of data.
func (r *Reader) Read(data []byte) (variant.Variant, error) {
	d := &decoder{data: data, arena: r.arena, registry: r.registry, defaultCharset: r.defaultCharset}
	return d.decode()
}

type decoder struct {
	data           []byte
	cursor         int
	arena          *variant.Arena
	registry       *marshal.TypeRegistry
	defaultCharset string
	table          []variant.Variant
}

func (d *decoder) decode() (variant.Variant, error) {
	op, err := d.readByte()
	if err != nil {
		return variant.Null(), err
	}
	switch wire.Opcode(op) {
	case wire.OpInteger:
		n, err := d.readVarint()
		if err != nil {
			return variant.Null(), err
		}
		return variant.Integer(n), nil
	case wire.OpNull:
		return variant.Null(), nil
	case wire.OpTrue:
		return variant.Bool(true), nil
	case wire.OpFalse:
		return variant.Bool(false), nil
	case wire.OpID:
		return d.decodeID()
	case wire.OpDefaultString:
		return d.decodeString(d.defaultCharset)
	case wire.OpStringWithEncoding:
		id, err := d.readUvarint()
		if err != nil {
			return variant.Null(), err
		}
		return d.decodeString(charsetName(id))
	case wire.OpBlob:
		return d.decodeBlob()
	case wire.OpArray:
		return d.decodeArray()
	case wire.OpMap:
		return d.decodeMap()
	case wire.OpSeed:
		return d.decodeSeed()
	case wire.OpReference:
		index, err := d.readUvarint()
		if err != nil {
			return variant.Null(), err
		}
		if int(index) >= len(d.table) {
			return variant.Null(), fmt.Errorf("binary: reference to unknown index %d", index)
		}
		return d.table[index], nil
	default:
		return variant.Null(), fmt.Errorf("binary: unknown opcode %d", op)
	}
}

func (d *decoder) decodeID() (variant.Variant, error) {
	sizeByte, err := d.readByte()
	if err != nil {
		return variant.Null(), err
	}
	size := uint32(sizeByte) << 3
	var value uint64
	switch size {
	case 64:
		bs, err := d.readBytes(8)
		if err != nil {
			return variant.Null(), err
		}
		for i := 7; i >= 0; i-- {
			value = value<<8 | uint64(bs[i])
		}
	case 32:
		bs, err := d.readBytes(4)
		if err != nil {
			return variant.Null(), err
		}
		for i := 3; i >= 0; i-- {
			value = value<<8 | uint64(bs[i])
		}
	case 16:
		bs, err := d.readBytes(2)
		if err != nil {
			return variant.Null(), err
		}
		value = uint64(bs[0]) | uint64(bs[1])<<8
	case 8:
		b, err := d.readByte()
		if err != nil {
			return variant.Null(), err
		}
		value = uint64(b)
	default:
		return variant.Null(), fmt.Errorf("binary: unsupported id size %d", size)
	}
	return variant.ID(size, value), nil
}

func (d *decoder) decodeString(charset string) (variant.Variant, error) {
	length, err := d.readUvarint()
	if err != nil {
		return variant.Null(), err
	}
	chars, err := d.readBytes(int(length))
	if err != nil {
		return variant.Null(), err
	}
	v := d.arena.NewStringFromCharset(chars, charset)
	v.EnsureFrozen()
	d.table = append(d.table, v)
	return v, nil
}

func (d *decoder) decodeBlob() (variant.Variant, error) {
	length, err := d.readUvarint()
	if err != nil {
		return variant.Null(), err
	}
	data, err := d.readBytes(int(length))
	if err != nil {
		return variant.Null(), err
	}
	v := d.arena.NewBlobFrom(data)
	v.EnsureFrozen()
	d.table = append(d.table, v)
	return v, nil
}

func (d *decoder) decodeArray() (variant.Variant, error) {
	length, err := d.readUvarint()
	if err != nil {
		return variant.Null(), err
	}
	v := d.arena.NewArray(int(length))
	d.table = append(d.table, v)
	for i := uint64(0); i < length; i++ {
		elem, err := d.decode()
		if err != nil {
			return variant.Null(), err
		}
		v.ArrayAdd(elem)
	}
	v.EnsureFrozen()
	return v, nil
}

func (d *decoder) decodeMap() (variant.Variant, error) {
	size, err := d.readUvarint()
	if err != nil {
		return variant.Null(), err
	}
	v := d.arena.NewMap()
	d.table = append(d.table, v)
	for i := uint64(0); i < size; i++ {
		key, err := d.decode()
		if err != nil {
			return variant.Null(), err
		}
		value, err := d.decode()
		if err != nil {
			return variant.Null(), err
		}
		v.MapSet(key, value)
	}
	v.EnsureFrozen()
	return v, nil
}

func (d *decoder) decodeSeed() (variant.Variant, error) {
	headerCount, err := d.readUvarint()
	if err != nil {
		return variant.Null(), err
	}
	fieldCount, err := d.readUvarint()
	if err != nil {
		return variant.Null(), err
	}
	seed := d.arena.NewSeed()
	tableIndex := len(d.table)
	d.table = append(d.table, seed)

	var seedType marshal.AbstractSeedType
	for i := uint64(0); i < headerCount; i++ {
		header, err := d.decode()
		if err != nil {
			return variant.Null(), err
		}
		if i == 0 {
			seed.SeedSetHeader(header)
		}
		if seedType == nil && d.registry != nil {
			seedType = d.registry.Resolve(header)
		}
	}

	result := seed
	if seedType != nil {
		result = seedType.GetInitialInstance(seed.SeedHeader(), d.arena)
	}

	for i := uint64(0); i < fieldCount; i++ {
		key, err := d.decode()
		if err != nil {
			return variant.Null(), err
		}
		value, err := d.decode()
		if err != nil {
			return variant.Null(), err
		}
		seed.SeedSetField(key, value)
	}
	seed.EnsureFrozen()

	if seedType != nil {
		result = seedType.GetCompleteInstance(result, seed, d.arena)
		d.table[tableIndex] = result
	}
	return result, nil
}

func (d *decoder) readByte() (byte, error) {
	if d.cursor >= len(d.data) {
		return 0, fmt.Errorf("binary: truncated stream at offset %d", d.cursor)
	}
	b := d.data[d.cursor]
	d.cursor++
	return b, nil
}

func (d *decoder) readBytes(n int) ([]byte, error) {
	if n < 0 || d.cursor+n > len(d.data) {
		return nil, fmt.Errorf("binary: truncated stream at offset %d, need %d bytes", d.cursor, n)
	}
	b := d.data[d.cursor : d.cursor+n]
	d.cursor += n
	return b, nil
}

func (d *decoder) readUvarint() (uint64, error) {
	value, n := DecodeUvarint(d.data[d.cursor:])
	if n == 0 {
		return 0, fmt.Errorf("binary: truncated varint at offset %d", d.cursor)
	}
	d.cursor += n
	return value, nil
}

func (d *decoder) readVarint() (int64, error) {
	value, n := DecodeVarint(d.data[d.cursor:])
	if n == 0 {
		return 0, fmt.Errorf("binary: truncated varint at offset %d", d.cursor)
	}
	d.cursor += n
	return value, nil
}
