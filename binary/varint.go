package binary

// The wire encoding of unsigned integers resembles a protobuf varint
// with one twist: continuation bytes carry an implicit +1 bias on their
// 7-bit payload. Plain concatenation would let 0x00, 0x80 0x00 and
// 0x80 0x80 0x00 all decode to zero; biasing every byte after the first
// gives each value exactly one encoding and packs slightly more value
// per added byte (grounded on plankton-binary.cc's decode_uint64
// comment in the original source).
const continuationBit = 0x80
const payloadMask = 0x7F

// EncodeUvarint appends the biased varint encoding of value to dst and
// returns the extended slice.
func EncodeUvarint(dst []byte, value uint64) []byte {
	current := value
	for current >= continuationBit {
		dst = append(dst, byte((current&payloadMask)|continuationBit))
		current = (current >> 7) - 1
	}
	return append(dst, byte(current))
}

// DecodeUvarint reads a biased varint from the front of src, returning
// the decoded value and the number of bytes consumed. n is 0 if src
// doesn't hold a complete varint.
func DecodeUvarint(src []byte) (value uint64, n int) {
	if len(src) == 0 {
		return 0, 0
	}
	next := src[0]
	result := uint64(next & payloadMask)
	offset := uint(7)
	cursor := 1
	for next >= continuationBit {
		if cursor >= len(src) {
			return 0, 0
		}
		next = src[cursor]
		cursor++
		payload := uint64(next&payloadMask) + 1
		result += payload << offset
		offset += 7
	}
	return result, cursor
}

// ZigZagEncode maps a signed 64-bit integer to its unsigned zig-zag
// representation: non-negative n maps to 2n, negative n maps to
// -2n-1.
func ZigZagEncode(n int64) uint64 {
	return uint64((n << 1) ^ (n >> 63))
}

// ZigZagDecode reverses ZigZagEncode.
func ZigZagDecode(z uint64) int64 {
	return int64(z>>1) ^ -int64(z&1)
}

// EncodeVarint appends the zig-zagged, biased varint encoding of a
// signed integer to dst.
func EncodeVarint(dst []byte, value int64) []byte {
	return EncodeUvarint(dst, ZigZagEncode(value))
}

// DecodeVarint reads a zig-zagged, biased varint signed integer from
// the front of src.
func DecodeVarint(src []byte) (value int64, n int) {
	z, n := DecodeUvarint(src)
	if n == 0 {
		return 0, 0
	}
	return ZigZagDecode(z), n
}
