package text

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/goto-10/plankton/variant"
)

// Write renders value as 7-bit ASCII text. The grammar is:
//
//	null:    %n
//	bool:    %t | %f
//	integer: [-]digit+
//	id:      #size:value
//	string:  "..." with \" \\ \n \t \r \xHH escapes
//	blob:    %[base64]
//	array:   [v1, v2, ...]
//	map:     {k1: v1, k2: v2}
//	seed:    @header{k1: v1, k2: v2}
//
// Native values have no text form; they render as %n.
func Write(value variant.Variant) string {
	var b strings.Builder
	writeValue(&b, value)
	return b.String()
}

func writeValue(b *strings.Builder, v variant.Variant) {
	switch v.Type() {
	case variant.KindNull, variant.KindNative:
		b.WriteString("%n")
	case variant.KindBool:
		if v.BoolValue() {
			b.WriteString("%t")
		} else {
			b.WriteString("%f")
		}
	case variant.KindInteger:
		b.WriteString(strconv.FormatInt(v.IntegerValue(), 10))
	case variant.KindID:
		b.WriteByte('#')
		b.WriteString(strconv.FormatUint(uint64(v.IDSize()), 10))
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(v.IDValue(), 10))
	case variant.KindString:
		writeString(b, v.StringChars())
	case variant.KindBlob:
		writeBlob(b, v.BlobData())
	case variant.KindArray:
		writeArray(b, v)
	case variant.KindMap:
		writeMap(b, v)
	case variant.KindSeed:
		writeSeed(b, v)
	}
}

func writeString(b *strings.Builder, chars []byte) {
	b.WriteByte('"')
	for _, c := range chars {
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if c < 0x20 || c >= 0x7F {
				b.WriteString(`\x`)
				b.WriteString(hexDigits[c>>4 : c>>4+1])
				b.WriteString(hexDigits[c&0xF : c&0xF+1])
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
}

const hexDigits = "0123456789ABCDEF"

func writeBlob(b *strings.Builder, data []byte) {
	b.WriteString("%[")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	b.WriteByte(']')
}

func writeArray(b *strings.Builder, v variant.Variant) {
	b.WriteByte('[')
	length := v.ArrayLength()
	for i := 0; i < length; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		writeValue(b, v.ArrayGet(i))
	}
	b.WriteByte(']')
}

func writeMap(b *strings.Builder, v variant.Variant) {
	b.WriteByte('{')
	it := v.MapIterator()
	first := true
	for it.HasNext() {
		key, val := it.Next()
		if !first {
			b.WriteString(", ")
		}
		first = false
		writeValue(b, key)
		b.WriteString(": ")
		writeValue(b, val)
	}
	b.WriteByte('}')
}

func writeSeed(b *strings.Builder, v variant.Variant) {
	b.WriteByte('@')
	writeValue(b, v.SeedHeader())
	b.WriteByte('{')
	it := v.SeedIterator()
	first := true
	for it.HasNext() {
		key, val := it.Next()
		if !first {
			b.WriteString(", ")
		}
		first = false
		writeValue(b, key)
		b.WriteString(": ")
		writeValue(b, val)
	}
	b.WriteByte('}')
}
