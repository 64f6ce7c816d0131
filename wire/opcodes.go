// Package wire holds the constants shared by the binary codec and the
// framed socket: the stream magic, binary opcodes, and socket directive
// bytes. Keeping them in one package lets both layers agree on the
// numbers without binary importing socket or vice versa.
package wire

// Magic is the eight-byte header every plankton byte stream begins
// with.
var Magic = [8]byte{'p', 't', 0xF6, 'n', 0, 0, 0, 0}

// Opcode identifies the shape of the next value on a binary stream.
type Opcode byte

// Opcodes, one byte each. Values must stay stable for a given
// deployment; these follow the order the values appear in the decode
// switch in plankton-binary.cc.
const (
	OpInteger            Opcode = 1
	OpDefaultString      Opcode = 2
	OpArray              Opcode = 3
	OpMap                Opcode = 4
	OpNull               Opcode = 5
	OpTrue               Opcode = 6
	OpFalse              Opcode = 7
	OpBlob               Opcode = 8
	OpID                 Opcode = 9
	OpSeed               Opcode = 10
	OpReference          Opcode = 11
	OpStringWithEncoding Opcode = 12
)

func (o Opcode) String() string {
	switch o {
	case OpInteger:
		return "Int"
	case OpDefaultString:
		return "String"
	case OpArray:
		return "Array"
	case OpMap:
		return "Map"
	case OpNull:
		return "Null"
	case OpTrue:
		return "True"
	case OpFalse:
		return "False"
	case OpBlob:
		return "Blob"
	case OpID:
		return "Id"
	case OpSeed:
		return "Seed"
	case OpReference:
		return "Reference"
	case OpStringWithEncoding:
		return "StringWithEncoding"
	default:
		return "Unknown"
	}
}

// RootStreamID is the single-byte stream id reserved for the root
// stream: the binary opcode for null -- this ties the socket layer's
// addressing scheme to the binary codec's opcode space without
// creating an import cycle between them.
var RootStreamID = []byte{byte(OpNull)}

// Directive identifies the kind of instruction on a framed socket
// stream.
type Directive byte

const (
	// DirectiveSetDefaultStringEncoding sets the charset new default
	// strings are assumed to use.
	DirectiveSetDefaultStringEncoding Directive = 1
	// DirectiveSendValue frames a value addressed to a stream id.
	DirectiveSendValue Directive = 2
	// DirectiveEOF (byte 0) marks a clean end of stream when no more
	// directives follow.
	DirectiveEOF Directive = 0
)

// charsetIDs assigns each charset name the numeric id it carries on the
// wire. These are not arbitrary: they are the IANA MIBenum values the
// original implementation used directly as its pton_charset_t, verified
// against its test_socket.cc header test (set_default_string_encoding
// for utf-8 emits the single byte 106).
var charsetIDs = map[string]uint64{
	"none":      0,
	"us-ascii":  3,
	"shift_jis": 17,
	"utf-8":     106,
}

var charsetNames = func() map[uint64]string {
	m := make(map[uint64]string, len(charsetIDs))
	for name, id := range charsetIDs {
		m[id] = name
	}
	return m
}()

// CharsetID returns the wire id for a charset name, and false if the
// name isn't one this deployment recognizes.
func CharsetID(name string) (uint64, bool) {
	id, ok := charsetIDs[name]
	return id, ok
}

// CharsetName returns the charset name for a wire id, and false if the
// id isn't one this deployment recognizes.
func CharsetName(id uint64) (string, bool) {
	name, ok := charsetNames[id]
	return name, ok
}
