package rpc

import "github.com/goto-10/plankton/variant"

// Codec translates between a plankton Variant and whatever wire
// representation an interop bridge speaks (JSON text, a gRPC payload,
// ...). Each bridge in this package supplies its own.
type Codec interface {
	Encode(value variant.Variant) (interface{}, error)
	Decode(arena *variant.Arena, data interface{}) (variant.Variant, error)
}

// plainValueCodec is the Codec the JSON-RPC bridges use: it maps a
// Variant onto the subset of Go values encoding/json already knows how
// to marshal, so gorilla/rpc/v2/json2 and encoding/json can handle the
// wire format without either side knowing about Variant.
type plainValueCodec struct{}

func (plainValueCodec) Encode(value variant.Variant) (interface{}, error) {
	return toPlainValue(value), nil
}

func (plainValueCodec) Decode(arena *variant.Arena, data interface{}) (variant.Variant, error) {
	return fromPlainValue(arena, data), nil
}

// toPlainValue converts a Variant into the subset of Go values
// encoding/json knows how to marshal (bool, int64, string, []byte as
// base64 string via its own marshaler, []interface{}, map[string]interface{}),
// for bridges that need to hand a Variant to a generic JSON encoder.
func toPlainValue(v variant.Variant) interface{} {
	switch v.Type() {
	case variant.KindNull:
		return nil
	case variant.KindBool:
		return v.BoolValue()
	case variant.KindInteger:
		return v.IntegerValue()
	case variant.KindID:
		return v.IDValue()
	case variant.KindString:
		return string(v.StringChars())
	case variant.KindBlob:
		return v.BlobData()
	case variant.KindArray:
		length := v.ArrayLength()
		out := make([]interface{}, length)
		for i := 0; i < length; i++ {
			out[i] = toPlainValue(v.ArrayGet(i))
		}
		return out
	case variant.KindMap:
		out := make(map[string]interface{}, v.MapSize())
		it := v.MapIterator()
		for it.HasNext() {
			key, value := it.Next()
			out[string(key.StringChars())] = toPlainValue(value)
		}
		return out
	default:
		return nil
	}
}

// fromPlainValue is toPlainValue's inverse, building Variants either
// from toPlainValue's own output or from whatever encoding/json produced
// when unmarshaling into interface{} (where every number is a float64).
// An id, which toPlainValue flattens to a bare uint64, comes back as
// Null.
func fromPlainValue(arena *variant.Arena, value interface{}) variant.Variant {
	switch v := value.(type) {
	case nil:
		return variant.Null()
	case bool:
		return variant.Bool(v)
	case int64:
		return variant.Integer(v)
	case float64:
		return variant.Integer(int64(v))
	case []byte:
		return arena.NewBlobFrom(v)
	case string:
		return arena.NewStringFrom([]byte(v))
	case []interface{}:
		arr := arena.NewArray(len(v))
		for _, elem := range v {
			arr.ArrayAdd(fromPlainValue(arena, elem))
		}
		return arr
	case map[string]interface{}:
		m := arena.NewMap()
		for key, elem := range v {
			m.MapSet(arena.NewStringFrom([]byte(key)), fromPlainValue(arena, elem))
		}
		return m
	default:
		return variant.Null()
	}
}
