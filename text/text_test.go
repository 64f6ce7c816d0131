package text

import (
	"testing"

	"github.com/goto-10/plankton/variant"
)

func roundTrip(t *testing.T, value variant.Variant) variant.Variant {
	t.Helper()
	arena := variant.NewArena()
	rendered := Write(value)
	got, err := NewReader(arena).Read(rendered)
	if err != nil {
		t.Fatalf("Read(%q) failed: %v", rendered, err)
	}
	return got
}

func TestScalarsRoundTrip(t *testing.T) {
	cases := []variant.Variant{
		variant.Null(),
		variant.Bool(true),
		variant.Bool(false),
		variant.Integer(0),
		variant.Integer(-42),
		variant.Integer(1 << 40),
	}
	for _, v := range cases {
		got := roundTrip(t, v)
		if !got.Equal(v) {
			t.Errorf("round trip of %v via %q: got %v", v, Write(v), got)
		}
	}
}

func TestStringEscaping(t *testing.T) {
	arena := variant.NewArena()
	s := arena.NewStringFrom([]byte("quote\"backslash\\newline\ntab\tcontrol\x01end"))
	rendered := Write(s)
	got, err := NewReader(arena).Read(rendered)
	if err != nil {
		t.Fatalf("Read(%q): %v", rendered, err)
	}
	if string(got.StringChars()) != string(s.StringChars()) {
		t.Errorf("got %q, want %q", got.StringChars(), s.StringChars())
	}
}

func TestBlobRoundTrip(t *testing.T) {
	data := []byte{0, 1, 2, 255, 254, 10, 20, 30}
	blob := variant.ExternalBlob(data)
	rendered := Write(blob)
	got := roundTrip(t, blob)
	if string(got.BlobData()) != string(data) {
		t.Errorf("round trip of %q: got %q", rendered, got.BlobData())
	}
}

func TestArrayAndMapRoundTrip(t *testing.T) {
	arena := variant.NewArena()
	arr := arena.NewArray(2)
	arr.ArrayAdd(variant.Integer(1))
	m := arena.NewMap()
	m.MapSet(arena.NewStringFrom([]byte("k")), variant.Bool(true))
	arr.ArrayAdd(m)
	arr.EnsureFrozen()

	rendered := Write(arr)
	got, err := NewReader(arena).Read(rendered)
	if err != nil {
		t.Fatalf("Read(%q): %v", rendered, err)
	}
	if got.ArrayLength() != 2 || got.ArrayGet(0).IntegerValue() != 1 {
		t.Fatalf("array mismatch, rendered as %q", rendered)
	}
	nested := got.ArrayGet(1)
	if nested.Type() != variant.KindMap || !nested.MapGet(arena.NewStringFrom([]byte("k")), variant.Null()).BoolValue() {
		t.Errorf("map mismatch, rendered as %q", rendered)
	}
}

func TestSeedRoundTrip(t *testing.T) {
	arena := variant.NewArena()
	seed := arena.NewSeed()
	seed.SeedSetHeader(arena.NewStringFrom([]byte("Point")))
	seed.SeedSetField(arena.NewStringFrom([]byte("x")), variant.Integer(1))
	seed.SeedSetField(arena.NewStringFrom([]byte("y")), variant.Integer(-2))
	seed.EnsureFrozen()

	rendered := Write(seed)
	got, err := NewReader(arena).Read(rendered)
	if err != nil {
		t.Fatalf("Read(%q): %v", rendered, err)
	}
	if got.Type() != variant.KindSeed || string(got.SeedHeader().StringChars()) != "Point" {
		t.Fatalf("header mismatch, rendered as %q", rendered)
	}
	if got.SeedGetField(arena.NewStringFrom([]byte("y")), variant.Null()).IntegerValue() != -2 {
		t.Errorf("field y mismatch, rendered as %q", rendered)
	}
}

func TestIDRoundTrip(t *testing.T) {
	id := variant.ID(32, 0xDEADBEEF)
	got := roundTrip(t, id)
	if got.IDSize() != 32 || got.IDValue() != 0xDEADBEEF {
		t.Errorf("got size=%d value=%d", got.IDSize(), got.IDValue())
	}
}

func TestUnterminatedArrayIsAnError(t *testing.T) {
	arena := variant.NewArena()
	_, err := NewReader(arena).Read("[1, 2")
	if err == nil {
		t.Fatal("expected an error for an unterminated array")
	}
}

func TestNormalizeCharset(t *testing.T) {
	canonical, err := NormalizeCharset("UTF-8")
	if err != nil {
		t.Fatalf("NormalizeCharset: %v", err)
	}
	if canonical == "" {
		t.Error("expected a non-empty canonical name")
	}
	if _, err := NormalizeCharset("not-a-real-charset"); err == nil {
		t.Error("expected an error for an unknown charset")
	}
}
