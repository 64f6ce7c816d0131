package binary

import (
	"bytes"
	"testing"
)

func TestVarintLandmarks(t *testing.T) {
	cases := []struct {
		n    int64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x02}},
		{63, []byte{0x7E}},
		{-64, []byte{0x7F}},
		{64, []byte{0x80, 0x00}},
		{65, []byte{0x82, 0x00}},
		{-8256, []byte{0xFF, 0x7F}},
		{8256, []byte{0x80, 0x80, 0x00}},
		{65536, []byte{0x80, 0xFF, 0x06}},
	}
	for _, c := range cases {
		got := EncodeVarint(nil, c.n)
		if !bytes.Equal(got, c.want) {
			t.Errorf("EncodeVarint(%d) = % X, want % X", c.n, got, c.want)
		}
		decoded, n := DecodeVarint(c.want)
		if n != len(c.want) {
			t.Errorf("DecodeVarint(% X) consumed %d bytes, want %d", c.want, n, len(c.want))
		}
		if decoded != c.n {
			t.Errorf("DecodeVarint(% X) = %d, want %d", c.want, decoded, c.n)
		}
	}
}

func TestVarintRoundTripSweep(t *testing.T) {
	sweep := func(lo, hi, step int64) {
		for n := lo; n <= hi; n += step {
			encoded := EncodeVarint(nil, n)
			decoded, consumed := DecodeVarint(encoded)
			if consumed != len(encoded) || decoded != n {
				t.Fatalf("round trip failed for %d: decoded=%d consumed=%d want=%d", n, decoded, consumed, len(encoded))
			}
		}
	}
	sweep(-655, 655, 1)
	sweep(-6553, 6553, 12)
	sweep(-65536, 65536, 112)
	sweep(-6553600, 6553600, 11112)
}

func TestZigZagRoundTripExtremes(t *testing.T) {
	extremes := []int64{0, 1, -1, 1<<63 - 1, -(1 << 62)}
	for _, n := range extremes {
		if got := ZigZagDecode(ZigZagEncode(n)); got != n {
			t.Errorf("zig-zag round trip failed for %d: got %d", n, got)
		}
	}
}
