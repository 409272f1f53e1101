package codec

import (
	"bytes"
	"math/big"
	"testing"
)

func TestFixedRoundTrip(t *testing.T) {
	cases := []struct {
		size int
		m    *big.Int
	}{
		{8, big.NewInt(0)},
		{8, big.NewInt(12345)},
		{8, big.NewInt(-12345)},
		{12, big.NewInt(9999999999)},
		{12, big.NewInt(-9999999999)},
		{16, new(big.Int).SetBit(big.NewInt(0), 100, 1)},
		{16, new(big.Int).Neg(new(big.Int).SetBit(big.NewInt(0), 100, 1))},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		enc := NewEncoder(&buf)
		enc.EncodeFixed(c.m, c.size)
		if enc.Error() != nil {
			t.Fatalf("encode fixed%d(%s): %v", c.size, c.m, enc.Error())
		}
		if buf.Len() != c.size {
			t.Fatalf("fixed%d(%s): wrote %d bytes, want %d", c.size, c.m, buf.Len(), c.size)
		}
		dec := NewDecoder(&buf)
		got := dec.Fixed(c.size)
		if got.Cmp(c.m) != 0 {
			t.Fatalf("fixed%d roundtrip: got %s want %s", c.size, got, c.m)
		}
	}
}

func TestDecimalNull(t *testing.T) {
	bs := make([]byte, legacyDecimalSize)
	bs[15] = 0x70 // null bit pattern
	dec := NewDecoder(bytes.NewReader(bs))
	_, _, isNull, err := dec.Decimal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !isNull {
		t.Fatalf("expected null decimal")
	}
}


