package cesu8

import (
	"bytes"
	"testing"
	"unicode/utf8"
)

func TestRuneLen(t *testing.T) {
	var b [CESUMax]byte
	for _, r := range []rune{0x45, 0x205, 0x10400, 0x10FFFF} {
		n := EncodeRune(b[:], r)
		if n != RuneLen(r) {
			t.Fatalf("rune %x: encoded %d bytes, RuneLen said %d", r, n, RuneLen(r))
		}
	}
}

// see http://en.wikipedia.org/wiki/CESU-8
func TestKnownCodepoints(t *testing.T) {
	cases := []struct {
		cp  rune
		enc []byte
	}{
		{0x45, []byte{0x45}},
		{0x205, []byte{0xc8, 0x85}},
		{0x10400, []byte{0xed, 0xa0, 0x81, 0xed, 0xb0, 0x80}},
	}
	var b [CESUMax]byte
	for _, c := range cases {
		n := EncodeRune(b[:], c.cp)
		if !bytes.Equal(b[:n], c.enc) {
			t.Fatalf("encode %x: got % x want % x", c.cp, b[:n], c.enc)
		}
		got, w := DecodeRune(c.enc)
		if got != c.cp || w != len(c.enc) {
			t.Fatalf("decode % x: got %x/%d want %x/%d", c.enc, got, w, c.cp, len(c.enc))
		}
	}
}

var testStrings = []string{
	"",
	"abcd",
	"hello, 世界",
	"\U00010437\U0001F600",
}

func TestStringSize(t *testing.T) {
	for _, s := range testStrings {
		want := 0
		for _, r := range s {
			want += utf8.RuneLen(r)
			if r >= 0x10000 {
				want += 2
			}
		}
		if got := StringSize(s); got != want {
			t.Fatalf("%q: StringSize got %d want %d", s, got, want)
		}
		if got := Size([]byte(s)); got != want {
			t.Fatalf("%q: Size got %d want %d", s, got, want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range testStrings {
		enc := EncodeString(nil, s)
		dec := Decode(nil, enc)
		if string(dec) != s {
			t.Fatalf("roundtrip %q -> % x -> %q", s, enc, string(dec))
		}
	}
}

// TestSafeSplit checks property 4 from the spec: splitting anywhere and
// healing with the retained tail reconstructs the original string.
func TestSafeSplit(t *testing.T) {
	for _, s := range testStrings {
		enc := EncodeString(nil, s)
		for want := 0; want <= len(enc); want++ {
			n := SafeSplit(enc, want)
			if n > want || n > len(enc) {
				t.Fatalf("%q want=%d: SafeSplit returned %d > want", s, want, n)
			}
			prefix := Decode(nil, enc[:n])
			rest := Decode(nil, enc[n:])
			if string(prefix)+string(rest) != s {
				t.Fatalf("%q want=%d split=%d: prefix+rest = %q", s, want, n, string(prefix)+string(rest))
			}
		}
	}
}

func TestSafeSplitNeverBisectsSurrogatePair(t *testing.T) {
	s := "a\U00010437b"
	enc := EncodeString(nil, s) // a(1) + 6 bytes surrogate pair + b(1) = 8 bytes
	// splitting at 4 (mid surrogate pair) must back off to 1 (just "a")
	n := SafeSplit(enc, 4)
	if n != 1 {
		t.Fatalf("expected safe split to back off to 1, got %d", n)
	}
}
