// Package cesu8 implements the CESU-8 compatibility encoding used on the
// HDB wire for N-text values: identical to UTF-8 except that supplementary
// characters (U+10000..U+10FFFF) are represented as two 3-byte surrogate
// halves instead of a single 4-byte UTF-8 sequence.
package cesu8

import "unicode/utf8"

// CESUMax is the maximum number of bytes a single rune occupies in CESU-8.
const CESUMax = 6

const (
	surr1 = 0xd800
	surr2 = 0xdc00
	surr3 = 0xe000

	surrSelf = 0x10000
)

// RuneLen returns the number of bytes rune r occupies when CESU-8 encoded.
func RuneLen(r rune) int {
	switch {
	case r < 0:
		return -1
	case r < surrSelf:
		return utf8.RuneLen(r)
	case r <= utf8.MaxRune:
		return 6
	default:
		return -1
	}
}

// EncodeRune writes the CESU-8 encoding of r to p, which must be large
// enough (CESUMax bytes suffice), and returns the number of bytes written.
func EncodeRune(p []byte, r rune) int {
	if r < surrSelf {
		return utf8.EncodeRune(p, r)
	}
	r -= surrSelf
	n := encodeSurrHalf(p, rune(surr1)+(r>>10))
	n += encodeSurrHalf(p[n:], rune(surr2)+(r&0x3ff))
	return n
}

// encodeSurrHalf writes the 3-byte form of the surrogate code unit s, which
// utf8.EncodeRune refuses to produce (it substitutes U+FFFD).
func encodeSurrHalf(p []byte, s rune) int {
	p[0] = 0xe0 | byte(s>>12)
	p[1] = 0x80 | byte(s>>6)&0x3f
	p[2] = 0x80 | byte(s)&0x3f
	return 3
}

// decodeSurrHalf reads one 3-byte surrogate code unit (ED A0..BF xx) from
// the start of p; ok is false when p does not start with one.
func decodeSurrHalf(p []byte) (s rune, ok bool) {
	if len(p) < 3 || p[0] != 0xed || p[1]&0xc0 != 0x80 || p[2]&0xc0 != 0x80 {
		return 0, false
	}
	s = rune(p[0]&0x0f)<<12 | rune(p[1]&0x3f)<<6 | rune(p[2]&0x3f)
	return s, isSurrHalf(s)
}

// DecodeRune unpacks the first rune in p, returning the rune and its width
// in bytes. Invalid or incomplete input decodes as (utf8.RuneError, 1).
func DecodeRune(p []byte) (rune, int) {
	if len(p) == 0 {
		return utf8.RuneError, 0
	}
	r, n := utf8.DecodeRune(p)
	if r != utf8.RuneError || n != 1 {
		if !isSurrHalf(r) {
			return r, n
		}
	}
	// possible surrogate half: need six bytes total to confirm a pair.
	if len(p) < 6 {
		return utf8.RuneError, 1
	}
	hi, ok1 := decodeSurrHalf(p[:3])
	lo, ok2 := decodeSurrHalf(p[3:6])
	if !ok1 || !ok2 || !isHighSurr(hi) || !isLowSurr(lo) {
		return utf8.RuneError, 1
	}
	return surrSelf + (hi-surr1)<<10 + (lo - surr2), 6
}

func isHighSurr(r rune) bool { return r >= surr1 && r < surr2 }
func isLowSurr(r rune) bool  { return r >= surr2 && r < surr3 }
func isSurrHalf(r rune) bool { return r >= surr1 && r < surr3 }

// Size returns the CESU-8 encoded length of the UTF-8 bytes in p.
func Size(p []byte) int {
	n := 0
	for i := 0; i < len(p); {
		r, w := utf8.DecodeRune(p[i:])
		n += RuneLen(r)
		i += w
	}
	return n
}

// StringSize returns the CESU-8 encoded length of s.
func StringSize(s string) int {
	n := 0
	for _, r := range s {
		n += RuneLen(r)
	}
	return n
}

// Encode converts the UTF-8 bytes in src to CESU-8, appending to dst.
func Encode(dst []byte, src []byte) []byte {
	var buf [CESUMax]byte
	for i := 0; i < len(src); {
		r, w := utf8.DecodeRune(src[i:])
		n := EncodeRune(buf[:], r)
		dst = append(dst, buf[:n]...)
		i += w
	}
	return dst
}

// EncodeString converts s to CESU-8, appending to dst.
func EncodeString(dst []byte, s string) []byte {
	var buf [CESUMax]byte
	for _, r := range s {
		n := EncodeRune(buf[:], r)
		dst = append(dst, buf[:n]...)
	}
	return dst
}

// Decode converts the CESU-8 bytes in src to UTF-8, appending to dst.
// src must already be a "safe" CESU-8 buffer (see SafeSplit) — it is not
// re-validated byte by byte beyond what DecodeRune tolerates.
func Decode(dst []byte, src []byte) []byte {
	for i := 0; i < len(src); {
		r, w := DecodeRune(src[i:])
		if w == 0 {
			break
		}
		dst = utf8.AppendRune(dst, r)
		i += w
	}
	return dst
}

// SafeSplit returns the largest prefix of p whose length is <= want and that
// ends on a complete CESU-8 character, never bisecting a surrogate pair. The
// remainder (p[prefix:]) must be retained and prepended to the next chunk.
//
// The returned prefix length is always <= want; it may be smaller when
// the byte at the boundary starts a multi-byte sequence (up to 5 bytes may
// be held back: a 3-byte lead of a to-be-completed surrogate pair, plus up
// to 2 bytes of a second, still-incomplete surrogate half).
func SafeSplit(p []byte, want int) int {
	if want >= len(p) {
		return len(p)
	}
	if want < 0 {
		want = 0
	}
	i := 0
	lastSafe := 0
	for i < want {
		if hi, ok := decodeSurrHalf(p[i:]); ok && isHighSurr(hi) {
			// need the matching low surrogate too; only safe to include
			// this char if both halves (6 bytes) fit within want.
			if i+6 > want {
				break
			}
			if len(p) < i+6 {
				break
			}
			lo, ok := decodeSurrHalf(p[i+3:])
			if !ok || !isLowSurr(lo) {
				break
			}
			i += 6
		} else {
			_, w := utf8.DecodeRune(p[i:])
			if w == 0 || i+w > want {
				break
			}
			i += w
		}
		lastSafe = i
	}
	return lastSafe
}


