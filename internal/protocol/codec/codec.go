// Package codec implements the little-endian primitive I/O, CESU-8 string
// handling, fixed-point decimal, and temporal packing used throughout the
// HDB wire protocol.
package codec

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/big"
	"math/bits"
	"unicode/utf8"

	"github.com/hdbdrv/hdb/internal/protocol/codec/cesu8"
)

const scratchSize = 4096

// Decoder reads HDB wire primitives from an underlying io.Reader. A single
// Decoder is reused across an entire connection's lifetime; Cnt/ResetCnt
// track bytes consumed since the last reset so callers can pad to part and
// message boundaries.
type Decoder struct {
	rd  io.Reader
	err error
	buf []byte
	cnt int
}

// NewDecoder wraps rd.
func NewDecoder(rd io.Reader) *Decoder {
	return &Decoder{rd: rd, buf: make([]byte, scratchSize)}
}

// Error returns the first read error encountered, if any.
func (d *Decoder) Error() error { return d.err }

// ResetError clears and returns the current error.
func (d *Decoder) ResetError() error {
	err := d.err
	d.err = nil
	return err
}

// ResetCnt zeroes the byte counter.
func (d *Decoder) ResetCnt() { d.cnt = 0 }

// Cnt returns the number of bytes read since the last ResetCnt.
func (d *Decoder) Cnt() int { return d.cnt }

func (d *Decoder) readFull(p []byte) {
	if d.err != nil {
		return
	}
	n, err := io.ReadFull(d.rd, p)
	d.cnt += n
	if err != nil {
		d.err = err
	}
}

// Skip discards n bytes.
func (d *Decoder) Skip(n int) {
	for n > 0 {
		c := n
		if c > len(d.buf) {
			c = len(d.buf)
		}
		d.readFull(d.buf[:c])
		if d.err != nil {
			return
		}
		n -= c
	}
}

// Byte reads a single byte.
func (d *Decoder) Byte() byte {
	d.readFull(d.buf[:1])
	return d.buf[0]
}

// Bytes fills p completely.
func (d *Decoder) Bytes(p []byte) { d.readFull(p) }

// Bool reads a boolean byte.
func (d *Decoder) Bool() bool { return d.Byte() != 0 }

// Int8 reads a signed byte.
func (d *Decoder) Int8() int8 { return int8(d.Byte()) }

// Int16 reads a little-endian int16.
func (d *Decoder) Int16() int16 {
	d.readFull(d.buf[:2])
	return int16(binary.LittleEndian.Uint16(d.buf[:2]))
}

// Uint16 reads a little-endian uint16.
func (d *Decoder) Uint16() uint16 {
	d.readFull(d.buf[:2])
	return binary.LittleEndian.Uint16(d.buf[:2])
}

// Int32 reads a little-endian int32.
func (d *Decoder) Int32() int32 {
	d.readFull(d.buf[:4])
	return int32(binary.LittleEndian.Uint32(d.buf[:4]))
}

// Uint32 reads a little-endian uint32.
func (d *Decoder) Uint32() uint32 {
	d.readFull(d.buf[:4])
	return binary.LittleEndian.Uint32(d.buf[:4])
}

// Int64 reads a little-endian int64.
func (d *Decoder) Int64() int64 {
	d.readFull(d.buf[:8])
	return int64(binary.LittleEndian.Uint64(d.buf[:8]))
}

// Uint64 reads a little-endian uint64.
func (d *Decoder) Uint64() uint64 {
	d.readFull(d.buf[:8])
	return binary.LittleEndian.Uint64(d.buf[:8])
}

// Float32 reads an IEEE754 single.
func (d *Decoder) Float32() float32 {
	d.readFull(d.buf[:4])
	return math.Float32frombits(binary.LittleEndian.Uint32(d.buf[:4]))
}

// Float64 reads an IEEE754 double.
func (d *Decoder) Float64() float64 {
	d.readFull(d.buf[:8])
	return math.Float64frombits(binary.LittleEndian.Uint64(d.buf[:8]))
}

// CESU8Bytes reads n CESU-8 encoded bytes and returns their UTF-8
// equivalent. Conversion errors are returned directly; I/O errors land on
// the Decoder's sticky error as usual.
func (d *Decoder) CESU8Bytes(n int) ([]byte, error) {
	var p []byte
	if n > len(d.buf) {
		p = make([]byte, n)
	} else {
		p = d.buf[:n]
	}
	d.readFull(p)
	if d.err != nil {
		return nil, nil
	}
	for i := 0; i < n; {
		r, w := cesu8.DecodeRune(p[i:])
		if r == utf8.RuneError && w == 1 {
			return nil, fmt.Errorf("codec: invalid CESU-8 sequence at byte %d", i)
		}
		i += w
	}
	return cesu8.Decode(nil, p), nil
}

// Encoder writes HDB wire primitives to an underlying io.Writer.
type Encoder struct {
	wr  io.Writer
	buf []byte
	err error
}

// NewEncoder wraps wr.
func NewEncoder(wr io.Writer) *Encoder {
	return &Encoder{wr: wr, buf: make([]byte, scratchSize)}
}

// Error returns the first write error encountered, if any.
func (e *Encoder) Error() error { return e.err }

func (e *Encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.wr.Write(p)
}

// Zeroes writes n zero bytes, used for part/message padding.
func (e *Encoder) Zeroes(n int) {
	if e.err != nil || n <= 0 {
		return
	}
	clear(e.buf)
	for n > 0 {
		c := n
		if c > len(e.buf) {
			c = len(e.buf)
		}
		e.write(e.buf[:c])
		n -= c
	}
}

// Bytes writes p verbatim.
func (e *Encoder) Bytes(p []byte) { e.write(p) }

// Byte writes a single byte.
func (e *Encoder) Byte(b byte) { e.buf[0] = b; e.write(e.buf[:1]) }

// Bool writes a boolean byte.
func (e *Encoder) Bool(v bool) {
	if v {
		e.Byte(1)
	} else {
		e.Byte(0)
	}
}

// Int8 writes a signed byte.
func (e *Encoder) Int8(i int8) { e.Byte(byte(i)) }

// Int16 writes a little-endian int16.
func (e *Encoder) Int16(i int16) {
	binary.LittleEndian.PutUint16(e.buf[:2], uint16(i))
	e.write(e.buf[:2])
}

// Uint16 writes a little-endian uint16.
func (e *Encoder) Uint16(i uint16) {
	binary.LittleEndian.PutUint16(e.buf[:2], i)
	e.write(e.buf[:2])
}

// Int32 writes a little-endian int32.
func (e *Encoder) Int32(i int32) {
	binary.LittleEndian.PutUint32(e.buf[:4], uint32(i))
	e.write(e.buf[:4])
}

// Uint32 writes a little-endian uint32.
func (e *Encoder) Uint32(i uint32) {
	binary.LittleEndian.PutUint32(e.buf[:4], i)
	e.write(e.buf[:4])
}

// Int64 writes a little-endian int64.
func (e *Encoder) Int64(i int64) {
	binary.LittleEndian.PutUint64(e.buf[:8], uint64(i))
	e.write(e.buf[:8])
}

// Uint64 writes a little-endian uint64.
func (e *Encoder) Uint64(i uint64) {
	binary.LittleEndian.PutUint64(e.buf[:8], i)
	e.write(e.buf[:8])
}

// Float32 writes an IEEE754 single.
func (e *Encoder) Float32(f float32) {
	binary.LittleEndian.PutUint32(e.buf[:4], math.Float32bits(f))
	e.write(e.buf[:4])
}

// Float64 writes an IEEE754 double.
func (e *Encoder) Float64(f float64) {
	binary.LittleEndian.PutUint64(e.buf[:8], math.Float64bits(f))
	e.write(e.buf[:8])
}

// CESU8String writes s converted to CESU-8 and returns the number of bytes
// written on the wire.
func (e *Encoder) CESU8String(s string) int {
	if e.err != nil {
		return 0
	}
	b := cesu8.EncodeString(nil, s)
	e.write(b)
	return len(b)
}

// big.Word size in bytes, used by the fixed-point decimal codec below.
const wordBytes = bits.UintSize / 8

var bigOne = big.NewInt(1)
