package protocol

import (
	"fmt"
	"math"

	"github.com/hdbdrv/hdb/internal/protocol/codec"
)

const (
	partHeaderSize = 16
	maxPartArgs    = math.MaxInt16
)

// PartHeader is the fixed 16-byte header preceding every part's body
// (§4.3, §6): kind, attributes, argument count, a big-argument-count
// escape (unused; arg counts here never exceed maxPartArgs), the body
// length before padding, and the buffer size made available to the
// server for its reply (only meaningful on requests).
type PartHeader struct {
	Kind         PartKind
	Attributes   PartAttributes
	ArgumentCount int16
	bigArgCount  int32
	BufferLength int32
	BufferSize   int32
}

func (h *PartHeader) encode(enc *codec.Encoder) {
	enc.Int8(int8(h.Kind))
	enc.Int8(int8(h.Attributes))
	enc.Int16(h.ArgumentCount)
	enc.Int32(h.bigArgCount)
	enc.Int32(h.BufferLength)
	enc.Int32(h.BufferSize)
}

func (h *PartHeader) decode(dec *codec.Decoder) {
	h.Kind = PartKind(dec.Int8())
	h.Attributes = PartAttributes(dec.Int8())
	h.ArgumentCount = dec.Int16()
	h.bigArgCount = dec.Int32()
	h.BufferLength = dec.Int32()
	h.BufferSize = dec.Int32()
}

func setArgumentCount(h *PartHeader, n int) error {
	if n > maxPartArgs {
		return fmt.Errorf("protocol: part argument count %d exceeds maximum %d", n, maxPartArgs)
	}
	h.ArgumentCount = int16(n)
	return nil
}

// partBody is implemented by every part payload type: it knows its own
// wire kind, how many "arguments" (rows/options/etc.) it carries, how many
// unpadded bytes it occupies, and how to encode/decode itself.
type partBody interface {
	kind() PartKind
	numArg() int
	size() int
}

type partEncoder interface {
	partBody
	encode(enc *codec.Encoder) error
}

type partDecoder interface {
	partBody
	decode(dec *codec.Decoder, h *PartHeader) error
}

// padBytes returns the number of zero bytes needed to round size up to the
// next 8-byte boundary (§6: "all bodies padded to 8-byte boundaries").
func padBytes(size int) int {
	const boundary = 8
	if r := size % boundary; r != 0 {
		return boundary - r
	}
	return 0
}
