package protocol

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/hdbdrv/hdb/internal/protocol/codec"
)

const (
	messageHeaderSize = 32
	segmentHeaderSize = 24
)

// compressionControl is the message-header compression flag (§4.4, §6).
type compressionControl uint8

const (
	compressionNone compressionControl = 0
	compressionLZ4  compressionControl = 2
)

// messageHeader is the fixed 32-byte prefix of every message (§4.4).
type messageHeader struct {
	sessionID         int64
	packetSequence    uint32
	totalPayloadBytes uint32
	remainingBuffer   uint32
	segmentsInMessage int16 // always 1
	compression       compressionControl
	uncompressedSize  uint32
}

func (h *messageHeader) encode(enc *codec.Encoder) {
	enc.Int64(h.sessionID)
	enc.Uint32(h.packetSequence)
	enc.Uint32(h.totalPayloadBytes)
	enc.Uint32(h.remainingBuffer)
	enc.Int16(h.segmentsInMessage)
	enc.Byte(byte(h.compression))
	enc.Byte(0) // reserved
	enc.Uint32(h.uncompressedSize)
	enc.Uint32(0) // reserved
}

func (h *messageHeader) decode(dec *codec.Decoder) {
	h.sessionID = dec.Int64()
	h.packetSequence = dec.Uint32()
	h.totalPayloadBytes = dec.Uint32()
	h.remainingBuffer = dec.Uint32()
	h.segmentsInMessage = dec.Int16()
	h.compression = compressionControl(dec.Byte())
	dec.Skip(1)
	h.uncompressedSize = dec.Uint32()
	dec.Skip(4)
}

// segmentHeader is the fixed 24-byte segment descriptor that follows the
// message header (§4.4). Byte positions 13-15 are interpreted differently
// for requests (messageType, autoCommit, commandOptions) and replies
// (replyType as an int16, plus one reserved byte) — the same three bytes
// carry different fields depending on kind, mirroring the wire layout.
type segmentHeader struct {
	segmentLength  int32
	segmentOfs     int32
	numParts       int16
	segmentNo      int16
	kind           SegmentKind
	messageType    MessageType // valid when kind == SkRequest
	autoCommit     bool        // valid when kind == SkRequest
	commandOptions byte        // valid when kind == SkRequest
	replyType      ReplyType   // valid when kind == SkReply or SkError
}

func (h *segmentHeader) encode(enc *codec.Encoder) {
	enc.Int32(h.segmentLength)
	enc.Int32(h.segmentOfs)
	enc.Int16(h.numParts)
	enc.Int16(h.segmentNo)
	enc.Int8(int8(h.kind))
	if h.kind == SkRequest {
		enc.Int8(int8(h.messageType))
		enc.Bool(h.autoCommit)
		enc.Byte(h.commandOptions)
	} else {
		enc.Int16(int16(h.replyType))
		enc.Byte(0)
	}
	enc.Zeroes(8)
}

func (h *segmentHeader) decode(dec *codec.Decoder) {
	h.segmentLength = dec.Int32()
	h.segmentOfs = dec.Int32()
	h.numParts = dec.Int16()
	h.segmentNo = dec.Int16()
	h.kind = SegmentKind(dec.Int8())
	if h.kind == SkRequest {
		h.messageType = MessageType(dec.Int8())
		h.autoCommit = dec.Bool()
		h.commandOptions = dec.Byte()
	} else {
		h.replyType = ReplyType(dec.Int16())
		dec.Skip(1)
	}
	dec.Skip(8)
}

// CompressionPolicy controls whether outgoing messages may be LZ4-block
// compressed (§4.4, §6 compression = off | on(min-size)).
type CompressionPolicy struct {
	Enabled bool
	MinSize int
}

const defaultCompressionMinSize = 1024

// DefaultCompressionPolicy matches §4.4's suggested 1 KiB minimum, disabled
// by default: compression is opt-in per connection configuration.
func DefaultCompressionPolicy() CompressionPolicy {
	return CompressionPolicy{Enabled: false, MinSize: defaultCompressionMinSize}
}

// RequestPart pairs a part's header metadata with its body encoder.
type RequestPart struct {
	body partEncoder
}

// NewRequestPart wraps a part body for inclusion in a request message.
func NewRequestPart(body partEncoder) RequestPart { return RequestPart{body: body} }

// writeMessage assembles sessionID/messageType/autoCommit plus parts into
// one message (one segment) and writes it to wr, stamped with the sequence
// number seq the caller supplies.
func writeMessage(wr io.Writer, sessionID int64, seq uint32, messageType MessageType, autoCommit bool, policy CompressionPolicy, parts ...RequestPart) error {
	var partsBuf bytes.Buffer
	penc := codec.NewEncoder(&partsBuf)
	for _, p := range parts {
		ph := PartHeader{Kind: p.body.kind()}
		if err := setArgumentCount(&ph, p.body.numArg()); err != nil {
			return err
		}
		size := p.body.size()
		ph.BufferLength = int32(size)
		ph.encode(penc)
		if err := p.body.encode(penc); err != nil {
			return err
		}
		penc.Zeroes(padBytes(size))
	}
	if penc.Error() != nil {
		return penc.Error()
	}

	body := partsBuf.Bytes()
	compression := compressionNone
	uncompressedSize := uint32(0)
	wireBody := body
	if policy.Enabled && len(body) > policy.MinSize {
		bound := lz4.CompressBlockBound(len(body))
		compressed := make([]byte, bound)
		n, err := lz4.CompressBlock(body, compressed, nil)
		if err == nil && n > 0 && float64(n) <= float64(len(body))*0.95 {
			wireBody = compressed[:n]
			compression = compressionLZ4
			uncompressedSize = uint32(len(body))
		}
	}

	mh := messageHeader{
		sessionID:         sessionID,
		packetSequence:    seq,
		totalPayloadBytes: uint32(segmentHeaderSize + len(wireBody)),
		remainingBuffer:   uint32(segmentHeaderSize + len(wireBody)),
		segmentsInMessage: 1,
		compression:       compression,
		uncompressedSize:  uncompressedSize,
	}
	sh := segmentHeader{
		segmentLength:  int32(segmentHeaderSize + len(wireBody)),
		segmentOfs:     0,
		numParts:       int16(len(parts)),
		segmentNo:      1,
		kind:           SkRequest,
		messageType:    messageType,
		autoCommit:     autoCommit,
		commandOptions: 0,
	}

	var out bytes.Buffer
	enc := codec.NewEncoder(&out)
	mh.encode(enc)
	sh.encode(enc)
	enc.Bytes(wireBody)
	if enc.Error() != nil {
		return enc.Error()
	}
	_, err := wr.Write(out.Bytes())
	return err
}

// readMessage reads one message (one segment) from rd, decompressing its
// part buffer if flagged, and returns the message's session id, the
// segment header, and the raw part bytes (so callers can iterate
// PartHeader-delimited entries).
func readMessage(rd io.Reader) (int64, *segmentHeader, []byte, error) {
	hdrBuf := make([]byte, messageHeaderSize)
	if _, err := io.ReadFull(rd, hdrBuf); err != nil {
		return 0, nil, nil, err
	}
	mh := &messageHeader{}
	mh.decode(codec.NewDecoder(bytes.NewReader(hdrBuf)))

	if mh.segmentsInMessage != 1 {
		return 0, nil, nil, fmt.Errorf("protocol: unsupported segment count %d", mh.segmentsInMessage)
	}

	shBuf := make([]byte, segmentHeaderSize)
	if _, err := io.ReadFull(rd, shBuf); err != nil {
		return 0, nil, nil, err
	}
	sh := &segmentHeader{}
	sh.decode(codec.NewDecoder(bytes.NewReader(shBuf)))

	bodyLen := int(mh.totalPayloadBytes) - segmentHeaderSize
	if bodyLen < 0 {
		return 0, nil, nil, fmt.Errorf("protocol: negative body length in message header")
	}
	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(rd, body); err != nil {
		return 0, nil, nil, err
	}

	if mh.compression == compressionLZ4 {
		plain := make([]byte, mh.uncompressedSize)
		n, err := lz4.UncompressBlock(body, plain)
		if err != nil {
			return 0, nil, nil, fmt.Errorf("protocol: lz4 decompress: %w", err)
		}
		body = plain[:n]
	}

	return mh.sessionID, sh, body, nil
}
