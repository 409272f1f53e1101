package protocol

import (
	"bytes"
	"testing"

	"github.com/hdbdrv/hdb/internal/protocol/codec"
)

// rawPart is a minimal partEncoder/partDecoder fixture for exercising the
// message framing loop in isolation from any real part catalog entry.
type rawPart struct {
	data []byte
}

func (p *rawPart) kind() PartKind { return PkCommand }
func (p *rawPart) numArg() int    { return 1 }
func (p *rawPart) size() int      { return len(p.data) }
func (p *rawPart) encode(enc *codec.Encoder) error {
	enc.Bytes(p.data)
	return enc.Error()
}
func (p *rawPart) decode(dec *codec.Decoder, h *PartHeader) error {
	p.data = make([]byte, h.BufferLength)
	dec.Bytes(p.data)
	return dec.Error()
}

func TestMessageHeaderArithmetic(t *testing.T) {
	var buf bytes.Buffer
	part := &rawPart{data: []byte("select 1 from dummy")}
	if err := writeMessage(&buf, 42, 1, MtExecuteDirect, true, DefaultCompressionPolicy(), NewRequestPart(part)); err != nil {
		t.Fatalf("writeMessage: %v", err)
	}

	wire := buf.Bytes()
	if len(wire) < messageHeaderSize+segmentHeaderSize {
		t.Fatalf("wire too short: %d bytes", len(wire))
	}

	wantPartSize := partHeaderSize + len(part.data) + padBytes(len(part.data))
	wantSegmentSize := segmentHeaderSize + wantPartSize
	wantMessageSize := messageHeaderSize + wantSegmentSize
	if len(wire) != wantMessageSize {
		t.Fatalf("message size = %d, want %d", len(wire), wantMessageSize)
	}

	sessionID, sh, body, err := readMessage(bytes.NewReader(wire))
	if err != nil {
		t.Fatalf("readMessage: %v", err)
	}
	if sessionID != 42 {
		t.Fatalf("sessionID = %d, want 42", sessionID)
	}
	if sh.kind != SkRequest || sh.messageType != MtExecuteDirect || !sh.autoCommit {
		t.Fatalf("unexpected segment header: %+v", sh)
	}
	if len(body) != wantPartSize {
		t.Fatalf("body len = %d, want %d", len(body), wantPartSize)
	}

	dec := codec.NewDecoder(bytes.NewReader(body))
	ph := &PartHeader{}
	ph.decode(dec)
	if ph.Kind != PkCommand || int(ph.ArgumentCount) != 1 {
		t.Fatalf("unexpected part header: %+v", ph)
	}
	got := &rawPart{}
	if err := got.decode(dec, ph); err != nil {
		t.Fatalf("decode part: %v", err)
	}
	dec.Skip(padBytes(int(ph.BufferLength)))
	if !bytes.Equal(got.data, part.data) {
		t.Fatalf("got %q, want %q", got.data, part.data)
	}
}

func TestMessageCompression(t *testing.T) {
	var buf bytes.Buffer
	big := bytes.Repeat([]byte("abcdefgh"), 256) // 2KiB, highly compressible
	part := &rawPart{data: big}
	policy := CompressionPolicy{Enabled: true, MinSize: 512}
	if err := writeMessage(&buf, 7, 1, MtExecuteDirect, false, policy, NewRequestPart(part)); err != nil {
		t.Fatalf("writeMessage: %v", err)
	}

	uncompressedSegmentSize := segmentHeaderSize + partHeaderSize + len(big) + padBytes(len(big))
	if buf.Len() >= messageHeaderSize+uncompressedSegmentSize {
		t.Fatalf("expected compression to shrink the wire size, got %d bytes", buf.Len())
	}

	_, sh, body, err := readMessage(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("readMessage: %v", err)
	}
	if sh.kind != SkRequest {
		t.Fatalf("unexpected segment kind %v", sh.kind)
	}
	dec := codec.NewDecoder(bytes.NewReader(body))
	ph := &PartHeader{}
	ph.decode(dec)
	got := &rawPart{}
	if err := got.decode(dec, ph); err != nil {
		t.Fatalf("decode part: %v", err)
	}
	if !bytes.Equal(got.data, big) {
		t.Fatalf("decompressed part mismatch")
	}
}
