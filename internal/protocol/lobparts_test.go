package protocol

import (
	"bytes"
	"testing"

	"github.com/hdbdrv/hdb/internal/protocol/codec"
)

func TestReadLobRequestEncodeDecodeRoundTrip(t *testing.T) {
	req := ReadLobRequest{LocatorID: 99, ReadOffset: 1024, ReadLength: 4096}

	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf)
	if err := req.encode(enc); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got, want := req.size(), buf.Len(); got != want {
		t.Fatalf("size() = %d, encoded length = %d", got, want)
	}

	var got ReadLobRequest
	dec := codec.NewDecoder(bytes.NewReader(buf.Bytes()))
	if err := got.decode(dec, nil); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != req {
		t.Fatalf("got %+v, want %+v", got, req)
	}
}

func TestReadLobRequestOffsetIsOneBasedOnWire(t *testing.T) {
	req := ReadLobRequest{LocatorID: 1, ReadOffset: 0, ReadLength: 10}

	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf)
	if err := req.encode(enc); err != nil {
		t.Fatalf("encode: %v", err)
	}

	dec := codec.NewDecoder(bytes.NewReader(buf.Bytes()))
	dec.Uint64() // LocatorID
	if wireOffset := dec.Int64(); wireOffset != 1 {
		t.Fatalf("wire offset = %d, want 1 (0-based ReadOffset=0 converted to 1-based)", wireOffset)
	}
}

func TestReadLobReplyEncodeDecodeRoundTrip(t *testing.T) {
	reply := ReadLobReply{LocatorID: 7, Data: []byte("chunk-of-lob-data"), IsLast: true}

	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf)
	if err := reply.encode(enc); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got, want := reply.size(), buf.Len(); got != want {
		t.Fatalf("size() = %d, encoded length = %d", got, want)
	}

	var got ReadLobReply
	dec := codec.NewDecoder(bytes.NewReader(buf.Bytes()))
	if err := got.decode(dec, nil); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.LocatorID != reply.LocatorID || !bytes.Equal(got.Data, reply.Data) || got.IsLast != reply.IsLast {
		t.Fatalf("got %+v, want %+v", got, reply)
	}
}

func TestReadLobReplyNotLast(t *testing.T) {
	reply := ReadLobReply{LocatorID: 1, Data: []byte("partial"), IsLast: false}

	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf)
	if err := reply.encode(enc); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var got ReadLobReply
	dec := codec.NewDecoder(bytes.NewReader(buf.Bytes()))
	if err := got.decode(dec, nil); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.IsLast {
		t.Fatal("IsLast = true, want false")
	}
}

func TestWriteLobRequestEncodeMultipleChunksDifferentLocators(t *testing.T) {
	req := WriteLobRequest{Chunks: []lobChunk{
		{LocatorID: 1, Data: []byte("aaa"), IsLast: false},
		{LocatorID: 2, Data: []byte("b"), IsLast: true},
		{LocatorID: 1, Data: []byte("cc"), IsLast: true},
	}}

	if req.numArg() != 3 {
		t.Fatalf("numArg() = %d, want 3", req.numArg())
	}

	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf)
	if err := req.encode(enc); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got, want := req.size(), buf.Len(); got != want {
		t.Fatalf("size() = %d, encoded length = %d", got, want)
	}
}

func TestWriteLobRequestDecodeIsUnsupported(t *testing.T) {
	var w WriteLobRequest
	if err := w.decode(nil, nil); err == nil {
		t.Fatal("expected an error decoding a request-only part")
	}
}

func TestWriteLobReplyEncodeDecodeRoundTrip(t *testing.T) {
	reply := WriteLobReply{IDs: []uint64{10, 20, 30}}

	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf)
	if err := reply.encode(enc); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got, want := reply.size(), buf.Len(); got != want {
		t.Fatalf("size() = %d, encoded length = %d", got, want)
	}

	var got WriteLobReply
	dec := codec.NewDecoder(bytes.NewReader(buf.Bytes()))
	if err := got.decode(dec, &PartHeader{ArgumentCount: int16(len(reply.IDs))}); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.IDs) != len(reply.IDs) {
		t.Fatalf("got %d ids, want %d", len(got.IDs), len(reply.IDs))
	}
	for i, id := range got.IDs {
		if id != reply.IDs[i] {
			t.Fatalf("id %d: got %d, want %d", i, id, reply.IDs[i])
		}
	}
}

func TestWriteLobReplyEmpty(t *testing.T) {
	reply := WriteLobReply{}
	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf)
	if err := reply.encode(enc); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no bytes, got %d", buf.Len())
	}

	var got WriteLobReply
	dec := codec.NewDecoder(bytes.NewReader(buf.Bytes()))
	if err := got.decode(dec, &PartHeader{ArgumentCount: 0}); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.IDs) != 0 {
		t.Fatalf("expected no ids, got %d", len(got.IDs))
	}
}
