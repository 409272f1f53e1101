package protocol

import "github.com/hdbdrv/hdb/internal/protocol/codec"

// lobOptions bitfield shared by the LOB request/reply parts (§4.10).
const (
	loNullIndicator = 0x01
	loDataIncluded  = 0x02
	loLastData      = 0x04
)

// ReadLobRequest asks the server for the next chunk of a LOB locator
// (§4.10 read path): readOffset is 0-based on this side of the API and
// converted to the wire's 1-based convention in encode.
type ReadLobRequest struct {
	LocatorID  uint64
	ReadOffset int64
	ReadLength int32
}

func (r ReadLobRequest) kind() PartKind { return PkReadLobRequest }
func (r ReadLobRequest) numArg() int    { return 1 }
func (r ReadLobRequest) size() int      { return 8 + 8 + 4 + 4 }

func (r ReadLobRequest) encode(enc *codec.Encoder) error {
	enc.Uint64(r.LocatorID)
	enc.Int64(r.ReadOffset + 1)
	enc.Int32(r.ReadLength)
	enc.Zeroes(4)
	return enc.Error()
}

func (r *ReadLobRequest) decode(dec *codec.Decoder, h *PartHeader) error {
	r.LocatorID = dec.Uint64()
	r.ReadOffset = dec.Int64() - 1
	r.ReadLength = dec.Int32()
	dec.Skip(4)
	return dec.Error()
}

// ReadLobReply carries the chunk the server sent back for a ReadLobRequest.
type ReadLobReply struct {
	LocatorID uint64
	Data      []byte
	IsLast    bool
}

func (r ReadLobReply) kind() PartKind { return PkReadLobReply }
func (r ReadLobReply) numArg() int    { return 1 }
func (r ReadLobReply) size() int      { return 8 + 1 + 4 + 3 + len(r.Data) }

func (r ReadLobReply) encode(enc *codec.Encoder) error {
	enc.Uint64(r.LocatorID)
	opt := int8(loDataIncluded)
	if r.IsLast {
		opt |= loLastData
	}
	enc.Int8(opt)
	enc.Int32(int32(len(r.Data)))
	enc.Zeroes(3)
	enc.Bytes(r.Data)
	return enc.Error()
}

func (r *ReadLobReply) decode(dec *codec.Decoder, h *PartHeader) error {
	r.LocatorID = dec.Uint64()
	opt := dec.Int8()
	chunkLen := int(dec.Int32())
	dec.Skip(3)
	r.IsLast = opt&loLastData != 0
	data := make([]byte, chunkLen)
	dec.Bytes(data)
	r.Data = data
	return dec.Error()
}

// lobChunk is one outgoing WriteLobRequest entry: a chunk of bytes destined
// for an already-opened write locator, with a flag for whether it is the
// final chunk of that locator's stream (§4.10 write path, §8 property:
// locator-ordered WriteLob continuation).
type lobChunk struct {
	LocatorID uint64
	Data      []byte
	IsLast    bool
}

const writeLobRequestChunkOverhead = 8 + 1 + 8 + 4 // locator + opt + offset + length

// WriteLobRequest streams one or more LOB chunks to the server in a single
// part (§4.10 write path). Chunks may belong to different locators when a
// statement binds multiple LOB parameters; the server matches each chunk to
// its locator by LocatorID, not by position.
type WriteLobRequest struct {
	Chunks []lobChunk
}

func (w WriteLobRequest) kind() PartKind { return PkWriteLobRequest }
func (w WriteLobRequest) numArg() int    { return len(w.Chunks) }

func (w WriteLobRequest) size() int {
	size := 0
	for _, c := range w.Chunks {
		size += writeLobRequestChunkOverhead + len(c.Data)
	}
	return size
}

func (w WriteLobRequest) encode(enc *codec.Encoder) error {
	for _, c := range w.Chunks {
		enc.Uint64(c.LocatorID)
		opt := int8(loDataIncluded)
		if c.IsLast {
			opt |= loLastData
		}
		enc.Int8(opt)
		enc.Int64(-1) // append at current end of locator
		enc.Int32(int32(len(c.Data)))
		enc.Bytes(c.Data)
	}
	return enc.Error()
}

func (w *WriteLobRequest) decode(dec *codec.Decoder, h *PartHeader) error {
	return newUsageError("WriteLobRequest is a request-only part and cannot be decoded")
}

// WriteLobReply reports, in order, the locator ids the server finished
// writing (§4.10 write path acknowledgement).
type WriteLobReply struct {
	IDs []uint64
}

func (w WriteLobReply) kind() PartKind { return PkWriteLobReply }
func (w WriteLobReply) numArg() int    { return len(w.IDs) }
func (w WriteLobReply) size() int      { return 8 * len(w.IDs) }

func (w WriteLobReply) encode(enc *codec.Encoder) error {
	for _, id := range w.IDs {
		enc.Uint64(id)
	}
	return enc.Error()
}

func (w *WriteLobReply) decode(dec *codec.Decoder, h *PartHeader) error {
	n := int(h.ArgumentCount)
	ids := make([]uint64, n)
	for i := range ids {
		ids[i] = dec.Uint64()
	}
	w.IDs = ids
	return dec.Error()
}
