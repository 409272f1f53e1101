package protocol

import "github.com/hdbdrv/hdb/internal/protocol/codec"

// StatementID is the server-assigned handle returned by PREPARE and
// consumed by every subsequent EXECUTE/DropStatementId for that statement
// (§4.9). It is an opaque 8-byte value; the driver never interprets it.
type StatementID uint64

func (s StatementID) kind() PartKind { return PkStatementID }
func (s StatementID) numArg() int    { return 1 }
func (s StatementID) size() int      { return 8 }

func (s StatementID) encode(enc *codec.Encoder) error {
	enc.Uint64(uint64(s))
	return enc.Error()
}

func (s *StatementID) decode(dec *codec.Decoder, h *PartHeader) error {
	*s = StatementID(dec.Uint64())
	return dec.Error()
}

// ResultSetID is the server-assigned cursor handle used by FetchNext and
// CloseCursor (§4.8).
type ResultSetID uint64

func (r ResultSetID) kind() PartKind { return PkResultSetID }
func (r ResultSetID) numArg() int    { return 1 }
func (r ResultSetID) size() int      { return 8 }

func (r ResultSetID) encode(enc *codec.Encoder) error {
	enc.Uint64(uint64(r))
	return enc.Error()
}

func (r *ResultSetID) decode(dec *codec.Decoder, h *PartHeader) error {
	*r = ResultSetID(dec.Uint64())
	return dec.Error()
}

// FetchSize requests the number of rows the server should return on the
// next FetchNext round trip (§4.8 next_row/fetch_all tuning).
type FetchSize int32

func (f FetchSize) kind() PartKind { return PkFetchSize }
func (f FetchSize) numArg() int    { return 1 }
func (f FetchSize) size() int      { return 4 }

func (f FetchSize) encode(enc *codec.Encoder) error {
	enc.Int32(int32(f))
	return enc.Error()
}

func (f *FetchSize) decode(dec *codec.Decoder, h *PartHeader) error {
	*f = FetchSize(dec.Int32())
	return dec.Error()
}

// CommandInfo annotates a reply with the source line of a multi-statement
// script that produced it (§4.9 batch execution diagnostics).
type CommandInfo struct {
	LineNumber int32
	Text       string
}

func (c CommandInfo) kind() PartKind { return PkCommandInfo }
func (c CommandInfo) numArg() int    { return 1 }
func (c CommandInfo) size() int      { return 4 + authFieldSize(len(c.Text)) }

func (c CommandInfo) encode(enc *codec.Encoder) error {
	enc.Int32(c.LineNumber)
	writeAuthField(enc, []byte(c.Text))
	return enc.Error()
}

func (c *CommandInfo) decode(dec *codec.Decoder, h *PartHeader) error {
	c.LineNumber = dec.Int32()
	c.Text = string(readAuthField(dec))
	return dec.Error()
}
