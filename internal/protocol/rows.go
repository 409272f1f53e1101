package protocol

import (
	"github.com/hdbdrv/hdb/internal/protocol/codec"
	"github.com/hdbdrv/hdb/internal/protocol/codec/cesu8"
)

// rowsAffected sentinels (§4.9 batch execution, §8 batch partial failure).
// raSuccessNoInfo still counts as a success: the server simply did not
// report how many rows a statement touched. raExecutionFailed is the only
// value MergeBatchOutcome treats as a failed row.
const (
	raSuccessNoInfo   int32 = -2
	raExecutionFailed int32 = -3
)

// RowsAffected is the PkRowsAffected part: one count per executed statement
// (a single entry for Execute, one per row for ExecuteBatch).
type RowsAffected []int32

func (r RowsAffected) kind() PartKind { return PkRowsAffected }
func (r RowsAffected) numArg() int    { return len(r) }
func (r RowsAffected) size() int      { return 4 * len(r) }

func (r RowsAffected) encode(enc *codec.Encoder) error {
	for _, n := range r {
		enc.Int32(n)
	}
	return enc.Error()
}

func (r *RowsAffected) decode(dec *codec.Decoder, h *PartHeader) error {
	n := int(h.ArgumentCount)
	out := make(RowsAffected, n)
	for i := range out {
		out[i] = dec.Int32()
	}
	*r = out
	return dec.Error()
}

// Failed reports whether row i's execution failed outright, as distinct
// from succeeding without a row count.
func (r RowsAffected) Failed(i int) bool { return r[i] == raExecutionFailed }

// AsInt64 widens RowsAffected to the []int64 shape MergeBatchOutcome and the
// database/sql driver surface expect.
func (r RowsAffected) AsInt64() []int64 {
	out := make([]int64, len(r))
	for i, n := range r {
		out[i] = int64(n)
	}
	return out
}

// ExecutionResult reports the outcome of a single non-SELECT statement
// (§6 execute): the rows-affected count alongside whatever TransactionFlags
// part the same reply carried.
type ExecutionResult struct {
	RowsAffected     int64
	TransactionFlags TransactionFlags
}

// ResultSet is the PkResultSet part: a page of row data for an open cursor
// (§4.8). Cells are individually type-tagged on the wire (the leading byte
// of each cell is the column's base TypeCode or its NULL variant), so
// Metadata is only needed to know how many columns to read, not their type.
type ResultSet struct {
	Metadata *ResultSetMetadata
	Rows     [][]any

	fetcher LobFetcher
}

func (rs *ResultSet) kind() PartKind { return PkResultSet }
func (rs *ResultSet) numArg() int    { return len(rs.Rows) }

func (rs *ResultSet) size() int {
	// Variable per cell; only used when this driver originates a ResultSet
	// part, which it never does (result sets are server-to-client only).
	return 0
}

func (rs *ResultSet) encode(enc *codec.Encoder) error {
	return newUsageError("ResultSet is a reply-only part and cannot be encoded")
}

func (rs *ResultSet) decode(dec *codec.Decoder, h *PartHeader) error {
	if rs.Metadata == nil {
		return newProtocolError("ResultSet part decoded without preceding ResultSetMetadata")
	}
	numRows := int(h.ArgumentCount)
	fields := rs.Metadata.Fields
	rows := make([][]any, numRows)
	for i := 0; i < numRows; i++ {
		row := make([]any, len(fields))
		for j := range fields {
			tc := TypeCode(dec.Byte())
			v, err := DecodeValue(dec, tc, rs.fetcher)
			if err != nil {
				return err
			}
			row[j] = v
		}
		rows[i] = row
	}
	rs.Rows = rows
	return dec.Error()
}

// OutputParameters is the PkOutputParameters part: values bound to OUT/INOUT
// parameters of a stored-procedure call (§6 execute).
type OutputParameters struct {
	Metadata *ParameterMetadata
	Values   []any

	fetcher LobFetcher
}

func (o *OutputParameters) kind() PartKind { return PkOutputParameters }
func (o *OutputParameters) numArg() int    { return 1 }
func (o *OutputParameters) size() int      { return 0 }

func (o *OutputParameters) encode(enc *codec.Encoder) error {
	return newUsageError("OutputParameters is a reply-only part and cannot be encoded")
}

func (o *OutputParameters) decode(dec *codec.Decoder, h *PartHeader) error {
	if o.Metadata == nil {
		return newProtocolError("OutputParameters part decoded without preceding ParameterMetadata")
	}
	fields := o.Metadata.Fields
	values := make([]any, len(fields))
	for i := range fields {
		tc := TypeCode(dec.Byte())
		v, err := DecodeValue(dec, tc, o.fetcher)
		if err != nil {
			return err
		}
		values[i] = v
	}
	o.Values = values
	return dec.Error()
}

// Parameters is the PkParameters part carrying outgoing bind values for
// Execute (§6) and the batched mass-insert case (§8 property: batch
// encoding cycles the field list once per row): Args is a flat list whose
// length is a whole multiple of len(Fields), one row's worth of values at a
// time.
type Parameters struct {
	Fields []ParameterField
	Args   []any
}

func (p Parameters) kind() PartKind { return PkParameters }

func (p Parameters) numArg() int {
	if len(p.Fields) == 0 {
		return 0
	}
	return len(p.Args) / len(p.Fields)
}

func (p Parameters) size() int {
	size := 0
	for i, v := range p.Args {
		f := p.Fields[i%len(p.Fields)]
		size++ // type-code byte
		if v != nil {
			size += valueSize(f.Type, v)
		}
	}
	return size
}

func (p Parameters) encode(enc *codec.Encoder) error {
	cnt := len(p.Fields)
	for i, v := range p.Args {
		f := p.Fields[i%cnt]
		if v == nil {
			enc.Byte(byte(f.Type.Null()))
			continue
		}
		enc.Byte(byte(f.Type))
		if err := EncodeValue(enc, f.Type, v); err != nil {
			return err
		}
	}
	return enc.Error()
}

func (p *Parameters) decode(dec *codec.Decoder, h *PartHeader) error {
	return newUsageError("Parameters is a request-only part and cannot be decoded")
}

// valueSize returns the wire size EncodeValue would write for v, used by
// Parameters.size() to precompute the part's BufferLength without a
// throwaway encode pass.
func valueSize(tc TypeCode, v any) int {
	switch tc.Base() {
	case TCTinyInt:
		return 1
	case TCSmallInt:
		return 2
	case TCInt:
		return 4
	case TCBigInt:
		return 8
	case TCReal:
		return 4
	case TCDouble:
		return 8
	case TCBoolean:
		return 1
	case TCDecimal:
		return 16
	case TCFixed8, TCFixed12, TCFixed16:
		return 1 + fixedSize(tc.Base())
	case TCChar, TCVarChar, TCString, TCShortText, TCNChar, TCNVarChar, TCNString, TCText:
		return fieldBytesSize(cesu8.StringSize(v.(string)))
	case TCBinary, TCVarBinary, TCBStrin:
		return fieldBytesSize(len(v.([]byte)))
	case TCDate:
		return 4
	case TCTime:
		return 4
	case TCTimestamp:
		return 8
	case TCLongDate, TCSecondDate:
		return 8
	case TCDayDate, TCSecondTime:
		return 4
	default:
		return 0
	}
}
