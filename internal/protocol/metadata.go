package protocol

import (
	"sort"

	"github.com/hdbdrv/hdb/internal/protocol/codec"
	"github.com/hdbdrv/hdb/internal/protocol/codec/cesu8"
)

// namePool resolves the shared name table used by ResultSetMetadata and
// ParameterMetadata (§4.8/§4.9): rather than inlining each field's name
// inline, every field stores a byte offset into a pool of
// (1-byte-length-prefixed CESU-8 name) entries that follows the fixed field
// array, sorted by ascending offset. This mirrors go-hdb's resultField/
// parameterField name-offset scheme (internal/protocol/field.go).
type namePool map[uint32]string

// decodeNamePool reads the pool for the given set of field-relative offsets.
// poolStart is the number of bytes already consumed by the fixed field array
// (offsets are relative to the start of that array); decoding continues
// until every requested offset has been resolved.
func decodeNamePool(dec *codec.Decoder, offsets map[uint32]bool, poolStart uint32) namePool {
	sorted := make([]uint32, 0, len(offsets))
	for o := range offsets {
		sorted = append(sorted, o)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	pool := namePool{}
	pos := poolStart
	for _, off := range sorted {
		if off < pos {
			// Already passed (duplicate offset shared by an earlier field);
			// reuse already-resolved value below via the map membership.
			continue
		}
		if gap := off - pos; gap > 0 {
			dec.Skip(int(gap))
			pos += gap
		}
		n := int(dec.Byte())
		b := make([]byte, n)
		dec.Bytes(b)
		pool[off] = string(cesu8.Decode(nil, b))
		pos += uint32(1 + n)
	}
	return pool
}

// columnOptions bitfield (resultField.columnOptions).
const (
	coMandatory = 0x01
	coOptional  = 0x02
)

// ResultField describes one column of a result set (§4.8).
type ResultField struct {
	Options     int8
	Type        TypeCode
	Fraction    int16
	Length      int16
	Name        string
	DisplayName string

	nameOffset        uint32
	displayNameOffset uint32
}

// Nullable reports whether the column accepts SQL NULL.
func (f ResultField) Nullable() bool { return f.Options&coOptional != 0 }

const resultFieldFixedSize = 1 /*options*/ + 1 /*type*/ + 2 /*fraction*/ + 2 /*length*/ + 4 /*nameOffset*/ + 4 /*displayNameOffset*/

// ResultSetMetadata is the PkResultSetMetadata part: the column catalog that
// precedes the first ResultSet payload for a query (§4.8).
type ResultSetMetadata struct {
	Fields []ResultField
}

func (m ResultSetMetadata) kind() PartKind { return PkResultSetMetadata }
func (m ResultSetMetadata) numArg() int    { return len(m.Fields) }

func (m ResultSetMetadata) size() int {
	size := 0
	for _, f := range m.Fields {
		size += resultFieldFixedSize + 1 + len(f.Name) + 1 + len(f.DisplayName)
	}
	return size
}

func (m ResultSetMetadata) encode(enc *codec.Encoder) error {
	pos := uint32(resultFieldFixedSize * len(m.Fields))
	type nameEntry struct {
		offset uint32
		name   string
	}
	var pool []nameEntry
	offsetOf := func(name string) uint32 {
		off := pos
		pool = append(pool, nameEntry{off, name})
		pos += uint32(1 + len(name))
		return off
	}
	type encoded struct {
		f                 ResultField
		nameOff, dispOff  uint32
	}
	fields := make([]encoded, len(m.Fields))
	for i, f := range m.Fields {
		fields[i] = encoded{f, offsetOf(f.Name), offsetOf(f.DisplayName)}
	}
	for _, ef := range fields {
		enc.Int8(ef.f.Options)
		enc.Byte(byte(ef.f.Type))
		enc.Int16(ef.f.Fraction)
		enc.Int16(ef.f.Length)
		enc.Uint32(ef.nameOff)
		enc.Uint32(ef.dispOff)
	}
	for _, e := range pool {
		enc.Byte(byte(len(e.name)))
		enc.CESU8String(e.name)
	}
	return enc.Error()
}

func (m *ResultSetMetadata) decode(dec *codec.Decoder, h *PartHeader) error {
	n := int(h.ArgumentCount)
	fields := make([]ResultField, n)
	offsets := map[uint32]bool{}
	for i := 0; i < n; i++ {
		f := ResultField{}
		f.Options = dec.Int8()
		f.Type = TypeCode(dec.Byte())
		f.Fraction = dec.Int16()
		f.Length = dec.Int16()
		f.nameOffset = dec.Uint32()
		f.displayNameOffset = dec.Uint32()
		offsets[f.nameOffset] = true
		offsets[f.displayNameOffset] = true
		fields[i] = f
	}
	pool := decodeNamePool(dec, offsets, uint32(resultFieldFixedSize*n))
	for i := range fields {
		fields[i].Name = pool[fields[i].nameOffset]
		fields[i].DisplayName = pool[fields[i].displayNameOffset]
	}
	m.Fields = fields
	return dec.Error()
}

// parameterOptions / parameterMode bitfields (parameterField).
const (
	poMandatory = 0x01
	poOptional  = 0x02
	poDefault   = 0x04

	pmIn    = 0x01
	pmInout = 0x02
	pmOut   = 0x04
)

// ParameterField describes one bind parameter of a prepared statement
// (§4.9).
type ParameterField struct {
	Options  int8
	Mode     int8
	Type     TypeCode
	Fraction int16
	Length   int16
	Name     string

	nameOffset uint32
}

func (f ParameterField) In() bool    { return f.Mode&pmIn != 0 }
func (f ParameterField) Out() bool   { return f.Mode&pmOut != 0 }
func (f ParameterField) InOut() bool { return f.Mode&pmInout != 0 }

const parameterFieldFixedSize = 1 /*options*/ + 1 /*mode*/ + 1 /*type*/ + 2 /*fraction*/ + 2 /*length*/ + 4 /*nameOffset*/

// ParameterMetadata is the PkParameterMetadata part: the bind-parameter
// catalog returned by PREPARE (§4.9).
type ParameterMetadata struct {
	Fields []ParameterField
}

func (m ParameterMetadata) kind() PartKind { return PkParameterMetadata }
func (m ParameterMetadata) numArg() int    { return len(m.Fields) }

func (m ParameterMetadata) size() int {
	size := 0
	for _, f := range m.Fields {
		size += parameterFieldFixedSize + 1 + len(f.Name)
	}
	return size
}

func (m ParameterMetadata) encode(enc *codec.Encoder) error {
	pos := uint32(parameterFieldFixedSize * len(m.Fields))
	type nameEntry struct {
		offset uint32
		name   string
	}
	var pool []nameEntry
	offsets := make([]uint32, len(m.Fields))
	for i, f := range m.Fields {
		offsets[i] = pos
		pool = append(pool, nameEntry{pos, f.Name})
		pos += uint32(1 + len(f.Name))
	}
	for i, f := range m.Fields {
		enc.Int8(f.Options)
		enc.Int8(f.Mode)
		enc.Byte(byte(f.Type))
		enc.Int16(f.Fraction)
		enc.Int16(f.Length)
		enc.Uint32(offsets[i])
	}
	for _, e := range pool {
		enc.Byte(byte(len(e.name)))
		enc.CESU8String(e.name)
	}
	return enc.Error()
}

func (m *ParameterMetadata) decode(dec *codec.Decoder, h *PartHeader) error {
	n := int(h.ArgumentCount)
	fields := make([]ParameterField, n)
	offsets := map[uint32]bool{}
	for i := 0; i < n; i++ {
		f := ParameterField{}
		f.Options = dec.Int8()
		f.Mode = dec.Int8()
		f.Type = TypeCode(dec.Byte())
		f.Fraction = dec.Int16()
		f.Length = dec.Int16()
		f.nameOffset = dec.Uint32()
		offsets[f.nameOffset] = true
		fields[i] = f
	}
	pool := decodeNamePool(dec, offsets, uint32(parameterFieldFixedSize*n))
	for i := range fields {
		fields[i].Name = pool[fields[i].nameOffset]
	}
	m.Fields = fields
	return dec.Error()
}
