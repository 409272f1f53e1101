package hdb

import (
	"context"
	"database/sql/driver"
	"io"
	"reflect"
	"time"

	p "github.com/hdbdrv/hdb/internal/protocol"
)

// Decimal is a fixed-point DECIMAL/FIXED value: Mantissa * 10^Exp. Scan a
// decimal column into *Decimal to read it without a lossy float64 round
// trip.
type Decimal = p.Decimal

var (
	scanTypeBool    = reflect.TypeOf(false)
	scanTypeUint8   = reflect.TypeOf(uint8(0))
	scanTypeInt16   = reflect.TypeOf(int16(0))
	scanTypeInt32   = reflect.TypeOf(int32(0))
	scanTypeInt64   = reflect.TypeOf(int64(0))
	scanTypeFloat32 = reflect.TypeOf(float32(0))
	scanTypeFloat64 = reflect.TypeOf(float64(0))
	scanTypeString  = reflect.TypeOf("")
	scanTypeBytes   = reflect.TypeOf([]byte(nil))
	scanTypeTime    = reflect.TypeOf(time.Time{})
	scanTypeDecimal = reflect.TypeOf((*Decimal)(nil))
	scanTypeLob     = reflect.TypeOf((*Lob)(nil))
	scanTypeUnknown = reflect.TypeOf((*any)(nil)).Elem()
)

// columnScanType maps a wire TypeCode to the Go type Rows.Next hands back
// for that column (driver.RowsColumnTypeScanType, §4.8).
func columnScanType(tc p.TypeCode) reflect.Type {
	switch tc.Base() {
	case p.TCTinyInt:
		return scanTypeUint8
	case p.TCSmallInt:
		return scanTypeInt16
	case p.TCInt:
		return scanTypeInt32
	case p.TCBigInt:
		return scanTypeInt64
	case p.TCReal:
		return scanTypeFloat32
	case p.TCDouble:
		return scanTypeFloat64
	case p.TCBoolean:
		return scanTypeBool
	case p.TCDecimal, p.TCFixed8, p.TCFixed12, p.TCFixed16:
		return scanTypeDecimal
	case p.TCBinary, p.TCVarBinary, p.TCBStrin:
		return scanTypeBytes
	case p.TCDate, p.TCTime, p.TCTimestamp, p.TCLongDate, p.TCSecondDate, p.TCDayDate, p.TCSecondTime:
		return scanTypeTime
	case p.TCClob, p.TCNClob, p.TCBlob:
		return scanTypeLob
	case p.TCChar, p.TCVarChar, p.TCNChar, p.TCNVarChar, p.TCString, p.TCNString, p.TCShortText, p.TCText:
		return scanTypeString
	default:
		return scanTypeUnknown
	}
}

// convertValue prepares a decoded column value for Rows.Next: a *p.Lob is
// wrapped in the exported Lob type, and everything else DecodeValue returns
// (byte, int16, int32, int64, float32, float64, bool, string, []byte,
// time.Time, *Decimal, nil) passes through untouched.
func convertValue(v any) driver.Value {
	if lob, ok := v.(*p.Lob); ok {
		return &Lob{inner: lob}
	}
	return v
}

var (
	_ driver.Rows                           = (*rows)(nil)
	_ driver.RowsColumnTypeDatabaseTypeName  = (*rows)(nil)
	_ driver.RowsColumnTypeNullable          = (*rows)(nil)
	_ driver.RowsColumnTypeLength            = (*rows)(nil)
	_ driver.RowsColumnTypeScanType          = (*rows)(nil)
)

// rows adapts a protocol.ResultSetCursor to driver.Rows.
type rows struct {
	cursor  *p.ResultSetCursor
	columns []string
	fields  []p.ResultField
}

func newRows(cursor *p.ResultSetCursor) *rows {
	r := &rows{cursor: cursor}
	if meta := cursor.Metadata(); meta != nil {
		r.fields = meta.Fields
		r.columns = make([]string, len(meta.Fields))
		for i, f := range meta.Fields {
			r.columns[i] = f.Name
		}
	}
	return r
}

func (r *rows) Columns() []string { return r.columns }

func (r *rows) Close() error { return r.cursor.Close(context.Background()) }

func (r *rows) Next(dest []driver.Value) error {
	row, ok, err := r.cursor.NextRow(context.Background())
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}
	for i, v := range row {
		dest[i] = convertValue(v)
	}
	return nil
}

func (r *rows) ColumnTypeDatabaseTypeName(index int) string {
	return r.fields[index].Type.String()
}

func (r *rows) ColumnTypeNullable(index int) (nullable, ok bool) {
	return r.fields[index].Nullable(), true
}

func (r *rows) ColumnTypeLength(index int) (int64, bool) {
	f := r.fields[index]
	if !f.Type.IsVariableLength() {
		return 0, false
	}
	return int64(f.Length), true
}

func (r *rows) ColumnTypeScanType(index int) reflect.Type {
	return columnScanType(r.fields[index].Type)
}

// emptyRows is returned for a QueryContext call against a statement that
// produced no result set (e.g. a CALL with only scalar OUT parameters).
type emptyRows struct{}

func (emptyRows) Columns() []string                     { return nil }
func (emptyRows) Close() error                           { return nil }
func (emptyRows) Next(dest []driver.Value) error         { return io.EOF }

// execResult implements driver.Result for statements executed via
// ExecContext.
type execResult struct {
	rowsAffected int64
}

func (r execResult) LastInsertId() (int64, error) {
	return 0, errLastInsertIDUnsupported
}

func (r execResult) RowsAffected() (int64, error) { return r.rowsAffected, nil }
