package hdb

import (
	"reflect"
	"testing"

	p "github.com/hdbdrv/hdb/internal/protocol"
)

func TestConvertValuePassesScalarsThrough(t *testing.T) {
	for _, v := range []any{int64(1), "s", []byte{1, 2}, nil, true} {
		if got := convertValue(v); !reflect.DeepEqual(got, v) {
			t.Fatalf("convertValue(%v) = %v, want unchanged", v, got)
		}
	}
}

func TestConvertValueWrapsLob(t *testing.T) {
	got := convertValue((*p.Lob)(nil))
	lob, ok := got.(*Lob)
	if !ok {
		t.Fatalf("got %T, want *Lob", got)
	}
	if lob.inner != nil {
		t.Fatal("expected inner to be the nil *p.Lob passed in")
	}
}

func TestColumnScanType(t *testing.T) {
	cases := []struct {
		tc   p.TypeCode
		want reflect.Type
	}{
		{p.TCInt, scanTypeInt32},
		{p.TCBigInt, scanTypeInt64},
		{p.TCDouble, scanTypeFloat64},
		{p.TCBoolean, scanTypeBool},
		{p.TCDecimal, scanTypeDecimal},
		{p.TCFixed8, scanTypeDecimal},
		{p.TCBlob, scanTypeLob},
		{p.TCClob, scanTypeLob},
		{p.TCVarChar, scanTypeString},
		{p.TCBinary, scanTypeBytes},
		{p.TCTimestamp, scanTypeTime},
	}
	for _, c := range cases {
		if got := columnScanType(c.tc); got != c.want {
			t.Errorf("columnScanType(%s) = %v, want %v", c.tc, got, c.want)
		}
	}
}

func TestEmptyRowsAlwaysEOF(t *testing.T) {
	var r emptyRows
	if cols := r.Columns(); cols != nil {
		t.Fatalf("got %v, want nil columns", cols)
	}
	if err := r.Next(nil); err == nil {
		t.Fatal("expected io.EOF")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExecResultRowsAffected(t *testing.T) {
	r := execResult{rowsAffected: 7}
	n, err := r.RowsAffected()
	if err != nil || n != 7 {
		t.Fatalf("got (%d, %v), want (7, nil)", n, err)
	}
	if _, err := r.LastInsertId(); err == nil {
		t.Fatal("expected LastInsertId to be unsupported")
	}
}
