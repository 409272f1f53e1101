package protocol

import "testing"

func TestResultSetCursorDrainsBufferedRowsBeforeFetching(t *testing.T) {
	rs := &ResultSet{Rows: [][]any{{int32(1)}, {int32(2)}}}
	attrs := PaLastPacket
	c := newResultSetCursor(&Session{}, 1, nil, rs, attrs)

	row, ok, err := c.NextRow(nil)
	if err != nil || !ok {
		t.Fatalf("NextRow: got (%v, %v, %v), want a buffered row", row, ok, err)
	}
	if row[0].(int32) != 1 {
		t.Fatalf("got %v, want row [1]", row)
	}

	row, ok, err = c.NextRow(nil)
	if err != nil || !ok || row[0].(int32) != 2 {
		t.Fatalf("got (%v, %v, %v), want row [2]", row, ok, err)
	}

	// exhausted (PaLastPacket was set): no further FetchNext is attempted,
	// and the transport-less Session would panic if one were.
	row, ok, err = c.NextRow(nil)
	if err != nil || ok {
		t.Fatalf("got (%v, %v, %v), want (nil, false, nil)", row, ok, err)
	}
}

func TestResultSetCursorCloseIsIdempotentWhenExhausted(t *testing.T) {
	rs := &ResultSet{Rows: [][]any{{int32(1)}}}
	attrs := PaLastPacket
	c := newResultSetCursor(&Session{}, 1, nil, rs, attrs)

	// A transport-less Session would panic on an actual CloseResultSet round trip;
	// Close must recognize the cursor is already server-exhausted and skip it.
	if err := c.Close(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Close(nil); err != nil {
		t.Fatalf("unexpected error on second Close: %v", err)
	}
}

func TestResultSetCursorCloseIsIdempotentWhenAlreadyClosed(t *testing.T) {
	rs := &ResultSet{Rows: nil}
	attrs := PaResultSetClosed
	c := newResultSetCursor(&Session{}, 1, nil, rs, attrs)
	if !c.closed {
		t.Fatal("expected newResultSetCursor to honor PaResultSetClosed")
	}
	if err := c.Close(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResultSetCursorMetadata(t *testing.T) {
	meta := &ResultSetMetadata{Fields: []ResultField{{Name: "COL1"}}}
	c := newResultSetCursor(&Session{}, 1, meta, nil, PaLastPacket)
	if c.Metadata() != meta {
		t.Fatal("expected Metadata() to return the metadata passed to newResultSetCursor")
	}
}

func TestResultSetCursorFetchAllDrainsAndCloses(t *testing.T) {
	rs := &ResultSet{Rows: [][]any{{int32(1)}, {int32(2)}, {int32(3)}}}
	c := newResultSetCursor(&Session{}, 1, nil, rs, PaLastPacket)
	rows, err := c.FetchAll(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if !c.closed {
		t.Fatal("expected FetchAll to close the cursor")
	}
}
