package protocol

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hdbdrv/hdb/internal/protocol/codec"
)

func intField() ParameterField  { return ParameterField{Type: TCInt, Mode: pmIn} }
func blobField() ParameterField { return ParameterField{Type: TCBlob, Mode: pmIn} }

func TestExecParametersScalarSizeMatchesEncode(t *testing.T) {
	fields := []ParameterField{intField()}
	ep, err := newExecParameters(fields, []any{int32(42)}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf)
	if err := ep.encode(enc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := buf.Len(), ep.size(); got != want {
		t.Fatalf("encoded %d bytes, size() said %d", got, want)
	}
	// type-code byte + 4-byte int32
	if buf.Len() != 5 {
		t.Fatalf("got %d bytes, want 5", buf.Len())
	}
}

func TestExecParametersNullArg(t *testing.T) {
	fields := []ParameterField{intField()}
	ep, err := newExecParameters(fields, []any{nil}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf)
	if err := ep.encode(enc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// a NULL value is just the tagged NULL type-code byte, no body.
	if buf.Len() != 1 {
		t.Fatalf("got %d bytes, want 1", buf.Len())
	}
	if TypeCode(buf.Bytes()[0]) != TCInt.Null() {
		t.Fatalf("got type code %x, want NULL INT", buf.Bytes()[0])
	}
}

func TestExecParametersLobArgReadsFirstChunkEagerly(t *testing.T) {
	fields := []ParameterField{blobField()}
	r := strings.NewReader("hello world")
	lw := &LobWriter{R: r}
	ep, err := newExecParameters(fields, []any{lw}, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	chunk, ok := ep.lobChunks[0]
	if !ok {
		t.Fatal("expected a buffered lob chunk for arg 0")
	}
	if string(chunk.Data) != "hell" {
		t.Fatalf("got %q, want first 4 bytes %q", chunk.Data, "hell")
	}
	if chunk.IsLast {
		t.Fatal("expected IsLast false: more data remains in the reader")
	}
	if len(ep.lobArgs) != 1 || ep.lobArgs[0].writer != lw {
		t.Fatalf("expected lobArgs to record the writer at index 0")
	}
	// the scalar args slot is zeroed so the generic per-field path skips it
	if ep.args[0] != nil {
		t.Fatalf("expected args[0] to be nil, got %v", ep.args[0])
	}
}

func TestExecParametersLobArgWholeValueFitsOneChunk(t *testing.T) {
	fields := []ParameterField{blobField()}
	lw := &LobWriter{R: strings.NewReader("hi")}
	ep, err := newExecParameters(fields, []any{lw}, 64*1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	chunk := ep.lobChunks[0]
	if !chunk.IsLast {
		t.Fatal("expected IsLast true: the whole value fit in one chunk")
	}
	if string(chunk.Data) != "hi" {
		t.Fatalf("got %q, want %q", chunk.Data, "hi")
	}
}

func TestExecParametersLobEncodeMatchesSize(t *testing.T) {
	fields := []ParameterField{blobField()}
	ep, err := newExecParameters(fields, []any{&LobWriter{R: strings.NewReader("hi")}}, 64*1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf)
	if err := ep.encode(enc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := buf.Len(), ep.size(); got != want {
		t.Fatalf("encoded %d bytes, size() said %d", got, want)
	}
	// type-code + opt + locator placeholder(8) + chunklen(4) + 2 data bytes
	if want := 1 + lobParamDescriptorSize + 2; buf.Len() != want {
		t.Fatalf("got %d bytes, want %d", buf.Len(), want)
	}
}

func TestExecParametersBatchNumArg(t *testing.T) {
	fields := []ParameterField{intField(), intField()}
	ep, err := newExecParameters(fields, []any{int32(1), int32(2), int32(3), int32(4)}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ep.numArg() != 2 {
		t.Fatalf("got %d, want 2 rows", ep.numArg())
	}
}

func TestExecParametersDecodeIsUnsupported(t *testing.T) {
	ep := &execParameters{}
	if err := ep.decode(nil, nil); err == nil {
		t.Fatal("expected an error: execParameters is request-only")
	}
}

func TestStatementSQLAndParameterCount(t *testing.T) {
	st := &Statement{sql: "select 1 from dummy", params: &ParameterMetadata{Fields: []ParameterField{intField(), intField()}}}
	if st.SQL() != "select 1 from dummy" {
		t.Fatalf("got %q", st.SQL())
	}
	if st.ParameterCount() != 2 {
		t.Fatalf("got %d, want 2", st.ParameterCount())
	}
}

func TestStatementParameterCountNoParams(t *testing.T) {
	st := &Statement{params: nil}
	if st.ParameterCount() != 0 {
		t.Fatalf("got %d, want 0", st.ParameterCount())
	}
}

func TestStatementCloseIsIdempotent(t *testing.T) {
	st := &Statement{id: 0}
	if err := st.Close(nil); err != nil {
		t.Fatalf("unexpected error closing a statement with no server-side id: %v", err)
	}
}

func TestStatementExecuteRejectsWrongArgCount(t *testing.T) {
	st := &Statement{params: &ParameterMetadata{Fields: []ParameterField{intField()}}}
	_, err := st.Execute(nil, []any{int32(1), int32(2)})
	if err == nil {
		t.Fatal("expected an error: argument count does not match declared parameters")
	}
	if _, ok := err.(*UsageError); !ok {
		t.Fatalf("got %T, want *UsageError", err)
	}
}

func TestExecuteBatchEmptyRows(t *testing.T) {
	st := &Statement{params: &ParameterMetadata{Fields: []ParameterField{intField()}}}
	be, err := st.ExecuteBatch(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if be == nil {
		t.Fatal("expected a non-nil, empty *BatchError")
	}
}

func TestExecuteBatchRejectsMismatchedRowShape(t *testing.T) {
	st := &Statement{params: &ParameterMetadata{Fields: []ParameterField{intField(), intField()}}}
	_, err := st.ExecuteBatch(nil, [][]any{{int32(1)}})
	if err == nil {
		t.Fatal("expected an error: row has fewer values than declared parameters")
	}
}
