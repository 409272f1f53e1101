package protocol

import (
	"bytes"
	"io"
	"testing"
)

func TestCountingWriterTalliesBytes(t *testing.T) {
	var n uint64
	var buf bytes.Buffer
	w := countingWriter{w: &buf, n: &n}

	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := w.Write([]byte(" world")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != uint64(len("hello world")) {
		t.Fatalf("tallied %d bytes, want %d", n, len("hello world"))
	}
	if buf.String() != "hello world" {
		t.Fatalf("underlying writer got %q", buf.String())
	}
}

func TestCountingReaderTalliesBytes(t *testing.T) {
	var n uint64
	r := countingReader{r: bytes.NewReader([]byte("abcdef")), n: &n}

	buf := make([]byte, 3)
	if _, err := io.ReadFull(&r, buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 3 {
		t.Fatalf("tallied %d bytes after first read, want 3", n)
	}
	if _, err := io.ReadFull(&r, buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 6 {
		t.Fatalf("tallied %d bytes after second read, want 6", n)
	}
}

func TestSessionAutoCommitDefaultsAndToggles(t *testing.T) {
	s := &Session{autoCommit: true}
	if !s.AutoCommit() {
		t.Fatal("AutoCommit() = false, want true")
	}
	s.SetAutoCommit(false)
	if s.AutoCommit() {
		t.Fatal("AutoCommit() = true after SetAutoCommit(false)")
	}
	s.SetAutoCommit(true)
	if !s.AutoCommit() {
		t.Fatal("AutoCommit() = false after SetAutoCommit(true)")
	}
}

func TestSessionStatisticsSnapshot(t *testing.T) {
	want := Statistics{Requests: 3, BytesSent: 120, BytesReceived: 4096}
	s := &Session{stats: want}
	if got := s.Statistics(); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSessionWarningsIsDrainedOnRead(t *testing.T) {
	w1 := &ServerError{Code: 1, Severity: SeverityWarning, Text: "first"}
	w2 := &ServerError{Code: 2, Severity: SeverityWarning, Text: "second"}
	s := &Session{warnings: []*ServerError{w1, w2}}

	got := s.Warnings()
	if len(got) != 2 || got[0] != w1 || got[1] != w2 {
		t.Fatalf("got %v, want [w1 w2]", got)
	}

	// a second call must come back empty: Warnings drains, not peeks.
	if got := s.Warnings(); len(got) != 0 {
		t.Fatalf("second Warnings() call returned %v, want empty", got)
	}
}

func TestServerErrorIsWarning(t *testing.T) {
	warn := &ServerError{Severity: SeverityWarning}
	if !warn.IsWarning() {
		t.Fatal("IsWarning() = false for SeverityWarning")
	}
	err := &ServerError{Severity: SeverityError}
	if err.IsWarning() {
		t.Fatal("IsWarning() = true for SeverityError")
	}
}

func TestServerErrorMessageIncludesStatementNumber(t *testing.T) {
	e := &ServerError{Code: 257, Severity: SeverityError, Text: "sql syntax error", StmtNo: 2}
	msg := e.Error()
	if !bytes.Contains([]byte(msg), []byte("statement 2")) {
		t.Fatalf("Error() = %q, want it to mention the statement number", msg)
	}
}

func TestServerErrorMessageOmitsStatementNumberWhenZero(t *testing.T) {
	e := &ServerError{Code: 257, Severity: SeverityError, Text: "sql syntax error"}
	msg := e.Error()
	if bytes.Contains([]byte(msg), []byte("statement")) {
		t.Fatalf("Error() = %q, should not mention a statement number", msg)
	}
}
