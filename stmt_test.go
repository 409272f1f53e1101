package hdb

import (
	"bytes"
	"database/sql/driver"
	"testing"

	p "github.com/hdbdrv/hdb/internal/protocol"
)

func TestBindArgsPassesScalarsThrough(t *testing.T) {
	args := []driver.NamedValue{{Ordinal: 1, Value: int64(5)}, {Ordinal: 2, Value: "s"}}
	got := bindArgs(args)
	if got[0] != int64(5) || got[1] != "s" {
		t.Fatalf("got %v, want [5 s]", got)
	}
}

func TestBindArgsConvertsLobWriter(t *testing.T) {
	r := bytes.NewReader([]byte("data"))
	args := []driver.NamedValue{{Ordinal: 1, Value: NewLobWriter(r)}}
	got := bindArgs(args)
	lw, ok := got[0].(*p.LobWriter)
	if !ok {
		t.Fatalf("got %T, want *protocol.LobWriter", got[0])
	}
	if lw.R != r {
		t.Fatal("expected the wrapped reader to be forwarded unchanged")
	}
	if lw.IsChar {
		t.Fatal("expected NewLobWriter to bind a binary LOB")
	}
}

func TestBindArgsConvertsCharLobWriter(t *testing.T) {
	args := []driver.NamedValue{{Ordinal: 1, Value: NewCharLobWriter(bytes.NewReader(nil))}}
	got := bindArgs(args)
	lw := got[0].(*p.LobWriter)
	if !lw.IsChar {
		t.Fatal("expected NewCharLobWriter to bind a character LOB")
	}
}

func TestStmtCheckNamedValueAcceptsLobWriter(t *testing.T) {
	s := &stmt{}
	nv := &driver.NamedValue{Value: NewLobWriter(bytes.NewReader(nil))}
	if err := s.CheckNamedValue(nv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStmtCheckNamedValueSkipsEverythingElse(t *testing.T) {
	s := &stmt{}
	nv := &driver.NamedValue{Value: int64(5)}
	if err := s.CheckNamedValue(nv); err != driver.ErrSkip {
		t.Fatalf("got %v, want driver.ErrSkip", err)
	}
}

func TestStmtDeprecatedMethods(t *testing.T) {
	s := &stmt{}
	if _, err := s.Exec(nil); err == nil {
		t.Fatal("expected Exec to be rejected in favor of ExecContext")
	}
	if _, err := s.Query(nil); err == nil {
		t.Fatal("expected Query to be rejected in favor of QueryContext")
	}
}
