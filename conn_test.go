package hdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
)

func TestIsolationLevelTextCoversStandardLevels(t *testing.T) {
	levels := []sql.IsolationLevel{
		sql.LevelDefault, sql.LevelReadUncommitted, sql.LevelReadCommitted,
		sql.LevelRepeatableRead, sql.LevelSerializable,
	}
	for _, l := range levels {
		if _, ok := isolationLevelText[driver.IsolationLevel(l)]; !ok {
			t.Errorf("isolationLevelText missing entry for %v", l)
		}
	}
}

func TestBeginTxRejectsNestedTransaction(t *testing.T) {
	c := &conn{inTx: true}
	if _, err := c.BeginTx(context.Background(), driver.TxOptions{}); err != errNestedTransaction {
		t.Fatalf("got %v, want errNestedTransaction", err)
	}
}

func TestBeginTxRejectsUnsupportedIsolationLevel(t *testing.T) {
	c := &conn{}
	opts := driver.TxOptions{Isolation: driver.IsolationLevel(999)}
	if _, err := c.BeginTx(context.Background(), opts); err == nil {
		t.Fatal("expected an error for an unsupported isolation level")
	}
}

func TestConnDeprecatedBegin(t *testing.T) {
	c := &conn{}
	if _, err := c.Begin(); err == nil {
		t.Fatal("expected Begin to be rejected in favor of BeginTx")
	}
}
