package hdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync"

	p "github.com/hdbdrv/hdb/internal/protocol"
)

var (
	_ driver.Conn           = (*conn)(nil)
	_ driver.ConnPrepareContext = (*conn)(nil)
	_ driver.ConnBeginTx    = (*conn)(nil)
	_ driver.Pinger         = (*conn)(nil)
)

var isolationLevelText = map[driver.IsolationLevel]string{
	driver.IsolationLevel(sql.LevelDefault):        "READ COMMITTED",
	driver.IsolationLevel(sql.LevelReadUncommitted): "READ UNCOMMITTED",
	driver.IsolationLevel(sql.LevelReadCommitted):   "READ COMMITTED",
	driver.IsolationLevel(sql.LevelRepeatableRead):  "REPEATABLE READ",
	driver.IsolationLevel(sql.LevelSerializable):    "SERIALIZABLE",
}

// conn adapts a protocol.Session to driver.Conn. Transaction state
// (in-progress or not) is tracked here rather than in Session, since
// database/sql guarantees only one transaction is ever open on a given
// connection at a time.
type conn struct {
	mu      sync.Mutex
	session *p.Session
	inTx    bool

	// connector is set by Connector.Connect so Close can unregister this
	// conn from its Stats() registry; nil for a conn built directly with
	// newConn outside Connector.Connect.
	connector *Connector
}

func newConn(session *p.Session) *conn {
	return &conn{session: session}
}

func (c *conn) Prepare(query string) (driver.Stmt, error) {
	return c.PrepareContext(context.Background(), query)
}

func (c *conn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	st, err := c.session.Prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	return &stmt{inner: st}, nil
}

func (c *conn) Close() error {
	if c.connector != nil {
		c.connector.unregister(c)
	}
	return c.session.Close()
}

// Begin is the pre-context driver.Conn method; database/sql only calls it
// when ConnBeginTx is absent, which is never true here.
func (c *conn) Begin() (driver.Tx, error) {
	return nil, errDeprecatedStmtMethod
}

func (c *conn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inTx {
		return nil, errNestedTransaction
	}
	level, ok := isolationLevelText[driver.IsolationLevel(opts.Isolation)]
	if !ok {
		return nil, fmt.Errorf("hdb: unsupported isolation level %d", opts.Isolation)
	}
	if err := c.execDirectLocked(ctx, "set transaction isolation level "+level); err != nil {
		return nil, err
	}
	mode := "read write"
	if opts.ReadOnly {
		mode = "read only"
	}
	if err := c.execDirectLocked(ctx, "set transaction "+mode); err != nil {
		return nil, err
	}
	c.session.SetAutoCommit(false)
	c.inTx = true
	return &tx{conn: c}, nil
}

// execDirectLocked runs a parameterless statement; c.mu must already be
// held. Used for the SET TRANSACTION statements BeginTx issues, which have
// no result set and no bind parameters.
func (c *conn) execDirectLocked(ctx context.Context, query string) error {
	st, err := c.session.Prepare(ctx, query)
	if err != nil {
		return err
	}
	defer st.Close(ctx)
	_, err = st.Execute(ctx, nil)
	return err
}

func (c *conn) Ping(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.execDirectLocked(ctx, "select 1 from dummy")
}

// tx adapts conn's tracked transaction state to driver.Tx.
type tx struct {
	conn *conn
}

func (t *tx) Commit() error {
	t.conn.mu.Lock()
	defer t.conn.mu.Unlock()
	t.conn.inTx = false
	t.conn.session.SetAutoCommit(true)
	return t.conn.session.Commit(context.Background())
}

func (t *tx) Rollback() error {
	t.conn.mu.Lock()
	defer t.conn.mu.Unlock()
	t.conn.inTx = false
	t.conn.session.SetAutoCommit(true)
	return t.conn.session.Rollback(context.Background())
}
