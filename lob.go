package hdb

import (
	"io"

	p "github.com/hdbdrv/hdb/internal/protocol"
)

// Lob is a handle to a streamed LOB column value (§4.10 read path). Small
// values are already fully buffered; larger ones pull further chunks from
// the server lazily as Read is called.
type Lob struct {
	inner *p.Lob
}

// Read implements io.Reader, fetching more of the LOB from the server as
// needed.
func (l *Lob) Read(b []byte) (int, error) { return l.inner.Read(b) }

// Len returns the LOB's total length: characters for a character LOB
// (CLOB/NCLOB), bytes for a binary one (BLOB).
func (l *Lob) Len() int64 { return l.inner.Len() }

// IsChar reports whether this is a character LOB as opposed to a binary one.
func (l *Lob) IsChar() bool { return l.inner.IsChar() }

// Bytes reads the LOB to completion and returns its full contents.
func (l *Lob) Bytes() ([]byte, error) { return io.ReadAll(l) }

// LobWriter binds R as the value of a LOB bind parameter. The driver streams
// R in chunks rather than requiring the caller to buffer the whole value in
// memory first (§4.10 write path).
type LobWriter struct {
	R      io.Reader
	IsChar bool
}

// NewLobWriter binds r as a binary LOB (BLOB) parameter value.
func NewLobWriter(r io.Reader) *LobWriter { return &LobWriter{R: r} }

// NewCharLobWriter binds r as a character LOB (CLOB/NCLOB) parameter value.
func NewCharLobWriter(r io.Reader) *LobWriter { return &LobWriter{R: r, IsChar: true} }
