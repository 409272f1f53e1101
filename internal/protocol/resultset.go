package protocol

import "context"

// defaultFetchSize is used for FetchNext when the session config's
// FetchSize is 0 or less (§4.8).
const defaultFetchSize = 128

// ResultSetCursor is the client-side iterator over an open server cursor
// (§4.8 next_row/fetch_all). The rows an Execute/PREPARE reply already
// carried are buffered and drained before any FetchNext round trip runs.
type ResultSetCursor struct {
	sess      *Session
	id        ResultSetID
	metadata  *ResultSetMetadata
	fetchSize int32

	rows   [][]any
	pos    int
	closed bool
	// exhausted records that the server has already reported LastPacket:
	// no further FetchNext is needed, and since the server drops such
	// cursors on its own, no CloseResultSet is needed either.
	exhausted bool
}

func newResultSetCursor(sess *Session, id ResultSetID, meta *ResultSetMetadata, rs *ResultSet, attrs PartAttributes) *ResultSetCursor {
	c := &ResultSetCursor{sess: sess, id: id, metadata: meta, fetchSize: sess.cfg.FetchSize}
	if rs != nil {
		c.rows = rs.Rows
	}
	c.exhausted = attrs.LastPacket()
	c.closed = attrs.ResultSetClosed()
	return c
}

// Metadata returns the column catalog for this cursor's rows.
func (c *ResultSetCursor) Metadata() *ResultSetMetadata { return c.metadata }

// NextRow advances the cursor, fetching another page from the server once
// the buffered rows run out (§4.8 next_row). ok is false once every row has
// been consumed; callers should still Close the cursor afterward.
func (c *ResultSetCursor) NextRow(ctx context.Context) (row []any, ok bool, err error) {
	if c.pos < len(c.rows) {
		row = c.rows[c.pos]
		c.pos++
		return row, true, nil
	}
	if c.exhausted {
		return nil, false, nil
	}
	if err := c.fetchNext(ctx); err != nil {
		return nil, false, err
	}
	if c.pos >= len(c.rows) {
		return nil, false, nil
	}
	row = c.rows[c.pos]
	c.pos++
	return row, true, nil
}

// FetchAll drains every remaining row in one call (§4.8 fetch_all) and
// closes the cursor once exhausted.
func (c *ResultSetCursor) FetchAll(ctx context.Context) ([][]any, error) {
	var all [][]any
	for {
		row, ok, err := c.NextRow(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		all = append(all, row)
	}
	return all, c.Close(ctx)
}

func (c *ResultSetCursor) fetchNext(ctx context.Context) error {
	if c.closed {
		return newUsageError("FetchNext on a closed result set")
	}
	fetchSize := c.fetchSize
	if fetchSize <= 0 {
		fetchSize = defaultFetchSize
	}
	reply, err := c.sess.sendWithMetadata(MtFetchNext, false, c.metadata, c.id, FetchSize(fetchSize))
	if err != nil {
		return err
	}
	c.pos = 0
	if reply.ResultSet == nil {
		c.rows = nil
		c.exhausted = true
		return nil
	}
	c.rows = reply.ResultSet.Rows
	c.exhausted = reply.ResultSetAttributes.LastPacket()
	c.closed = reply.ResultSetAttributes.ResultSetClosed()
	return nil
}

// Close closes the server-side cursor (§6 close_cursor). It is idempotent
// (§8 property: idempotent close) — closing an already-closed or
// already-exhausted cursor never issues a second CloseResultSet request.
func (c *ResultSetCursor) Close(ctx context.Context) error {
	if c.closed || c.exhausted {
		c.closed = true
		return nil
	}
	c.closed = true
	_, err := c.sess.send(MtCloseResultSet, false, c.id)
	return err
}
