package protocol

import (
	"context"
	"io"

	"github.com/hdbdrv/hdb/internal/protocol/codec"
)

// defaultLobChunkSize bounds how many bytes of a *LobWriter's stream are
// read per WriteLob round trip (§4.10 write path).
const defaultLobChunkSize = 64 * 1024

// Statement is a prepared statement handle (§4.9): PREPARE returns a
// StatementID plus the parameter/result-set metadata needed to bind
// arguments and decode rows on every subsequent EXECUTE against it.
type Statement struct {
	sess *Session
	id   StatementID
	sql  string

	params *ParameterMetadata
	result *ResultSetMetadata

	lobChunkSize int32
}

// SQL returns the prepared statement's source text.
func (st *Statement) SQL() string { return st.sql }

// ParameterCount reports how many bind parameters the statement declares.
func (st *Statement) ParameterCount() int {
	if st.params == nil {
		return 0
	}
	return len(st.params.Fields)
}

// Prepare sends a PREPARE request for sql and returns the resulting
// Statement (§4.9).
func (s *Session) Prepare(ctx context.Context, sql string) (*Statement, error) {
	reply, err := s.send(MtPrepare, false, Command(sql))
	if err != nil {
		return nil, err
	}
	return &Statement{
		sess:         s,
		id:           reply.StatementID,
		sql:          sql,
		params:       reply.ParameterMetadata,
		result:       reply.ResultSetMetadata,
		lobChunkSize: defaultLobChunkSize,
	}, nil
}

// ExecuteResult is the outcome of a single (non-batch) Execute (§6): a
// result set for SELECT-shaped statements, a rows-affected count and any
// OUT/INOUT bindings for everything else.
type ExecuteResult struct {
	RowsAffected     int64
	ResultSet        *ResultSetCursor
	OutputParameters []any
}

// lobArg pairs the index of a *LobWriter-bound parameter with its writer,
// so Execute can stream continuation chunks after the initial bind.
type lobArg struct {
	index  int
	writer *LobWriter
}

// execParameters is the outgoing PkParameters payload for Execute/
// ExecuteBatch. Unlike the plain Parameters part, it special-cases
// LOB-typed arguments bound to a *LobWriter: the first chunk of each is
// read eagerly (before size() is asked for, so BufferLength stays exact)
// and inlined as a LOB descriptor; Execute streams the rest afterward via
// WriteLobChunks (§4.10 write path, §8 property: locator-ordered
// continuation).
type execParameters struct {
	fields    []ParameterField
	args      []any
	lobChunks map[int]lobChunk
	lobArgs   []lobArg // in encounter order, for matching against WriteLobReply locator ids
}

func newExecParameters(fields []ParameterField, args []any, chunkSize int32) (*execParameters, error) {
	ep := &execParameters{fields: fields, args: append([]any(nil), args...), lobChunks: map[int]lobChunk{}}
	if chunkSize <= 0 {
		chunkSize = defaultLobChunkSize
	}
	for i, v := range ep.args {
		lw, ok := v.(*LobWriter)
		if !ok {
			continue
		}
		buf := make([]byte, chunkSize)
		n, rerr := io.ReadFull(lw.R, buf)
		isLast := rerr == io.EOF || rerr == io.ErrUnexpectedEOF
		if rerr != nil && !isLast {
			return nil, newTransportError("read lob param", rerr)
		}
		ep.lobChunks[i] = lobChunk{Data: buf[:n], IsLast: isLast}
		ep.lobArgs = append(ep.lobArgs, lobArg{index: i, writer: lw})
		ep.args[i] = nil // handled via lobChunks, skip the generic scalar path
	}
	return ep, nil
}

func (p *execParameters) kind() PartKind { return PkParameters }

func (p *execParameters) numArg() int {
	if len(p.fields) == 0 {
		return 0
	}
	return len(p.args) / len(p.fields)
}

const lobParamDescriptorSize = 1 + 8 + 4 // opt + locator placeholder + chunklen

func (p *execParameters) size() int {
	size := 0
	for i := range p.args {
		f := p.fields[i%len(p.fields)]
		size++ // type-code byte
		if chunk, ok := p.lobChunks[i]; ok {
			size += lobParamDescriptorSize + len(chunk.Data)
			continue
		}
		if p.args[i] != nil {
			size += valueSize(f.Type, p.args[i])
		}
	}
	return size
}

func (p *execParameters) encode(enc *codec.Encoder) error {
	cnt := len(p.fields)
	for i := range p.args {
		f := p.fields[i%cnt]
		if chunk, ok := p.lobChunks[i]; ok {
			enc.Byte(byte(f.Type))
			opt := byte(loDataIncluded)
			if chunk.IsLast {
				opt |= loLastData
			}
			enc.Byte(opt)
			enc.Uint64(0) // locator id: 0 requests a new one
			enc.Int32(int32(len(chunk.Data)))
			enc.Bytes(chunk.Data)
			continue
		}
		v := p.args[i]
		if v == nil {
			enc.Byte(byte(f.Type.Null()))
			continue
		}
		enc.Byte(byte(f.Type))
		if err := EncodeValue(enc, f.Type, v); err != nil {
			return err
		}
	}
	return enc.Error()
}

func (p *execParameters) decode(dec *codec.Decoder, h *PartHeader) error {
	return newUsageError("execParameters is a request-only part and cannot be decoded")
}

// Execute binds args and runs the statement once (§6 execute). Args must
// align 1:1 with the statement's declared parameters; a *LobWriter value
// streams its reader as the bound LOB parameter.
func (st *Statement) Execute(ctx context.Context, args []any) (*ExecuteResult, error) {
	if st.params != nil && len(args) != len(st.params.Fields) {
		return nil, newUsageError("Execute: got %d arguments, statement declares %d parameters", len(args), len(st.params.Fields))
	}

	var fields []ParameterField
	if st.params != nil {
		fields = st.params.Fields
	}
	ep, err := newExecParameters(fields, args, st.lobChunkSize)
	if err != nil {
		return nil, err
	}

	reply, err := st.sess.send(MtExecute, st.sess.AutoCommit(), st.id, ep)
	if err != nil {
		return nil, err
	}

	if err := st.streamLobContinuations(ep, reply); err != nil {
		return nil, err
	}

	result := &ExecuteResult{}
	if len(reply.RowsAffected) > 0 {
		result.RowsAffected = int64(reply.RowsAffected[0])
	}
	if reply.ResultSet != nil {
		result.ResultSet = newResultSetCursor(st.sess, reply.ResultSetID, reply.ResultSetMetadata, reply.ResultSet, reply.ResultSetAttributes)
	}
	if reply.OutputParameters != nil {
		result.OutputParameters = reply.OutputParameters.Values
	}
	return result, nil
}

// streamLobContinuations drives the remainder of every *LobWriter bound in
// ep, in the order the server reported their locator ids (§8 property:
// locator-ordered WriteLob continuation — each locator's chunks must be
// sent in order, but distinct locators' streams may interleave freely).
func (st *Statement) streamLobContinuations(ep *execParameters, reply *Reply) error {
	if len(ep.lobArgs) == 0 {
		return nil
	}
	var locatorIDs []uint64
	if reply.WriteLobReply != nil {
		locatorIDs = reply.WriteLobReply.IDs
	}
	next := 0
	for _, la := range ep.lobArgs {
		if ep.lobChunks[la.index].IsLast {
			continue // finished inline, no locator assigned
		}
		if next >= len(locatorIDs) {
			return newProtocolError("WriteLob reply missing locator id for parameter %d", la.index)
		}
		locatorID := locatorIDs[next]
		next++
		buf := make([]byte, st.chunkSize())
		for {
			n, rerr := io.ReadFull(la.writer.R, buf)
			isLast := rerr == io.EOF || rerr == io.ErrUnexpectedEOF
			if rerr != nil && !isLast {
				return newTransportError("read lob param continuation", rerr)
			}
			if _, err := st.sess.WriteLobChunks([]lobChunk{{LocatorID: locatorID, Data: buf[:n], IsLast: isLast}}); err != nil {
				return err
			}
			if isLast {
				break
			}
		}
	}
	return nil
}

func (st *Statement) chunkSize() int32 {
	if st.lobChunkSize > 0 {
		return st.lobChunkSize
	}
	return defaultLobChunkSize
}

// ExecuteBatch runs the statement once per row in rows, each a flat
// argument list aligned with the statement's parameters (§4.9 batch
// accumulation, §8 property: batch partial failure). A failure on some
// rows surfaces as a *BatchError rather than aborting the whole call: the
// rows that did succeed are still reported.
func (st *Statement) ExecuteBatch(ctx context.Context, rows [][]any) (*BatchError, error) {
	if len(rows) == 0 {
		return &BatchError{}, nil
	}
	var fields []ParameterField
	if st.params != nil {
		fields = st.params.Fields
	}
	flat := make([]any, 0, len(rows)*len(fields))
	for _, row := range rows {
		if len(row) != len(fields) {
			return nil, newUsageError("ExecuteBatch: row has %d values, statement declares %d parameters", len(row), len(fields))
		}
		flat = append(flat, row...)
	}
	ep, err := newExecParameters(fields, flat, st.lobChunkSize)
	if err != nil {
		return nil, err
	}

	reply, err := st.sess.send(MtExecute, st.sess.AutoCommit(), st.id, ep)
	var serverErrs *ServerErrors
	if err != nil {
		se, ok := err.(*ServerErrors)
		if !ok {
			return nil, err
		}
		serverErrs = se
	} else {
		serverErrs = reply.Errors
	}

	var errs []*ServerError
	if serverErrs != nil {
		errs = serverErrs.Errs
	}
	return MergeBatchOutcome(reply.RowsAffected.AsInt64(), errs), nil
}

// Close drops the statement server-side (§4.9 DropStatementId / §6
// close_statement). Safe to call more than once.
func (st *Statement) Close(ctx context.Context) error {
	if st.id == 0 {
		return nil
	}
	id := st.id
	st.id = 0
	_, err := st.sess.send(MtDropStatementID, false, id)
	return err
}
