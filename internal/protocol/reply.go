package protocol

import (
	"bytes"
	"fmt"

	"github.com/hdbdrv/hdb/internal/protocol/codec"
)

// Reply collects every part of one server reply segment, indexed by kind so
// Session.send callers can pull out only what they asked for (§4.7: a
// single reply may carry StatementContext, TransactionFlags and the actual
// result data together).
type Reply struct {
	Header             *segmentHeader
	Authentication     *authPart
	Errors             *ServerErrors
	RowsAffected       RowsAffected
	ResultSetMetadata  *ResultSetMetadata
	ResultSet          *ResultSet
	ResultSetAttributes PartAttributes
	ParameterMetadata  *ParameterMetadata
	OutputParameters   *OutputParameters
	StatementID        StatementID
	ResultSetID        ResultSetID
	ConnectOptions     ConnectOptions
	StatementContext   StatementContext
	TransactionFlags   TransactionFlags
	TopologyInfo       TopologyInformation
	SessionContext     SessionContext
	DBConnectInfo      DBConnectInfo
	WriteLobReply      *WriteLobReply
	ReadLobReply       *ReadLobReply
	XatOptions         XatOptions
}

// HasError reports whether the reply carried an Error part of at least
// SeverityError (warnings alone do not count, §7).
func (r *Reply) HasError() bool {
	return r.Errors != nil && !r.Errors.HasOnlyWarnings()
}

// decodeReply walks a reply segment's raw part stream (as returned by
// readMessage) and routes each part to the matching typed field on Reply,
// carrying forward the ResultSetMetadata/ParameterMetadata a ResultSet or
// OutputParameters part later in the same stream needs to decode itself
// (§4.3: metadata always precedes the data part it describes).
// carryMeta supplies a ResultSetMetadata known from an earlier reply (the
// original PREPARE/Execute that opened the cursor) for replies — such as a
// FetchNext response — that reference an existing cursor without resending
// its column catalog. It is nil for ordinary requests.
func decodeReply(sh *segmentHeader, body []byte, fetcher LobFetcher, carryMeta *ResultSetMetadata) (*Reply, error) {
	reply := &Reply{Header: sh, ResultSetMetadata: carryMeta}
	dec := codec.NewDecoder(bytes.NewReader(body))

	for i := 0; i < int(sh.numParts); i++ {
		ph := &PartHeader{}
		ph.decode(dec)
		if dec.Error() != nil {
			return nil, dec.Error()
		}

		switch ph.Kind {
		case PkAuthentication:
			ap := &authPart{}
			if err := ap.decode(dec, ph); err != nil {
				return nil, err
			}
			reply.Authentication = ap
		case PkError:
			se := &ServerErrors{}
			if err := se.decode(dec, ph); err != nil {
				return nil, err
			}
			reply.Errors = se
		case PkRowsAffected:
			ra := &RowsAffected{}
			if err := ra.decode(dec, ph); err != nil {
				return nil, err
			}
			reply.RowsAffected = *ra
		case PkResultSetMetadata:
			rm := &ResultSetMetadata{}
			if err := rm.decode(dec, ph); err != nil {
				return nil, err
			}
			reply.ResultSetMetadata = rm
		case PkResultSet:
			rs := &ResultSet{Metadata: reply.ResultSetMetadata, fetcher: fetcher}
			if err := rs.decode(dec, ph); err != nil {
				return nil, err
			}
			reply.ResultSet = rs
			reply.ResultSetAttributes = ph.Attributes
		case PkParameterMetadata:
			pm := &ParameterMetadata{}
			if err := pm.decode(dec, ph); err != nil {
				return nil, err
			}
			reply.ParameterMetadata = pm
		case PkOutputParameters:
			op := &OutputParameters{Metadata: reply.ParameterMetadata, fetcher: fetcher}
			if err := op.decode(dec, ph); err != nil {
				return nil, err
			}
			reply.OutputParameters = op
		case PkStatementID:
			if err := reply.StatementID.decode(dec, ph); err != nil {
				return nil, err
			}
		case PkResultSetID:
			if err := reply.ResultSetID.decode(dec, ph); err != nil {
				return nil, err
			}
		case PkConnectOptions:
			if err := reply.ConnectOptions.decode(dec, ph); err != nil {
				return nil, err
			}
		case PkStatementContext:
			if err := reply.StatementContext.decode(dec, ph); err != nil {
				return nil, err
			}
		case PkTransactionFlags:
			if err := reply.TransactionFlags.decode(dec, ph); err != nil {
				return nil, err
			}
		case PkTopologyInformation:
			if err := reply.TopologyInfo.decode(dec, ph); err != nil {
				return nil, err
			}
		case PkSessionContext:
			if err := reply.SessionContext.decode(dec, ph); err != nil {
				return nil, err
			}
		case PkDBConnectInfo:
			if err := reply.DBConnectInfo.decode(dec, ph); err != nil {
				return nil, err
			}
		case PkWriteLobReply:
			wl := &WriteLobReply{}
			if err := wl.decode(dec, ph); err != nil {
				return nil, err
			}
			reply.WriteLobReply = wl
		case PkReadLobReply:
			rl := &ReadLobReply{}
			if err := rl.decode(dec, ph); err != nil {
				return nil, err
			}
			reply.ReadLobReply = rl
		case PkXatOptions:
			if err := reply.XatOptions.decode(dec, ph); err != nil {
				return nil, err
			}
		default:
			dec.Skip(int(ph.BufferLength))
		}
		dec.Skip(padBytes(int(ph.BufferLength)))
	}
	if dec.Error() != nil {
		return nil, fmt.Errorf("protocol: decodeReply: %w", dec.Error())
	}
	return reply, nil
}
