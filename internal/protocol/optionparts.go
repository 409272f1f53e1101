package protocol

import "github.com/hdbdrv/hdb/internal/protocol/codec"

// ConnectOptions negotiates client/server capabilities during connect
// (§4.7), e.g. locale, distribution mode, data format version.
type ConnectOptions Options[ConnectOption]

func (o ConnectOptions) kind() PartKind      { return PkConnectOptions }
func (o ConnectOptions) numArg() int         { return Options[ConnectOption](o).numArg() }
func (o ConnectOptions) size() int           { return Options[ConnectOption](o).size() }
func (o ConnectOptions) encode(enc *codec.Encoder) error {
	return Options[ConnectOption](o).encode(enc)
}
func (o *ConnectOptions) decode(dec *codec.Decoder, h *PartHeader) error {
	return (*Options[ConnectOption])(o).decode(dec, h)
}

// CommitOptions carries the commit-behavior request sent alongside a COMMIT
// segment (§6 transaction control).
type CommitOptions Options[CommitOption]

// CommitOption is the key space for CommitOptions; HANA defines a single
// holdCursorsOverCommit flag observed in the pack, reconstructed here as a
// small enum to leave room for future keys.
type CommitOption int8

const (
	CmoHoldCursorsOverCommit CommitOption = 1
)

func (o CommitOptions) kind() PartKind      { return PkCommitOptions }
func (o CommitOptions) numArg() int         { return Options[CommitOption](o).numArg() }
func (o CommitOptions) size() int           { return Options[CommitOption](o).size() }
func (o CommitOptions) encode(enc *codec.Encoder) error {
	return Options[CommitOption](o).encode(enc)
}
func (o *CommitOptions) decode(dec *codec.Decoder, h *PartHeader) error {
	return (*Options[CommitOption])(o).decode(dec, h)
}

// FetchOption is the key space for FetchOptions.
type FetchOption int8

const (
	FoResultsetHoldability FetchOption = 1
)

// FetchOptions accompanies a FETCH NEXT request (§4.8).
type FetchOptions Options[FetchOption]

func (o FetchOptions) kind() PartKind      { return PkFetchOptions }
func (o FetchOptions) numArg() int         { return Options[FetchOption](o).numArg() }
func (o FetchOptions) size() int           { return Options[FetchOption](o).size() }
func (o FetchOptions) encode(enc *codec.Encoder) error {
	return Options[FetchOption](o).encode(enc)
}
func (o *FetchOptions) decode(dec *codec.Decoder, h *PartHeader) error {
	return (*Options[FetchOption])(o).decode(dec, h)
}

// ClientContext identifies the driver to the server on the first request of
// a connection (§4.7 connect handshake).
type ClientContext Options[ClientContextOption]

func (o ClientContext) kind() PartKind      { return PkClientContext }
func (o ClientContext) numArg() int         { return Options[ClientContextOption](o).numArg() }
func (o ClientContext) size() int           { return Options[ClientContextOption](o).size() }
func (o ClientContext) encode(enc *codec.Encoder) error {
	return Options[ClientContextOption](o).encode(enc)
}
func (o *ClientContext) decode(dec *codec.Decoder, h *PartHeader) error {
	return (*Options[ClientContextOption])(o).decode(dec, h)
}

// NewClientContext builds the standard client-identification bag sent once
// per connection.
func NewClientContext(version, clientType, applicationProgram string) ClientContext {
	return ClientContext{
		CcoClientVersion:            version,
		CcoClientType:               clientType,
		CcoClientApplicationProgram: applicationProgram,
	}
}

// ClientInfo carries application-supplied metadata (app name, app user) that
// the server surfaces in monitoring views; distinct from ClientContext,
// which identifies the driver itself.
type ClientInfo Options[ClientInfoOption]

func (o ClientInfo) kind() PartKind      { return PkClientInfo }
func (o ClientInfo) numArg() int         { return Options[ClientInfoOption](o).numArg() }
func (o ClientInfo) size() int           { return Options[ClientInfoOption](o).size() }
func (o ClientInfo) encode(enc *codec.Encoder) error {
	return Options[ClientInfoOption](o).encode(enc)
}
func (o *ClientInfo) decode(dec *codec.Decoder, h *PartHeader) error {
	return (*Options[ClientInfoOption])(o).decode(dec, h)
}

// StatementContext returns server-side execution bookkeeping (sequence info,
// execution time) alongside a statement reply.
type StatementContext Options[StatementContextOption]

func (o StatementContext) kind() PartKind { return PkStatementContext }
func (o StatementContext) numArg() int {
	return Options[StatementContextOption](o).numArg()
}
func (o StatementContext) size() int { return Options[StatementContextOption](o).size() }
func (o StatementContext) encode(enc *codec.Encoder) error {
	return Options[StatementContextOption](o).encode(enc)
}
func (o *StatementContext) decode(dec *codec.Decoder, h *PartHeader) error {
	return (*Options[StatementContextOption])(o).decode(dec, h)
}

// SequenceInfo returns the opaque statement-sequence token, when the server
// supplied one.
func (o StatementContext) SequenceInfo() ([]byte, bool) {
	v, ok := o[ScoStatementSequenceInfo]
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

// TransactionFlags reports transaction-state transitions (§6 transaction
// control): commit/rollback confirmation, isolation-level changes, whether a
// write transaction was (or was not) started by the last statement.
type TransactionFlags Options[TransactionFlagOption]

func (o TransactionFlags) kind() PartKind { return PkTransactionFlags }
func (o TransactionFlags) numArg() int {
	return Options[TransactionFlagOption](o).numArg()
}
func (o TransactionFlags) size() int { return Options[TransactionFlagOption](o).size() }
func (o TransactionFlags) encode(enc *codec.Encoder) error {
	return Options[TransactionFlagOption](o).encode(enc)
}
func (o *TransactionFlags) decode(dec *codec.Decoder, h *PartHeader) error {
	return (*Options[TransactionFlagOption])(o).decode(dec, h)
}

func (o TransactionFlags) flag(k TransactionFlagOption) bool {
	v, ok := o[k]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Committed reports whether the server confirmed a commit in this reply.
func (o TransactionFlags) Committed() bool { return o.flag(TfoCommitted) }

// RolledBack reports whether the server confirmed a rollback in this reply.
func (o TransactionFlags) RolledBack() bool { return o.flag(TfoRolledBack) }

// WriteTransactionStarted reports whether the last statement opened a write
// transaction (relevant for the auto-commit bookkeeping in session.go).
func (o TransactionFlags) WriteTransactionStarted() bool {
	return o.flag(TfoWriteTransactionStarted)
}

// SessionContext carries session-affinity information used by client-side
// statement routing in distributed (client distribution mode) setups.
type SessionContext Options[SessionContextOption]

func (o SessionContext) kind() PartKind      { return PkSessionContext }
func (o SessionContext) numArg() int         { return Options[SessionContextOption](o).numArg() }
func (o SessionContext) size() int           { return Options[SessionContextOption](o).size() }
func (o SessionContext) encode(enc *codec.Encoder) error {
	return Options[SessionContextOption](o).encode(enc)
}
func (o *SessionContext) decode(dec *codec.Decoder, h *PartHeader) error {
	return (*Options[SessionContextOption])(o).decode(dec, h)
}

// LobFlags negotiates LOB streaming behavior (§4.10), e.g. whether the
// server may stream LOB data implicitly without an explicit ReadLobRequest.
type LobFlags Options[LobFlagOption]

func (o LobFlags) kind() PartKind      { return PkLobFlags }
func (o LobFlags) numArg() int         { return Options[LobFlagOption](o).numArg() }
func (o LobFlags) size() int           { return Options[LobFlagOption](o).size() }
func (o LobFlags) encode(enc *codec.Encoder) error {
	return Options[LobFlagOption](o).encode(enc)
}
func (o *LobFlags) decode(dec *codec.Decoder, h *PartHeader) error {
	return (*Options[LobFlagOption])(o).decode(dec, h)
}

// XatOptions carries XA transaction-branch identification (§6 XA verbs):
// flags, return code, and the packed XID used by start/end/prepare/commit/
// rollback/recover.
type XatOptions Options[XatOption]

func (o XatOptions) kind() PartKind      { return PkXatOptions }
func (o XatOptions) numArg() int         { return Options[XatOption](o).numArg() }
func (o XatOptions) size() int           { return Options[XatOption](o).size() }
func (o XatOptions) encode(enc *codec.Encoder) error {
	return Options[XatOption](o).encode(enc)
}
func (o *XatOptions) decode(dec *codec.Decoder, h *PartHeader) error {
	return (*Options[XatOption])(o).decode(dec, h)
}

// DBConnectInfo answers a tenant-database lookup (§4.5 redirect): whether the
// requested database is already the one this connection landed on, and if
// not, the host/port to redirect to.
type DBConnectInfo Options[DBConnectInfoOption]

func (o DBConnectInfo) kind() PartKind      { return PkDBConnectInfo }
func (o DBConnectInfo) numArg() int         { return Options[DBConnectInfoOption](o).numArg() }
func (o DBConnectInfo) size() int           { return Options[DBConnectInfoOption](o).size() }
func (o DBConnectInfo) encode(enc *codec.Encoder) error {
	return Options[DBConnectInfoOption](o).encode(enc)
}
func (o *DBConnectInfo) decode(dec *codec.Decoder, h *PartHeader) error {
	return (*Options[DBConnectInfoOption])(o).decode(dec, h)
}

// IsConnected reports whether the server reports this connection as already
// attached to the requested tenant database (no redirect needed).
func (o DBConnectInfo) IsConnected() bool {
	v, ok := o[DciIsConnected]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Host and Port return the redirect target, when IsConnected is false.
func (o DBConnectInfo) Host() (string, bool) {
	v, ok := o[DciHost]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (o DBConnectInfo) Port() (int32, bool) {
	v, ok := o[DciPort]
	if !ok {
		return 0, false
	}
	p, ok := v.(int32)
	return p, ok
}
