package protocol

// PartKind identifies the type of a part's arguments (§4.3).
type PartKind int8

const (
	PkNil                   PartKind = 0
	PkCommand               PartKind = 3
	PkResultSet             PartKind = 5
	PkError                 PartKind = 6
	PkStatementID            PartKind = 9
	PkRowsAffected          PartKind = 11
	PkResultSetID           PartKind = 12
	PkTopologyInformation   PartKind = 13
	PkReadLobRequest        PartKind = 15
	PkReadLobReply          PartKind = 16
	PkCommandInfo           PartKind = 19
	PkWriteLobRequest       PartKind = 25
	PkClientContext         PartKind = 26
	PkWriteLobReply         PartKind = 27
	PkParameters            PartKind = 29
	PkAuthentication        PartKind = 30
	PkSessionContext        PartKind = 32
	PkClientID              PartKind = 33
	PkStatementContext      PartKind = 35
	PkOutputParameters      PartKind = 39
	PkConnectOptions        PartKind = 40
	PkCommitOptions         PartKind = 41
	PkFetchOptions          PartKind = 42
	PkFetchSize             PartKind = 43
	PkParameterMetadata     PartKind = 44
	PkResultSetMetadata     PartKind = 45
	PkClientInfo            PartKind = 52
	PkTransactionFlags      PartKind = 59
	PkDBConnectInfo         PartKind = 62
	PkLobFlags              PartKind = 63
	PkXatOptions            PartKind = 65
)

func (k PartKind) String() string {
	names := map[PartKind]string{
		PkCommand: "Command", PkResultSet: "ResultSet", PkError: "Error",
		PkStatementID: "StatementID", PkRowsAffected: "RowsAffected",
		PkResultSetID: "ResultSetID", PkTopologyInformation: "TopologyInformation",
		PkReadLobRequest: "ReadLobRequest", PkReadLobReply: "ReadLobReply",
		PkCommandInfo: "CommandInfo", PkWriteLobRequest: "WriteLobRequest",
		PkClientContext: "ClientContext", PkWriteLobReply: "WriteLobReply",
		PkParameters: "Parameters", PkAuthentication: "Authentication",
		PkSessionContext: "SessionContext", PkClientID: "ClientID",
		PkStatementContext: "StatementContext", PkOutputParameters: "OutputParameters",
		PkConnectOptions: "ConnectOptions", PkCommitOptions: "CommitOptions",
		PkFetchOptions: "FetchOptions", PkFetchSize: "FetchSize",
		PkParameterMetadata: "ParameterMetadata", PkResultSetMetadata: "ResultSetMetadata",
		PkClientInfo: "ClientInfo", PkTransactionFlags: "TransactionFlags",
		PkDBConnectInfo: "DBConnectInfo", PkLobFlags: "LobFlags",
		PkXatOptions: "XatOptions",
	}
	if n, ok := names[k]; ok {
		return n
	}
	return "Nil"
}

// PartAttributes is the part-header attribute bitfield (§4.8).
type PartAttributes int8

const (
	PaLastPacket      PartAttributes = 0x01
	PaNextPacket      PartAttributes = 0x02
	PaFirstPacket     PartAttributes = 0x04
	PaRowNotFound     PartAttributes = 0x08
	PaResultSetClosed PartAttributes = 0x10
)

// LastPacket reports whether no further FetchNext is needed.
func (a PartAttributes) LastPacket() bool { return a&PaLastPacket != 0 }

// ResultSetClosed reports whether the server has already closed the cursor.
func (a PartAttributes) ResultSetClosed() bool { return a&PaResultSetClosed != 0 }

// NoRows reports the combination meaning "no more rows at all" (§4.8).
func (a PartAttributes) NoRows() bool {
	const want = PaLastPacket | PaRowNotFound
	return a&want == want
}


