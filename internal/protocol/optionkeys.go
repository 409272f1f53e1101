package protocol

// Key catalogs for the option-bag parts (§9: "each kind has its own key
// space"). Numeric assignments are this module's own reconstruction in the
// style of partkind.go: the exact HANA key catalog was not present in the
// retrieved reference material, only representative usages of a handful of
// keys (coDatabaseName, coClientLocale, coSplitBatchCommands, ccoClientVersion,
// ccoClientType, ccoClientApplicationProgram, scStatementSequenceInfo,
// tfCommited/tfRolledback) survived; the remaining keys below are filled in
// consistently with that observed shape.

// ConnectOption is the key space for the ConnectOptions part.
type ConnectOption int8

const (
	CoConnectionID               ConnectOption = 1
	CoCompleteArrayExecution     ConnectOption = 2
	CoClientLocale               ConnectOption = 3
	CoSupportsLargeBulkOperations ConnectOption = 4
	CoDistributionProtocolVersion ConnectOption = 5
	CoSelectForUpdateSupported    ConnectOption = 14
	CoClientDistributionMode      ConnectOption = 15
	CoDataFormatVersion2          ConnectOption = 20
	CoSplitBatchCommands          ConnectOption = 26
	CoNetworkGroup                ConnectOption = 38
	CoDatabaseName                ConnectOption = 44
)

// ClientContextOption is the key space for the ClientContext part.
type ClientContextOption int8

const (
	CcoClientVersion            ClientContextOption = 1
	CcoClientType               ClientContextOption = 2
	CcoClientApplicationProgram ClientContextOption = 3
)

// ClientInfoOption is the key space for the ClientInfo part (client-supplied
// application metadata, distinct from ClientContext).
type ClientInfoOption int8

const (
	CioApplicationName ClientInfoOption = 1
	CioApplicationUser ClientInfoOption = 2
)

// StatementContextOption is the key space for the StatementContext part.
type StatementContextOption int8

const (
	ScoStatementSequenceInfo StatementContextOption = 1
	ScoServerExecutionTime   StatementContextOption = 2
)

// TransactionFlagOption is the key space for the TransactionFlags part.
type TransactionFlagOption int8

const (
	TfoRolledBack                    TransactionFlagOption = 0
	TfoCommitted                     TransactionFlagOption = 1
	TfoNewIsolationLevel             TransactionFlagOption = 2
	TfoDDLCommitModeChanged          TransactionFlagOption = 3
	TfoWriteTransactionStarted       TransactionFlagOption = 4
	TfoNoWriteTransactionStarted     TransactionFlagOption = 5
	TfoSessionClosingTransactionError TransactionFlagOption = 6
	TfoReadOnlyMode                  TransactionFlagOption = 8
)

// TopologyOption is the key space for the TopologyInformation part.
type TopologyOption int8

const (
	ToHostName     TopologyOption = 1
	ToHostPortNo   TopologyOption = 2
	ToLoadFactor   TopologyOption = 3
	ToIsPrimary    TopologyOption = 6
	ToIsCurrentSession TopologyOption = 7
)

// SessionContextOption is the key space for the SessionContext part.
type SessionContextOption int8

const (
	ScPrimaryConnectionID SessionContextOption = 1
	ScPrimaryHostName     SessionContextOption = 2
)

// LobFlagOption is the key space for the LobFlags part.
type LobFlagOption int8

const (
	LfoImplicitLobStreaming LobFlagOption = 1
)

// XatOption is the key space for the XatOptions part (§6 XA verbs).
type XatOption int8

const (
	XoFlags         XatOption = 1
	XoReturnCode    XatOption = 2
	XoNumberOfXid   XatOption = 3
	XoXid           XatOption = 4
)

// DBConnectInfoOption is the key space for the DBConnectInfo part
// (tenant-database redirect negotiation, §4.5 redirect).
type DBConnectInfoOption int8

const (
	DciDatabaseName DBConnectInfoOption = 1
	DciHost         DBConnectInfoOption = 2
	DciPort         DBConnectInfoOption = 3
	DciIsConnected  DBConnectInfoOption = 4
)
