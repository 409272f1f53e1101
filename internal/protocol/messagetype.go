package protocol

// MessageType identifies the kind of request segment being sent. Values
// mirror the wire protocol's message-type byte (§4.4).
type MessageType int8

const (
	MtNil             MessageType = 0
	MtExecuteDirect   MessageType = 2
	MtPrepare         MessageType = 3
	MtXAStart         MessageType = 5
	MtXAJoin          MessageType = 6
	MtExecute         MessageType = 13
	MtWriteLob        MessageType = 16
	MtReadLob         MessageType = 17
	MtFindLob         MessageType = 18
	MtAuthenticate    MessageType = 65
	MtConnect         MessageType = 66
	MtCommit          MessageType = 67
	MtRollback        MessageType = 68
	MtCloseResultSet  MessageType = 69
	MtDropStatementID MessageType = 70
	MtFetchNext       MessageType = 71
	MtFetchAbsolute   MessageType = 72
	MtFetchRelative   MessageType = 73
	MtFetchFirst      MessageType = 74
	MtFetchLast       MessageType = 75
	MtDisconnect      MessageType = 77
	MtDBConnectInfo   MessageType = 82
	MtXAOpenStart     MessageType = 83
	MtXAOpenEnd       MessageType = 84
	MtXAOpenPrepare   MessageType = 85
	MtXAOpenCommit    MessageType = 86
	MtXAOpenRollback  MessageType = 87
	MtXAOpenRecover   MessageType = 88
	MtXAOpenForget    MessageType = 89
)

// ReplyType identifies the kind of reply segment received. Governs how a
// reply's parts are assembled into a response (§4.4).
type ReplyType int16

const (
	RtNil                      ReplyType = 0
	RtSelect                   ReplyType = 1
	RtInsert                   ReplyType = 2
	RtUpdate                   ReplyType = 3
	RtDelete                   ReplyType = 4
	RtDdl                      ReplyType = 5
	RtDbProcedureCall          ReplyType = 6
	RtDbProcedureCallWithResult ReplyType = 7
	RtFetch                    ReplyType = 8
	RtCloseCursor              ReplyType = 9
	RtCommit                   ReplyType = 10
	RtRollback                 ReplyType = 11
	RtConnect                  ReplyType = 12
	RtReadLob                  ReplyType = 13
	RtWriteLob                 ReplyType = 14
	RtDisconnect               ReplyType = 15
	RtXAControl                ReplyType = 16
	RtXARecover                ReplyType = 17
)
