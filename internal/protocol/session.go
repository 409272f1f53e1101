package protocol

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hdbdrv/hdb/internal/transport"
)

// Statistics is a point-in-time snapshot of a Session's traffic counters
// (§4.7 "connection statistics"), exposed to callers via Session.Statistics
// for monitoring (the prometheus collector in the prometheus/ submodule
// polls this).
type Statistics struct {
	Requests      uint64
	BytesSent     uint64
	BytesReceived uint64
	LastRoundTrip time.Duration
}

// countingWriter/countingReader tally bytes for Statistics without
// otherwise touching transport.Conn's buffering behavior.
type countingWriter struct {
	w io.Writer
	n *uint64
}

func (c countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	*c.n += uint64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n *uint64
}

func (c countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	*c.n += uint64(n)
	return n, err
}

// SessionConfig holds everything Connect needs to establish and
// authenticate a session (§4.7, §9: plain struct, no functional options,
// matching go-hdb's driver.Connector field layout).
type SessionConfig struct {
	Host, Database string
	Port           int32
	Username       string
	Password       string

	Transport   transport.Config
	Compression CompressionPolicy

	// FetchSize is the row count each FetchNext request asks for (§4.8);
	// 0 or less uses defaultFetchSize (128).
	FetchSize int32
	// LobReadLength bounds how many bytes/chars FetchLobChunk asks for per
	// round trip (§4.10).
	LobReadLength int32
	// ClientApplicationProgram identifies the caller in server-side
	// monitoring views (ClientContext, §4.7 connect handshake).
	ClientApplicationProgram string

	// MaxRedirects bounds how many DBConnectInfo redirects Connect will
	// follow before giving up (§4.5).
	MaxRedirects int
}

const defaultMaxRedirects = 3
const driverClientVersion = "1.0"
const driverClientType = "hdbdrv/hdb"

// Session is the connection core (§4.7): it owns the transport, the
// message sequence/session-id bookkeeping, auto-commit state, and the
// accumulated warnings and statistics a caller can inspect between
// requests. It implements LobFetcher so value.go's Lob.Read can stream
// additional chunks through the same connection that produced the Lob.
type Session struct {
	mu sync.Mutex

	conn      *transport.Conn
	cfg       SessionConfig
	sessionID int64
	seq       uint32

	autoCommit bool
	warnings   []*ServerError
	stats      Statistics

	lastTransactionFlags TransactionFlags
	lastStatementContext StatementContext
	connectOptions       ConnectOptions
}

// Connect dials, authenticates via SCRAM-SHA-256, and negotiates connect
// options, following DBConnectInfo redirects when the server reports the
// requested database lives elsewhere (§4.5, §4.6, §4.7).
func Connect(ctx context.Context, cfg SessionConfig) (*Session, error) {
	maxRedirects := cfg.MaxRedirects
	if maxRedirects == 0 {
		maxRedirects = defaultMaxRedirects
	}

	host, port := cfg.Host, cfg.Port
	for attempt := 0; ; attempt++ {
		addr := fmt.Sprintf("%s:%d", host, port)
		conn, err := transport.Dial(ctx, addr, cfg.Transport)
		if err != nil {
			return nil, newTransportError("connect", err)
		}
		s := &Session{conn: conn, cfg: cfg, autoCommit: true, sessionID: -1}
		if err := s.authenticate(); err != nil {
			conn.Close()
			return nil, err
		}
		if cfg.Database == "" {
			if err := s.finishConnect(); err != nil {
				conn.Close()
				return nil, err
			}
			return s, nil
		}

		info, err := s.lookupDatabase(cfg.Database)
		if err != nil {
			conn.Close()
			return nil, err
		}
		if info.IsConnected() {
			if err := s.finishConnect(); err != nil {
				conn.Close()
				return nil, err
			}
			return s, nil
		}
		if attempt >= maxRedirects {
			conn.Close()
			return nil, newProtocolError("too many tenant-database redirects (%d)", attempt)
		}
		nextHost, _ := info.Host()
		nextPort, _ := info.Port()
		conn.Close()
		host, port = nextHost, nextPort
	}
}

// authenticate drives the three-round SCRAM-SHA-256 handshake over a raw,
// not-yet-assigned-session-id connection (§4.6).
func (s *Session) authenticate() error {
	h := &ScramSha256Handshake{Username: s.cfg.Username, Password: s.cfg.Password}
	initPart, err := h.InitRequest()
	if err != nil {
		return err
	}
	reply, err := s.send(MtAuthenticate, false, initPart)
	if err != nil {
		return err
	}
	if reply.Authentication == nil {
		return newProtocolError("authenticate reply missing Authentication part")
	}

	finalPart, err := h.FinalRequest(reply.Authentication)
	if err != nil {
		return err
	}
	clientCtx := NewClientContext(driverClientVersion, driverClientType, s.cfg.ClientApplicationProgram)
	connReply, err := s.send(MtConnect, false, finalPart, &clientCtx)
	if err != nil {
		return err
	}
	if connReply.Authentication == nil {
		return newProtocolError("connect reply missing Authentication part")
	}
	if err := h.VerifyFinalReply(connReply.Authentication); err != nil {
		return err
	}
	s.connectOptions = connReply.ConnectOptions
	return nil
}

// finishConnect sends the client's ConnectOptions (locale, split batch
// commands) once the session has landed on the right tenant database.
func (s *Session) finishConnect() error {
	opts := ConnectOptions{
		CoClientLocale:      "en_US",
		CoSplitBatchCommands: true,
	}
	if _, err := s.send(MtConnect, false, &opts); err != nil {
		return err
	}
	return nil
}

// lookupDatabase asks the server whether this connection is already
// attached to the named tenant database, or where to redirect to (§4.5).
func (s *Session) lookupDatabase(name string) (DBConnectInfo, error) {
	req := DBConnectInfo{DciDatabaseName: name}
	reply, err := s.send(MtDBConnectInfo, false, &req)
	if err != nil {
		return nil, err
	}
	return reply.DBConnectInfo, nil
}

// send writes one request message (auto-incrementing the sequence number)
// and returns its decoded reply. A reply carrying only warnings is
// returned without error, after appending them to Warnings(); a reply
// carrying at least one Error-severity entry is returned alongside that
// *ServerErrors as the error value.
func (s *Session) send(messageType MessageType, autoCommit bool, parts ...partEncoder) (*Reply, error) {
	return s.sendWithMetadata(messageType, autoCommit, nil, parts...)
}

// sendWithMetadata is send's full implementation; carryMeta is forwarded to
// decodeReply so a FetchNext reply — which does not repeat the cursor's
// column catalog — can still decode its ResultSet part (§4.8).
func (s *Session) sendWithMetadata(messageType MessageType, autoCommit bool, carryMeta *ResultSetMetadata, parts ...partEncoder) (*Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	reqParts := make([]RequestPart, len(parts))
	for i, p := range parts {
		reqParts[i] = NewRequestPart(p)
	}
	s.seq++
	cw := countingWriter{w: s.conn.Writer, n: &s.stats.BytesSent}
	if err := writeMessage(cw, s.sessionID, s.seq, messageType, autoCommit, s.cfg.Compression, reqParts...); err != nil {
		return nil, newTransportError("write", err)
	}
	if err := s.conn.Flush(); err != nil {
		return nil, newTransportError("flush", err)
	}

	cr := countingReader{r: s.conn.Reader, n: &s.stats.BytesReceived}
	sessionID, sh, body, err := readMessage(cr)
	if err != nil {
		return nil, newTransportError("read", err)
	}
	// The server assigns the session id on the first reply after
	// authentication; every later reply just echoes it back.
	if s.sessionID == -1 && messageType != MtAuthenticate {
		s.sessionID = sessionID
	}
	reply, err := decodeReply(sh, body, s, carryMeta)
	if err != nil {
		return nil, err
	}

	s.stats.Requests++
	s.stats.LastRoundTrip = time.Since(start)

	if len(reply.TransactionFlags) > 0 {
		s.lastTransactionFlags = reply.TransactionFlags
	}
	if len(reply.StatementContext) > 0 {
		s.lastStatementContext = reply.StatementContext
	}
	if len(reply.ConnectOptions) > 0 {
		s.connectOptions = reply.ConnectOptions
	}

	if reply.Errors != nil {
		if reply.Errors.HasOnlyWarnings() {
			s.warnings = append(s.warnings, reply.Errors.Errs...)
		} else {
			return reply, reply.Errors
		}
	}
	return reply, nil
}

// Statistics returns a snapshot of this session's traffic counters.
func (s *Session) Statistics() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Warnings returns and clears the warnings accumulated since the last
// call (§7: warnings are surfaced to the caller, not treated as errors).
func (s *Session) Warnings() []*ServerError {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.warnings
	s.warnings = nil
	return w
}

// SetAutoCommit toggles whether subsequent Execute calls commit
// immediately (§6 transaction control).
func (s *Session) SetAutoCommit(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoCommit = on
}

// AutoCommit reports the current auto-commit setting.
func (s *Session) AutoCommit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoCommit
}

// Commit and Rollback end the current transaction explicitly (§6).
func (s *Session) Commit(ctx context.Context) error {
	_, err := s.send(MtCommit, false, CommitOptions{})
	return err
}

func (s *Session) Rollback(ctx context.Context) error {
	_, err := s.send(MtRollback, false)
	return err
}

// Close disconnects the session (§6). It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()
	if conn == nil {
		return nil
	}
	// Best-effort: a Disconnect message lets the server release server-side
	// cursors/statements promptly, but a failure here must not stop the
	// socket from closing.
	_ = writeMessage(conn.Writer, s.sessionID, s.seq+1, MtDisconnect, false, s.cfg.Compression)
	_ = conn.Flush()
	return conn.Close()
}

// FetchLobChunk implements LobFetcher by issuing a ReadLobRequest for the
// next chunk of locatorID starting at offset (§4.10 read path).
func (s *Session) FetchLobChunk(locatorID uint64, offset int64, length int32) ([]byte, bool, error) {
	if limit := s.cfg.LobReadLength; limit > 0 && (length <= 0 || length > limit) {
		length = limit
	}
	if length <= 0 {
		length = 1 << 16
	}
	req := ReadLobRequest{LocatorID: locatorID, ReadOffset: offset, ReadLength: length}
	reply, err := s.send(MtReadLob, false, req)
	if err != nil {
		return nil, false, err
	}
	if reply.ReadLobReply == nil {
		return nil, false, newProtocolError("ReadLob reply missing ReadLobReply part")
	}
	if reply.ReadLobReply.LocatorID != locatorID {
		return nil, false, newProtocolError("ReadLob reply locator mismatch: got %d, want %d", reply.ReadLobReply.LocatorID, locatorID)
	}
	return reply.ReadLobReply.Data, reply.ReadLobReply.IsLast, nil
}

// WriteLobChunks sends one WriteLobRequest covering every chunk given and
// returns the locator ids the server reports as finished writing (§4.10
// write path, §8 property: locator-ordered WriteLob continuation — callers
// are responsible for presenting chunks for a given locator in order,
// since the server appends to the locator's current write position).
func (s *Session) WriteLobChunks(chunks []lobChunk) ([]uint64, error) {
	req := WriteLobRequest{Chunks: chunks}
	reply, err := s.send(MtWriteLob, false, req)
	if err != nil {
		return nil, err
	}
	if reply.WriteLobReply == nil {
		return nil, newProtocolError("WriteLob reply missing WriteLobReply part")
	}
	return reply.WriteLobReply.IDs, nil
}
