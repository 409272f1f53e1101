// Package transport owns the TCP/TLS byte pipe underneath the wire protocol
// (§4.5): dialing, optional TLS, buffered I/O, and the tenant-database
// redirect dance. It is deliberately ignorant of message framing — that is
// protocol.writeMessage/readMessage's job, driven over the io.ReadWriter
// this package hands back.
package transport

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"
)

// DialerOptions mirrors go-hdb's driver/dial.DialerOptions: the handful of
// net.Dialer knobs the driver exposes without leaking the stdlib type
// itself into the public surface.
type DialerOptions struct {
	Timeout      time.Duration
	TCPKeepAlive time.Duration
}

// Dialer abstracts the TCP connection step so tests can substitute an
// in-memory pipe and so callers can plug in a custom network stack (e.g. a
// SOCKS proxy), matching go-hdb's driver/dial.Dialer.
type Dialer interface {
	DialContext(ctx context.Context, address string, options DialerOptions) (net.Conn, error)
}

// DefaultDialer dials plain TCP via net.Dialer, the same default go-hdb
// ships.
var DefaultDialer Dialer = defaultDialer{}

type defaultDialer struct{}

func (defaultDialer) DialContext(ctx context.Context, address string, options DialerOptions) (net.Conn, error) {
	d := net.Dialer{Timeout: options.Timeout, KeepAlive: options.TCPKeepAlive}
	return d.DialContext(ctx, "tcp", address)
}

// Config bundles everything needed to establish and, if necessary,
// redirect a connection (§4.5).
type Config struct {
	Dialer      Dialer
	DialOptions DialerOptions
	// TLSConfig, when non-nil, wraps the raw TCP connection in TLS using
	// the supplied configuration verbatim. Building a *tls.Config from a
	// certificate bundle/hostname policy is the caller's job (Non-goal:
	// this package does not parse trust stores or certificate files).
	TLSConfig *tls.Config
	// BufferSize sizes the bufio.Reader/Writer wrapping the connection.
	BufferSize int
}

const defaultBufferSize = 32 * 1024

// Conn is an established transport connection: a buffered, optionally
// TLS-wrapped net.Conn plus the address it was dialed with, so Redirect can
// report where it reconnected to.
type Conn struct {
	net.Conn
	Address string
	Reader  *bufio.Reader
	Writer  *bufio.Writer

	cfg Config
}

// Dial establishes a transport connection to address ("host:port"),
// applying TLS when cfg.TLSConfig is set.
func Dial(ctx context.Context, address string, cfg Config) (*Conn, error) {
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = DefaultDialer
	}
	raw, err := dialer.DialContext(ctx, address, cfg.DialOptions)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", address, err)
	}
	return wrap(raw, address, cfg), nil
}

func wrap(raw net.Conn, address string, cfg Config) *Conn {
	var nc net.Conn = raw
	if cfg.TLSConfig != nil {
		nc = tls.Client(raw, cfg.TLSConfig)
	}
	bufSize := cfg.BufferSize
	if bufSize <= 0 {
		bufSize = defaultBufferSize
	}
	return &Conn{
		Conn:    nc,
		Address: address,
		Reader:  bufio.NewReaderSize(nc, bufSize),
		Writer:  bufio.NewWriterSize(nc, bufSize),
		cfg:     cfg,
	}
}

// Flush flushes any buffered writes to the underlying connection.
func (c *Conn) Flush() error { return c.Writer.Flush() }

// Redirect closes the current connection and dials host:port instead,
// reusing the same dial/TLS configuration (§4.5: the server answers an
// initial connect with a different host when the requested tenant database
// lives elsewhere, and the client must reconnect there transparently).
func (c *Conn) Redirect(ctx context.Context, host string, port int32) (*Conn, error) {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	next, err := Dial(ctx, addr, c.cfg)
	if err != nil {
		return nil, fmt.Errorf("transport: redirect to %s: %w", addr, err)
	}
	_ = c.Conn.Close()
	return next, nil
}
