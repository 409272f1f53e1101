package transport

import (
	"context"
	"net"
	"testing"
	"time"
)

type pipeDialer struct {
	server net.Conn
}

func (d *pipeDialer) DialContext(ctx context.Context, address string, options DialerOptions) (net.Conn, error) {
	client, server := net.Pipe()
	d.server = server
	return client, nil
}

func TestDialWrapsBufferedIO(t *testing.T) {
	d := &pipeDialer{}
	conn, err := Dial(context.Background(), "hana.example.com:30015", Config{Dialer: d})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	go func() {
		buf := make([]byte, 5)
		d.server.Read(buf)
		d.server.Write([]byte("world"))
	}()

	if _, err := conn.Writer.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	got := make([]byte, 5)
	if _, err := conn.Reader.Read(got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "world" {
		t.Fatalf("got %q, want %q", got, "world")
	}
	if conn.Address != "hana.example.com:30015" {
		t.Fatalf("got address %q", conn.Address)
	}
}

func TestDialerOptionsDefaultBufferSize(t *testing.T) {
	d := &pipeDialer{}
	conn, err := Dial(context.Background(), "x:1", Config{Dialer: d, DialOptions: DialerOptions{Timeout: time.Second}})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	if conn.Reader.Size() != defaultBufferSize {
		t.Fatalf("got buffer size %d, want %d", conn.Reader.Size(), defaultBufferSize)
	}
}
