// ABOUTME: Tests for the TCP source
// ABOUTME: Streams bytes through a loopback listener
package source

import (
	"bytes"
	"context"
	"io"
	"net"
	"testing"
	"time"
)

func startServer(t *testing.T, serve func(net.Conn)) (host string, port int) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		serve(conn)
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return "127.0.0.1", addr.Port
}

func TestTCPReadsStream(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	host, port := startServer(t, func(conn net.Conn) {
		conn.Write(payload)
		conn.Close()
	})

	src := NewTCP(host, port)
	if err := src.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer src.Close()

	got := make([]byte, len(payload))
	if _, err := io.ReadFull(src, got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("read %v, want %v", got, payload)
	}
}

func TestTCPCloseUnblocksRead(t *testing.T) {
	host, port := startServer(t, func(conn net.Conn) {
		// hold the connection open without writing
		time.Sleep(5 * time.Second)
		conn.Close()
	})

	src := NewTCP(host, port)
	if err := src.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		buf := make([]byte, 16)
		_, err := src.Read(buf)
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	if err := src.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	select {
	case err := <-done:
		if err == nil {
			t.Error("read after close should fail")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("read still blocked after close")
	}
}

func TestTCPReadBeforeConnect(t *testing.T) {
	src := NewTCP("127.0.0.1", 1)
	if _, err := src.Read(make([]byte, 4)); err != net.ErrClosed {
		t.Errorf("expected net.ErrClosed, got %v", err)
	}
}

func TestTCPConnectHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewTCP("203.0.113.1", 4711)
	if err := src.Connect(ctx); err == nil {
		src.Close()
		t.Error("connect with cancelled context should fail")
	}
}
