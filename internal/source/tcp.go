// ABOUTME: TCP source speaking the simple protocol: a raw PCM byte stream
// ABOUTME: No framing, no handshake; the server just writes samples
package source

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
)

// TCP reads raw samples straight off a TCP connection.
type TCP struct {
	addr string

	mu   sync.Mutex
	conn net.Conn
}

// NewTCP creates a source for host:port. No connection is made yet.
func NewTCP(host string, port int) *TCP {
	return &TCP{addr: net.JoinHostPort(host, strconv.Itoa(port))}
}

// Connect dials the server. Honors ctx cancellation while dialing.
func (s *TCP) Connect(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.addr, err)
	}

	if tc, ok := conn.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	return nil
}

func (s *TCP) Read(p []byte) (int, error) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return 0, net.ErrClosed
	}
	return conn.Read(p)
}

// Close shuts the connection down, unblocking a pending Read.
func (s *TCP) Close() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.Close()
}

func (s *TCP) Addr() string {
	return s.addr
}
