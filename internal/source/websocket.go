// ABOUTME: WebSocket source carrying raw samples in binary frames
// ABOUTME: Lets the player reach servers sitting behind an HTTP proxy
package source

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocket reads raw samples from binary websocket frames. Frame boundaries
// carry no meaning; bytes are drained in order across frames.
type WebSocket struct {
	url string

	mu   sync.Mutex
	conn *websocket.Conn

	// remainder of the last frame, only touched by the reading worker
	buf []byte
}

// NewWebSocket creates a source for ws://host:port/stream.
func NewWebSocket(host string, port int) *WebSocket {
	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/stream",
	}
	return &WebSocket{url: u.String()}
}

func (s *WebSocket) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	s.buf = nil
	return nil
}

func (s *WebSocket) Read(p []byte) (int, error) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return 0, net.ErrClosed
	}

	for len(s.buf) == 0 {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		s.buf = data
	}

	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}

// Close shuts the connection down, unblocking a pending Read.
func (s *WebSocket) Close() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.Close()
}

func (s *WebSocket) Addr() string {
	return s.url
}
