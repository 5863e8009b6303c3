// ABOUTME: Network boundary for the streaming pipeline
// ABOUTME: A Source yields raw sample bytes from a remote server
package source

import (
	"context"
	"io"
)

// Source is one connection to a streaming server. The network worker owns it
// exclusively: Connect, then Read until an error, then either Close and
// Connect again (retry) or give up.
type Source interface {
	// Connect establishes the connection. It may be called again after
	// Close to re-establish a dropped stream.
	Connect(ctx context.Context) error

	// Read yields raw sample bytes. Callers wanting whole packets wrap it
	// in io.ReadFull.
	io.Reader

	// Close tears down the connection and unblocks a pending Read. Safe to
	// call at any time, from any goroutine.
	Close() error

	// Addr describes the remote endpoint for logging.
	Addr() string
}
