// ABOUTME: Tests for mDNS discovery manager
// ABOUTME: Lifecycle checks that do not touch the network
package discovery

import (
	"testing"
	"time"
)

func TestNewManager(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	if m.Servers() == nil {
		t.Fatal("servers channel should exist")
	}

	select {
	case s := <-m.Servers():
		t.Errorf("unexpected server before browsing: %+v", s)
	default:
	}
}

func TestStopEndsBrowse(t *testing.T) {
	m := NewManager()
	m.Stop()

	// browseLoop must exit promptly once the context is cancelled
	done := make(chan struct{})
	go func() {
		m.browseLoop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("browse loop did not exit after Stop")
	}
}
