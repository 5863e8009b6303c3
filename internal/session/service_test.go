// ABOUTME: Tests for the owning session
// ABOUTME: Failure handling, pipeline replacement, idempotent stop
package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/UG40A/SimpleProtocolPlayer/internal/source"
	"github.com/UG40A/SimpleProtocolPlayer/pkg/audio/output"
)

type stubOutput struct {
	closeOnce sync.Once
	closed    chan struct{}
}

func newStubOutput() *stubOutput {
	return &stubOutput{closed: make(chan struct{})}
}

func (s *stubOutput) MinBufferSize(sampleRate, channels int) (int, error) { return 256, nil }
func (s *stubOutput) Open(sampleRate, channels, bufferBytes int, lowLatency bool) error {
	return nil
}
func (s *stubOutput) Write(p []byte) error { return nil }
func (s *stubOutput) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

// blockSource connects fine and then blocks every read until closed.
type blockSource struct {
	connectErr error
	closeOnce  sync.Once
	done       chan struct{}
}

func newBlockSource(connectErr error) *blockSource {
	return &blockSource{connectErr: connectErr, done: make(chan struct{})}
}

func (b *blockSource) Connect(ctx context.Context) error { return b.connectErr }
func (b *blockSource) Read(p []byte) (int, error) {
	<-b.done
	return 0, io.ErrClosedPipe
}
func (b *blockSource) Close() error {
	b.closeOnce.Do(func() { close(b.done) })
	return nil
}
func (b *blockSource) Addr() string { return "stub" }

func playOpts() Options {
	return Options{}
}

func TestFailureNotifiesAndStops(t *testing.T) {
	notices := make(chan string, 4)
	svc := New(func(msg string) { notices <- msg })
	defer svc.Shutdown()

	out := newStubOutput()
	svc.newOutput = func() output.Output { return out }
	svc.newSource = func(Options) source.Source {
		return newBlockSource(errors.New("connection refused"))
	}

	if _, err := svc.Play(playOpts()); err != nil {
		t.Fatalf("Play: %v", err)
	}

	select {
	case msg := <-notices:
		if msg != "Unable to stream" {
			t.Errorf("notice = %q, want %q", msg, "Unable to stream")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no notification after stream failure")
	}

	select {
	case <-out.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("output not closed after failure stop")
	}
}

func TestPlayReplacesCurrentPipeline(t *testing.T) {
	svc := New(nil)
	defer svc.Shutdown()

	first := newStubOutput()
	second := newStubOutput()
	outputs := []*stubOutput{first, second}

	svc.newOutput = func() output.Output {
		out := outputs[0]
		outputs = outputs[1:]
		return out
	}
	svc.newSource = func(Options) source.Source { return newBlockSource(nil) }

	if _, err := svc.Play(playOpts()); err != nil {
		t.Fatalf("first Play: %v", err)
	}
	if _, err := svc.Play(playOpts()); err != nil {
		t.Fatalf("second Play: %v", err)
	}

	select {
	case <-first.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("first pipeline's output not closed after replacement")
	}

	select {
	case <-second.closed:
		t.Fatal("second pipeline's output closed prematurely")
	default:
	}
}

func TestStopIdempotent(t *testing.T) {
	svc := New(nil)
	defer svc.Shutdown()

	svc.newOutput = func() output.Output { return newStubOutput() }
	svc.newSource = func(Options) source.Source { return newBlockSource(nil) }

	if _, err := svc.Play(playOpts()); err != nil {
		t.Fatalf("Play: %v", err)
	}

	svc.Stop()
	svc.Stop()
}
