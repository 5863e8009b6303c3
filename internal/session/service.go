// ABOUTME: Owning session for the streaming pipeline
// ABOUTME: Starts and stops streams and surfaces failures to the user
package session

import (
	"context"
	"log"
	"sync"

	"github.com/UG40A/SimpleProtocolPlayer/internal/pipeline"
	"github.com/UG40A/SimpleProtocolPlayer/internal/source"
	"github.com/UG40A/SimpleProtocolPlayer/pkg/audio/output"
)

// Options describes one stream request.
type Options struct {
	pipeline.Config

	// UseWebSocket streams over a websocket instead of plain TCP.
	UseWebSocket bool
}

// Service owns at most one running pipeline and reacts to its failure
// report by notifying the user and issuing a full stop. It is the analog of
// the media service that owns playback in the original application.
type Service struct {
	notify func(msg string)
	events chan struct{}

	mu      sync.Mutex
	current *pipeline.Pipeline

	ctx    context.Context
	cancel context.CancelFunc

	// factories, swapped out by tests
	newOutput func() output.Output
	newSource func(Options) source.Source
}

// New creates a session. notify surfaces a short user-visible message; it
// may be nil.
func New(notify func(msg string)) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Service{
		notify: notify,
		events: make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
		newOutput: func() output.Output {
			return output.NewOto()
		},
		newSource: func(opts Options) source.Source {
			if opts.UseWebSocket {
				return source.NewWebSocket(opts.ServerAddr, opts.ServerPort)
			}
			return source.NewTCP(opts.ServerAddr, opts.ServerPort)
		},
	}

	go s.run()
	return s
}

// Play tears down any current pipeline and starts a new one. The returned
// pipeline is owned by the session; callers only inspect it.
func (s *Service) Play(opts Options) (*pipeline.Pipeline, error) {
	s.Stop()

	p, err := pipeline.New(opts.Config, s.newOutput(), s.newSource(opts), s)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = p
	s.mu.Unlock()

	return p, nil
}

// Stop stops the current pipeline, if any. Safe to call repeatedly.
func (s *Service) Stop() {
	s.mu.Lock()
	p := s.current
	s.current = nil
	s.mu.Unlock()

	if p != nil {
		p.Stop()
	}
}

// Shutdown stops playback and the session's own loop.
func (s *Service) Shutdown() {
	s.Stop()
	s.cancel()
}

// StreamFailed implements pipeline.FailureSink. It queues the event onto the
// session's run loop and returns immediately.
func (s *Service) StreamFailed() {
	select {
	case s.events <- struct{}{}:
	default:
	}
}

func (s *Service) run() {
	for {
		select {
		case <-s.events:
			log.Printf("session: stream failed, stopping")
			if s.notify != nil {
				s.notify("Unable to stream")
			}
			s.Stop()
		case <-s.ctx.Done():
			return
		}
	}
}
