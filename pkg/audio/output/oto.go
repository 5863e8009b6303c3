// ABOUTME: Oto-based audio output implementation
// ABOUTME: Streams float PCM through a persistent pipe into one oto player
package output

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// minBufferMs is the smallest device buffer this backend will report. Oto
// has no native minimum-buffer query, so this stands in for what a hardware
// driver would answer.
const minBufferMs = 50

// contextLease tracks whether the process-wide oto context exists. oto
// allows a single context per process, so create must be answered true at
// most once until abandon is called.
type contextLease struct {
	active     bool
	sampleRate int
	channels   int
}

// acquire reports whether a context must be created for the requested
// format, and whether an existing context has a different format. An
// existing context is always reused; oto cannot reinitialize.
func (l *contextLease) acquire(sampleRate, channels int) (create, mismatch bool) {
	if l.active {
		return false, l.sampleRate != sampleRate || l.channels != channels
	}
	l.active = true
	l.sampleRate = sampleRate
	l.channels = channels
	return true, false
}

// abandon releases the lease after a failed creation so a later Open can
// try again.
func (l *contextLease) abandon() {
	l.active = false
}

// The one context oto permits per process. Created on first Open, then
// suspended and resumed across Close/Open cycles, never torn down.
var otoShared struct {
	mu    sync.Mutex
	lease contextLease
	ctx   *oto.Context
}

// sharedContext returns the process-wide oto context, creating it on first
// use and resuming it otherwise. A format mismatch with the existing
// context is logged rather than failed, matching oto's one-context rule.
func sharedContext(sampleRate, channels int, bufferSize time.Duration) (*oto.Context, error) {
	otoShared.mu.Lock()
	defer otoShared.mu.Unlock()

	create, mismatch := otoShared.lease.acquire(sampleRate, channels)
	if !create {
		if mismatch {
			log.Printf("audio output: format change to %dHz %dch unsupported, reusing open context at %dHz %dch",
				sampleRate, channels, otoShared.lease.sampleRate, otoShared.lease.channels)
		}
		if err := otoShared.ctx.Resume(); err != nil {
			return nil, fmt.Errorf("resume context: %w", err)
		}
		return otoShared.ctx, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		otoShared.lease.abandon()
		return nil, fmt.Errorf("create oto context: %w", err)
	}
	<-ready

	otoShared.ctx = ctx
	return ctx, nil
}

// Oto output implementation using the oto library.
type Oto struct {
	mu         sync.Mutex
	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	ready      bool
}

// NewOto creates a new Oto output.
func NewOto() Output {
	return &Oto{}
}

// MinBufferSize reports the byte count for minBufferMs of samples.
func (o *Oto) MinBufferSize(sampleRate, channels int) (int, error) {
	if sampleRate <= 0 || channels <= 0 {
		return 0, fmt.Errorf("invalid format: %dHz, %d channels", sampleRate, channels)
	}
	return sampleRate * channels * BytesPerSample * minBufferMs / 1000, nil
}

// Open initializes the device, reusing the process-wide oto context when one
// already exists. The buffer options only take effect on first open.
func (o *Oto) Open(sampleRate, channels, bufferBytes int, lowLatency bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ready {
		return fmt.Errorf("output already open")
	}
	if sampleRate <= 0 || channels <= 0 {
		return fmt.Errorf("invalid format: %dHz, %d channels", sampleRate, channels)
	}

	var bufferSize time.Duration
	bytesPerSecond := sampleRate * channels * BytesPerSample
	if bufferBytes > 0 {
		bufferSize = time.Duration(bufferBytes) * time.Second / time.Duration(bytesPerSecond)
	}
	if lowLatency {
		bufferSize /= 2
	}

	ctx, err := sharedContext(sampleRate, channels, bufferSize)
	if err != nil {
		return err
	}

	o.otoCtx = ctx
	o.pipeReader, o.pipeWriter = io.Pipe()
	o.player = ctx.NewPlayer(o.pipeReader)
	o.player.Play()
	o.ready = true

	log.Printf("audio output open: %dHz, %d channels, buffer %v, lowLatency %v",
		sampleRate, channels, bufferSize, lowLatency)

	return nil
}

// Write feeds samples to the player, blocking until accepted.
func (o *Oto) Write(p []byte) error {
	o.mu.Lock()
	w := o.pipeWriter
	ready := o.ready
	o.mu.Unlock()

	if !ready {
		return fmt.Errorf("output not open")
	}
	if _, err := w.Write(p); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	return nil
}

// Close tears the player down and suspends the shared context for the next
// Open. A Write blocked on the pipe returns with io.ErrClosedPipe.
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.ready {
		return nil
	}
	o.ready = false

	o.pipeWriter.Close()
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("close player: %w", err)
	}
	if err := o.otoCtx.Suspend(); err != nil {
		return fmt.Errorf("suspend context: %w", err)
	}
	return nil
}
