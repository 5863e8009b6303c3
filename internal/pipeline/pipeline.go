// ABOUTME: Streaming pipeline coordinator owning the queue and both workers
// ABOUTME: Network reader -> bounded queue -> audio renderer, raw PCM only
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/UG40A/SimpleProtocolPlayer/internal/source"
	"github.com/UG40A/SimpleProtocolPlayer/pkg/audio/output"
	"github.com/google/uuid"
)

// reconnectDelay spaces out connection attempts when retry is enabled.
var reconnectDelay = 500 * time.Millisecond

// Config describes one stream. Immutable once the pipeline is constructed.
type Config struct {
	ServerAddr string
	ServerPort int

	// SampleRate in Hz. Values <= 0 fall back to DefaultSampleRate.
	SampleRate int
	Stereo     bool

	// BufferMs is the requested packet duration. Values <= 5 fall back to
	// DefaultBufferMs.
	BufferMs int

	// Retry re-establishes the connection on network errors instead of
	// treating them as terminal.
	Retry bool

	// UsePerformanceMode asks the output backend for its low latency path.
	UsePerformanceMode bool

	// UseMinBuffer sizes packets from the device minimum buffer instead of
	// BufferMs.
	UseMinBuffer bool
}

func (c Config) channels() int {
	if c.Stereo {
		return 2
	}
	return 1
}

// FailureSink receives the one notification that streaming is broken beyond
// recovery. Implementations must not block; the call is fire-and-forget.
type FailureSink interface {
	StreamFailed()
}

// Pipeline couples a network reader and an audio renderer over a bounded
// packet queue. Both workers start on construction. The pipeline owns the
// audio output handle and shuts it down itself.
type Pipeline struct {
	id          string
	packetBytes int
	sampleRate  int
	channels    int
	retry       bool

	out   output.Output
	src   source.Source
	sink  FailureSink
	queue *packetQueue

	network *worker
	render  *worker

	notifyOnce sync.Once
}

// New validates the config, sizes packets, opens the audio output, and starts
// both workers. An error here is fatal; nothing is left running.
func New(cfg Config, out output.Output, src source.Source, sink FailureSink) (*Pipeline, error) {
	if cfg.SampleRate <= 0 {
		log.Printf("pipeline: sample rate %d invalid, using %d", cfg.SampleRate, DefaultSampleRate)
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.BufferMs <= 5 {
		log.Printf("pipeline: buffer %dms invalid, using %dms", cfg.BufferMs, DefaultBufferMs)
		cfg.BufferMs = DefaultBufferMs
	}

	minBuffer, err := out.MinBufferSize(cfg.SampleRate, cfg.channels())
	if err != nil {
		return nil, fmt.Errorf("query min buffer size: %w", err)
	}
	log.Printf("pipeline: device min buffer %d bytes", minBuffer)

	var packetBytes int
	if cfg.UseMinBuffer {
		packetBytes = minBytesPerAudioPacket(cfg.Stereo, minBuffer)
	} else {
		packetBytes = bytesPerAudioPacket(cfg.SampleRate, cfg.Stereo, cfg.BufferMs)
	}

	if err := out.Open(cfg.SampleRate, cfg.channels(), minBuffer, cfg.UsePerformanceMode); err != nil {
		return nil, fmt.Errorf("open audio output: %w", err)
	}

	p := &Pipeline{
		id:          uuid.NewString(),
		packetBytes: packetBytes,
		sampleRate:  cfg.SampleRate,
		channels:    cfg.channels(),
		retry:       cfg.Retry,
		out:         out,
		src:         src,
		sink:        sink,
		queue:       newPacketQueue(),
	}

	netCtx, netCancel := context.WithCancel(context.Background())
	renderCtx, renderCancel := context.WithCancel(context.Background())

	p.network = &worker{
		name:   fmt.Sprintf("net:%s:%d", cfg.ServerAddr, cfg.ServerPort),
		cancel: netCancel,
	}
	p.render = &worker{
		name:   fmt.Sprintf("audio:%s:%d", cfg.ServerAddr, cfg.ServerPort),
		cancel: renderCancel,
	}

	// Interrupt delivery: cancelling a worker closes the boundary it blocks
	// on, so in-flight reads and writes return instead of finishing
	// naturally. Close errors are logged per worker and go no further.
	context.AfterFunc(netCtx, func() {
		if err := src.Close(); err != nil {
			log.Printf("pipeline %s: %s: close: %v", p.id, p.network.name, err)
		}
	})
	context.AfterFunc(renderCtx, func() {
		if err := out.Close(); err != nil {
			log.Printf("pipeline %s: %s: close: %v", p.id, p.render.name, err)
		}
	})

	go p.runNetwork(netCtx)
	go p.runRender(renderCtx)

	return p, nil
}

// PacketBytes reports the derived packet size, fixed at construction.
func (p *Pipeline) PacketBytes() int {
	return p.packetBytes
}

// SampleRate reports the effective sample rate after clamping, which is
// what the audio device was actually opened with.
func (p *Pipeline) SampleRate() int {
	return p.sampleRate
}

// Channels reports the effective channel count.
func (p *Pipeline) Channels() int {
	return p.channels
}

// Stop requests both workers to quit and returns immediately. It does not
// wait for them to finish; each terminates on its own once unblocked. Safe to
// call more than once.
func (p *Pipeline) Stop() {
	for _, w := range []*worker{p.render, p.network} {
		w.requestStop()
		w.interrupt()
	}
}

// reportFailure notifies the owning session that streaming is broken. Only
// the first report per pipeline does anything, and the sink runs on its own
// goroutine so the reporting worker is never blocked.
func (p *Pipeline) reportFailure() {
	p.notifyOnce.Do(func() {
		if p.sink == nil {
			return
		}
		go p.sink.StreamFailed()
	})
}

// runNetwork pulls fixed-size packets from the source and feeds the queue.
func (p *Pipeline) runNetwork(ctx context.Context) {
	w := p.network

	if err := p.connect(ctx); err != nil {
		if !w.stopping() && ctx.Err() == nil {
			log.Printf("pipeline %s: %s: connect: %v", p.id, w.name, err)
			p.reportFailure()
		}
		return
	}

	for {
		pkt := make([]byte, p.packetBytes)
		if _, err := io.ReadFull(p.src, pkt); err != nil {
			if w.stopping() || ctx.Err() != nil {
				return
			}
			if !p.retry {
				log.Printf("pipeline %s: %s: read: %v", p.id, w.name, err)
				p.reportFailure()
				return
			}

			log.Printf("pipeline %s: %s: read: %v, reconnecting", p.id, w.name, err)
			p.src.Close()
			if err := p.connect(ctx); err != nil {
				if !w.stopping() && ctx.Err() == nil {
					log.Printf("pipeline %s: %s: reconnect: %v", p.id, w.name, err)
					p.reportFailure()
				}
				return
			}
			continue
		}

		if err := p.queue.put(ctx, pkt); err != nil {
			return
		}
	}
}

// connect dials the source, retrying with a short delay when retry is
// enabled. Without retry the first error is returned as-is.
func (p *Pipeline) connect(ctx context.Context) error {
	for {
		err := p.src.Connect(ctx)
		if err == nil {
			return nil
		}
		if !p.retry {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		log.Printf("pipeline %s: %s: connect: %v, retrying", p.id, p.network.name, err)
		select {
		case <-time.After(reconnectDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// runRender drains the queue into the audio output in FIFO order.
func (p *Pipeline) runRender(ctx context.Context) {
	w := p.render

	for {
		pkt, err := p.queue.take(ctx)
		if err != nil {
			return
		}

		if err := p.out.Write(pkt); err != nil {
			if !w.stopping() && ctx.Err() == nil {
				log.Printf("pipeline %s: %s: write: %v", p.id, w.name, err)
				p.reportFailure()
			}
			return
		}
	}
}
