//go:build portaudio

// ABOUTME: PortAudio output implementation
// ABOUTME: Cross-platform audio output using PortAudio blocking writes
package output

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// PortAudio output implementation.
type PortAudio struct {
	mu     sync.Mutex
	stream *portaudio.Stream
	buffer []float32
	// bytes carried over between Writes when a packet does not fill the
	// stream buffer exactly
	pending []byte
	ready   bool

	initOnce sync.Once
	initErr  error
}

// NewPortAudio creates a new PortAudio output.
func NewPortAudio() Output {
	return &PortAudio{}
}

func (p *PortAudio) initialize() error {
	p.initOnce.Do(func() {
		p.initErr = portaudio.Initialize()
	})
	return p.initErr
}

// MinBufferSize derives a byte count from the default output device's low
// output latency.
func (p *PortAudio) MinBufferSize(sampleRate, channels int) (int, error) {
	if sampleRate <= 0 || channels <= 0 {
		return 0, fmt.Errorf("invalid format: %dHz, %d channels", sampleRate, channels)
	}
	if err := p.initialize(); err != nil {
		return 0, fmt.Errorf("initialize portaudio: %w", err)
	}

	dev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return 0, fmt.Errorf("default output device: %w", err)
	}

	frames := int(dev.DefaultLowOutputLatency.Seconds() * float64(sampleRate))
	return frames * channels * BytesPerSample, nil
}

// Open starts a blocking-write stream sized to bufferBytes.
func (p *PortAudio) Open(sampleRate, channels, bufferBytes int, lowLatency bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ready {
		return fmt.Errorf("output already open")
	}
	if err := p.initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}

	frames := bufferBytes / (channels * BytesPerSample)
	if lowLatency {
		frames /= 2
	}
	if frames < 1 {
		frames = 1
	}

	p.buffer = make([]float32, frames*channels)
	stream, err := portaudio.OpenDefaultStream(0, channels, float64(sampleRate), frames, &p.buffer)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("start stream: %w", err)
	}

	p.stream = stream
	p.ready = true

	log.Printf("audio output open: %dHz, %d channels, %d frame buffer, lowLatency %v",
		sampleRate, channels, frames, lowLatency)

	return nil
}

// Write plays raw float PCM bytes, carrying any partial stream buffer over
// to the next call.
func (p *PortAudio) Write(b []byte) error {
	p.mu.Lock()
	stream := p.stream
	ready := p.ready
	p.mu.Unlock()

	if !ready {
		return fmt.Errorf("output not open")
	}

	p.pending = append(p.pending, b...)
	chunk := len(p.buffer) * BytesPerSample

	for len(p.pending) >= chunk {
		for i := range p.buffer {
			bits := binary.LittleEndian.Uint32(p.pending[i*BytesPerSample:])
			p.buffer[i] = math.Float32frombits(bits)
		}
		p.pending = p.pending[chunk:]

		if err := stream.Write(); err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
	}
	return nil
}

// Close aborts the stream, unblocking a pending Write, and terminates
// PortAudio.
func (p *PortAudio) Close() error {
	p.mu.Lock()
	stream := p.stream
	p.stream = nil
	wasReady := p.ready
	p.ready = false
	p.mu.Unlock()

	if !wasReady {
		return nil
	}

	if err := stream.Abort(); err != nil {
		return fmt.Errorf("abort stream: %w", err)
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("close stream: %w", err)
	}
	return portaudio.Terminate()
}
