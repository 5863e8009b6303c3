//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import "fmt"

var errNoPortAudio = fmt.Errorf("PortAudio support not enabled (build with -tags portaudio)")

// PortAudio output implementation (stub).
type PortAudio struct{}

// NewPortAudio creates a new PortAudio output.
func NewPortAudio() Output {
	return &PortAudio{}
}

func (p *PortAudio) MinBufferSize(sampleRate, channels int) (int, error) {
	return 0, errNoPortAudio
}

func (p *PortAudio) Open(sampleRate, channels, bufferBytes int, lowLatency bool) error {
	return errNoPortAudio
}

func (p *PortAudio) Write(b []byte) error {
	return errNoPortAudio
}

func (p *PortAudio) Close() error {
	return errNoPortAudio
}
