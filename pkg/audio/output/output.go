// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for audio playback backends
package output

// Bytes per interleaved sample: 32-bit float PCM.
const BytesPerSample = 4

// Output represents an audio output device.
type Output interface {
	// MinBufferSize reports the smallest buffer, in bytes, the device can
	// run with at the given format.
	MinBufferSize(sampleRate, channels int) (int, error)

	// Open initializes the device with the given buffer size. lowLatency
	// selects the backend's low latency path where one exists.
	Open(sampleRate, channels, bufferBytes int, lowLatency bool) error

	// Write plays raw samples, blocking until the device accepts them.
	Write(p []byte) error

	// Close releases the device and unblocks a pending Write.
	Close() error
}
