// ABOUTME: Package doc for audio output backends
// ABOUTME: Defines the Output device interface and its implementations

// Package output provides audio playback backends behind a common device
// interface. The default backend uses oto; a PortAudio backend is available
// behind the portaudio build tag. All backends play interleaved 32-bit float
// PCM.
package output
