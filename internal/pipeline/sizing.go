// ABOUTME: Packet size arithmetic for the streaming pipeline
// ABOUTME: Derives bytes per audio packet from stream format or device minimum
package pipeline

import "log"

// Samples are 32-bit float PCM.
const bytesPerSample = 4

// Process-wide fallbacks substituted for invalid configuration values
// before any sizing arithmetic runs.
const (
	DefaultSampleRate = 44100
	DefaultBufferMs   = 50
)

// bytesPerAudioPacket sizes a packet to hold bufferMs worth of samples.
// Stereo streams use a 4x byte-rate factor.
func bytesPerAudioPacket(sampleRate int, stereo bool, bufferMs int) int {
	bytesPerSecond := sampleRate * bytesPerSample
	if stereo {
		bytesPerSecond *= 4
	}

	result := alignPacket(bytesPerSecond*bufferMs/1000, stereo)

	log.Printf("bytesPerAudioPacket: bytes/second=%d packet=%d", bytesPerSecond, result)

	return result
}

// minBytesPerAudioPacket sizes a packet from the device's reported minimum
// buffer, ignoring sample rate and requested duration.
func minBytesPerAudioPacket(stereo bool, deviceMinBuffer int) int {
	result := alignPacket(deviceMinBuffer, stereo)

	log.Printf("minBytesPerAudioPacket: deviceMin=%d packet=%d", deviceMinBuffer, result)

	return result
}

// alignPacket rounds n up to the next multiple of 4 for stereo, 2 for mono.
func alignPacket(n int, stereo bool) int {
	if stereo {
		return (n + 3) &^ 3
	}
	return (n + 1) &^ 1
}
