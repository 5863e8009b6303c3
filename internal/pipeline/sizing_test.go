// ABOUTME: Tests for packet size arithmetic
// ABOUTME: Covers both sizing strategies and the alignment rules
package pipeline

import "testing"

func TestBytesPerAudioPacket(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate int
		stereo     bool
		bufferMs   int
		expected   int
	}{
		{"stereo 44100 20ms", 44100, true, 20, 14112},
		{"mono 44100 50ms", 44100, false, 50, 8820},
		{"mono rounds up to even", 125, false, 7, 4},
		{"stereo 48000 10ms", 48000, true, 10, 7680},
		{"mono 8000 10ms", 8000, false, 10, 320},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bytesPerAudioPacket(tt.sampleRate, tt.stereo, tt.bufferMs)
			if got != tt.expected {
				t.Errorf("bytesPerAudioPacket(%d, %v, %d) = %d, want %d",
					tt.sampleRate, tt.stereo, tt.bufferMs, got, tt.expected)
			}
		})
	}
}

func TestBytesPerAudioPacketAlignment(t *testing.T) {
	rates := []int{8000, 11025, 22050, 44100, 48000}
	durations := []int{6, 10, 20, 50, 73}

	for _, rate := range rates {
		for _, ms := range durations {
			if got := bytesPerAudioPacket(rate, false, ms); got%2 != 0 {
				t.Errorf("mono packet %d not 2-byte aligned (rate=%d ms=%d)", got, rate, ms)
			}
			if got := bytesPerAudioPacket(rate, true, ms); got%4 != 0 {
				t.Errorf("stereo packet %d not 4-byte aligned (rate=%d ms=%d)", got, rate, ms)
			}
		}
	}
}

func TestMinBytesPerAudioPacket(t *testing.T) {
	tests := []struct {
		name      string
		stereo    bool
		deviceMin int
		expected  int
	}{
		{"stereo aligned input unchanged", true, 14112, 14112},
		{"stereo rounds up", true, 14113, 14116},
		{"mono aligned input unchanged", false, 300, 300},
		{"mono rounds up", false, 301, 302},
		{"zero stays zero", true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := minBytesPerAudioPacket(tt.stereo, tt.deviceMin)
			if got != tt.expected {
				t.Errorf("minBytesPerAudioPacket(%v, %d) = %d, want %d",
					tt.stereo, tt.deviceMin, got, tt.expected)
			}
			if got < tt.deviceMin {
				t.Errorf("result %d smaller than device minimum %d", got, tt.deviceMin)
			}
		})
	}
}
