// ABOUTME: Tests for the TUI model
// ABOUTME: Status updates, notices, and quit handling
package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func sized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func TestStatusMsgUpdatesView(t *testing.T) {
	m := sized(NewModel(nil))

	updated, _ := m.Update(StatusMsg{
		Server:      "music.local:4711",
		SampleRate:  44100,
		Channels:    2,
		PacketBytes: 14112,
		State:       "playing",
	})
	view := updated.(Model).View()

	for _, want := range []string{"music.local:4711", "44100Hz stereo", "14112 bytes", "playing"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestNoticeShown(t *testing.T) {
	m := sized(NewModel(nil))

	updated, _ := m.Update(NoticeMsg("Unable to stream"))
	view := updated.(Model).View()

	if !strings.Contains(view, "Unable to stream") {
		t.Errorf("view missing notice:\n%s", view)
	}
}

func TestQuitKey(t *testing.T) {
	controls := NewControls()
	m := sized(NewModel(controls))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should produce a quit command")
	}

	select {
	case <-controls.Quit:
	default:
		t.Error("quit intent not delivered to controls")
	}
}
