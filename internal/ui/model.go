// ABOUTME: Bubbletea model for the player TUI
// ABOUTME: Shows stream status and transient notifications
package ui

import (
	"fmt"

	"github.com/UG40A/SimpleProtocolPlayer/internal/version"
	tea "github.com/charmbracelet/bubbletea"
)

// StatusMsg updates the stream status shown in the TUI.
type StatusMsg struct {
	Server      string
	SampleRate  int
	Channels    int
	PacketBytes int
	State       string
}

// NoticeMsg shows a short user-visible notification, e.g. a stream failure.
type NoticeMsg string

// QuitMsg signals that the user asked to quit.
type QuitMsg struct{}

// Model represents the TUI state.
type Model struct {
	server      string
	sampleRate  int
	channels    int
	packetBytes int
	state       string
	notice      string

	controls *Controls

	width  int
	height int
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.server = msg.Server
		m.sampleRate = msg.SampleRate
		m.channels = msg.Channels
		m.packetBytes = msg.PacketBytes
		m.state = msg.State
	case NoticeMsg:
		m.notice = string(msg)
	}

	return m, nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.controls != nil {
			select {
			case m.controls.Quit <- QuitMsg{}:
			default:
			}
		}
		return m, tea.Quit
	}
	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	state := m.state
	if state == "" {
		state = "idle"
	}

	chLabel := "mono"
	if m.channels == 2 {
		chLabel = "stereo"
	}

	s := fmt.Sprintf(`┌─ %s ──────────────────────────┐
│ Server: %-36s │
│ Format: %-36s │
│ Packet: %-36s │
│ State:  %-36s │
`,
		version.Product,
		m.server,
		fmt.Sprintf("%dHz %s", m.sampleRate, chLabel),
		fmt.Sprintf("%d bytes", m.packetBytes),
		state)

	if m.notice != "" {
		s += fmt.Sprintf("│ Notice: %-36s │\n", m.notice)
	}

	s += `└─ q: quit ─────────────────────────────────────┘
`
	return s
}
