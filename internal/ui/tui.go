// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for player UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Controls carries user intent out of the TUI.
type Controls struct {
	Quit chan QuitMsg
}

// NewControls creates a control handler.
func NewControls() *Controls {
	return &Controls{
		Quit: make(chan QuitMsg, 1),
	}
}

// NewModel creates a new TUI model.
func NewModel(controls *Controls) Model {
	return Model{
		state:    "idle",
		controls: controls,
	}
}

// Run starts the TUI.
func Run(controls *Controls) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(controls), tea.WithAltScreen())
	return p, nil
}
