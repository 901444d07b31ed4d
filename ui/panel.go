// Package ui provides the terminal form: a name input, a submit action, the
// greeting returned over the command bridge and a "More info" panel.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/higenie/higenie/bridge"
)

// Panel is a composable TUI region with its own state, update logic, and view.
// The root App model orchestrates panels without knowing their internals.
type Panel interface {
	Update(tea.Msg) (Panel, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// LogLineMsg carries a single log line from the logger writer.
type LogLineMsg struct{ Line string }

// ResultMsg delivers the outcome of bridge call Seq back to the event loop.
type ResultMsg struct {
	Seq    uint64
	Result bridge.Result
}
