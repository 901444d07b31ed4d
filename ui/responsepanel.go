package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	responseStyle = lipgloss.NewStyle().Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// ResponsePanel shows the last applied greeting, the last failure and a
// spinner while calls are outstanding.
type ResponsePanel struct {
	spinner  spinner.Model
	spinning bool
	state    State
	width    int
}

// NewResponsePanel creates an empty response panel.
func NewResponsePanel() *ResponsePanel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = pendingStyle
	return &ResponsePanel{spinner: sp}
}

// Sync takes the latest view state. It returns a command that starts the
// spinner when calls become pending.
func (p *ResponsePanel) Sync(s State) tea.Cmd {
	p.state = s
	if s.Pending > 0 && !p.spinning {
		p.spinning = true
		return p.spinner.Tick
	}
	if s.Pending == 0 {
		p.spinning = false
	}
	return nil
}

func (p *ResponsePanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		if !p.spinning {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(tick)
		return p, cmd
	}
	return p, nil
}

func (p *ResponsePanel) View() string {
	var lines []string
	lines = append(lines, responseStyle.Width(p.width).Render(p.state.Response))
	if p.state.Err != "" {
		lines = append(lines, errorStyle.Width(p.width).Render(p.state.Err))
	}
	if p.state.Pending > 0 {
		lines = append(lines, p.spinner.View()+pendingStyle.Render(pendingLabel(p.state.Pending)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (p *ResponsePanel) SetSize(width, _ int) {
	p.width = width
}

func pendingLabel(n int) string {
	if n == 1 {
		return " waiting for greeting"
	}
	return fmt.Sprintf(" waiting for %d greetings", n)
}
