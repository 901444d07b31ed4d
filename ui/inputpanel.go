package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputPanel is the labeled single-line name field.
type InputPanel struct {
	input         textinput.Model
	width, height int
}

// NewInputPanel creates a focused input with the given prompt and placeholder.
func NewInputPanel(prompt, placeholder string) *InputPanel {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.Focus()
	return &InputPanel{input: ti}
}

// Update forwards editing keys to the text field. Submission is handled by
// the App so the field keeps its value after Enter.
func (p *InputPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// Value returns the field's current text.
func (p *InputPanel) Value() string {
	return p.input.Value()
}

func (p *InputPanel) View() string {
	return p.input.View()
}

func (p *InputPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(width-len(p.input.Prompt)-1, 1)
}
