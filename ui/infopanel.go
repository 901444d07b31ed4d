package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var infoBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("2")).
	Padding(0, 1)

// InfoPanel is the "More info" disclosure. It renders markdown once per width
// and is drawn only while open.
type InfoPanel struct {
	markdown string
	rendered string
	width    int
	open     bool
}

// NewInfoPanel creates a closed info panel for the given markdown.
func NewInfoPanel(markdown string) *InfoPanel {
	return &InfoPanel{markdown: markdown}
}

// SetOpen shows or hides the panel.
func (p *InfoPanel) SetOpen(open bool) { p.open = open }

func (p *InfoPanel) Update(tea.Msg) (Panel, tea.Cmd) { return p, nil }

func (p *InfoPanel) View() string {
	if !p.open {
		return ""
	}
	if p.rendered == "" {
		p.rendered = p.render()
	}
	return infoBoxStyle.Render(p.rendered)
}

func (p *InfoPanel) SetSize(width, _ int) {
	if width != p.width {
		p.width = width
		p.rendered = ""
	}
}

func (p *InfoPanel) render() string {
	wrap := p.width - infoBoxStyle.GetHorizontalFrameSize()
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return p.markdown
	}
	out, err := r.Render(p.markdown)
	if err != nil {
		return p.markdown
	}
	return strings.Trim(out, "\n")
}
