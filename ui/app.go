package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/higenie/higenie/bridge"
	"github.com/higenie/higenie/greeter"
	"github.com/higenie/higenie/logger"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Options configures the form.
type Options struct {
	Title       string
	Prompt      string
	Placeholder string
	Info        string // markdown for the "More info" panel
	Ordering    Ordering
	Timeout     time.Duration // per call, zero means none
}

// App is the root bubbletea model. It owns the State and turns key presses
// and bridge results into State transitions.
type App struct {
	ctx     context.Context
	invoker bridge.Invoker
	opts    Options
	state   State

	keys     KeyMap
	help     help.Model
	input    *InputPanel
	response *ResponsePanel
	info     *InfoPanel
	logs     *LogPanel

	width, height int
}

// NewApp creates the root model. Calls are issued with ctx, so cancelling it
// fails calls still in flight.
func NewApp(ctx context.Context, inv bridge.Invoker, opts Options) *App {
	return &App{
		ctx:      ctx,
		invoker:  inv,
		opts:     opts,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		input:    NewInputPanel(opts.Prompt, opts.Placeholder),
		response: NewResponsePanel(),
		info:     NewInfoPanel(opts.Info),
		logs:     NewLogPanel(),
	}
}

// State returns the current view state.
func (m *App) State() State { return m.state }

func (m *App) Init() tea.Cmd {
	return nil // textinput handles its own blink when focused
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case ResultMsg:
		if m.opts.Ordering != LastResolved && m.state.Stale(msg.Seq) {
			logger.Debug("stale greeting dropped", "seq", msg.Seq, "latest", m.state.Seq)
		}
		if !msg.Result.Ok() {
			logger.Warn("greet failed", "seq", msg.Seq, "err", msg.Result.Err())
		}
		m.state = m.state.Resolve(msg.Seq, msg.Result, m.opts.Ordering)
		return m, m.response.Sync(m.state)

	case LogLineMsg:
		_, cmd := m.logs.Update(msg)
		return m, cmd
	}

	// Spinner ticks, cursor blink, clipboard paste and anything else.
	var cmds []tea.Cmd
	_, cmd := m.response.Update(msg)
	cmds = append(cmds, cmd)
	cmds = append(cmds, m.updateInput(msg))
	return m, tea.Batch(cmds...)
}

func (m *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Submit):
		var call Call
		m.state, call = m.state.Submit()
		logger.Debug("greet submitted", "seq", call.Seq, "name", call.Name)
		return tea.Batch(m.invoke(call), m.response.Sync(m.state))

	case key.Matches(msg, m.keys.Info):
		m.state = m.state.ToggleInfo()
		m.info.SetOpen(m.state.InfoOpen)
		return nil

	case key.Matches(msg, m.keys.CloseInfo):
		m.state = m.state.CloseInfo()
		m.info.SetOpen(false)
		return nil
	}

	return m.updateInput(msg)
}

// updateInput forwards msg to the text field and keeps State.Input equal to
// whatever the field now shows.
func (m *App) updateInput(msg tea.Msg) tea.Cmd {
	_, cmd := m.input.Update(msg)
	m.state = m.state.SetInput(m.input.Value())
	return cmd
}

// invoke runs call on the bridge off the event loop.
func (m *App) invoke(call Call) tea.Cmd {
	ctx, inv, timeout := m.ctx, m.invoker, m.opts.Timeout
	return func() tea.Msg {
		return ResultMsg{Seq: call.Seq, Result: invokeCall(ctx, inv, call, timeout)}
	}
}

// invokeCall issues the greet command for call and waits for its result.
func invokeCall(ctx context.Context, inv bridge.Invoker, call Call, timeout time.Duration) bridge.Result {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	args, err := greeter.NameArgs(call.Name)
	if err != nil {
		return bridge.Failure(err)
	}
	return inv.Invoke(ctx, greeter.Command, args)
}

func (m *App) View() string {
	if m.width == 0 || m.height == 0 {
		return "initializing..."
	}

	sep := separatorStyle.Render(strings.Repeat("─", m.width))

	sections := []string{titleStyle.Render(m.opts.Title)}
	if info := m.info.View(); info != "" {
		sections = append(sections, info)
	}
	sections = append(sections,
		m.input.View(),
		m.response.View(),
		sep,
		m.logs.View(),
		sep,
		m.help.View(m.keys),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *App) recalcLayout() {
	const fixedLines = 8 // title, input, response, error, spinner, two separators, help

	m.input.SetSize(m.width, 1)
	m.response.SetSize(m.width, 3)
	m.info.SetSize(m.width, 0)
	m.help.Width = m.width
	m.logs.SetSize(m.width, max(m.height-fixedLines, 1))
}
