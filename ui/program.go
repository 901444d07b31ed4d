package ui

import (
	"bytes"
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/higenie/higenie/bridge"
	"github.com/higenie/higenie/logger"
)

// Run shows the form until the user quits or ctx is cancelled. Log output is
// redirected into the form's log panel while it runs.
func Run(ctx context.Context, inv bridge.Invoker, opts Options) error {
	app := NewApp(ctx, inv, opts)
	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	logger.Intercept(&logWriter{program: program})
	defer logger.Restore()

	logger.Info("form started", "ordering", string(opts.Ordering))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// logWriter implements io.Writer and sends each write as a LogLineMsg to the TUI.
type logWriter struct {
	program *tea.Program
}

func (w *logWriter) Write(p []byte) (int, error) {
	// Split on newlines in case a single write contains multiple lines.
	for _, line := range bytes.Split(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		w.program.Send(LogLineMsg{Line: string(line)})
	}
	return len(p), nil
}
