package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/higenie/higenie/ui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the greeting form",
	Long: `Open the greeting form. Type a name, press enter and the greeting
returned by the "greet" command is shown under the field.

When stdin is not a terminal, each input line is greeted and printed instead.

Examples:
  higenie ui                                   # in-process backend
  higenie ui --transport socket                # backend from "higenie serve"
  higenie ui --transport ws --addr 10.0.0.2:8080
  echo World | higenie ui                      # plain mode`,
	RunE: runUI,
}

var orderingFlag string

func init() {
	addBridgeFlags(uiCmd)
	for _, c := range []*cobra.Command{rootCmd, uiCmd} {
		c.Flags().StringVar(&orderingFlag, "ordering", "", "Overlapping calls: latest-issued or last-resolved (default from config)")
	}
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inv, release, err := openInvoker(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	ordering := cfg.UI.Ordering
	if orderingFlag != "" {
		ordering = orderingFlag
	}
	opts := ui.Options{
		Title:       cfg.UI.Title,
		Prompt:      cfg.UI.Prompt,
		Placeholder: cfg.UI.Placeholder,
		Info:        cfg.UI.Info,
		Ordering:    ui.ParseOrdering(ordering),
		Timeout:     resolveTimeout(cmd, cfg),
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ui.RunPlain(ctx, inv, opts, os.Stdin, os.Stdout)
	}
	return ui.Run(ctx, inv, opts)
}
