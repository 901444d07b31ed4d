package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/higenie/higenie/bridge"
)

var invokeCmd = &cobra.Command{
	Use:   "invoke <command>",
	Short: "Call a bridge command once and print its result",
	Long: `Call one command over the bridge and print the result. String
results are printed as-is, other values as JSON. A failed call exits non-zero.

Examples:
  higenie invoke greet --arg name=World
  higenie invoke greet --json '{"name":"World"}' --transport socket
  higenie invoke __commands
  higenie invoke __health --transport ws`,
	Args: cobra.ExactArgs(1),
	RunE: runInvoke,
}

var (
	invokeArgs []string
	invokeJSON string
)

func init() {
	addBridgeFlags(invokeCmd)
	invokeCmd.Flags().StringArrayVar(&invokeArgs, "arg", nil, "String argument as key=value (repeatable)")
	invokeCmd.Flags().StringVar(&invokeJSON, "json", "", "Arguments as a JSON object")
	rootCmd.AddCommand(invokeCmd)
}

func runInvoke(cmd *cobra.Command, args []string) error {
	payload, err := buildInvokeArgs(invokeJSON, invokeArgs)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout := resolveTimeout(cmd, cfg); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	inv, release, err := openInvoker(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	res := inv.Invoke(ctx, args[0], payload)
	if !res.Ok() {
		return res.Err()
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Value())
	return nil
}

// buildInvokeArgs merges a JSON object with key=value pairs; pairs win.
func buildInvokeArgs(rawJSON string, pairs []string) (bridge.Args, error) {
	payload, err := bridge.ParseArgs([]byte(strings.TrimSpace(rawJSON)))
	if err != nil {
		return bridge.Args{}, err
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return bridge.Args{}, fmt.Errorf("invalid --arg %q, want key=value", pair)
		}
		if payload, err = payload.Set(key, value); err != nil {
			return bridge.Args{}, err
		}
	}
	return payload, nil
}
