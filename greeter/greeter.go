// Package greeter implements the backend "greet" command.
package greeter

import (
	"context"
	"fmt"
	"time"

	"github.com/higenie/higenie/bridge"
	"github.com/higenie/higenie/logger"
)

const (
	// Command is the bridge command name served by Register.
	Command = "greet"
	// ArgName is the single argument of Command.
	ArgName = "name"
)

// Greet returns the greeting for name. Empty names are greeted as-is.
func Greet(name string) string {
	return "Hello, " + name + "!"
}

// Options tunes the registered handler.
type Options struct {
	// Delay holds each call before answering, making overlapping
	// submissions observable in the form.
	Delay time.Duration
}

// Register installs the greet command on reg.
func Register(reg *bridge.Registry, opts Options) error {
	return reg.Register(Command, handler(opts))
}

func handler(opts Options) bridge.Handler {
	return func(ctx context.Context, args bridge.Args) (any, error) {
		name, ok := args.StringValue(ArgName)
		if !ok {
			return nil, fmt.Errorf("argument %q must be a string", ArgName)
		}

		if opts.Delay > 0 {
			timer := time.NewTimer(opts.Delay)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		logger.Debug("greeting", "name", name)
		return Greet(name), nil
	}
}

// NameArgs builds the argument payload for a greet call.
func NameArgs(name string) (bridge.Args, error) {
	return bridge.NewArgs().Set(ArgName, name)
}
