package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/higenie/higenie/bridge"
	"github.com/higenie/higenie/logger"
)

// RunPlain is the non-terminal form: each input line is submitted verbatim
// and its greeting, or failure, is written to out. Lines are handled one at a
// time, so responses always follow submission order. EOF ends the session.
func RunPlain(ctx context.Context, inv bridge.Invoker, opts Options, in io.Reader, out io.Writer) error {
	logger.Info("form started (plain mode)")

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), bridge.MaxFrameSize)
	var state State
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}

		state = state.SetInput(strings.TrimSuffix(scanner.Text(), "\r"))
		var call Call
		state, call = state.Submit()
		res := invokeCall(ctx, inv, call, opts.Timeout)
		state = state.Resolve(call.Seq, res, opts.Ordering)

		if !res.Ok() {
			logger.Warn("greet failed", "seq", call.Seq, "err", res.Err())
			fmt.Fprintf(out, "error: %s\n", state.Err)
			continue
		}
		fmt.Fprintln(out, state.Response)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
