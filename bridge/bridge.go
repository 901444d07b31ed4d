// Package bridge implements the command bridge between the form and its
// backend handlers: a named, asynchronous call carrying a JSON argument
// object and returning exactly one Result.
//
// The same Invoker contract is served in-process (Registry), over a unix
// socket (DialSocket) and over a websocket (DialWS).
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvocation is the single failure class of the bridge. Every failed
// Result wraps it, whatever the cause: transport, handler or decoding.
var ErrInvocation = errors.New("command invocation failed")

// Invoker issues a command and blocks until it resolves or fails.
type Invoker interface {
	Invoke(ctx context.Context, command string, args Args) Result
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, command string, args Args) Result

// Invoke calls f.
func (f InvokerFunc) Invoke(ctx context.Context, command string, args Args) Result {
	return f(ctx, command, args)
}

// Result is either a success carrying a JSON value or a failure carrying a
// reason. The zero Result is a success with a null value.
type Result struct {
	value json.RawMessage
	err   error
}

// Success builds a successful result from an already encoded JSON value.
func Success(raw json.RawMessage) Result {
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	return Result{value: raw}
}

// SuccessValue encodes v and returns it as a successful result.
func SuccessValue(v any) Result {
	raw, err := json.Marshal(v)
	if err != nil {
		return Failure(fmt.Errorf("encode result: %w", err))
	}
	return Success(raw)
}

// Failure builds a failed result. err is wrapped with ErrInvocation unless it
// already matches it.
func Failure(err error) Result {
	if err == nil {
		err = ErrInvocation
	} else if !errors.Is(err, ErrInvocation) {
		err = fmt.Errorf("%w: %w", ErrInvocation, err)
	}
	return Result{err: err}
}

// Ok reports whether the call succeeded.
func (r Result) Ok() bool { return r.err == nil }

// Err returns the failure reason, nil on success.
func (r Result) Err() error { return r.err }

// Raw returns the encoded success value.
func (r Result) Raw() json.RawMessage { return r.value }

// Value returns the success value as text. JSON strings are unquoted, other
// values are returned in their encoded form, null becomes "".
func (r Result) Value() string {
	if r.err != nil || len(r.value) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.value, &s); err == nil {
		return s
	}
	if string(r.value) == "null" {
		return ""
	}
	return string(r.value)
}

// Decode unmarshals the success value into v.
func (r Result) Decode(v any) error {
	if r.err != nil {
		return r.err
	}
	if err := json.Unmarshal(r.value, v); err != nil {
		return fmt.Errorf("%w: malformed result: %w", ErrInvocation, err)
	}
	return nil
}

func (r Result) String() string {
	if r.err != nil {
		return "error: " + r.err.Error()
	}
	return r.Value()
}
