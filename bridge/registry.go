package bridge

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/higenie/higenie/logger"
)

// Built-in commands answered by every Registry.
const (
	CommandList   = "__commands"
	CommandHealth = "__health"

	reservedPrefix = "__"
)

// Handler implements one command. The returned value is JSON encoded into the
// Result; a non-nil error becomes a failed Result.
type Handler func(ctx context.Context, args Args) (any, error)

// Registry maps command names to handlers and invokes them in-process.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	started  time.Time
}

// NewRegistry creates a registry with the built-in commands installed.
func NewRegistry() *Registry {
	r := &Registry{
		handlers: make(map[string]Handler),
		started:  time.Now(),
	}
	r.handlers[CommandList] = func(context.Context, Args) (any, error) {
		return r.Names(), nil
	}
	r.handlers[CommandHealth] = func(context.Context, Args) (any, error) {
		return CollectHealth(r.started, r.Names()), nil
	}
	return r
}

// Register adds a handler. Names must be non-empty, unique and must not use
// the reserved "__" prefix.
func (r *Registry) Register(name string, h Handler) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("command name is required")
	}
	if strings.HasPrefix(name, reservedPrefix) {
		return fmt.Errorf("command name %q uses reserved prefix %q", name, reservedPrefix)
	}
	if h == nil {
		return fmt.Errorf("command %q: handler is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("command %q already registered", name)
	}
	r.handlers[name] = h
	logger.Debug("command registered", "command", name)
	return nil
}

// Names returns the user-registered command names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		if strings.HasPrefix(name, reservedPrefix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named handler in the calling goroutine.
func (r *Registry) Invoke(ctx context.Context, command string, args Args) (res Result) {
	r.mu.RLock()
	h, ok := r.handlers[command]
	r.mu.RUnlock()

	if !ok {
		return Failure(fmt.Errorf("unknown command %q", command))
	}
	if err := ctx.Err(); err != nil {
		return Failure(err)
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Error("command handler panic", "command", command, "panic", p)
			res = Failure(fmt.Errorf("command %q panicked: %v", command, p))
		}
	}()

	start := time.Now()
	value, err := h(ctx, args)
	if err != nil {
		logger.Warn("command failed", "command", command, "err", err, "elapsed", time.Since(start))
		return Failure(err)
	}
	logger.Debug("command completed", "command", command, "elapsed", time.Since(start))
	return SuccessValue(value)
}
