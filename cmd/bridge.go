package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/higenie/higenie/bridge"
	"github.com/higenie/higenie/config"
	"github.com/higenie/higenie/greeter"
	"github.com/higenie/higenie/logger"
)

const dialTimeout = 5 * time.Second

// bridgeFlags override the bridge section of the config for one run.
var bridgeFlags struct {
	transport string
	addr      string
	timeout   time.Duration
}

func addBridgeFlags(c *cobra.Command) {
	c.Flags().StringVar(&bridgeFlags.transport, "transport", "", "Bridge transport: local, socket or ws (default from config)")
	c.Flags().StringVar(&bridgeFlags.addr, "addr", "", "Socket path or websocket host:port (default from config)")
	c.Flags().DurationVar(&bridgeFlags.timeout, "timeout", 0, "Per-call timeout, 0 for none (default from config)")
}

// newRegistry builds the in-process handler registry.
func newRegistry(c *config.Config) (*bridge.Registry, error) {
	reg := bridge.NewRegistry()
	if err := greeter.Register(reg, greeter.Options{Delay: c.GreeterDelay()}); err != nil {
		return nil, err
	}
	return reg, nil
}

// resolveTransport applies flag overrides to the configured transport.
func resolveTransport(c *config.Config) (transport, addr string, err error) {
	transport = c.Bridge.Transport
	if bridgeFlags.transport != "" {
		transport = strings.ToLower(strings.TrimSpace(bridgeFlags.transport))
	}

	switch transport {
	case config.TransportLocal:
		return transport, "", nil
	case config.TransportSocket:
		addr = c.Bridge.Socket
	case config.TransportWS:
		addr = c.Bridge.WebAddr
	default:
		return "", "", fmt.Errorf("unknown transport %q; use local, socket or ws", transport)
	}
	if bridgeFlags.addr != "" {
		addr = bridgeFlags.addr
	}
	return transport, addr, nil
}

// resolveTimeout prefers an explicit --timeout, so "--timeout 0" turns off a
// configured timeout.
func resolveTimeout(cmd *cobra.Command, c *config.Config) time.Duration {
	if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
		return max(bridgeFlags.timeout, 0)
	}
	return c.BridgeTimeout()
}

// openInvoker returns the Invoker for the selected transport and a function
// releasing it.
func openInvoker(ctx context.Context, c *config.Config) (bridge.Invoker, func() error, error) {
	transport, addr, err := resolveTransport(c)
	if err != nil {
		return nil, nil, err
	}

	if transport == config.TransportLocal {
		reg, err := newRegistry(c)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("bridge ready", "transport", transport)
		return reg, func() error { return nil }, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	var client *bridge.Client
	if transport == config.TransportSocket {
		client, err = bridge.DialSocket(dialCtx, addr)
	} else {
		client, err = bridge.DialWS(dialCtx, bridge.WSURL(addr))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w (is \"higenie serve\" running?)", err)
	}
	logger.Debug("bridge ready", "transport", transport, "addr", addr)
	return client, client.Close, nil
}
