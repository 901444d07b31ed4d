package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/higenie/higenie/bridge"
	"github.com/higenie/higenie/logger"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the command handlers over the bridge",
	Long: `Start the backend as a long-running service so forms in other
processes can reach the "greet" command.

Supported listeners:
  - socket: unix socket (default)
  - web: websocket at /bridge plus /healthz over HTTP

Examples:
  higenie serve                       # unix socket from config
  higenie serve --web                 # websocket only
  higenie serve --all                 # both
  higenie serve --socket-path /tmp/g.sock --web --web-addr :9000`,
	RunE: runServe,
}

var (
	serveSocket     bool
	serveWeb        bool
	serveAll        bool
	serveSocketPath string
	serveWebAddr    string
	serveOrigins    []string
)

func init() {
	serveCmd.Flags().BoolVar(&serveSocket, "socket", true, "Listen on the unix socket (default: true)")
	serveCmd.Flags().BoolVar(&serveWeb, "web", false, "Listen for websocket clients")
	serveCmd.Flags().BoolVar(&serveAll, "all", false, "Enable all listeners")
	serveCmd.Flags().StringVar(&serveSocketPath, "socket-path", "", "Unix socket path (default from config)")
	serveCmd.Flags().StringVar(&serveWebAddr, "web-addr", "", "Websocket listen address (default from config)")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origin", nil, "Allowed websocket origin patterns")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	withSocket, withWeb, err := resolveServeTargets(cmd)
	if err != nil {
		return err
	}

	reg, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	srv := bridge.NewServer(reg, bridge.WithOriginPatterns(serveOrigins...))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Info("shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	if withSocket {
		path := cfg.Bridge.Socket
		if serveSocketPath != "" {
			path = serveSocketPath
		}
		ln, err := bridge.ListenUnix(path)
		if err != nil {
			return err
		}
		defer os.Remove(path)
		g.Go(func() error { return srv.Serve(ln) })
	}

	if withWeb {
		addr := cfg.Bridge.WebAddr
		if serveWebAddr != "" {
			addr = serveWebAddr
		}
		httpSrv := &http.Server{
			Addr:              addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info("websocket bridge listening", "addr", addr, "path", bridge.WSPath)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("web listener: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return srv.Close()
	})

	logger.Info("higenie bridge started", "commands", reg.Names())
	fmt.Println("higenie bridge is running. Press Ctrl+C to stop.")

	err = g.Wait()
	logger.Info("higenie bridge stopped")
	return err
}

func resolveServeTargets(cmd *cobra.Command) (withSocket, withWeb bool, err error) {
	if cmd == nil {
		return false, false, fmt.Errorf("serve command is nil")
	}
	if serveAll {
		return true, true, nil
	}

	flags := cmd.Flags()
	socketChanged := flags.Changed("socket")
	webChanged := flags.Changed("web")

	// No explicit listener flags -> socket only.
	if !socketChanged && !webChanged {
		return true, false, nil
	}

	// --web alone means web only; otherwise use the explicit switches.
	if socketChanged {
		withSocket = serveSocket
	}
	if webChanged {
		withWeb = serveWeb
	}

	if !withSocket && !withWeb {
		return false, false, fmt.Errorf("no listeners enabled; use --socket, --web, or --all")
	}
	return withSocket, withWeb, nil
}
