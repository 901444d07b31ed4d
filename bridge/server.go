package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/higenie/higenie/logger"
)

// WSPath and HealthPath are the HTTP routes served by Server.Handler.
const (
	WSPath     = "/bridge"
	HealthPath = "/healthz"
)

// inboundRequest keeps args raw so a bad payload can still be answered by id.
type inboundRequest struct {
	ID      string          `json:"id"`
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args"`
}

// Server exposes an Invoker to remote clients. Each request runs in its own
// goroutine, so responses on one connection may be written out of order.
type Server struct {
	invoker Invoker
	origins []string

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	closed    bool
	listeners map[net.Listener]struct{}
	conns     map[string]codec
	wg        sync.WaitGroup
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithOriginPatterns allows websocket upgrades from the given host patterns.
func WithOriginPatterns(patterns ...string) ServerOption {
	return func(s *Server) { s.origins = append(s.origins, patterns...) }
}

// NewServer creates a server answering calls with inv.
func NewServer(inv Invoker, opts ...ServerOption) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		invoker:   inv,
		ctx:       ctx,
		cancel:    cancel,
		listeners: make(map[net.Listener]struct{}),
		conns:     make(map[string]codec),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListenUnix listens on a unix socket, removing a stale socket file first.
func ListenUnix(path string) (net.Listener, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket: %w", err)
	}
	return ln, nil
}

// Serve accepts stream connections on ln until Close is called.
func (s *Server) Serve(ln net.Listener) error {
	if !s.track(ln) {
		ln.Close()
		return net.ErrClosed
	}
	logger.Info("bridge listening", "network", ln.Addr().Network(), "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		if !s.acquire() {
			conn.Close()
			return nil
		}
		go func() {
			defer s.wg.Done()
			s.serveConn(newStreamCodec(conn), ln.Addr().Network())
		}()
	}
}

// Handler returns the HTTP handler serving the websocket bridge and a health
// endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(WSPath, s.handleWS)
	mux.HandleFunc(HealthPath, s.handleHealth)
	return mux
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.acquire() {
		http.Error(w, "bridge closed", http.StatusServiceUnavailable)
		return
	}
	defer s.wg.Done()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.origins})
	if err != nil {
		logger.Warn("websocket accept failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	conn.SetReadLimit(MaxFrameSize)
	s.serveConn(newWSCodec(conn), "ws")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	res := s.invoker.Invoke(r.Context(), CommandHealth, NewArgs())
	w.Header().Set("Content-Type", "application/json")
	if !res.Ok() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy", "error": res.Err().Error()})
		return
	}
	_, _ = w.Write(res.Raw())
}

func (s *Server) serveConn(c codec, transport string) {
	id := uuid.NewString()
	if !s.addConn(id, c) {
		c.Close()
		return
	}
	logger.Debug("bridge client connected", "conn", id, "transport", transport)

	ctx, cancel := context.WithCancel(s.ctx)
	var calls sync.WaitGroup

	for {
		var req inboundRequest
		if err := c.Read(ctx, &req); err != nil {
			if !isClosedErr(err) && ctx.Err() == nil {
				logger.Warn("bridge read failed", "conn", id, "err", err)
			}
			break
		}
		if req.ID == "" {
			logger.Warn("bridge request without id dropped", "conn", id, "command", req.Command)
			continue
		}

		calls.Add(1)
		go func(req inboundRequest) {
			defer calls.Done()
			s.handle(ctx, c, id, req)
		}(req)
	}

	cancel()
	calls.Wait()
	s.removeConn(id)
	c.Close()
	logger.Debug("bridge client disconnected", "conn", id)
}

func (s *Server) handle(ctx context.Context, c codec, connID string, req inboundRequest) {
	var res Result
	args, err := ParseArgs(req.Args)
	if err != nil {
		res = Failure(err)
	} else {
		res = s.invoker.Invoke(ctx, req.Command, args)
	}

	if err := c.Write(ctx, responseFor(req.ID, res)); err != nil && !isClosedErr(err) {
		logger.Warn("bridge write failed", "conn", connID, "id", req.ID, "err", err)
	}
}

// Close stops all listeners, cancels in-flight calls and waits for
// connections to drain.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cancel()
	listeners := make([]net.Listener, 0, len(s.listeners))
	for ln := range s.listeners {
		listeners = append(listeners, ln)
	}
	conns := make([]codec, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, ln := range listeners {
		ln.Close()
	}
	for _, c := range conns {
		c.Close()
	}

	s.wg.Wait()
	return nil
}

func (s *Server) track(ln net.Listener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.listeners[ln] = struct{}{}
	return true
}

// acquire registers one more connection goroutine for Close to wait on. It
// fails once Close has started, so wg.Add never races wg.Wait.
func (s *Server) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *Server) addConn(id string, c codec) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[id] = c
	return true
}

func (s *Server) removeConn(id string) {
	s.mu.Lock()
	delete(s.conns, id)
	s.mu.Unlock()
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
