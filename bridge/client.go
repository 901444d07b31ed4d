package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/coder/websocket"

	"github.com/higenie/higenie/logger"
)

// ErrClosed is returned for calls on a client whose connection is gone.
var ErrClosed = errors.New("bridge connection closed")

// Client is a remote Invoker. Concurrent calls share one connection and are
// matched to responses by request id, in whatever order they resolve.
type Client struct {
	codec  codec
	ctx    context.Context
	cancel context.CancelFunc

	seq atomic.Uint64

	mu      sync.Mutex
	pending map[string]chan Response
	err     error

	done      chan struct{}
	doneOnce  sync.Once
	closeOnce sync.Once
	readDone  chan struct{}
}

// DialSocket connects to a bridge server on a unix socket.
func DialSocket(ctx context.Context, path string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("dial bridge socket %s: %w", path, err)
	}
	return newClient(newStreamCodec(conn)), nil
}

// DialWS connects to a bridge server over a websocket, e.g.
// ws://127.0.0.1:8080/bridge.
func DialWS(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial bridge websocket %s: %w", url, err)
	}
	// Responses echo the request payload, so they are not capped here.
	conn.SetReadLimit(-1)
	return newClient(newWSCodec(conn)), nil
}

func newClient(c codec) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	cl := &Client{
		codec:    c,
		ctx:      ctx,
		cancel:   cancel,
		pending:  make(map[string]chan Response),
		done:     make(chan struct{}),
		readDone: make(chan struct{}),
	}
	go cl.readLoop()
	return cl
}

// Invoke sends a request and waits for its response. Cancelling ctx abandons
// the call; a late response for it is discarded.
func (c *Client) Invoke(ctx context.Context, command string, args Args) Result {
	id := fmt.Sprintf("req-%d", c.seq.Add(1))
	frame, err := json.Marshal(Request{ID: id, Command: command, Args: args})
	if err != nil {
		return Failure(fmt.Errorf("encode %s: %w", command, err))
	}
	// Both codecs append a newline to the frame.
	if len(frame)+1 > MaxFrameSize {
		return Failure(fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(frame)+1))
	}

	ch := make(chan Response, 1)

	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return Failure(err)
	}
	c.pending[id] = ch
	c.mu.Unlock()

	if err := c.codec.Write(ctx, json.RawMessage(frame)); err != nil {
		c.forget(id)
		return Failure(fmt.Errorf("send %s: %w", command, err))
	}
	logger.Debug("bridge request sent", "id", id, "command", command)

	select {
	case resp := <-ch:
		return resp.result()
	case <-ctx.Done():
		c.forget(id)
		return Failure(ctx.Err())
	case <-c.done:
		// A response may have raced the close.
		select {
		case resp := <-ch:
			return resp.result()
		default:
		}
		return Failure(c.closedErr())
	}
}

// Close tears down the connection. Pending calls fail with ErrClosed.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.fail(ErrClosed)
		err = c.codec.Close()
		c.cancel()
		<-c.readDone
	})
	return err
}

// Done is closed once the connection is lost or closed.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) readLoop() {
	defer close(c.readDone)
	for {
		var resp Response
		if err := c.codec.Read(c.ctx, &resp); err != nil {
			if !isClosedErr(err) && c.ctx.Err() == nil {
				logger.Warn("bridge connection lost", "err", err)
			}
			c.fail(fmt.Errorf("%w: %w", ErrClosed, err))
			return
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		delete(c.pending, resp.ID)
		c.mu.Unlock()

		if !ok {
			logger.Debug("bridge response without pending call", "id", resp.ID)
			continue
		}
		ch <- resp
	}
}

func (c *Client) fail(err error) {
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.mu.Unlock()
	c.doneOnce.Do(func() { close(c.done) })
}

func (c *Client) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) closedErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		return ErrClosed
	}
	return c.err
}

// WSURL returns the websocket bridge URL for a host:port address.
func WSURL(addr string) string {
	return "ws://" + addr + WSPath
}
